package config

import (
	"testing"
	"time"
)

func TestLoadAgentConfig(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		want    AgentConfig
		wantErr bool
	}{
		{
			name: "defaults",
			args: []string{},
			want: AgentConfig{
				MonitorAddr:    defaultMonitorAddr,
				PollInterval:   2 * time.Second,
				ReportInterval: 10 * time.Second,
				RequestTimeout: 5 * time.Second,
			},
		},
		{
			name: "flags win over env",
			args: []string{"-a", "tcp://10.0.0.1:17098", "-p", "1", "-r", "3", "-t", "2"},
			env: map[string]string{
				"MONITOR_ADDR":    "tcp://10.9.9.9:17098",
				"POLL_INTERVAL":   "30",
				"REPORT_INTERVAL": "60",
				"REQUEST_TIMEOUT": "90",
			},
			want: AgentConfig{
				MonitorAddr:    "tcp://10.0.0.1:17098",
				PollInterval:   1 * time.Second,
				ReportInterval: 3 * time.Second,
				RequestTimeout: 2 * time.Second,
			},
		},
		{
			name: "env durations",
			args: []string{},
			env: map[string]string{
				"MONITOR_ADDR":    "10.9.9.9:17098",
				"POLL_INTERVAL":   "500ms",
				"REPORT_INTERVAL": "7",
				"REQUEST_TIMEOUT": "1s",
			},
			want: AgentConfig{
				MonitorAddr:    "tcp://10.9.9.9:17098",
				PollInterval:   500 * time.Millisecond,
				ReportInterval: 7 * time.Second,
				RequestTimeout: 1 * time.Second,
			},
		},
		{
			name:    "non-positive interval rejected",
			args:    []string{},
			env:     map[string]string{"POLL_INTERVAL": "-3"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			got, err := LoadAgentConfig(tc.args, nil)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("got %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
