package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joe-el-khoury/fbzmq/internal/misc"
)

const (
	defaultMonitorAddr       = "tcp://127.0.0.1:17098"
	defaultPollSeconds       = 2
	defaultReportSeconds     = 10
	defaultReqTimeoutSeconds = 5
)

// AgentConfig holds the reporting agent settings.
type AgentConfig struct {
	// MonitorAddr is the monitor's request/reply endpoint.
	MonitorAddr string
	// PollInterval is how often statistics are sampled.
	PollInterval time.Duration
	// ReportInterval is how often sampled counters are pushed.
	ReportInterval time.Duration
	// RequestTimeout bounds each monitor round trip.
	RequestTimeout time.Duration
}

// LoadAgentConfig resolves settings with CLI > ENV > defaults precedence.
func LoadAgentConfig(args []string, out io.Writer) (AgentConfig, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("agent", flag.ContinueOnError)
	fs.SetOutput(out)

	var addrOpt string
	var pollOpt int
	var reportOpt int
	var timeoutOpt int

	fs.StringVar(&addrOpt, "a", "", fmt.Sprintf("monitor endpoint, default: %s", defaultMonitorAddr))
	fs.IntVar(&pollOpt, "p", 0, fmt.Sprintf("poll interval in seconds, default: %d", defaultPollSeconds))
	fs.IntVar(&reportOpt, "r", 0, fmt.Sprintf("report interval in seconds, default: %d", defaultReportSeconds))
	fs.IntVar(&timeoutOpt, "t", 0, fmt.Sprintf("request timeout in seconds, default: %d", defaultReqTimeoutSeconds))

	if err := fs.Parse(args); err != nil {
		return AgentConfig{}, err
	}

	addr := strings.TrimSpace(addrOpt)
	if addr == "" {
		addr = misc.Getenv("MONITOR_ADDR", defaultMonitorAddr)
	}
	addr = NormalizeEndpoint(addr)

	poll := secondsOrEnv(pollOpt, "POLL_INTERVAL", defaultPollSeconds)
	if poll <= 0 {
		return AgentConfig{}, fmt.Errorf("poll interval must be > 0, got %v", poll)
	}

	report := secondsOrEnv(reportOpt, "REPORT_INTERVAL", defaultReportSeconds)
	if report <= 0 {
		return AgentConfig{}, fmt.Errorf("report interval must be > 0, got %v", report)
	}

	timeout := secondsOrEnv(timeoutOpt, "REQUEST_TIMEOUT", defaultReqTimeoutSeconds)
	if timeout <= 0 {
		return AgentConfig{}, fmt.Errorf("request timeout must be > 0, got %v", timeout)
	}

	return AgentConfig{
		MonitorAddr:    addr,
		PollInterval:   poll,
		ReportInterval: report,
		RequestTimeout: timeout,
	}, nil
}

func secondsOrEnv(flagVal int, envKey string, def int) time.Duration {
	if flagVal > 0 {
		return time.Duration(flagVal) * time.Second
	}
	return misc.GetDuration(envKey, time.Duration(def)*time.Second)
}
