// Package config loads monitor and agent settings from flags and the
// environment, flags taking precedence.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/joe-el-khoury/fbzmq/internal/misc"
)

const (
	defaultRequestAddr = "tcp://127.0.0.1:17098"
	defaultPublishAddr = "tcp://127.0.0.1:17099"
)

// MonitorConfig holds the monitor process settings.
type MonitorConfig struct {
	// RequestAddr is the request/reply bind endpoint.
	RequestAddr string
	// PublishAddr is the publish bind endpoint.
	PublishAddr string
	// WebAddr enables the HTTP inspection view when non-empty.
	WebAddr string
}

// LoadMonitorConfig resolves settings with CLI > ENV > defaults precedence.
func LoadMonitorConfig(args []string, out io.Writer) (MonitorConfig, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("monitor", flag.ContinueOnError)
	fs.SetOutput(out)

	var repOpt string
	var pubOpt string
	var webOpt string

	fs.StringVar(&repOpt, "rep", "", fmt.Sprintf("request/reply endpoint, default: %s", defaultRequestAddr))
	fs.StringVar(&pubOpt, "pub", "", fmt.Sprintf("publish endpoint, default: %s", defaultPublishAddr))
	fs.StringVar(&webOpt, "web", "", "HTTP inspection listen address (empty disables)")

	if err := fs.Parse(args); err != nil {
		return MonitorConfig{}, err
	}

	rep := strings.TrimSpace(repOpt)
	if rep == "" {
		rep = misc.Getenv("MONITOR_REP_ADDR", defaultRequestAddr)
	}
	rep = NormalizeEndpoint(rep)

	pub := strings.TrimSpace(pubOpt)
	if pub == "" {
		pub = misc.Getenv("MONITOR_PUB_ADDR", defaultPublishAddr)
	}
	pub = NormalizeEndpoint(pub)

	if rep == pub {
		return MonitorConfig{}, fmt.Errorf("request and publish endpoints collide: %q", rep)
	}

	web := strings.TrimSpace(webOpt)
	if web == "" {
		web = misc.Getenv("MONITOR_WEB_ADDR", "")
	}

	return MonitorConfig{
		RequestAddr: rep,
		PublishAddr: pub,
		WebAddr:     web,
	}, nil
}

// NormalizeEndpoint defaults bare host:port strings to the tcp transport.
func NormalizeEndpoint(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "://") {
		return s
	}
	return "tcp://" + s
}
