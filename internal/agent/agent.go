// Package agent implements the reporting agent: it samples process and host
// statistics and pushes them to a monitor as counters.
package agent

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/joe-el-khoury/fbzmq/internal/adapters/transport/zmqclient"
	"github.com/joe-el-khoury/fbzmq/internal/config"
	"github.com/joe-el-khoury/fbzmq/internal/misc"
)

// ReportCount is bumped once per successful report cycle.
const ReportCount = "agent.report_count"

// Sink is the slice of the monitor client the agent reports through.
type Sink interface {
	SetCounters(values map[string]int64) error
	BumpCounters(names []string, delta int64) error
	LogEvent(category string, samples []string) error
}

// Agent periodically pushes collected counters to a monitor.
type Agent struct {
	cfg       config.AgentConfig
	collector *Collector
	sink      Sink
	logger    *zap.Logger
	stop      chan struct{}
}

// New dials the monitor, retrying transient connection failures.
func New(ctx context.Context, cfg config.AgentConfig, logger *zap.Logger) (*Agent, error) {
	var cl *zmqclient.Client
	err := misc.Retry(ctx, misc.DefaultBackoff, func() error {
		var err error
		cl, err = zmqclient.New(ctx, cfg.MonitorAddr, cfg.RequestTimeout)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Agent{
		cfg:       cfg,
		collector: NewCollector(),
		sink:      cl,
		logger:    logger,
		stop:      make(chan struct{}),
	}, nil
}

// Start runs the poll and report loops until Stop. It blocks the caller.
func (a *Agent) Start(ctx context.Context) {
	a.collector.Start(ctx, a.cfg.PollInterval)
	defer a.collector.Stop()

	if err := a.sink.LogEvent("agent.lifecycle", []string{"started", hostname()}); err != nil {
		a.logger.Warn("report start event", zap.Error(err))
	}

	t := time.NewTicker(a.cfg.ReportInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.stop:
			return
		case <-t.C:
			a.reportOnce()
		}
	}
}

// Stop asks Start to return.
func (a *Agent) Stop() {
	select {
	case <-a.stop:
	default:
		close(a.stop)
	}
}

func (a *Agent) reportOnce() {
	snap := a.collector.Snapshot()
	if len(snap) == 0 {
		return
	}
	if err := a.sink.SetCounters(snap); err != nil {
		a.logger.Warn("report counters", zap.Error(err))
		return
	}
	if err := a.sink.BumpCounters([]string{ReportCount}, 1); err != nil {
		a.logger.Warn("bump report count", zap.Error(err))
	}
	a.logger.Info("reported", zap.Int("counters", len(snap)))
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}

// Run wires an agent to OS signals and blocks until shutdown.
func Run(ctx context.Context, cfg config.AgentConfig, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("agent started",
		zap.String("monitor", cfg.MonitorAddr),
		zap.Duration("poll", cfg.PollInterval),
		zap.Duration("report", cfg.ReportInterval),
	)

	done := make(chan struct{})
	go func() {
		a.Start(ctx)
		close(done)
	}()

	select {
	case <-ctx.Done():
		a.Stop()
		<-done
	case <-done:
	}
	return nil
}
