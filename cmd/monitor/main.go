// Command monitor runs the counter/telemetry service: a request/reply
// endpoint for commands and a publish endpoint streaming every state change.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/joe-el-khoury/fbzmq/internal/adapters/http/webview"
	"github.com/joe-el-khoury/fbzmq/internal/adapters/http/webview/middlewares"
	"github.com/joe-el-khoury/fbzmq/internal/adapters/registry/memory"
	"github.com/joe-el-khoury/fbzmq/internal/adapters/transport/zmqclient"
	"github.com/joe-el-khoury/fbzmq/internal/config"
	"github.com/joe-el-khoury/fbzmq/internal/services/monitor"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadMonitorConfig(os.Args[1:], os.Stderr)
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	srv := monitor.New(cfg.RequestAddr, cfg.PublishAddr, memory.New(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()
	srv.WaitUntilRunning()

	if cfg.WebAddr != "" && srv.State() == monitor.StateRunning {
		startWebView(ctx, cfg.WebAddr, srv.RequestAddr(), logger)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		srv.Stop()
		return <-done
	case err := <-done:
		return err
	}
}

// startWebView serves the read-only HTTP dashboard, reading through the
// monitor's own request endpoint.
func startWebView(ctx context.Context, addr, monitorAddr string, logger *zap.Logger) {
	cl, err := zmqclient.New(ctx, monitorAddr, 5*time.Second)
	if err != nil {
		logger.Warn("web view disabled", zap.Error(err))
		return
	}

	r := webview.NewRouter(webview.NewHandler(cl), middlewares.ZapLogger(logger))
	logger.Info("web view listening", zap.String("addr", addr))
	go func() {
		if err := http.ListenAndServe(addr, r); err != nil {
			logger.Warn("web view stopped", zap.Error(err))
		}
	}()
}
