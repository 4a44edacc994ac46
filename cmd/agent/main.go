// Command agent samples process and host statistics and reports them to a
// monitor as counters.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/joe-el-khoury/fbzmq/internal/agent"
	"github.com/joe-el-khoury/fbzmq/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadAgentConfig(os.Args[1:], os.Stderr)
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	return agent.Run(context.Background(), cfg, logger)
}
