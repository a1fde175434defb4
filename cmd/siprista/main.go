// Command siprista is the operator CLI: schema migrations, seeding, admin accounts
// and offline report exports.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/siprista/backend/internal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		stop()
		os.Exit(1)
	}
}
