package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/dkotelnikov/go-todolist/internal/config"
)

// RunAutocloseOnce fires a single autoclose batch and returns whether
// it completed without a storage failure.
func RunAutocloseOnce() bool {
	report, err := globalAutocloseService.Run(context.Background())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("autoclose run failed")
		return false
	}
	globalLogger.Info().
		Int("examined", report.Examined).
		Int("closed", report.Closed).
		Msg("autoclose run complete")
	return true
}

// MustRunAutocloseWorker schedules the autoclose batch on the
// configured cron spec and blocks until interrupted.
func MustRunAutocloseWorker() {
	schedule := config.Global().Worker.AutocloseSchedule

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		RunAutocloseOnce()
	})
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("schedule", schedule).
			Msg("invalid autoclose schedule")
		panic(err)
	}

	globalLogger.Info().
		Str("schedule", schedule).
		Msg("autoclose worker started")
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx := c.Stop()
	<-ctx.Done()
	globalLogger.Info().Msg("autoclose worker stopped")
}
