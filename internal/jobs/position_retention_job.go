package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// positionRetentionSchedule runs the prune nightly at 03:00, when courier
// traffic in the markets is at its lowest.
const positionRetentionSchedule = "0 3 * * *"

// PositionRetentionJob deletes courier position samples older than the
// configured retention window. The trail is append-only; without the prune it
// grows without bound.
type PositionRetentionJob struct {
	handler   commands.PrunePositionSamplesCommandHandler
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewPositionRetentionJob creates a job that prunes samples older than
// retention.
func NewPositionRetentionJob(
	handler commands.PrunePositionSamplesCommandHandler,
	retention time.Duration,
	logger *slog.Logger,
) *PositionRetentionJob {
	return &PositionRetentionJob{
		handler:   handler,
		retention: retention,
		cron:      cron.New(),
		logger:    logger.With("component", "position_retention_job"),
	}
}

// Start schedules the nightly prune.
func (j *PositionRetentionJob) Start() error {
	_, err := j.cron.AddFunc(positionRetentionSchedule, func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewPrunePositionSamplesCommand(time.Now().UTC().Add(-j.retention))
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Position retention job could not build command", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Position retention job failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Position retention job started",
		"schedule", positionRetentionSchedule, "retention", j.retention.String())
	return nil
}

// Stop stops the retention job.
func (j *PositionRetentionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Position retention job stopped")
}
