// Package jobs provides the scheduled background tasks of the dispatch
// service, built on github.com/robfig/cron/v3 and coordinated through
// JobManager.
package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	positionRetentionJob *PositionRetentionJob
}

// NewJobManager creates a job manager with all required jobs.
func NewJobManager(
	pruneHandler commands.PrunePositionSamplesCommandHandler,
	positionRetention time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		positionRetentionJob: NewPositionRetentionJob(pruneHandler, positionRetention, logger),
	}
}

// StartAll starts all scheduled jobs. Returns an error if any job fails to
// start.
func (jm *JobManager) StartAll() error {
	if err := jm.positionRetentionJob.Start(); err != nil {
		return fmt.Errorf("failed to start position retention job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.positionRetentionJob.Stop()
}
