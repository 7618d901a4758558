package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs, and the polling
// toggle exposed to staff.
type JobManager struct {
	pollingJob      *OrderPollingJob
	pollingInterval time.Duration
	logger          *slog.Logger

	mu             sync.Mutex
	pollingEnabled bool
	started        bool
}

// NewJobManager creates a new job manager. pollingEnabled is the toggle's initial position.
func NewJobManager(
	pollingJob *OrderPollingJob,
	pollingInterval time.Duration,
	pollingEnabled bool,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		pollingJob:      pollingJob,
		pollingInterval: pollingInterval,
		pollingEnabled:  pollingEnabled,
		logger:          logger.With("component", "job_manager"),
	}
}

// StartAll starts all scheduled jobs. A disabled polling job stays stopped until enabled.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if jm.pollingEnabled {
		if err := jm.pollingJob.Start(jm.pollingInterval); err != nil {
			return fmt.Errorf("failed to start order polling job: %w", err)
		}
	}

	jm.started = true
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	jm.pollingJob.Stop()
	jm.started = false
}

// SetPollingEnabled flips the polling toggle. While the manager is running the job is
// started or stopped immediately; otherwise the choice applies on StartAll.
func (jm *JobManager) SetPollingEnabled(enabled bool) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if jm.started {
		if enabled {
			if err := jm.pollingJob.Start(jm.pollingInterval); err != nil {
				return fmt.Errorf("failed to start order polling job: %w", err)
			}
		} else {
			jm.pollingJob.Stop()
		}
	}

	jm.pollingEnabled = enabled
	jm.logger.InfoContext(context.Background(), "Order polling toggled", "enabled", enabled)
	return nil
}

// PollingEnabled reports the toggle's position.
func (jm *JobManager) PollingEnabled() bool {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	return jm.pollingEnabled
}

// PollingJob exposes the polling job for manual refreshes.
func (jm *JobManager) PollingJob() *OrderPollingJob {
	return jm.pollingJob
}
