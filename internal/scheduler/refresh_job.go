package scheduler

import (
	"context"
	"time"
)

// Refresher re-runs the valuation pipeline with the current inputs.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshJob keeps the published result warm between user interactions by
// re-running the pipeline on a schedule.
type RefreshJob struct {
	refresher Refresher
	timeout   time.Duration
}

// NewRefreshJob creates a new refresh job
func NewRefreshJob(refresher Refresher, timeout time.Duration) *RefreshJob {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RefreshJob{refresher: refresher, timeout: timeout}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "valuation_refresh"
}

// Run executes one refresh with a bounded lifetime
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	return j.refresher.Refresh(ctx)
}
