package tasks

import (
	"context"
	"fmt"
)

// newUsageReportTask creates the scheduled task that logs how many users the
// bot has seen and how many of them have opened the web application. Read
// only; it never mutates store state.
func newUsageReportTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "usage_report")

	return func(ctx context.Context) error {
		total, err := deps.Store.CountUsers(ctx)
		if err != nil {
			return fmt.Errorf("usage report failed: %w", err)
		}

		launched, err := deps.Store.CountWebappLaunches(ctx)
		if err != nil {
			return fmt.Errorf("usage report failed: %w", err)
		}

		log.InfoContext(ctx, "Usage report", "users_total", total, "webapp_launched", launched)
		return nil
	}
}
