package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/studypulse/studypulse/internal/application/command"
	"github.com/studypulse/studypulse/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REFRESH BASELINES JOB
// Отдельный идемпотентный проход по порогам. Полезен после бэкфила
// исторических данных, когда ночной анализ ещё не отработал.
// ══════════════════════════════════════════════════════════════════════════════

// RefreshBaselinesJob recomputes personal thresholds for all active students.
type RefreshBaselinesJob struct {
	students student.Repository
	baseline *command.RefreshBaselineHandler
	locker   StudentLocker
	logger   *slog.Logger
}

// NewRefreshBaselinesJob creates a new RefreshBaselinesJob.
func NewRefreshBaselinesJob(
	students student.Repository,
	baseline *command.RefreshBaselineHandler,
	locker StudentLocker,
	logger *slog.Logger,
) *RefreshBaselinesJob {
	if logger == nil {
		logger = slog.Default()
	}
	if locker == nil {
		locker = noopLocker{}
	}
	return &RefreshBaselinesJob{
		students: students,
		baseline: baseline,
		locker:   locker,
		logger:   logger,
	}
}

// Name returns the job name.
func (j *RefreshBaselinesJob) Name() string {
	return "refresh_baselines"
}

// Description returns a human-readable description.
func (j *RefreshBaselinesJob) Description() string {
	return "Recomputes personal workload baselines for all active students"
}

// Run executes the baseline pass sequentially. Baseline refreshes are cheap
// reads plus one UPDATE, so there is no need for a worker pool here.
func (j *RefreshBaselinesJob) Run(ctx context.Context) error {
	startedAt := time.Now()

	students, err := j.students.GetActiveStudents(ctx)
	if err != nil {
		return fmt.Errorf("failed to get active students: %w", err)
	}

	var refreshed, skipped, failed int
	for _, s := range students {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		acquired, err := j.locker.Acquire(ctx, s.ID)
		if err == nil && !acquired {
			skipped++
			continue
		}

		if _, err := j.baseline.Handle(ctx, command.RefreshBaselineCommand{StudentID: s.ID}); err != nil {
			failed++
			j.logger.Error("baseline refresh failed",
				slog.String("student_id", s.ID),
				slog.String("error", err.Error()),
			)
		} else {
			refreshed++
		}

		if acquired {
			if rerr := j.locker.Release(ctx, s.ID); rerr != nil {
				j.logger.Warn("lock release failed",
					slog.String("student_id", s.ID),
					slog.String("error", rerr.Error()),
				)
			}
		}
	}

	j.logger.Info("baseline pass completed",
		slog.String("duration", time.Since(startedAt).String()),
		slog.Int("refreshed", refreshed),
		slog.Int("skipped", skipped),
		slog.Int("failed", failed),
	)

	return nil
}
