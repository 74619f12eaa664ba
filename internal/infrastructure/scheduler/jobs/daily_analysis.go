// Package jobs contains implementations of scheduled jobs for StudyPulse.
// Jobs keep the derived data honest: daily workload rows, personal
// baselines and burnout snapshots all age badly without a nightly pass.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/studypulse/studypulse/internal/application/command"
	"github.com/studypulse/studypulse/internal/domain/signal"
	"github.com/studypulse/studypulse/internal/domain/student"
	"github.com/studypulse/studypulse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DAILY ANALYSIS JOB
// Ночной проход по всем активным студентам: пересчёт нагрузки за
// последнюю неделю, обновление персонального порога и полный анализ
// выгорания. Ошибка по одному студенту логируется и не валит батч.
// ══════════════════════════════════════════════════════════════════════════════

// StudentLocker takes per-student locks so two batch runs never work on the
// same student at once.
type StudentLocker interface {
	Acquire(ctx context.Context, studentID string) (bool, error)
	Release(ctx context.Context, studentID string) error
}

// noopLocker always grants the lock. Used when Redis is disabled.
type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string) (bool, error) { return true, nil }
func (noopLocker) Release(context.Context, string) error         { return nil }

// DailyAnalysisJob runs the full nightly analysis pass.
type DailyAnalysisJob struct {
	students  student.Repository
	workload  *command.ComputeWorkloadHandler
	baseline  *command.RefreshBaselineHandler
	predict   *command.PredictBurnoutHandler
	locker    StudentLocker
	logger    *slog.Logger
	config    DailyAnalysisConfig
	lastStats atomic.Value // *AnalysisStats
}

// DailyAnalysisConfig contains configuration for the job.
type DailyAnalysisConfig struct {
	// Concurrency is the number of students analyzed in parallel.
	Concurrency int

	// WorkloadDays is the trailing recompute window in days.
	WorkloadDays int

	// Timeout is the maximum duration for the entire pass.
	Timeout time.Duration
}

// DefaultDailyAnalysisConfig returns sensible defaults.
func DefaultDailyAnalysisConfig() DailyAnalysisConfig {
	return DailyAnalysisConfig{
		Concurrency:  5,
		WorkloadDays: 7,
		Timeout:      30 * time.Minute,
	}
}

// AnalysisStats contains statistics from a batch run.
type AnalysisStats struct {
	StartedAt     time.Time
	CompletedAt   time.Time
	Duration      time.Duration
	TotalStudents int
	AnalyzedCount int
	SkippedCount  int
	FailedCount   int
	HighRiskCount int
}

// NewDailyAnalysisJob creates a new DailyAnalysisJob.
func NewDailyAnalysisJob(
	students student.Repository,
	workload *command.ComputeWorkloadHandler,
	baseline *command.RefreshBaselineHandler,
	predict *command.PredictBurnoutHandler,
	locker StudentLocker,
	logger *slog.Logger,
	config DailyAnalysisConfig,
) *DailyAnalysisJob {
	if logger == nil {
		logger = slog.Default()
	}
	if locker == nil {
		locker = noopLocker{}
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 5
	}
	if config.WorkloadDays <= 0 {
		config.WorkloadDays = 7
	}

	return &DailyAnalysisJob{
		students: students,
		workload: workload,
		baseline: baseline,
		predict:  predict,
		locker:   locker,
		logger:   logger,
		config:   config,
	}
}

// Name returns the job name.
func (j *DailyAnalysisJob) Name() string {
	return "daily_analysis"
}

// Description returns a human-readable description.
func (j *DailyAnalysisJob) Description() string {
	return "Recomputes workload, baselines and burnout analysis for all active students"
}

// LastStats returns the stats of the most recent run, or nil.
func (j *DailyAnalysisJob) LastStats() *AnalysisStats {
	stats, _ := j.lastStats.Load().(*AnalysisStats)
	return stats
}

// Run executes the nightly pass.
func (j *DailyAnalysisJob) Run(ctx context.Context) error {
	startedAt := time.Now()
	stats := &AnalysisStats{StartedAt: startedAt}

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	students, err := j.students.GetActiveStudents(ctx)
	if err != nil {
		return fmt.Errorf("failed to get active students: %w", err)
	}

	stats.TotalStudents = len(students)
	j.logger.Info("starting daily analysis",
		slog.Int("students", stats.TotalStudents))

	j.analyzeConcurrently(ctx, students, stats)

	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(startedAt)
	j.lastStats.Store(stats)

	j.logger.Info("daily analysis completed",
		slog.String("duration", stats.Duration.String()),
		slog.Int("total", stats.TotalStudents),
		slog.Int("analyzed", stats.AnalyzedCount),
		slog.Int("skipped", stats.SkippedCount),
		slog.Int("failed", stats.FailedCount),
		slog.Int("high_risk", stats.HighRiskCount),
	)

	if stats.TotalStudents > 0 {
		failureRate := float64(stats.FailedCount) / float64(stats.TotalStudents)
		if failureRate > 0.5 {
			return fmt.Errorf("analysis failed for more than 50%% of students (%d/%d)",
				stats.FailedCount, stats.TotalStudents)
		}
	}

	return nil
}

// analyzeConcurrently fans the pass out over a bounded worker pool.
func (j *DailyAnalysisJob) analyzeConcurrently(ctx context.Context, students []*student.Student, stats *AnalysisStats) {
	var (
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, j.config.Concurrency)
		mu        sync.Mutex
	)

	for _, s := range students {
		select {
		case <-ctx.Done():
			return
		default:
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(s *student.Student) {
			defer wg.Done()
			defer func() { <-semaphore }()

			highRisk, err := j.analyzeStudent(ctx, s)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == errLockHeld:
				stats.SkippedCount++
			case err != nil:
				stats.FailedCount++
			default:
				stats.AnalyzedCount++
				if highRisk {
					stats.HighRiskCount++
				}
			}
		}(s)
	}

	wg.Wait()
}

// errLockHeld marks a student skipped because another run holds the lock.
var errLockHeld = fmt.Errorf("student lock held elsewhere")

// analyzeStudent runs the three-step pass for one student.
func (j *DailyAnalysisJob) analyzeStudent(ctx context.Context, s *student.Student) (highRisk bool, err error) {
	acquired, err := j.locker.Acquire(ctx, s.ID)
	if err != nil {
		// A broken lock backend must not stall the whole batch.
		j.logger.Warn("lock acquire failed, proceeding unlocked",
			slog.String("student_id", s.ID),
			slog.String("error", err.Error()),
		)
	} else if !acquired {
		return false, errLockHeld
	} else {
		defer func() {
			if rerr := j.locker.Release(ctx, s.ID); rerr != nil {
				j.logger.Warn("lock release failed",
					slog.String("student_id", s.ID),
					slog.String("error", rerr.Error()),
				)
			}
		}()
	}

	now := timeutil.Now()
	if _, err := j.workload.Handle(ctx, command.ComputeWorkloadCommand{
		StudentID: s.ID,
		From:      timeutil.AddDays(now, -(j.config.WorkloadDays - 1)),
		To:        now,
		Reason:    "daily_analysis",
	}); err != nil {
		j.logger.Error("workload recompute failed",
			slog.String("student_id", s.ID),
			slog.String("error", err.Error()),
		)
		return false, err
	}

	if _, err := j.baseline.Handle(ctx, command.RefreshBaselineCommand{
		StudentID: s.ID,
	}); err != nil {
		j.logger.Error("baseline refresh failed",
			slog.String("student_id", s.ID),
			slog.String("error", err.Error()),
		)
		return false, err
	}

	result, err := j.predict.Handle(ctx, command.PredictBurnoutCommand{
		StudentID: s.ID,
		Trigger:   "daily_analysis",
	})
	if err != nil {
		j.logger.Error("burnout prediction failed",
			slog.String("student_id", s.ID),
			slog.String("error", err.Error()),
		)
		return false, err
	}

	return result.Analysis.Risk == signal.RiskHigh, nil
}
