package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name string
	runs atomic.Int64
	err  error
}

func (j *countingJob) Name() string        { return j.name }
func (j *countingJob) Description() string { return "test job" }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func newTestScheduler() *Scheduler {
	return NewScheduler(SchedulerConfig{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestRegisterRejectsNilAndDuplicates(t *testing.T) {
	s := newTestScheduler()
	job := &countingJob{name: "daily-analysis"}

	err := s.Register(nil, NewIntervalSchedule(time.Hour))
	assert.ErrorIs(t, err, ErrNilJob)

	err = s.Register(job, nil)
	assert.ErrorIs(t, err, ErrNilSchedule)

	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	err = s.Register(job, NewIntervalSchedule(time.Hour))
	assert.ErrorIs(t, err, ErrJobAlreadyExists)
}

func TestRunNowExecutesAndRecordsResult(t *testing.T) {
	s := newTestScheduler()
	job := &countingJob{name: "refresh-baselines"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "refresh-baselines")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(1), job.runs.Load())

	infos := s.ListJobs()
	require.Len(t, infos, 1)
	require.NotNil(t, infos[0].LastResult)
	assert.True(t, infos[0].LastResult.Success)
}

func TestRunNowSurfacesJobError(t *testing.T) {
	s := newTestScheduler()
	job := &countingJob{name: "daily-analysis", err: assert.AnError}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "daily-analysis")
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, result.Success)
}

func TestRunNowUnknownJob(t *testing.T) {
	s := newTestScheduler()

	_, err := s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestDisableJob(t *testing.T) {
	s := newTestScheduler()
	job := &countingJob{name: "daily-analysis"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	require.NoError(t, s.DisableJob("daily-analysis"))

	infos := s.ListJobs()
	require.Len(t, infos, 1)
	assert.False(t, infos[0].Enabled)

	err := s.DisableJob("missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestStartStopLifecycle(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	err := s.Start(context.Background())
	assert.ErrorIs(t, err, ErrSchedulerAlreadyRunning)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())

	err = s.Stop()
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}
