package scheduler

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/bet-advisor/internal/config"
)

type countingRunner struct {
	count atomic.Int64
}

func (r *countingRunner) RunCycle(_ context.Context) error {
	r.count.Add(1)
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestConfigureRequiresSchedule(t *testing.T) {
	s := NewScheduler(&countingRunner{}, testLogger())
	err := s.Configure(config.SchedulerConfig{Enabled: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no interval or cron")
}

func TestConfigureWithInterval(t *testing.T) {
	s := NewScheduler(&countingRunner{}, testLogger())
	require.NoError(t, s.Configure(config.SchedulerConfig{CycleIntervalSeconds: 60}))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.False(t, s.NextRun().IsZero())
}

func TestConfigureWithCronExpression(t *testing.T) {
	s := NewScheduler(&countingRunner{}, testLogger())
	require.NoError(t, s.Configure(config.SchedulerConfig{CronExpression: "*/5 * * * *"}))
	require.NoError(t, s.Start())
	defer s.Stop()

	next := s.NextRun()
	assert.False(t, next.IsZero())
	assert.True(t, next.After(time.Now().Add(-time.Second)))
}

func TestConfigureInvalidCronExpression(t *testing.T) {
	s := NewScheduler(&countingRunner{}, testLogger())
	err := s.Configure(config.SchedulerConfig{CronExpression: "not a cron"})
	assert.Error(t, err)
}

func TestStartWithoutJobs(t *testing.T) {
	s := NewScheduler(&countingRunner{}, testLogger())
	assert.Error(t, s.Start())
}

func TestStartTwice(t *testing.T) {
	s := NewScheduler(&countingRunner{}, testLogger())
	require.NoError(t, s.ScheduleInterval(60))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.Start())
}

func TestCannotScheduleWhileRunning(t *testing.T) {
	s := NewScheduler(&countingRunner{}, testLogger())
	require.NoError(t, s.ScheduleInterval(60))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.ScheduleInterval(120))
	assert.Error(t, s.ScheduleCron("*/5 * * * *"))
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewScheduler(&countingRunner{}, testLogger())
	require.NoError(t, s.ScheduleInterval(60))
	require.NoError(t, s.Start())

	s.Stop()
	s.Stop()
	assert.False(t, s.IsRunning())
}
