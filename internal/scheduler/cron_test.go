package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(ctx context.Context) error {
	r.calls.Add(1)
	return r.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestStartWarmsCache(t *testing.T) {
	refs := &countingRefresher{}
	s := NewScheduler(refs, time.Hour, time.Second, quietLogger())
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool { return refs.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestStartRejectsZeroInterval(t *testing.T) {
	s := NewScheduler(&countingRefresher{}, 0, time.Second, quietLogger())
	assert.Error(t, s.Start())
}

func TestRunRefreshSurvivesErrors(t *testing.T) {
	refs := &countingRefresher{err: errors.New("catalog down")}
	s := NewScheduler(refs, time.Hour, time.Second, quietLogger())

	s.runRefresh()
	s.runRefresh()
	assert.Equal(t, int32(2), refs.calls.Load())
}
