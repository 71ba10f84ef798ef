package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCleaner struct {
	calls atomic.Int32
	err   error
}

func (c *countingCleaner) CleanupExpiredCodes() (int64, error) {
	c.calls.Add(1)
	return 0, c.err
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := New("not a schedule", time.UTC, &countingCleaner{})

	err := s.Start()
	assert.Error(t, err)
}

func TestCleanupJobRuns(t *testing.T) {
	cleaner := &countingCleaner{}
	s := New("@every 1s", time.UTC, cleaner)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return cleaner.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestCleanupJobSurvivesErrors(t *testing.T) {
	cleaner := &countingCleaner{err: errors.New("database is locked")}
	s := New("@every 1s", time.UTC, cleaner)

	s.cleanupCodes()
	s.cleanupCodes()

	assert.EqualValues(t, 2, cleaner.calls.Load())
}
