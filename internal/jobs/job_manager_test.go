package jobs

import (
	"testing"
	"time"

	"farmacia/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobManager_PollingToggle(t *testing.T) {
	newManager := func(enabled bool) (*JobManager, *OrderPollingJob) {
		job := NewOrderPollingJob(&tickingFetcher{}, &recordingSink{}, ports.DefaultListSpec(), discardLogger())
		return NewJobManager(job, time.Hour, enabled, discardLogger()), job
	}

	t.Run("should start polling when enabled", func(t *testing.T) {
		jm, job := newManager(true)

		require.NoError(t, jm.StartAll())
		defer jm.StopAll()

		interval, running := job.Running()
		assert.True(t, running)
		assert.Equal(t, time.Hour, interval)
	})

	t.Run("should honour the toggle while running", func(t *testing.T) {
		jm, job := newManager(false)
		require.NoError(t, jm.StartAll())
		defer jm.StopAll()

		_, running := job.Running()
		assert.False(t, running)

		require.NoError(t, jm.SetPollingEnabled(true))
		_, running = job.Running()
		assert.True(t, running)
		assert.True(t, jm.PollingEnabled())

		require.NoError(t, jm.SetPollingEnabled(false))
		_, running = job.Running()
		assert.False(t, running)
		assert.False(t, jm.PollingEnabled())
	})

	t.Run("should defer the toggle until started", func(t *testing.T) {
		jm, job := newManager(false)

		require.NoError(t, jm.SetPollingEnabled(true))
		_, running := job.Running()
		assert.False(t, running)

		require.NoError(t, jm.StartAll())
		_, running = job.Running()
		assert.True(t, running)

		jm.StopAll()
		_, running = job.Running()
		assert.False(t, running)
	})

	t.Run("should expose the polling job", func(t *testing.T) {
		jm, job := newManager(true)
		assert.Same(t, job, jm.PollingJob())
	})
}
