package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobLifecycle(t *testing.T) {
	t.Run("new job starts in draft", func(t *testing.T) {
		job := NewJob("emp-1", "Backend Engineer", "Go services", "Berlin", 60000, 80000)
		assert.NotEmpty(t, job.ID)
		assert.Equal(t, "emp-1", job.EmployerID)
		assert.Equal(t, JobStatusDraft, job.Status)
		assert.Equal(t, job.CreatedAt, job.UpdatedAt)
		assert.Nil(t, job.StatusChangedAt)
	})

	t.Run("draft to active to paused to active to closed", func(t *testing.T) {
		job := NewJob("emp-1", "Backend Engineer", "Go services", "Berlin", 60000, 80000)
		assert.NoError(t, job.Publish())
		assert.Equal(t, JobStatusActive, job.Status)
		assert.NotNil(t, job.StatusChangedAt)

		assert.NoError(t, job.Pause())
		assert.Equal(t, JobStatusPaused, job.Status)

		assert.NoError(t, job.Resume())
		assert.Equal(t, JobStatusActive, job.Status)

		assert.NoError(t, job.Close())
		assert.Equal(t, JobStatusClosed, job.Status)
	})

	t.Run("cannot pause a draft", func(t *testing.T) {
		job := NewJob("emp-1", "Backend Engineer", "Go services", "Berlin", 60000, 80000)
		err := job.Pause()
		assert.Error(t, err)
		var transErr *InvalidTransitionError
		assert.ErrorAs(t, err, &transErr)
		assert.Equal(t, "draft", transErr.From)
		assert.Equal(t, "paused", transErr.To)
		assert.Equal(t, JobStatusDraft, job.Status)
		assert.Nil(t, job.StatusChangedAt)
	})

	t.Run("closed is terminal", func(t *testing.T) {
		job := NewJob("emp-1", "Backend Engineer", "Go services", "Berlin", 60000, 80000)
		assert.NoError(t, job.Publish())
		assert.NoError(t, job.Close())
		statusChangedAt := *job.StatusChangedAt

		assert.Error(t, job.Resume())
		assert.Error(t, job.Pause())
		assert.Error(t, job.Publish())
		assert.Equal(t, JobStatusClosed, job.Status)
		assert.Equal(t, statusChangedAt, *job.StatusChangedAt)
	})

	t.Run("rejected transition leaves timestamps untouched", func(t *testing.T) {
		job := NewJob("emp-1", "Backend Engineer", "Go services", "Berlin", 60000, 80000)
		before := job.UpdatedAt
		time.Sleep(time.Millisecond)
		assert.Error(t, job.Close())
		assert.Equal(t, before, job.UpdatedAt)
	})
}
