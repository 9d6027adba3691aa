package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationPipeline(t *testing.T) {
	t.Run("advances one stage at a time to hired", func(t *testing.T) {
		app := NewJobApplication("job-1", "cand-1", nil)
		assert.Equal(t, ApplicationStatusApplied, app.Status)

		for _, next := range []ApplicationStatus{
			ApplicationStatusScreening,
			ApplicationStatusInterview,
			ApplicationStatusOffer,
			ApplicationStatusHired,
		} {
			assert.NoError(t, app.UpdateStatus(next, nil))
			assert.Equal(t, next, app.Status)
		}
		assert.True(t, app.Terminal())
	})

	t.Run("cannot skip a stage", func(t *testing.T) {
		app := NewJobApplication("job-1", "cand-1", nil)
		err := app.UpdateStatus(ApplicationStatusOffer, nil)
		assert.Error(t, err)
		assert.Equal(t, ApplicationStatusApplied, app.Status)
		assert.Nil(t, app.StatusChangedAt)
	})

	t.Run("rejection from any non-terminal stage keeps the reason", func(t *testing.T) {
		app := NewJobApplication("job-1", "cand-1", nil)
		assert.NoError(t, app.UpdateStatus(ApplicationStatusScreening, nil))

		reason := "position filled"
		assert.NoError(t, app.UpdateStatus(ApplicationStatusRejected, &reason))
		assert.Equal(t, ApplicationStatusRejected, app.Status)
		assert.Equal(t, "position filled", *app.RejectionReason)
	})

	t.Run("withdraw is possible until a terminal stage", func(t *testing.T) {
		app := NewJobApplication("job-1", "cand-1", nil)
		assert.NoError(t, app.UpdateStatus(ApplicationStatusScreening, nil))
		assert.NoError(t, app.Withdraw())
		assert.Equal(t, ApplicationStatusWithdrawn, app.Status)

		// terminal: a second withdraw is rejected
		assert.Error(t, app.Withdraw())
	})

	t.Run("hired cannot be rejected afterwards", func(t *testing.T) {
		app := NewJobApplication("job-1", "cand-1", nil)
		for _, next := range []ApplicationStatus{
			ApplicationStatusScreening, ApplicationStatusInterview,
			ApplicationStatusOffer, ApplicationStatusHired,
		} {
			assert.NoError(t, app.UpdateStatus(next, nil))
		}
		assert.Error(t, app.UpdateStatus(ApplicationStatusRejected, nil))
		assert.Equal(t, ApplicationStatusHired, app.Status)
	})
}
