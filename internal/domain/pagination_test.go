package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginatedResult(t *testing.T) {
	t.Run("Should compute total pages and navigation flags", func(t *testing.T) {
		result := NewPaginatedResult([]string{"a", "b"}, 45, 2, 20)

		assert.Equal(t, 3, result.TotalPages)
		assert.True(t, result.HasNextPage)
		assert.True(t, result.HasPreviousPage)
	})

	t.Run("Should report zero pages for an empty set", func(t *testing.T) {
		result := NewPaginatedResult[string](nil, 0, 1, 20)

		assert.Equal(t, 0, result.TotalPages)
		assert.False(t, result.HasNextPage)
		assert.False(t, result.HasPreviousPage)
		assert.NotNil(t, result.Items)
		assert.Empty(t, result.Items)
	})

	t.Run("Should flag no next page on the last page", func(t *testing.T) {
		result := NewPaginatedResult([]int{1, 2, 3, 4, 5}, 45, 3, 20)

		assert.False(t, result.HasNextPage)
		assert.True(t, result.HasPreviousPage)
	})
}

func TestClampPage(t *testing.T) {
	page, pageSize := ClampPage(-3, 5000)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, pageSize)

	page, pageSize = ClampPage(4, 50)
	assert.Equal(t, 4, page)
	assert.Equal(t, 50, pageSize)
}
