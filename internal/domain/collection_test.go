package domain_test

import (
	"testing"
	"time"

	"github.com/locvowork/taskboard/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, 0.0, domain.Progress(nil))
		assert.Equal(t, 0.0, domain.CollectionWithTasks{}.Progress())
	})

	t.Run("OneOfThree", func(t *testing.T) {
		tasks := []domain.Task{{Done: true}, {}, {}}
		assert.InDelta(t, 33.33, domain.Progress(tasks), 0.01)
	})

	t.Run("AllDone", func(t *testing.T) {
		c := domain.CollectionWithTasks{Tasks: []domain.Task{{Done: true}, {Done: true}}}
		assert.Equal(t, 100.0, c.Progress())
		assert.Equal(t, 2, c.DoneCount())
	})
}

func TestCollectionColor(t *testing.T) {
	assert.True(t, domain.ColorSunset.Valid())
	assert.False(t, domain.CollectionColor("mauve").Valid())
	assert.False(t, domain.CollectionColor("").Valid())

	colors := domain.Colors()
	assert.Len(t, colors, 8)
	assert.Equal(t, domain.ColorCandy, colors[0])

	assert.Equal(t, domain.ColorMetal.Gradient(), domain.CollectionColor("mauve").Gradient())
}

func TestTaskIsExpired(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, domain.Task{}.IsExpired(now))
	assert.True(t, domain.Task{ExpiresAt: &past}.IsExpired(now))
	assert.False(t, domain.Task{ExpiresAt: &future}.IsExpired(now))
	assert.False(t, domain.Task{ExpiresAt: &now}.IsExpired(now))
}
