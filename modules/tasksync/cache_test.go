package tasksync

import (
	"testing"
	"time"

	"github.com/example/todo-sync/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

func pending(id int64, summary string) task.Task {
	return task.Task{ID: id, Summary: summary, Status: task.StatusPending, PendingDate: base}
}

func completed(id int64, summary string) task.Task {
	done := base.Add(time.Hour)
	return task.Task{ID: id, Summary: summary, Status: task.StatusCompleted, PendingDate: base, CompletedDate: &done}
}

func ids(tasks []task.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestCache_ReplaceAll(t *testing.T) {
	c := Cache{}.SetBusy(true).ReplaceAll([]task.Task{
		pending(1, "a"), completed(2, "b"), pending(3, "c"),
		{ID: 4, Summary: "bogus", Status: "Archived"},
	})

	assert.Equal(t, []int64{1, 3}, ids(c.Pending()))
	assert.Equal(t, []int64{2}, ids(c.Completed()))
	assert.True(t, c.Busy())

	c = c.ReplaceAll(nil)
	assert.Empty(t, c.Pending())
	assert.Empty(t, c.Completed())
}

func TestCache_ReplaceAllDropsInconsistentRecords(t *testing.T) {
	noDate := completed(2, "completed without date")
	noDate.CompletedDate = nil
	stray := pending(3, "pending with completion date")
	stray.CompletedDate = &base

	c := Cache{}.ReplaceAll([]task.Task{pending(1, "a"), noDate, stray, completed(4, "d")})

	assert.Equal(t, []int64{1}, ids(c.Pending()))
	assert.Equal(t, []int64{4}, ids(c.Completed()))
	for _, tk := range append(c.Pending(), c.Completed()...) {
		assert.NoError(t, tk.CheckConsistency())
	}
}

func TestCache_Immutable(t *testing.T) {
	records := []task.Task{pending(1, "a")}
	c1 := Cache{}.ReplaceAll(records)
	records[0].Summary = "mutated"

	c2 := c1.UpsertPending(pending(2, "b"))
	got := c1.Pending()
	got[0].Summary = "also mutated"

	assert.Equal(t, []int64{1}, ids(c1.Pending()))
	assert.Equal(t, "a", c1.Pending()[0].Summary)
	assert.Equal(t, []int64{1, 2}, ids(c2.Pending()))
}

func TestCache_Upsert(t *testing.T) {
	c := Cache{}.ReplaceAll([]task.Task{pending(1, "a"), pending(2, "b"), completed(3, "c")})

	t.Run("replace keeps position", func(t *testing.T) {
		next := c.UpsertPending(pending(1, "a2"))
		assert.Equal(t, []int64{1, 2}, ids(next.Pending()))
		assert.Equal(t, "a2", next.Pending()[0].Summary)
	})

	t.Run("append new id", func(t *testing.T) {
		next := c.UpsertPending(pending(9, "z"))
		assert.Equal(t, []int64{1, 2, 9}, ids(next.Pending()))
	})

	t.Run("moves between collections", func(t *testing.T) {
		next := c.UpsertCompleted(completed(2, "b"))
		assert.Equal(t, []int64{1}, ids(next.Pending()))
		assert.Equal(t, []int64{3, 2}, ids(next.Completed()))
	})

	t.Run("undecodable records are ignored", func(t *testing.T) {
		assert.Equal(t, c, c.UpsertPending(pending(0, "no id")))
		assert.Equal(t, c, c.UpsertPending(completed(5, "wrong collection")))
		broken := completed(6, "no date")
		broken.CompletedDate = nil
		assert.Equal(t, c, c.UpsertCompleted(broken))
	})
}

func TestCache_RemoveByID(t *testing.T) {
	c := Cache{}.ReplaceAll([]task.Task{pending(1, "a"), completed(2, "b")})

	next := c.RemoveByID(2)
	assert.Empty(t, next.Completed())
	assert.Equal(t, []int64{1}, ids(next.Pending()))

	assert.Equal(t, c, c.RemoveByID(42))
}

func TestCache_PatchByID(t *testing.T) {
	c := Cache{}.ReplaceAll([]task.Task{pending(1, "a"), pending(2, "b")})
	summary := "renamed"

	next := c.PatchByID(1, task.Patch{Summary: &summary})
	require.Equal(t, []int64{1, 2}, ids(next.Pending()))
	assert.Equal(t, "renamed", next.Pending()[0].Summary)
	assert.Equal(t, "a", c.Pending()[0].Summary)

	assert.Equal(t, c, c.PatchByID(99, task.Patch{Summary: &summary}))
}

func TestCache_Find(t *testing.T) {
	c := Cache{}.ReplaceAll([]task.Task{pending(1, "a"), completed(2, "b")})

	got, ok := c.Find(2)
	require.True(t, ok)
	assert.True(t, got.IsCompleted())

	_, ok = c.Find(3)
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}
