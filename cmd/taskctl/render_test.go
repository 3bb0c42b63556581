package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/example/todo-sync/domain/display"
	"github.com/example/todo-sync/domain/task"
	"github.com/example/todo-sync/modules/tasksync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var now = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

func at(y int, m time.Month, d, h, mi int) *time.Time {
	t := time.Date(y, m, d, h, mi, 0, 0, time.UTC)
	return &t
}

func sampleSnapshot() tasksync.Snapshot {
	return tasksync.Snapshot{
		Pending: []task.Task{
			{ID: 1, Summary: "Tomorrow", Description: "bring slides", Status: task.StatusPending,
				PendingDate: now, Deadline: at(2024, 3, 6, 23, 59)},
			{ID: 2, Summary: "Late", Status: task.StatusPending,
				PendingDate: now, Deadline: at(2024, 3, 1, 23, 59)},
		},
		Completed: []task.Task{
			{ID: 3, Summary: "Done", Status: task.StatusCompleted,
				PendingDate: now, CompletedDate: at(2024, 3, 5, 9, 30), Deadline: at(2024, 3, 1, 23, 59)},
		},
	}
}

func TestRender_Table(t *testing.T) {
	view := display.NewViewState()
	view.Expand(1)

	var buf bytes.Buffer
	require.NoError(t, render(&buf, "table", sampleSnapshot(), view, now))
	out := buf.String()

	assert.Contains(t, out, "Pending (2)")
	assert.Contains(t, out, "Completed (1)")
	assert.Contains(t, out, "due 06/03/2024 23:59")
	assert.Contains(t, out, "done 05/03/2024 09:30")
	assert.Contains(t, out, "bring slides")
	assert.Contains(t, out, "pending since 05/03/2024 10:00")
}

func TestRender_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "", tasksync.Snapshot{}, nil, now))
	assert.Contains(t, buf.String(), "no tasks")
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "json", sampleSnapshot(), nil, now))

	var got board
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Pending, 2)
	assert.Equal(t, display.DueSoon, got.Pending[0].Urgency)
	assert.Equal(t, display.Overdue, got.Pending[1].Urgency)
	require.Len(t, got.Completed, 1)
	assert.Equal(t, display.Normal, got.Completed[0].Urgency)
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "yaml", sampleSnapshot(), nil, now))

	var got board
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Pending, 2)
	assert.Equal(t, "Tomorrow", got.Pending[0].Summary)
	assert.Equal(t, "06/03/2024 23:59", got.Pending[0].Deadline)
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, render(&buf, "csv", sampleSnapshot(), nil, now))
}

func TestSummaryStyle(t *testing.T) {
	assert.Equal(t, dueSoonStyle.GetForeground(), summaryStyle(display.DueSoon).GetForeground())
	assert.Equal(t, overdueStyle.GetForeground(), summaryStyle(display.Overdue).GetForeground())
}
