// Package mcptools exposes the task engine to agents as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/example/todo-sync/domain/display"
	"github.com/example/todo-sync/domain/task"
	"github.com/example/todo-sync/modules/tasksync"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Option configures the server.
type Option func(*tools)

// WithClock sets the time used to compute urgency in listings.
func WithClock(now func() time.Time) Option {
	return func(t *tools) { t.now = now }
}

type tools struct {
	engine *tasksync.Engine
	now    func() time.Time
}

// listing is the list_tasks payload.
type listing struct {
	Pending   []display.Row `json:"pending,omitempty"`
	Completed []display.Row `json:"completed,omitempty"`
	Busy      bool          `json:"busy"`
}

// NewServer creates an MCP server whose tools act through engine.
func NewServer(engine *tasksync.Engine, version string, opts ...Option) *server.MCPServer {
	t := &tools{engine: engine, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}

	s := server.NewMCPServer("todo-sync", version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List cached tasks with formatted dates and deadline urgency (normal, due-soon, overdue)."),
		mcp.WithString("status", mcp.Description("pending, completed or all (default all)")),
		mcp.WithBoolean("refresh", mcp.Description("Reload from the remote list first")),
	), t.listTasks)

	s.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Create a pending task. The deadline is moved to 23:59 of its day and must not be in the past."),
		mcp.WithString("summary", mcp.Description("Short title"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Longer notes")),
		mcp.WithString("deadline", mcp.Description("Due date, YYYY-MM-DD"), mcp.Required()),
	), t.addTask)

	s.AddTool(mcp.NewTool("complete_task",
		mcp.WithDescription("Mark a pending task as completed."),
		mcp.WithNumber("id", mcp.Description("Task id"), mcp.Required()),
	), t.completeTask)

	s.AddTool(mcp.NewTool("rework_task",
		mcp.WithDescription("Move a completed task back to pending."),
		mcp.WithNumber("id", mcp.Description("Task id"), mcp.Required()),
	), t.reworkTask)

	s.AddTool(mcp.NewTool("edit_task",
		mcp.WithDescription("Change the summary, description or deadline of a task. Omitted fields are kept."),
		mcp.WithNumber("id", mcp.Description("Task id"), mcp.Required()),
		mcp.WithString("summary", mcp.Description("New summary")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("deadline", mcp.Description("New due date, YYYY-MM-DD")),
	), t.editTask)

	s.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task permanently."),
		mcp.WithNumber("id", mcp.Description("Task id"), mcp.Required()),
	), t.deleteTask)

	s.AddTool(mcp.NewTool("refresh_tasks",
		mcp.WithDescription("Reload the task list from the remote store."),
	), t.refreshTasks)

	return s
}

func (t *tools) listTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := strings.ToLower(mcp.ParseString(request, "status", "all"))
	if status != "all" && status != "pending" && status != "completed" {
		return mcp.NewToolResultError(fmt.Sprintf("unknown status %q: use pending, completed or all", status)), nil
	}
	if mcp.ParseBoolean(request, "refresh", false) {
		if err := t.engine.Refresh(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	snap := t.engine.Snapshot()
	now := t.now()
	out := listing{Busy: snap.Busy}
	if status != "completed" {
		out.Pending = display.Rows(snap.Pending, now)
	}
	if status != "pending" {
		out.Completed = display.Rows(snap.Completed, now)
	}
	return jsonResult(out)
}

func (t *tools) addTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	draft := task.Draft{
		Summary:     mcp.ParseString(request, "summary", ""),
		Description: mcp.ParseString(request, "description", ""),
	}
	if raw := mcp.ParseString(request, "deadline", ""); raw != "" {
		dl, err := display.ParseDate(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		draft.Deadline = &dl
	}

	created, err := t.engine.AddTask(ctx, draft)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(display.NewRow(created, t.now()))
}

func (t *tools) completeTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := taskID(request)
	if res != nil {
		return res, nil
	}
	if err := t.engine.CompleteTask(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task %d completed.", id)), nil
}

func (t *tools) reworkTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := taskID(request)
	if res != nil {
		return res, nil
	}
	if err := t.engine.ReworkTask(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task %d is pending again.", id)), nil
}

func (t *tools) editTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := taskID(request)
	if res != nil {
		return res, nil
	}

	args := request.GetArguments()
	var fields task.Fields
	if _, ok := args["summary"]; ok {
		s := mcp.ParseString(request, "summary", "")
		fields.Summary = &s
	}
	if _, ok := args["description"]; ok {
		d := mcp.ParseString(request, "description", "")
		fields.Description = &d
	}
	if raw := mcp.ParseString(request, "deadline", ""); raw != "" {
		dl, err := display.ParseDate(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fields.Deadline = &dl
	}

	if err := t.engine.EditTask(ctx, id, fields); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task %d updated.", id)), nil
}

func (t *tools) deleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := taskID(request)
	if res != nil {
		return res, nil
	}
	if err := t.engine.DeleteTask(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task %d deleted.", id)), nil
}

func (t *tools) refreshTasks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.engine.Refresh(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap := t.engine.Snapshot()
	return mcp.NewToolResultText(fmt.Sprintf("Loaded %d pending and %d completed tasks.",
		len(snap.Pending), len(snap.Completed))), nil
}

func taskID(request mcp.CallToolRequest) (int64, *mcp.CallToolResult) {
	id := mcp.ParseInt64(request, "id", 0)
	if id <= 0 {
		return 0, mcp.NewToolResultError("id must be a positive task id")
	}
	return id, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
