package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/example/todo-sync/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// maxActivity bounds the in-memory feed.
const maxActivity = 500

// Activity is one entry of the task activity feed.
type Activity struct {
	ID        string    `json:"id"`
	TaskID    int64     `json:"task_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationModule turns task events into an activity feed.
type NotificationModule struct {
	logger   types.Logger
	now      func() time.Time
	activity []Activity
	mu       sync.RWMutex
}

var _ mono.Module = (*NotificationModule)(nil)
var _ mono.EventConsumerModule = (*NotificationModule)(nil)

func NewModule(logger types.Logger) *NotificationModule {
	return &NotificationModule{
		logger:   logger.WithModule("notification"),
		now:      time.Now,
		activity: make([]Activity, 0),
	}
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCompletedV1, m.handleTaskCompleted, m); err != nil {
		return fmt.Errorf("failed to register TaskCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskReworkedV1, m.handleTaskReworked, m); err != nil {
		return fmt.Errorf("failed to register TaskReworked consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("registered event consumers",
		"events", []string{"TaskCreated", "TaskUpdated", "TaskCompleted", "TaskReworked", "TaskDeleted"})
	return nil
}

func (m *NotificationModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	msg := fmt.Sprintf("New task '%s' created", event.Summary)
	if event.Deadline != nil {
		msg += fmt.Sprintf(", due %s", event.Deadline.Format("2006-01-02"))
	}
	m.record(event.TaskID, "task_created", msg, event.PendingDate)
	return nil
}

func (m *NotificationModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.record(event.TaskID, "task_updated",
		fmt.Sprintf("Task '%s' updated: %s", event.Summary, strings.Join(event.Fields, ", ")),
		event.UpdatedAt)
	return nil
}

func (m *NotificationModule) handleTaskCompleted(_ context.Context, event events.TaskCompletedEvent, _ *mono.Msg) error {
	m.record(event.TaskID, "task_completed", fmt.Sprintf("Task '%s' completed!", event.Summary), event.CompletedAt)
	return nil
}

func (m *NotificationModule) handleTaskReworked(_ context.Context, event events.TaskReworkedEvent, _ *mono.Msg) error {
	m.record(event.TaskID, "task_reworked", fmt.Sprintf("Task '%s' reopened", event.Summary), event.PendingAt)
	return nil
}

func (m *NotificationModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.record(event.TaskID, "task_deleted", fmt.Sprintf("Task %d deleted", event.TaskID), event.DeletedAt)
	return nil
}

func (m *NotificationModule) record(taskID int64, kind, message string, at time.Time) {
	if at.IsZero() {
		at = m.now()
	}
	m.logger.Info(message, "task_id", taskID, "type", kind)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.activity = append(m.activity, Activity{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Type:      kind,
		Message:   message,
		Timestamp: at,
	})
	if len(m.activity) > maxActivity {
		m.activity = append(m.activity[:0:0], m.activity[len(m.activity)-maxActivity:]...)
	}
}

// Activity returns a copy of the feed, oldest first.
func (m *NotificationModule) Activity() []Activity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Activity, len(m.activity))
	copy(result, m.activity)
	return result
}

func (m *NotificationModule) Start(_ context.Context) error {
	m.logger.Info("module started, listening for task events")
	return nil
}

func (m *NotificationModule) Stop(_ context.Context) error {
	m.logger.Info("module stopped")
	return nil
}
