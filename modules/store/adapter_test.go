package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/example/todo-sync/domain/task"
)

func TestNewServiceAdapter_NilContainer(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil container")
		}
	}()
	NewServiceAdapter(nil)
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want task.ErrorKind
	}{
		{"context deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), task.KindTimeout},
		{"not found", errors.New("service error: task not found"), task.KindNotFound},
		{"invalid", errors.New("service error: invalid task: summary is required"), task.KindInvalid},
		{"nats timeout", errors.New("nats: timeout"), task.KindTimeout},
		{"no responders", errors.New("nats: no responders available for request"), task.KindNetwork},
		{"connection", errors.New("nats: connection closed"), task.KindNetwork},
		{"unauthorized", errors.New("Unauthorized"), task.KindPermission},
		{"anything else", errors.New("database is locked"), task.KindServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapServiceError(ServiceUpdateTask, tt.err)

			var re *task.RemoteError
			if !errors.As(err, &re) {
				t.Fatalf("expected *task.RemoteError, got %T", err)
			}
			if re.Kind != tt.want {
				t.Errorf("expected kind %s, got %s", tt.want, re.Kind)
			}
			if re.Op != ServiceUpdateTask {
				t.Errorf("expected op %s, got %s", ServiceUpdateTask, re.Op)
			}
			if !errors.Is(err, tt.err) {
				t.Error("expected original error to stay in the chain")
			}
		})
	}
}
