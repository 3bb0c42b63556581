package task

import "context"

// Store is the port to the remote task list, the durable source of truth.
// Every failure is a *RemoteError. Implementations do not retry, batch or cache.
type Store interface {
	ListAll(ctx context.Context) ([]Task, error)
	Create(ctx context.Context, draft Draft) (Task, error)
	Update(ctx context.Context, id int64, patch Patch) error
	Remove(ctx context.Context, id int64) error
}
