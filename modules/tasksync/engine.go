// Package tasksync keeps a local task cache consistent with the remote list.
//
// Every action follows the same shape: validate, mark busy, mutate the remote
// store, reconcile the cache, clear busy. A failed action leaves the cache as
// it was before the call.
package tasksync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/todo-sync/domain/task"
	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/sync/singleflight"
)

// Snapshot is a read-only copy of the cache handed to readers and subscribers.
type Snapshot struct {
	Pending   []task.Task `json:"pending" yaml:"pending"`
	Completed []task.Task `json:"completed" yaml:"completed"`
	Busy      bool        `json:"busy" yaml:"busy"`
}

// IDs returns every task id in the snapshot.
func (s Snapshot) IDs() []int64 {
	ids := make([]int64, 0, len(s.Pending)+len(s.Completed))
	for _, t := range s.Pending {
		ids = append(ids, t.ID)
	}
	for _, t := range s.Completed {
		ids = append(ids, t.ID)
	}
	return ids
}

// Engine orchestrates user actions against a task.Store.
type Engine struct {
	store  task.Store
	logger types.Logger
	now    func() time.Time

	mu       sync.Mutex
	cache    Cache
	version  uint64
	inflight int
	subs     map[int]func(Snapshot)
	nextSub  int

	// deliverMu orders subscriber calls; delivered is the newest version sent.
	deliverMu sync.Mutex
	delivered uint64

	refresh singleflight.Group
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects the time source used for validation and lifecycle patches.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger types.Logger) Option {
	return func(e *Engine) { e.logger = logger.WithModule("tasksync") }
}

// NewEngine creates an engine over store with an empty cache.
func NewEngine(store task.Store, opts ...Option) *Engine {
	if store == nil {
		panic("tasksync engine requires a non-nil task.Store")
	}
	e := &Engine{
		store:  store,
		logger: nopLogger{},
		now:    time.Now,
		subs:   make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot returns the current cache contents.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshotOf(e.cache)
}

// Busy reports whether any action is in flight.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache.Busy()
}

// Subscribe registers fn to receive a snapshot after cache changes.
// Calls happen on the goroutine that caused the change and never overlap.
// When changes race, a snapshot older than one already delivered is skipped,
// so the last snapshot fn sees is always the current cache. fn may read the
// engine but must not start actions. The returned func removes the
// subscription.
func (e *Engine) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			e.mu.Unlock()
		})
	}
}

// AddTask validates draft, creates it remotely and appends the server record.
func (e *Engine) AddTask(ctx context.Context, draft task.Draft) (task.Task, error) {
	if err := draft.Validate(e.now()); err != nil {
		return task.Task{}, err
	}
	draft = draft.Normalized()

	var created task.Task
	err := e.run(ctx, "add", 0, func(ctx context.Context) (func(Cache) Cache, error) {
		rec, err := e.store.Create(ctx, draft)
		if err != nil {
			return nil, err
		}
		created = rec
		if rec.ID > 0 && rec.Status == task.StatusPending && rec.CheckConsistency() == nil {
			return func(c Cache) Cache { return c.UpsertPending(rec) }, nil
		}
		e.logger.Warn("store returned an unexpected record, refetching", "id", rec.ID, "status", rec.Status)
		return e.refetch(ctx)
	})
	if err != nil {
		return task.Task{}, err
	}
	return created, nil
}

// CompleteTask moves a pending task to Completed. The cache is refetched so
// the completion date is the one the store recorded.
func (e *Engine) CompleteTask(ctx context.Context, id int64) error {
	if err := e.require(id, task.StatusPending, task.ErrNotPending); err != nil {
		return err
	}
	return e.run(ctx, "complete", id, func(ctx context.Context) (func(Cache) Cache, error) {
		if err := e.store.Update(ctx, id, task.Complete(e.now())); err != nil {
			return nil, err
		}
		return e.refetch(ctx)
	})
}

// ReworkTask moves a completed task back to Pending, then refetches.
func (e *Engine) ReworkTask(ctx context.Context, id int64) error {
	if err := e.require(id, task.StatusCompleted, task.ErrNotCompleted); err != nil {
		return err
	}
	return e.run(ctx, "rework", id, func(ctx context.Context) (func(Cache) Cache, error) {
		if err := e.store.Update(ctx, id, task.Rework(e.now())); err != nil {
			return nil, err
		}
		return e.refetch(ctx)
	})
}

// EditTask updates the user-editable fields of a task in either collection
// and patches the cached record in place.
func (e *Engine) EditTask(ctx context.Context, id int64, fields task.Fields) error {
	if err := fields.Validate(); err != nil {
		return err
	}
	if err := e.require(id, "", nil); err != nil {
		return err
	}
	patch := fields.Patch()
	if patch.IsEmpty() {
		return nil
	}
	return e.run(ctx, "edit", id, func(ctx context.Context) (func(Cache) Cache, error) {
		if err := e.store.Update(ctx, id, patch); err != nil {
			return nil, err
		}
		return func(c Cache) Cache { return c.PatchByID(id, patch) }, nil
	})
}

// DeleteTask removes a task remotely and locally. Unknown ids, locally or
// remotely, are treated as already deleted.
func (e *Engine) DeleteTask(ctx context.Context, id int64) error {
	if _, ok := e.find(id); !ok {
		e.logger.Debug("delete of unknown task ignored", "id", id)
		return nil
	}
	return e.run(ctx, "delete", id, func(ctx context.Context) (func(Cache) Cache, error) {
		if err := e.store.Remove(ctx, id); err != nil && !task.IsNotFound(err) {
			return nil, err
		}
		return func(c Cache) Cache { return c.RemoveByID(id) }, nil
	})
}

// Refresh replaces the cache with the full remote list. Concurrent calls
// share one remote read, which is not tied to any single caller's
// cancellation; each caller still returns as soon as its own ctx is done.
func (e *Engine) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("refresh task: %w", task.NewRemoteError("refresh", contextKind(err), err))
	}
	shared := context.WithoutCancel(ctx)
	ch := e.refresh.DoChan("all", func() (any, error) {
		return nil, e.run(shared, "refresh", 0, e.refetch)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		err := ctx.Err()
		return fmt.Errorf("refresh task: %w", task.NewRemoteError("refresh", contextKind(err), err))
	}
}

func contextKind(err error) task.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return task.KindTimeout
	}
	return task.KindNetwork
}

// refetch reads the whole list. It is never coalesced: a refetch that follows
// a mutation must observe that mutation.
func (e *Engine) refetch(ctx context.Context) (func(Cache) Cache, error) {
	records, err := e.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := r.CheckConsistency(); err != nil {
			e.logger.Warn("dropping inconsistent record from refetch", "id", r.ID, "error", err)
		}
	}
	return func(c Cache) Cache { return c.ReplaceAll(records) }, nil
}

func (e *Engine) run(ctx context.Context, action string, id int64, mutate func(context.Context) (func(Cache) Cache, error)) error {
	e.begin()
	started := e.now()
	reconcile, err := mutate(ctx)
	if err != nil {
		e.finish(nil)
		e.logger.Warn("task action failed", "action", action, "id", id, "error", err)
		return fmt.Errorf("%s task: %w", action, err)
	}
	e.finish(reconcile)
	e.logger.Debug("task action done", "action", action, "id", id, "took", e.now().Sub(started))
	return nil
}

func (e *Engine) begin() {
	e.apply(func(c Cache) Cache {
		e.inflight++
		return c.SetBusy(true)
	})
}

// finish applies the reconciliation and the busy update as one change.
func (e *Engine) finish(reconcile func(Cache) Cache) {
	e.apply(func(c Cache) Cache {
		if reconcile != nil {
			c = reconcile(c)
		}
		e.inflight--
		return c.SetBusy(e.inflight > 0)
	})
}

func (e *Engine) apply(fn func(Cache) Cache) {
	e.mu.Lock()
	e.cache = fn(e.cache)
	e.version++
	version := e.version
	snap := snapshotOf(e.cache)
	subs := make([]func(Snapshot), 0, len(e.subs))
	for _, s := range e.subs {
		subs = append(subs, s)
	}
	e.mu.Unlock()

	e.deliverMu.Lock()
	defer e.deliverMu.Unlock()
	if version <= e.delivered {
		return
	}
	e.delivered = version
	for _, s := range subs {
		s(snap)
	}
}

func (e *Engine) find(id int64) (task.Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache.Find(id)
}

// require checks that id is cached and, when status is set, in that state.
func (e *Engine) require(id int64, status task.Status, wrong error) error {
	t, ok := e.find(id)
	if !ok {
		return task.InvalidTask(id, task.ErrUnknownTask)
	}
	if status != "" && t.Status != status {
		return task.InvalidTask(id, wrong)
	}
	return nil
}

func snapshotOf(c Cache) Snapshot {
	return Snapshot{
		Pending:   c.Pending(),
		Completed: c.Completed(),
		Busy:      c.Busy(),
	}
}
