package tasksync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/example/todo-sync/domain/task"
)

// fakeStore is an in-memory task.Store that stamps lifecycle dates with its
// own clock, like a real list server would.
type fakeStore struct {
	mu      sync.Mutex
	records []task.Task
	nextID  int64
	now     func() time.Time

	failures map[string]error
	calls    map[string]int
	gate     chan struct{}
}

func newFakeStore(now func() time.Time) *fakeStore {
	return &fakeStore{
		nextID:   1,
		now:      now,
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

func (s *fakeStore) failNext(op string, kind task.ErrorKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = task.NewRemoteError(op, kind, errors.New("injected"))
}

func (s *fakeStore) callCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// enter records the call, waits on the gate if set and returns an injected failure.
func (s *fakeStore) enter(op string) error {
	s.mu.Lock()
	s.calls[op]++
	gate := s.gate
	err := s.failures[op]
	delete(s.failures, op)
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return err
}

func (s *fakeStore) ListAll(_ context.Context) ([]task.Task, error) {
	if err := s.enter("list"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]task.Task, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out, nil
}

func (s *fakeStore) Create(_ context.Context, d task.Draft) (task.Task, error) {
	if err := s.enter("create"); err != nil {
		return task.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := task.Task{
		ID:          s.nextID,
		Summary:     d.Summary,
		Description: d.Description,
		Status:      task.StatusPending,
		PendingDate: s.now(),
		Deadline:    d.Deadline,
	}
	s.nextID++
	s.records = append(s.records, rec)
	return rec.Clone(), nil
}

func (s *fakeStore) Update(_ context.Context, id int64, p task.Patch) error {
	if err := s.enter("update"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		rec := &s.records[i]
		if p.Summary != nil {
			rec.Summary = *p.Summary
		}
		if p.Description != nil {
			rec.Description = *p.Description
		}
		if p.Deadline != nil {
			dl := *p.Deadline
			rec.Deadline = &dl
		}
		if p.Status != nil && *p.Status != rec.Status {
			now := s.now()
			rec.Status = *p.Status
			if rec.Status == task.StatusCompleted {
				rec.CompletedDate = &now
			} else {
				rec.PendingDate = now
				rec.CompletedDate = nil
			}
		}
		return nil
	}
	return task.NewRemoteError("update", task.KindNotFound, errors.New("task not found"))
}

func (s *fakeStore) Remove(_ context.Context, id int64) error {
	if err := s.enter("remove"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return task.NewRemoteError("remove", task.KindNotFound, errors.New("task not found"))
}

// seed inserts records directly, as if created by another client.
func (s *fakeStore) seed(records ...task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
		s.records = append(s.records, r.Clone())
	}
}
