package tasksync

import (
	"github.com/example/todo-sync/domain/task"
)

// Cache is the local view of the remote list: two disjoint collections split
// by status plus the busy flag. A Cache is a value; every operation returns a
// new one and never shares slices with its receiver.
type Cache struct {
	pending   []task.Task
	completed []task.Task
	busy      bool
}

// Pending returns a copy of the pending collection in list order.
func (c Cache) Pending() []task.Task { return cloneAll(c.pending) }

// Completed returns a copy of the completed collection in list order.
func (c Cache) Completed() []task.Task { return cloneAll(c.completed) }

func (c Cache) Busy() bool { return c.busy }

// Len returns the number of cached tasks across both collections.
func (c Cache) Len() int { return len(c.pending) + len(c.completed) }

// Find looks id up in both collections.
func (c Cache) Find(id int64) (task.Task, bool) {
	if i := indexOf(c.pending, id); i >= 0 {
		return c.pending[i].Clone(), true
	}
	if i := indexOf(c.completed, id); i >= 0 {
		return c.completed[i].Clone(), true
	}
	return task.Task{}, false
}

// ReplaceAll partitions records by status and replaces both collections.
// Records failing task.CheckConsistency (unknown status, or a status and
// completion date that disagree) are dropped.
func (c Cache) ReplaceAll(records []task.Task) Cache {
	next := Cache{
		pending:   make([]task.Task, 0, len(records)),
		completed: make([]task.Task, 0),
		busy:      c.busy,
	}
	for _, r := range records {
		if r.CheckConsistency() != nil {
			continue
		}
		switch r.Status {
		case task.StatusPending:
			next.pending = append(next.pending, r.Clone())
		case task.StatusCompleted:
			next.completed = append(next.completed, r.Clone())
		}
	}
	return next
}

// UpsertPending replaces the pending record with the same ID or appends it.
func (c Cache) UpsertPending(rec task.Task) Cache {
	return c.upsert(rec, task.StatusPending)
}

// UpsertCompleted replaces the completed record with the same ID or appends it.
func (c Cache) UpsertCompleted(rec task.Task) Cache {
	return c.upsert(rec, task.StatusCompleted)
}

// upsert is a no-op for records that cannot belong in the target collection:
// no ID yet, a different status, or a broken status/date pairing. A record
// moving collections is removed from the other one.
func (c Cache) upsert(rec task.Task, status task.Status) Cache {
	if rec.ID <= 0 || rec.Status != status || rec.CheckConsistency() != nil {
		return c
	}
	next := c.clone()
	target, other := &next.pending, &next.completed
	if status == task.StatusCompleted {
		target, other = other, target
	}
	*other = removeAt(*other, indexOf(*other, rec.ID))
	if i := indexOf(*target, rec.ID); i >= 0 {
		(*target)[i] = rec.Clone()
	} else {
		*target = append(*target, rec.Clone())
	}
	return next
}

// RemoveByID drops id from whichever collection holds it. Absent ids are a no-op.
func (c Cache) RemoveByID(id int64) Cache {
	next := c.clone()
	next.pending = removeAt(next.pending, indexOf(next.pending, id))
	next.completed = removeAt(next.completed, indexOf(next.completed, id))
	return next
}

// PatchByID applies p to the record with id in place, keeping its position.
// Status changes are not expected here; a record whose status changes is
// moved to the matching collection.
func (c Cache) PatchByID(id int64, p task.Patch) Cache {
	rec, ok := c.Find(id)
	if !ok {
		return c
	}
	p.ApplyTo(&rec)
	if rec.IsCompleted() {
		return c.UpsertCompleted(rec)
	}
	return c.UpsertPending(rec)
}

func (c Cache) SetBusy(flag bool) Cache {
	next := c.clone()
	next.busy = flag
	return next
}

func (c Cache) clone() Cache {
	return Cache{
		pending:   cloneAll(c.pending),
		completed: cloneAll(c.completed),
		busy:      c.busy,
	}
}

func cloneAll(in []task.Task) []task.Task {
	out := make([]task.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}

func indexOf(list []task.Task, id int64) int {
	for i, t := range list {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func removeAt(list []task.Task, i int) []task.Task {
	if i < 0 {
		return list
	}
	return append(list[:i], list[i+1:]...)
}
