package task

import (
	"strings"
	"time"
)

// Draft is the user input for a new task, before the store assigns an ID.
type Draft struct {
	Summary     string     `json:"Summary"`
	Description string     `json:"Description"`
	Deadline    *time.Time `json:"Deadline"`
}

// Validate checks the draft against submission time now. The deadline is
// compared after normalization, so any time on today's date is accepted.
func (d Draft) Validate(now time.Time) error {
	if strings.TrimSpace(d.Summary) == "" {
		return invalidField("Summary", ErrEmptySummary)
	}
	if d.Deadline == nil {
		return invalidField("Deadline", ErrMissingDeadline)
	}
	if NormalizeDeadline(*d.Deadline).Before(now) {
		return invalidField("Deadline", ErrDeadlinePassed)
	}
	return nil
}

// Normalized returns a copy with the deadline moved to 23:59 of its date.
func (d Draft) Normalized() Draft {
	if d.Deadline != nil {
		dl := NormalizeDeadline(*d.Deadline)
		d.Deadline = &dl
	}
	return d
}

// NewTask validates the draft and builds a pending record stamped at now.
// The ID stays zero until the store persists it.
func NewTask(d Draft, now time.Time) (Task, error) {
	if err := d.Validate(now); err != nil {
		return Task{}, err
	}
	d = d.Normalized()
	return Task{
		Summary:     d.Summary,
		Description: d.Description,
		Status:      StatusPending,
		PendingDate: now,
		Deadline:    d.Deadline,
	}, nil
}

// Fields holds the user-editable columns of an existing task. Nil means unchanged.
type Fields struct {
	Summary     *string
	Description *string
	Deadline    *time.Time
}

// Validate rejects an explicit blank summary.
func (f Fields) Validate() error {
	if f.Summary != nil && strings.TrimSpace(*f.Summary) == "" {
		return invalidField("Summary", ErrEmptySummary)
	}
	return nil
}

// Patch converts the edit into a wire patch, normalizing the deadline.
func (f Fields) Patch() Patch {
	p := Patch{Summary: f.Summary, Description: f.Description}
	if f.Deadline != nil {
		dl := NormalizeDeadline(*f.Deadline)
		p.Deadline = &dl
	}
	return p
}
