package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Patch is a partial update sent to the store. Nil fields are left untouched;
// ClearCompletedDate serializes as an explicit "CompletedDate": null.
type Patch struct {
	Summary            *string
	Description        *string
	Status             *Status
	PendingDate        *time.Time
	CompletedDate      *time.Time
	ClearCompletedDate bool
	Deadline           *time.Time
}

// Complete is the patch moving a task to Completed at now.
func Complete(now time.Time) Patch {
	s := StatusCompleted
	return Patch{Status: &s, CompletedDate: &now}
}

// Rework is the patch moving a task back to Pending at now.
func Rework(now time.Time) Patch {
	s := StatusPending
	return Patch{Status: &s, PendingDate: &now, ClearCompletedDate: true}
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Summary == nil && p.Description == nil && p.Status == nil &&
		p.PendingDate == nil && p.CompletedDate == nil && !p.ClearCompletedDate &&
		p.Deadline == nil
}

// ApplyTo writes the set fields onto t.
func (p Patch) ApplyTo(t *Task) {
	if p.Summary != nil {
		t.Summary = *p.Summary
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.PendingDate != nil {
		t.PendingDate = *p.PendingDate
	}
	if p.ClearCompletedDate {
		t.CompletedDate = nil
	} else if p.CompletedDate != nil {
		t.CompletedDate = cloneTime(p.CompletedDate)
	}
	if p.Deadline != nil {
		t.Deadline = cloneTime(p.Deadline)
	}
}

func (p Patch) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 7)
	if p.Summary != nil {
		out["Summary"] = *p.Summary
	}
	if p.Description != nil {
		out["Description"] = *p.Description
	}
	if p.Status != nil {
		out["TaskStatus"] = *p.Status
	}
	if p.PendingDate != nil {
		out["PendingDate"] = *p.PendingDate
	}
	if p.ClearCompletedDate {
		out["CompletedDate"] = nil
	} else if p.CompletedDate != nil {
		out["CompletedDate"] = *p.CompletedDate
	}
	if p.Deadline != nil {
		out["Deadline"] = *p.Deadline
	}
	return json.Marshal(out)
}

func (p *Patch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Patch{}
	for key, value := range raw {
		null := bytes.Equal(bytes.TrimSpace(value), []byte("null"))
		var err error
		switch key {
		case "Summary":
			p.Summary, err = decodeOptional[string](value, null)
		case "Description":
			p.Description, err = decodeOptional[string](value, null)
		case "TaskStatus":
			p.Status, err = decodeOptional[Status](value, null)
			if err == nil && p.Status != nil && !p.Status.Valid() {
				err = fmt.Errorf("unknown status %q", *p.Status)
			}
		case "PendingDate":
			p.PendingDate, err = decodeOptional[time.Time](value, null)
		case "CompletedDate":
			if null {
				p.ClearCompletedDate = true
				continue
			}
			p.CompletedDate, err = decodeOptional[time.Time](value, false)
		case "Deadline":
			p.Deadline, err = decodeOptional[time.Time](value, null)
		}
		if err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
	}
	return nil
}

func decodeOptional[T any](value json.RawMessage, null bool) (*T, error) {
	if null {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(value, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
