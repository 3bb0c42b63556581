package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/todo-sync/domain/task"
)

// listEnvelope covers the list shapes hosts answer with: the native
// {"tasks": [...]}, OData verbose {"d": {"results": [...]}} and OData
// {"value": [...]}.
type listEnvelope struct {
	Tasks *[]task.Task `json:"tasks"`
	Value *[]task.Task `json:"value"`
	D     *struct {
		Results []task.Task `json:"results"`
	} `json:"d"`
}

var errUnknownShape = errors.New("unrecognized list payload")

func decodeList(body []byte) ([]task.Task, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var tasks []task.Task
		if err := json.Unmarshal(body, &tasks); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return tasks, nil
	}

	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	switch {
	case env.Tasks != nil:
		return *env.Tasks, nil
	case env.D != nil:
		return env.D.Results, nil
	case env.Value != nil:
		return *env.Value, nil
	default:
		return nil, errUnknownShape
	}
}

// decodeRecord reads a single record, bare or wrapped in an OData "d".
func decodeRecord(body []byte) (task.Task, error) {
	var wrapped struct {
		D *task.Task `json:"d"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.D != nil {
		return *wrapped.D, nil
	}

	var t task.Task
	if err := json.Unmarshal(body, &t); err != nil {
		return task.Task{}, fmt.Errorf("decode record: %w", err)
	}
	if t.ID <= 0 {
		return task.Task{}, fmt.Errorf("decode record: missing Id")
	}
	return t, nil
}

// errorMessage extracts a human message from an error body, if any.
func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	// OData: {"error": {"message": {"value": "..."}}}
	if m, ok := e.Error.(map[string]any); ok {
		if inner, ok := m["message"].(map[string]any); ok {
			if v, ok := inner["value"].(string); ok {
				return v
			}
		}
		if v, ok := m["message"].(string); ok {
			return v
		}
	}
	if s, ok := e.Error.(string); ok {
		return s
	}
	return ""
}
