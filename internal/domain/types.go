package domain

import (
	"strings"
	"time"
)

type SessionID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Task is the intent label a turn is routed to.
type Task string

const (
	TaskGuidelines   Task = "guidelines"
	TaskAppInfo      Task = "app_info"
	TaskPostExamples Task = "post_examples"
)

// Valid reports whether t is one of the known task labels.
func (t Task) Valid() bool {
	switch t {
	case TaskGuidelines, TaskAppInfo, TaskPostExamples:
		return true
	}
	return false
}

// ParseTask maps a stored label back to a Task, falling back to
// TaskGuidelines for anything unknown or empty.
func ParseTask(s string) Task {
	t := Task(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t
	}
	return TaskGuidelines
}

type Timestamp = time.Time
