package model

import (
	"errors"
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr error
	}{
		{
			name: "valid minimal task",
			task: Task{Title: "abc", Status: StatusTodo},
		},
		{
			name: "valid complete task",
			task: Task{
				Title: "Implementar relatório", Status: StatusDone,
				Estimate: intPtr(8), Assignee: "alice", Tags: []string{"backend"},
			},
		},
		{
			name:    "empty title",
			task:    Task{Title: "", Status: StatusTodo},
			wantErr: ErrTitleRequired,
		},
		{
			name:    "whitespace only title",
			task:    Task{Title: "   \t ", Status: StatusTodo},
			wantErr: ErrTitleRequired,
		},
		{
			name:    "title below minimum",
			task:    Task{Title: "ab", Status: StatusTodo},
			wantErr: ErrTitleTooShort,
		},
		{
			name: "title at maximum length",
			task: Task{Title: strings.Repeat("a", TitleMaxLength), Status: StatusTodo},
		},
		{
			name:    "title above maximum length",
			task:    Task{Title: strings.Repeat("a", TitleMaxLength+1), Status: StatusTodo},
			wantErr: ErrTitleTooLong,
		},
		{
			name:    "invalid status",
			task:    Task{Title: "Valid title", Status: "ARCHIVED"},
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "empty status",
			task:    Task{Title: "Valid title"},
			wantErr: ErrInvalidStatus,
		},
		{
			name: "estimate zero is allowed",
			task: Task{Title: "Trivial", Status: StatusTodo, Estimate: intPtr(0)},
		},
		{
			name: "estimate at maximum",
			task: Task{Title: "Enorme", Status: StatusTodo, Estimate: intPtr(EstimateMax)},
		},
		{
			name:    "negative estimate",
			task:    Task{Title: "Valid title", Status: StatusTodo, Estimate: intPtr(-1)},
			wantErr: ErrEstimateNegative,
		},
		{
			name:    "estimate above maximum",
			task:    Task{Title: "Valid title", Status: StatusTodo, Estimate: intPtr(EstimateMax + 1)},
			wantErr: ErrEstimateTooLarge,
		},
		{
			name:    "done without estimate",
			task:    Task{Title: "Valid title", Status: StatusDone},
			wantErr: ErrDoneWithoutEstimate,
		},
		{
			name: "done with zero estimate is allowed",
			task: Task{Title: "Valid title", Status: StatusDone, Estimate: intPtr(0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Expected valid task, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTaskStatusIsValid(t *testing.T) {
	for _, status := range ValidStatuses {
		if !status.IsValid() {
			t.Errorf("Status %s should be valid", status)
		}
	}

	invalid := []TaskStatus{"", "todo", "Done", "CANCELLED"}
	for _, status := range invalid {
		if status.IsValid() {
			t.Errorf("Status %q should be invalid", status)
		}
	}
}

func TestTaskStatusDisplay(t *testing.T) {
	tests := []struct {
		status TaskStatus
		want   string
	}{
		{StatusTodo, "To Do"},
		{StatusInProgress, "In Progress"},
		{StatusBlocked, "Blocked"},
		{StatusDone, "Done"},
		{"UNKNOWN", "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.status.Display(); got != tt.want {
			t.Errorf("Display(%s): expected %s, got %s", tt.status, tt.want, got)
		}
	}
}

func TestTaskHasTag(t *testing.T) {
	task := Task{Tags: []string{"backend", "DB"}}

	if !task.HasTag("backend") {
		t.Error("Expected HasTag(backend) to be true")
	}
	if !task.HasTag("db") {
		t.Error("Expected case-insensitive match for db")
	}
	if task.HasTag("frontend") {
		t.Error("Expected HasTag(frontend) to be false")
	}
}
