package service

import (
	"context"
	"testing"

	"github.com/cleberrangel/task-tracker-api/internal/model"
)

func TestDetectFieldChanges(t *testing.T) {
	tests := []struct {
		name   string
		before model.Task
		after  model.Task
		want   []model.FieldChange
	}{
		{
			name:   "no changes",
			before: model.Task{Status: model.StatusTodo, Assignee: "alice"},
			after:  model.Task{Status: model.StatusTodo, Assignee: "alice"},
			want:   nil,
		},
		{
			name:   "status change",
			before: model.Task{Status: model.StatusTodo},
			after:  model.Task{Status: model.StatusBlocked},
			want: []model.FieldChange{
				{Type: model.ActivityUpdatedStatus, Field: "status", Before: "TODO", After: "BLOCKED"},
			},
		},
		{
			name:   "assignee set from empty",
			before: model.Task{Status: model.StatusTodo},
			after:  model.Task{Status: model.StatusTodo, Assignee: "bob"},
			want: []model.FieldChange{
				{Type: model.ActivityUpdatedAssignee, Field: "assignee", Before: "", After: "bob"},
			},
		},
		{
			name:   "estimate set from nil",
			before: model.Task{Status: model.StatusTodo},
			after:  model.Task{Status: model.StatusTodo, Estimate: intPtr(5)},
			want: []model.FieldChange{
				{Type: model.ActivityUpdatedEstimate, Field: "estimate", Before: "", After: "5"},
			},
		},
		{
			name:   "estimate value change",
			before: model.Task{Status: model.StatusTodo, Estimate: intPtr(3)},
			after:  model.Task{Status: model.StatusTodo, Estimate: intPtr(8)},
			want: []model.FieldChange{
				{Type: model.ActivityUpdatedEstimate, Field: "estimate", Before: "3", After: "8"},
			},
		},
		{
			name:   "equal estimates through different pointers",
			before: model.Task{Status: model.StatusTodo, Estimate: intPtr(5)},
			after:  model.Task{Status: model.StatusTodo, Estimate: intPtr(5)},
			want:   nil,
		},
		{
			name:   "description change",
			before: model.Task{Status: model.StatusTodo, Description: "antes"},
			after:  model.Task{Status: model.StatusTodo, Description: "depois"},
			want: []model.FieldChange{
				{Type: model.ActivityUpdatedDescription, Field: "description", Before: "antes", After: "depois"},
			},
		},
		{
			name:   "title change is not audited",
			before: model.Task{Status: model.StatusTodo, Title: "Antigo"},
			after:  model.Task{Status: model.StatusTodo, Title: "Novo"},
			want:   nil,
		},
		{
			name: "multiple changes in declaration order",
			before: model.Task{
				Status: model.StatusTodo, Assignee: "alice", Description: "v1",
			},
			after: model.Task{
				Status: model.StatusInProgress, Assignee: "bob",
				Estimate: intPtr(3), Description: "v2",
			},
			want: []model.FieldChange{
				{Type: model.ActivityUpdatedStatus, Field: "status", Before: "TODO", After: "IN_PROGRESS"},
				{Type: model.ActivityUpdatedAssignee, Field: "assignee", Before: "alice", After: "bob"},
				{Type: model.ActivityUpdatedEstimate, Field: "estimate", Before: "", After: "3"},
				{Type: model.ActivityUpdatedDescription, Field: "description", Before: "v1", After: "v2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectFieldChanges(&tt.before, &tt.after)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d changes, got %d: %+v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Change %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestLogChangesPersistsAndBroadcasts(t *testing.T) {
	store := &fakeActivityStore{}
	broadcaster := &fakeBroadcaster{}
	svc := NewActivityService(store, broadcaster)

	task := &model.Task{ID: "t1", Key: "TSK-1"}
	changes := []model.FieldChange{
		{Type: model.ActivityUpdatedStatus, Field: "status", Before: "TODO", After: "DONE"},
		{Type: model.ActivityUpdatedEstimate, Field: "estimate", Before: "", After: "5"},
	}

	if err := svc.LogChanges(context.Background(), task, changes, "alice"); err != nil {
		t.Fatalf("LogChanges failed: %v", err)
	}

	if len(store.activities) != 2 {
		t.Fatalf("Expected 2 persisted activities, got %d", len(store.activities))
	}
	if len(broadcaster.events) != 2 {
		t.Fatalf("Expected 2 broadcast events, got %d", len(broadcaster.events))
	}

	first := store.activities[0]
	if first.TaskID != "t1" || first.Actor != "alice" {
		t.Errorf("Unexpected activity attribution: %+v", first)
	}
	if first.Type != model.ActivityUpdatedStatus || first.Before != "TODO" || first.After != "DONE" {
		t.Errorf("Unexpected first activity: %+v", first)
	}
}

func TestListActivitiesMostRecentFirst(t *testing.T) {
	store := &fakeActivityStore{}
	svc := NewActivityService(store, nil)
	ctx := context.Background()

	task := &model.Task{ID: "t1"}
	if err := svc.LogCreation(ctx, task, "alice"); err != nil {
		t.Fatalf("LogCreation failed: %v", err)
	}
	changes := []model.FieldChange{
		{Type: model.ActivityUpdatedStatus, Field: "status", Before: "TODO", After: "IN_PROGRESS"},
	}
	if err := svc.LogChanges(ctx, task, changes, "alice"); err != nil {
		t.Fatalf("LogChanges failed: %v", err)
	}

	activities, err := svc.ListActivities(ctx, "t1")
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("Expected 2 activities, got %d", len(activities))
	}
	if activities[0].Type != model.ActivityUpdatedStatus {
		t.Errorf("Expected most recent first, got %s", activities[0].Type)
	}
	if activities[1].Type != model.ActivityCreated {
		t.Errorf("Expected CREATED last, got %s", activities[1].Type)
	}

	count, err := svc.CountActivities(ctx, "t1")
	if err != nil {
		t.Fatalf("CountActivities failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}
}

func TestLogDeletionDoesNotPersist(t *testing.T) {
	store := &fakeActivityStore{}
	broadcaster := &fakeBroadcaster{}
	svc := NewActivityService(store, broadcaster)

	task := &model.Task{ID: "t1", Key: "TSK-1"}
	svc.LogDeletion(context.Background(), task, "alice")

	if len(store.activities) != 0 {
		t.Errorf("DELETED must not be persisted, got %d rows", len(store.activities))
	}
	if len(broadcaster.events) != 1 {
		t.Fatalf("Expected 1 broadcast event, got %d", len(broadcaster.events))
	}
	if broadcaster.events[0].Type != model.ActivityDeleted {
		t.Errorf("Expected DELETED event, got %s", broadcaster.events[0].Type)
	}
}
