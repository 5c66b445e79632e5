package service

import (
	"strings"
	"testing"

	"github.com/cleberrangel/task-tracker-api/internal/model"
)

func TestGenerateSummary(t *testing.T) {
	svc := NewSummaryService()

	tests := []struct {
		name          string
		task          model.Task
		activityCount int
		wantContains  []string
		wantAbsent    []string
	}{
		{
			name:          "freshly created task",
			task:          model.Task{Title: "Nova task", Status: model.StatusTodo},
			activityCount: 1,
			wantContains:  []string{"This task was created and is currently to do."},
			wantAbsent:    []string{"assigned to", "estimated effort", "tagged with"},
		},
		{
			name: "task with few activities",
			task: model.Task{
				Title: "Em andamento", Status: model.StatusInProgress, Assignee: "alice",
			},
			activityCount: 3,
			wantContains: []string{
				"This task has had 3 activities and is currently in progress.",
				"It is assigned to alice.",
				"Work is actively in progress on this task.",
			},
		},
		{
			name: "heavily worked task",
			task: model.Task{
				Title: "Trabalhada", Status: model.StatusDone,
				Estimate: intPtr(8), Tags: []string{"backend"},
			},
			activityCount: 7,
			wantContains: []string{
				"This task has been actively worked on with 7 activities and is currently done.",
				"The estimated effort is 8 points.",
				"It is tagged with 'backend'.",
				"The task has been completed successfully.",
			},
		},
		{
			name: "multiple tags joined",
			task: model.Task{
				Title: "Multi tag", Status: model.StatusTodo,
				Tags: []string{"backend", "db", "urgent"},
			},
			activityCount: 1,
			wantContains:  []string{"It is tagged with backend, db and 'urgent'."},
		},
		{
			name:          "blocked task gets attention note",
			task:          model.Task{Title: "Travada", Status: model.StatusBlocked},
			activityCount: 2,
			wantContains: []string{
				"This task has had 2 activities and is currently blocked.",
				"The task is currently blocked and may need attention.",
			},
		},
		{
			name:          "zero estimate omitted",
			task:          model.Task{Title: "Sem esforço", Status: model.StatusTodo, Estimate: intPtr(0)},
			activityCount: 1,
			wantAbsent:    []string{"estimated effort"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.GenerateSummary(&tt.task, tt.activityCount)

			for _, fragment := range tt.wantContains {
				if !strings.Contains(result.Summary, fragment) {
					t.Errorf("Summary missing %q:\n%s", fragment, result.Summary)
				}
			}
			for _, fragment := range tt.wantAbsent {
				if strings.Contains(result.Summary, fragment) {
					t.Errorf("Summary should not contain %q:\n%s", fragment, result.Summary)
				}
			}
		})
	}
}

func TestGenerateSummaryIsDeterministic(t *testing.T) {
	svc := NewSummaryService()
	task := model.Task{
		Title: "Determinística", Status: model.StatusInProgress,
		Assignee: "alice", Estimate: intPtr(5), Tags: []string{"backend", "db"},
	}

	first := svc.GenerateSummary(&task, 4)
	for i := 0; i < 10; i++ {
		if got := svc.GenerateSummary(&task, 4); got.Summary != first.Summary {
			t.Fatalf("Summary changed between calls:\n%s\nvs\n%s", first.Summary, got.Summary)
		}
	}
}
