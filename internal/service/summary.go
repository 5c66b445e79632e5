package service

import (
	"fmt"
	"strings"

	"github.com/cleberrangel/task-tracker-api/internal/model"
)

// SummaryService gera resumos determinísticos do ciclo de vida de uma task
type SummaryService struct{}

// NewSummaryService cria um novo gerador de resumo
func NewSummaryService() *SummaryService {
	return &SummaryService{}
}

// GenerateSummary monta o resumo legível a partir do estado da task e da
// contagem de atividades do histórico
func (s *SummaryService) GenerateSummary(task *model.Task, activityCount int) model.SummaryResult {
	statusText := strings.ToLower(task.Status.Display())

	// Narrativa de progresso baseada no volume de atividades
	var progression string
	switch {
	case activityCount <= 1:
		progression = fmt.Sprintf("This task was created and is currently %s.", statusText)
	case activityCount <= 3:
		progression = fmt.Sprintf("This task has had %d activities and is currently %s.", activityCount, statusText)
	default:
		progression = fmt.Sprintf("This task has been actively worked on with %d activities and is currently %s.", activityCount, statusText)
	}

	var b strings.Builder
	b.WriteString(progression)

	if task.Assignee != "" {
		fmt.Fprintf(&b, " It is assigned to %s.", task.Assignee)
	}

	if task.Estimate != nil && *task.Estimate > 0 {
		fmt.Fprintf(&b, " The estimated effort is %d points.", *task.Estimate)
	}

	if len(task.Tags) == 1 {
		fmt.Fprintf(&b, " It is tagged with '%s'.", task.Tags[0])
	} else if len(task.Tags) > 1 {
		head := strings.Join(task.Tags[:len(task.Tags)-1], ", ")
		fmt.Fprintf(&b, " It is tagged with %s and '%s'.", head, task.Tags[len(task.Tags)-1])
	}

	// Observações específicas por status
	switch task.Status {
	case model.StatusDone:
		b.WriteString(" The task has been completed successfully.")
	case model.StatusBlocked:
		b.WriteString(" The task is currently blocked and may need attention.")
	case model.StatusInProgress:
		b.WriteString(" Work is actively in progress on this task.")
	}

	return model.SummaryResult{Summary: strings.TrimSpace(b.String())}
}
