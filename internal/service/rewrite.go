package service

import (
	"fmt"
	"strings"

	"github.com/cleberrangel/task-tracker-api/internal/model"
)

// RewriteService gera descrições aprimoradas em formato de user story
type RewriteService struct{}

// NewRewriteService cria um novo gerador de rewrite
func NewRewriteService() *RewriteService {
	return &RewriteService{}
}

// GenerateRewrite monta a user story determinística com critérios de
// aceitação a partir do conteúdo da task
func (s *RewriteService) GenerateRewrite(task *model.Task) model.RewriteResult {
	userRole := roleFor(task.Assignee)
	wantStatement := wantFor(task.Title)
	benefit := benefitFor(task)

	var b strings.Builder
	fmt.Fprintf(&b, "As a %s, I want to %s, so that %s.\n\n", userRole, wantStatement, benefit)
	b.WriteString("Acceptance Criteria:\n")

	// Critério baseado na descrição
	desc := strings.TrimSpace(task.Description)
	if len(desc) > 10 {
		if strings.Contains(strings.ToLower(desc), "should") {
			b.WriteString("1. WHEN the implementation is complete THEN the system SHALL meet the requirements described in the task description\n")
		} else {
			b.WriteString("1. WHEN the feature is implemented THEN the system SHALL function according to the task description\n")
		}
	} else {
		b.WriteString("1. WHEN the task is implemented THEN the system SHALL meet the specified requirements\n")
	}

	// Critério baseado na estimativa
	if task.Estimate != nil && *task.Estimate > 0 {
		fmt.Fprintf(&b, "2. WHEN the work is completed THEN it SHALL be delivered within the estimated %d points of effort\n", *task.Estimate)
	}

	// Critério baseado nas tags
	switch {
	case task.HasTag("frontend"):
		b.WriteString("3. WHEN the frontend changes are made THEN the user interface SHALL be responsive and accessible\n")
	case task.HasTag("backend"):
		b.WriteString("3. WHEN the backend changes are made THEN the API SHALL return appropriate responses and handle errors gracefully\n")
	case task.HasTag("testing"):
		b.WriteString("3. WHEN the implementation is complete THEN appropriate test coverage SHALL be provided\n")
	}

	fmt.Fprintf(&b, "4. WHEN the task is marked as %s THEN all acceptance criteria SHALL be verified", task.Status.Display())

	return model.RewriteResult{
		Title:     task.Title,
		UserStory: b.String(),
	}
}

// roleFor deduz o papel do usuário a partir do assignee
func roleFor(assignee string) string {
	lower := strings.ToLower(assignee)
	switch {
	case assignee == "":
		return "user"
	case strings.Contains(lower, "dev"):
		return "developer"
	case strings.Contains(lower, "pm") || strings.Contains(lower, "manager"):
		return "project manager"
	case strings.Contains(lower, "qa") || strings.Contains(lower, "tester"):
		return "QA engineer"
	}
	return "user"
}

// wantFor deduz a declaração de intenção a partir do título
func wantFor(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "fix") || strings.Contains(lower, "bug"):
		return fmt.Sprintf("resolve the issue described in '%s'", title)
	case strings.Contains(lower, "update") || strings.Contains(lower, "modify") ||
		strings.Contains(lower, "change") || strings.Contains(lower, "improve"):
		return fmt.Sprintf("see the improvements described in '%s'", title)
	case strings.Contains(lower, "add") || strings.Contains(lower, "create") ||
		strings.Contains(lower, "implement"):
		return fmt.Sprintf("have the functionality described in '%s'", title)
	}
	return fmt.Sprintf("complete the work described in '%s'", title)
}

// benefitFor deduz o benefício a partir do título e do status
func benefitFor(task *model.Task) string {
	lower := strings.ToLower(task.Title)
	switch {
	case strings.Contains(lower, "performance") || strings.Contains(lower, "optimize"):
		return "the system performs better"
	case strings.Contains(lower, "security") || strings.Contains(lower, "auth"):
		return "the system is more secure"
	case strings.Contains(lower, "ui") || strings.Contains(lower, "interface") ||
		strings.Contains(lower, "frontend") || strings.Contains(lower, "improve"):
		return "the user experience is improved"
	case task.Status == model.StatusDone:
		return "the system functions as expected"
	}
	return "the system meets the requirements"
}
