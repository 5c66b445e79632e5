package model

import (
	"strings"
	"time"
)

// TaskStatus representa o estado do ciclo de vida de uma task
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusBlocked    TaskStatus = "BLOCKED"
	StatusDone       TaskStatus = "DONE"
)

const (
	// TitleMinLength tamanho mínimo do título
	TitleMinLength = 3

	// TitleMaxLength tamanho máximo do título
	TitleMaxLength = 200

	// EstimateMax valor máximo de estimativa em pontos
	EstimateMax = 100
)

// ValidStatuses lista os status aceitos, na ordem do fluxo de trabalho
var ValidStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusBlocked, StatusDone}

// IsValid verifica se o status pertence ao conjunto fechado
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusBlocked, StatusDone:
		return true
	}
	return false
}

// Display retorna o nome legível do status
func (s TaskStatus) Display() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusBlocked:
		return "Blocked"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Task representa uma task do tracker
type Task struct {
	ID          string     `json:"id"`
	Key         string     `json:"key"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Estimate    *int       `json:"estimate"`
	Assignee    string     `json:"assignee,omitempty"`
	Reporter    string     `json:"reporter,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Validate aplica as regras de negócio da task
func (t *Task) Validate() error {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if len(title) < TitleMinLength {
		return ErrTitleTooShort
	}
	if len(title) > TitleMaxLength {
		return ErrTitleTooLong
	}

	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}

	if t.Estimate != nil {
		if *t.Estimate < 0 {
			return ErrEstimateNegative
		}
		if *t.Estimate > EstimateMax {
			return ErrEstimateTooLarge
		}
	}

	// Regra de negócio: task DONE exige estimativa
	if t.Status == StatusDone && t.Estimate == nil {
		return ErrDoneWithoutEstimate
	}

	return nil
}

// HasTag verifica se a task contém a tag informada
func (t *Task) HasTag(name string) bool {
	for _, tag := range t.Tags {
		if strings.EqualFold(tag, name) {
			return true
		}
	}
	return false
}
