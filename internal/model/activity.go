package model

import "time"

// ActivityType representa o tipo de evento registrado no histórico da task
type ActivityType string

const (
	ActivityCreated            ActivityType = "CREATED"
	ActivityUpdatedStatus      ActivityType = "UPDATED_STATUS"
	ActivityUpdatedAssignee    ActivityType = "UPDATED_ASSIGNEE"
	ActivityUpdatedEstimate    ActivityType = "UPDATED_ESTIMATE"
	ActivityUpdatedDescription ActivityType = "UPDATED_DESCRIPTION"
	ActivityDeleted            ActivityType = "DELETED"
)

// Activity representa um registro do log de auditoria de uma task
type Activity struct {
	ID        int          `json:"id"`
	TaskID    string       `json:"task_id"`
	Actor     string       `json:"actor,omitempty"`
	Type      ActivityType `json:"type"`
	Field     string       `json:"field,omitempty"`
	Before    string       `json:"before,omitempty"`
	After     string       `json:"after,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// FieldChange representa uma mudança discreta detectada entre dois
// snapshots de uma task (antes/depois de uma mutação)
type FieldChange struct {
	Type   ActivityType
	Field  string
	Before string
	After  string
}
