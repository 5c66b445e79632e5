package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cleberrangel/task-tracker-api/internal/logger"
	"github.com/cleberrangel/task-tracker-api/internal/model"
)

// ActivityStore é o colaborador de persistência do log de atividades
type ActivityStore interface {
	CreateActivity(ctx context.Context, activity model.Activity) (*model.Activity, error)
	ListByTask(ctx context.Context, taskID string) ([]model.Activity, error)
	CountByTask(ctx context.Context, taskID string) (int, error)
}

// ActivityBroadcaster publica eventos de atividade em tempo real
type ActivityBroadcaster interface {
	BroadcastActivity(activity model.Activity)
}

// ActivityService registra o histórico de auditoria das tasks.
// A detecção de mudanças é uma chamada explícita pós-mutação com snapshots
// antes/depois; nada acontece por dispatch implícito.
type ActivityService struct {
	store       ActivityStore
	broadcaster ActivityBroadcaster
}

// NewActivityService cria um novo serviço de atividades
func NewActivityService(store ActivityStore, broadcaster ActivityBroadcaster) *ActivityService {
	return &ActivityService{
		store:       store,
		broadcaster: broadcaster,
	}
}

// DetectFieldChanges compara dois snapshots de uma task e retorna a lista de
// mudanças discretas nos campos auditados
func DetectFieldChanges(before, after *model.Task) []model.FieldChange {
	var changes []model.FieldChange

	if before.Status != after.Status {
		changes = append(changes, model.FieldChange{
			Type:   model.ActivityUpdatedStatus,
			Field:  "status",
			Before: string(before.Status),
			After:  string(after.Status),
		})
	}

	if before.Assignee != after.Assignee {
		changes = append(changes, model.FieldChange{
			Type:   model.ActivityUpdatedAssignee,
			Field:  "assignee",
			Before: before.Assignee,
			After:  after.Assignee,
		})
	}

	if !estimateEqual(before.Estimate, after.Estimate) {
		changes = append(changes, model.FieldChange{
			Type:   model.ActivityUpdatedEstimate,
			Field:  "estimate",
			Before: estimateString(before.Estimate),
			After:  estimateString(after.Estimate),
		})
	}

	if before.Description != after.Description {
		changes = append(changes, model.FieldChange{
			Type:   model.ActivityUpdatedDescription,
			Field:  "description",
			Before: before.Description,
			After:  after.Description,
		})
	}

	return changes
}

// LogCreation registra o evento de criação da task
func (s *ActivityService) LogCreation(ctx context.Context, task *model.Task, actor string) error {
	return s.record(ctx, model.Activity{
		TaskID: task.ID,
		Actor:  actor,
		Type:   model.ActivityCreated,
	})
}

// LogChanges registra cada mudança detectada entre snapshots
func (s *ActivityService) LogChanges(ctx context.Context, task *model.Task, changes []model.FieldChange, actor string) error {
	for _, change := range changes {
		err := s.record(ctx, model.Activity{
			TaskID: task.ID,
			Actor:  actor,
			Type:   change.Type,
			Field:  change.Field,
			Before: change.Before,
			After:  change.After,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// LogDeletion publica o evento de remoção da task.
// O histórico persiste via cascade do banco junto com a task, então o evento
// DELETED só é transmitido aos clientes conectados, não gravado.
func (s *ActivityService) LogDeletion(ctx context.Context, task *model.Task, actor string) {
	log := logger.Get(ctx)
	log.Debug().
		Str("task_id", task.ID).
		Str("task_key", task.Key).
		Msg("Task removida, publicando evento")

	if s.broadcaster != nil {
		s.broadcaster.BroadcastActivity(model.Activity{
			TaskID: task.ID,
			Actor:  actor,
			Type:   model.ActivityDeleted,
		})
	}
}

// ListActivities retorna o histórico da task, mais recente primeiro
func (s *ActivityService) ListActivities(ctx context.Context, taskID string) ([]model.Activity, error) {
	return s.store.ListByTask(ctx, taskID)
}

// CountActivities retorna o total de atividades da task
func (s *ActivityService) CountActivities(ctx context.Context, taskID string) (int, error) {
	return s.store.CountByTask(ctx, taskID)
}

// record persiste a atividade e publica o evento para os clientes conectados
func (s *ActivityService) record(ctx context.Context, activity model.Activity) error {
	log := logger.Get(ctx)

	created, err := s.store.CreateActivity(ctx, activity)
	if err != nil {
		return fmt.Errorf("erro ao registrar atividade: %w", err)
	}

	log.Debug().
		Str("task_id", created.TaskID).
		Str("type", string(created.Type)).
		Str("field", created.Field).
		Msg("Atividade registrada")

	if s.broadcaster != nil {
		s.broadcaster.BroadcastActivity(*created)
	}

	return nil
}

// estimateEqual compara duas estimativas opcionais
func estimateEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// estimateString formata a estimativa para o log (vazio quando ausente)
func estimateString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
