package service

import (
	"context"
	"fmt"

	"github.com/cleberrangel/task-tracker-api/internal/logger"
	"github.com/cleberrangel/task-tracker-api/internal/metrics"
	"github.com/cleberrangel/task-tracker-api/internal/model"
	"github.com/cleberrangel/task-tracker-api/internal/repository"
)

const (
	// DefaultPageSize tamanho de página quando não informado
	DefaultPageSize = 20

	// MaxPageSize tamanho máximo de página aceito
	MaxPageSize = 100
)

// TaskStore é o colaborador de persistência de tasks
type TaskStore interface {
	CreateTask(ctx context.Context, task model.Task) (*model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, excludeID string) ([]model.Task, error)
	ListTasksPage(ctx context.Context, filter repository.TaskFilter) ([]model.Task, int, error)
	UpdateTask(ctx context.Context, task model.Task) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// TaskService orquestra o CRUD de tasks com validação e log de atividades
type TaskService struct {
	store      TaskStore
	activities *ActivityService
}

// NewTaskService cria um novo serviço de tasks
func NewTaskService(store TaskStore, activities *ActivityService) *TaskService {
	return &TaskService{
		store:      store,
		activities: activities,
	}
}

// CreateTask valida e persiste uma nova task, registrando a atividade CREATED
func (s *TaskService) CreateTask(ctx context.Context, req model.CreateTaskRequest, actor string) (*model.Task, error) {
	log := logger.Get(ctx)

	task := model.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.StatusTodo,
		Estimate:    req.Estimate,
		Assignee:    req.Assignee,
		Reporter:    req.Reporter,
		Tags:        req.Tags,
	}
	if req.Status != "" {
		task.Status = model.TaskStatus(req.Status)
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	created, err := s.store.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}

	if err := s.activities.LogCreation(ctx, created, actor); err != nil {
		// A task já foi criada; falha no histórico não desfaz a operação
		log.Error().Err(err).Str("task_id", created.ID).Msg("Erro ao registrar atividade de criação")
	}

	metrics.Get().IncrementTaskCreated()
	log.Info().
		Str("task_id", created.ID).
		Str("task_key", created.Key).
		Msg("Task criada")

	return created, nil
}

// GetTask busca uma task pelo ID
func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return s.store.GetTask(ctx, id)
}

// ListTasks retorna uma página de tasks aplicando filtros e os limites de paginação
func (s *TaskService) ListTasks(ctx context.Context, filter repository.TaskFilter) (*model.TaskListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = DefaultPageSize
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}

	tasks, total, err := s.store.ListTasksPage(ctx, filter)
	if err != nil {
		return nil, err
	}

	if tasks == nil {
		tasks = []model.Task{}
	}

	return &model.TaskListResponse{
		Count:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Results:  tasks,
	}, nil
}

// UpdateTask aplica um patch parcial, valida o resultado e registra as mudanças
func (s *TaskService) UpdateTask(ctx context.Context, id string, req model.UpdateTaskRequest, actor string) (*model.Task, error) {
	log := logger.Get(ctx)

	before, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *before
	if req.Title != nil {
		next.Title = *req.Title
	}
	if req.Description != nil {
		next.Description = *req.Description
	}
	if req.Status != nil {
		next.Status = model.TaskStatus(*req.Status)
	}
	if req.Estimate != nil {
		next.Estimate = req.Estimate
	}
	if req.Assignee != nil {
		next.Assignee = *req.Assignee
	}
	if req.Reporter != nil {
		next.Reporter = *req.Reporter
	}
	if req.Tags != nil {
		next.Tags = *req.Tags
	}

	if err := next.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateTask(ctx, next)
	if err != nil {
		return nil, err
	}

	changes := DetectFieldChanges(before, updated)
	if len(changes) > 0 {
		if err := s.activities.LogChanges(ctx, updated, changes, actor); err != nil {
			log.Error().Err(err).Str("task_id", updated.ID).Msg("Erro ao registrar atividades de atualização")
		}
	}

	metrics.Get().IncrementTaskUpdated()
	log.Info().
		Str("task_id", updated.ID).
		Str("task_key", updated.Key).
		Int("changes", len(changes)).
		Msg("Task atualizada")

	return updated, nil
}

// DeleteTask remove a task e publica o evento de remoção
func (s *TaskService) DeleteTask(ctx context.Context, id string, actor string) error {
	log := logger.Get(ctx)

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("erro ao remover task %s: %w", task.Key, err)
	}

	s.activities.LogDeletion(ctx, task, actor)

	metrics.Get().IncrementTaskDeleted()
	log.Info().
		Str("task_id", task.ID).
		Str("task_key", task.Key).
		Msg("Task removida")

	return nil
}
