package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cleberrangel/task-tracker-api/internal/model"
)

// ActivityRepository gerencia a persistência do log de atividades
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository cria um novo repositório de atividades
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// CreateActivity insere um registro de atividade
func (r *ActivityRepository) CreateActivity(ctx context.Context, activity model.Activity) (*model.Activity, error) {
	query := `
		INSERT INTO task_activities (task_id, actor, type, field, before_value, after_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, task_id, actor, type, field, before_value, after_value, created_at
	`

	row := r.db.QueryRowContext(ctx, query,
		activity.TaskID, nullString(activity.Actor), string(activity.Type),
		nullString(activity.Field), nullString(activity.Before), nullString(activity.After),
	)

	created, err := scanActivity(row)
	if err != nil {
		return nil, fmt.Errorf("erro ao inserir atividade: %w", err)
	}

	return created, nil
}

// ListByTask retorna as atividades de uma task, mais recente primeiro
func (r *ActivityRepository) ListByTask(ctx context.Context, taskID string) ([]model.Activity, error) {
	query := `
		SELECT id, task_id, actor, type, field, before_value, after_value, created_at
		FROM task_activities
		WHERE task_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar atividades: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear atividade: %w", err)
		}
		activities = append(activities, *activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao percorrer atividades: %w", err)
	}

	return activities, nil
}

// CountByTask retorna o total de atividades de uma task
func (r *ActivityRepository) CountByTask(ctx context.Context, taskID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM task_activities WHERE task_id = $1", taskID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar atividades: %w", err)
	}
	return count, nil
}

// scanActivity converte uma linha do banco em model.Activity
func scanActivity(row rowScanner) (*model.Activity, error) {
	var activity model.Activity
	var actor, field, before, after sql.NullString

	err := row.Scan(&activity.ID, &activity.TaskID, &actor, (*string)(&activity.Type),
		&field, &before, &after, &activity.CreatedAt)
	if err != nil {
		return nil, err
	}

	activity.Actor = actor.String
	activity.Field = field.String
	activity.Before = before.String
	activity.After = after.String

	return &activity, nil
}
