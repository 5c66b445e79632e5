package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cleberrangel/task-tracker-api/internal/model"
	"github.com/google/uuid"
)

// TagRepository gerencia a persistência de tags no PostgreSQL
type TagRepository struct {
	db *sql.DB
}

// NewTagRepository cria um novo repositório de tags
func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

// CreateTag insere uma nova tag.
// Retorna model.ErrTagConflict se já existir nome igual (case-insensitive).
func (r *TagRepository) CreateTag(ctx context.Context, name string) (*model.Tag, error) {
	id := uuid.New().String()

	query := `
		INSERT INTO tags (id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, name, created_at, updated_at
	`

	var tag model.Tag
	err := r.db.QueryRowContext(ctx, query, id, name).
		Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrTagConflict
		}
		return nil, fmt.Errorf("erro ao inserir tag: %w", err)
	}

	return &tag, nil
}

// GetTag busca uma tag pelo ID
func (r *TagRepository) GetTag(ctx context.Context, id string) (*model.Tag, error) {
	query := "SELECT id, name, created_at, updated_at FROM tags WHERE id = $1"

	var tag model.Tag
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrTagNotFound
		}
		return nil, fmt.Errorf("erro ao buscar tag: %w", err)
	}

	return &tag, nil
}

// ListTags retorna todas as tags em ordem alfabética
func (r *TagRepository) ListTags(ctx context.Context) ([]model.Tag, error) {
	query := "SELECT id, name, created_at, updated_at FROM tags ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, fmt.Errorf("erro ao escanear tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao percorrer tags: %w", err)
	}

	return tags, nil
}

// UpdateTag renomeia uma tag existente.
// Retorna model.ErrTagConflict se o novo nome já existir (case-insensitive).
func (r *TagRepository) UpdateTag(ctx context.Context, id, name string) (*model.Tag, error) {
	query := `
		UPDATE tags
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, created_at, updated_at
	`

	var tag model.Tag
	err := r.db.QueryRowContext(ctx, query, id, name).
		Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrTagNotFound
		}
		if isUniqueViolation(err) {
			return nil, model.ErrTagConflict
		}
		return nil, fmt.Errorf("erro ao atualizar tag: %w", err)
	}

	return &tag, nil
}

// DeleteTag remove uma tag pelo ID
func (r *TagRepository) DeleteTag(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tags WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("erro ao remover tag: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao verificar remoção: %w", err)
	}
	if affected == 0 {
		return model.ErrTagNotFound
	}

	return nil
}
