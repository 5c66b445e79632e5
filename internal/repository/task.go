package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cleberrangel/task-tracker-api/internal/logger"
	"github.com/cleberrangel/task-tracker-api/internal/model"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// taskKeyPrefix prefixo das chaves sequenciais de task (ex: "TSK-42")
const taskKeyPrefix = "TSK"

// taskColumns colunas retornadas em todas as leituras de task
const taskColumns = "id, key, title, description, status, estimate, assignee, reporter, tags, created_at, updated_at"

// TaskRepository gerencia a persistência de tasks no PostgreSQL
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository cria um novo repositório de tasks
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskFilter define filtros e paginação da listagem de tasks
type TaskFilter struct {
	Status   string
	Assignee string
	Tag      string
	Search   string
	Page     int
	PageSize int
}

// CreateTask insere uma nova task com chave sequencial gerada
func (r *TaskRepository) CreateTask(ctx context.Context, task model.Task) (*model.Task, error) {
	log := logger.Get(ctx)

	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	key, err := r.nextKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar chave da task: %w", err)
	}
	task.Key = key

	tagsJSON, err := json.Marshal(normalizeTags(task.Tags))
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar tags: %w", err)
	}

	query := `
		INSERT INTO tasks (id, key, title, description, status, estimate, assignee, reporter, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + taskColumns

	row := r.db.QueryRowContext(ctx, query,
		task.ID, task.Key, strings.TrimSpace(task.Title), task.Description,
		string(task.Status), nullInt(task.Estimate), nullString(task.Assignee),
		nullString(task.Reporter), tagsJSON,
	)

	created, err := scanTask(row)
	if err != nil {
		log.Error().Err(err).Str("task_id", task.ID).Msg("Erro ao inserir task")
		return nil, fmt.Errorf("erro ao inserir task: %w", err)
	}

	return created, nil
}

// GetTask busca uma task pelo ID.
// Retorna model.ErrTaskNotFound quando o id não existe.
func (r *TaskRepository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = $1"

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrTaskNotFound
		}
		return nil, fmt.Errorf("erro ao buscar task: %w", err)
	}

	return task, nil
}

// ListTasks retorna o corpus completo de tasks, exceto a task informada.
// A ordem aqui é por recência, mas consumidores reordenam se precisarem.
func (r *TaskRepository) ListTasks(ctx context.Context, excludeID string) ([]model.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id <> $1 ORDER BY updated_at DESC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, excludeID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// ListTasksPage retorna uma página de tasks com filtros, mais o total
func (r *TaskRepository) ListTasksPage(ctx context.Context, filter TaskFilter) ([]model.Task, int, error) {
	where, args := buildTaskFilter(filter)

	countQuery := "SELECT COUNT(*) FROM tasks" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("erro ao contar tasks: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := fmt.Sprintf("SELECT %s FROM tasks%s ORDER BY updated_at DESC, id ASC LIMIT $%d OFFSET $%d",
		taskColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao listar tasks: %w", err)
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// UpdateTask persiste o novo estado da task e atualiza updated_at
func (r *TaskRepository) UpdateTask(ctx context.Context, task model.Task) (*model.Task, error) {
	tagsJSON, err := json.Marshal(normalizeTags(task.Tags))
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar tags: %w", err)
	}

	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, estimate = $5,
			assignee = $6, reporter = $7, tags = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taskColumns

	row := r.db.QueryRowContext(ctx, query,
		task.ID, strings.TrimSpace(task.Title), task.Description, string(task.Status),
		nullInt(task.Estimate), nullString(task.Assignee), nullString(task.Reporter), tagsJSON,
	)

	updated, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrTaskNotFound
		}
		return nil, fmt.Errorf("erro ao atualizar task: %w", err)
	}

	return updated, nil
}

// DeleteTask remove a task pelo ID
func (r *TaskRepository) DeleteTask(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("erro ao remover task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao verificar remoção: %w", err)
	}
	if affected == 0 {
		return model.ErrTaskNotFound
	}

	return nil
}

// nextKey gera a próxima chave sequencial (TSK-1, TSK-2, ...)
func (r *TaskRepository) nextKey(ctx context.Context) (string, error) {
	query := `
		SELECT COALESCE(MAX(CAST(SUBSTRING(key FROM $1) AS INTEGER)), 0)
		FROM tasks
		WHERE key LIKE $2
	`

	var max int
	prefix := taskKeyPrefix + "-"
	err := r.db.QueryRowContext(ctx, query, len(prefix)+1, prefix+"%").Scan(&max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%d", taskKeyPrefix, max+1), nil
}

// buildTaskFilter monta a cláusula WHERE e os argumentos da listagem
func buildTaskFilter(filter TaskFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if filter.Assignee != "" {
		args = append(args, filter.Assignee)
		conditions = append(conditions, fmt.Sprintf("assignee = $%d", len(args)))
	}

	if filter.Tag != "" {
		// Operador ? do JSONB testa pertencimento no array de tags
		args = append(args, filter.Tag)
		conditions = append(conditions, fmt.Sprintf("tags ? $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// rowScanner abstrai *sql.Row e *sql.Rows para o scan de task
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTask converte uma linha do banco em model.Task
func scanTask(row rowScanner) (*model.Task, error) {
	var task model.Task
	var estimate sql.NullInt64
	var assignee, reporter sql.NullString
	var tagsJSON []byte

	err := row.Scan(&task.ID, &task.Key, &task.Title, &task.Description, (*string)(&task.Status),
		&estimate, &assignee, &reporter, &tagsJSON, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if estimate.Valid {
		v := int(estimate.Int64)
		task.Estimate = &v
	}
	task.Assignee = assignee.String
	task.Reporter = reporter.String

	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &task.Tags); err != nil {
			return nil, fmt.Errorf("erro ao deserializar tags: %w", err)
		}
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	return &task, nil
}

// collectTasks percorre o cursor e acumula as tasks
func collectTasks(rows *sql.Rows) ([]model.Task, error) {
	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear task: %w", err)
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao percorrer tasks: %w", err)
	}

	return tasks, nil
}

// normalizeTags remove espaços e entradas duplicadas preservando a ordem
func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}

// nullString converte string vazia em NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullInt converte ponteiro nil em NULL
func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// isUniqueViolation verifica violação de constraint de unicidade do Postgres
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
