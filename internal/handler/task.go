package handler

import (
	"net/http"
	"strconv"

	"github.com/cleberrangel/task-tracker-api/internal/logger"
	"github.com/cleberrangel/task-tracker-api/internal/model"
	"github.com/cleberrangel/task-tracker-api/internal/repository"
	"github.com/cleberrangel/task-tracker-api/internal/service"
	"github.com/gin-gonic/gin"
)

// TaskHandler manipula requisições do CRUD de tasks
type TaskHandler struct {
	tasks      *service.TaskService
	activities *service.ActivityService
}

// NewTaskHandler cria um novo handler de tasks
func NewTaskHandler(tasks *service.TaskService, activities *service.ActivityService) *TaskHandler {
	return &TaskHandler{
		tasks:      tasks,
		activities: activities,
	}
}

// Create cria uma nova task
// @Summary      Cria task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.CreateTaskRequest true "Dados da task"
// @Success      201 {object} model.Task
// @Failure      400 {object} model.ErrorResponse
// @Router       /api/v1/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req model.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "payload inválido",
			Details: err.Error(),
		})
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}

	logger.AuditResource(c.Request.Context(), logger.AuditActionTaskCreate, "task", task.ID, true)
	c.JSON(http.StatusCreated, task)
}

// Get busca uma task pelo ID
// @Summary      Busca task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID da task"
// @Success      200 {object} model.Task
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/v1/tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.tasks.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// List retorna uma página de tasks com filtros opcionais
// @Summary      Lista tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filtra por status"
// @Param        assignee query string false "Filtra por responsável"
// @Param        tag query string false "Filtra por tag"
// @Param        search query string false "Busca em título e descrição"
// @Param        page query int false "Página (padrão 1)"
// @Param        page_size query int false "Tamanho da página (padrão 20, máximo 100)"
// @Success      200 {object} model.TaskListResponse
// @Router       /api/v1/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	filter := repository.TaskFilter{
		Status:   c.Query("status"),
		Assignee: c.Query("assignee"),
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", service.DefaultPageSize),
	}

	page, err := h.tasks.ListTasks(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Update aplica um patch parcial em uma task
// @Summary      Atualiza task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID da task"
// @Param        request body model.UpdateTaskRequest true "Campos a atualizar"
// @Success      200 {object} model.Task
// @Failure      400 {object} model.ErrorResponse
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/v1/tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	var req model.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "payload inválido",
			Details: err.Error(),
		})
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}

	logger.AuditResource(c.Request.Context(), logger.AuditActionTaskUpdate, "task", task.ID, true)
	c.JSON(http.StatusOK, task)
}

// Delete remove uma task
// @Summary      Remove task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id path string true "ID da task"
// @Success      204
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.tasks.DeleteTask(c.Request.Context(), id, actorFrom(c)); err != nil {
		handleError(c, err)
		return
	}

	logger.AuditResource(c.Request.Context(), logger.AuditActionTaskDelete, "task", id, true)
	c.Status(http.StatusNoContent)
}

// Activities retorna o histórico de atividades da task, mais recente primeiro
// @Summary      Histórico da task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID da task"
// @Success      200 {array} model.Activity
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/v1/tasks/{id}/activities [get]
func (h *TaskHandler) Activities(c *gin.Context) {
	id := c.Param("id")

	// Garante 404 para task inexistente em vez de lista vazia
	if _, err := h.tasks.GetTask(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	activities, err := h.activities.ListActivities(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	if activities == nil {
		activities = []model.Activity{}
	}

	c.JSON(http.StatusOK, activities)
}

// intQuery lê um parâmetro inteiro da query string com valor padrão
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
