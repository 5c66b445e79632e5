package handler

import (
	"net/http"

	"github.com/cleberrangel/task-tracker-api/internal/logger"
	"github.com/cleberrangel/task-tracker-api/internal/metrics"
	"github.com/cleberrangel/task-tracker-api/internal/service"
	"github.com/gin-gonic/gin"
)

// AIHandler manipula os endpoints de ferramentas inteligentes sobre tasks
type AIHandler struct {
	tasks      *service.TaskService
	activities *service.ActivityService
	estimates  *service.EstimateService
	summaries  *service.SummaryService
	rewrites   *service.RewriteService
}

// NewAIHandler cria um novo handler das ferramentas inteligentes
func NewAIHandler(
	tasks *service.TaskService,
	activities *service.ActivityService,
	estimates *service.EstimateService,
	summaries *service.SummaryService,
	rewrites *service.RewriteService,
) *AIHandler {
	return &AIHandler{
		tasks:      tasks,
		activities: activities,
		estimates:  estimates,
		summaries:  summaries,
		rewrites:   rewrites,
	}
}

// SmartEstimate sugere uma estimativa em pontos baseada em tasks similares
// @Summary      Sugestão de estimativa
// @Tags         ai-tools
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID da task"
// @Success      200 {object} model.EstimateSuggestion
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/v1/tasks/{id}/smart-estimate [get]
func (h *AIHandler) SmartEstimate(c *gin.Context) {
	id := c.Param("id")

	suggestion, err := h.estimates.SuggestEstimate(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	metrics.Get().IncrementEstimateGenerated()
	logger.AuditResource(c.Request.Context(), logger.AuditActionSmartEstimate, "task", id, true)

	c.JSON(http.StatusOK, suggestion)
}

// SmartSummary gera um resumo do ciclo de vida da task
// @Summary      Resumo da task
// @Tags         ai-tools
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID da task"
// @Success      200 {object} model.SummaryResult
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/v1/tasks/{id}/smart-summary [get]
func (h *AIHandler) SmartSummary(c *gin.Context) {
	id := c.Param("id")

	task, err := h.tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	count, err := h.activities.CountActivities(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	result := h.summaries.GenerateSummary(task, count)

	metrics.Get().IncrementSummaryGenerated()
	logger.AuditResource(c.Request.Context(), logger.AuditActionSmartSummary, "task", id, true)

	c.JSON(http.StatusOK, result)
}

// SmartRewrite reescreve a descrição da task em formato de user story
// @Summary      Reescrita da descrição
// @Tags         ai-tools
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID da task"
// @Success      200 {object} model.RewriteResult
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/v1/tasks/{id}/smart-rewrite [post]
func (h *AIHandler) SmartRewrite(c *gin.Context) {
	id := c.Param("id")

	task, err := h.tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	result := h.rewrites.GenerateRewrite(task)

	metrics.Get().IncrementRewriteGenerated()
	logger.AuditResource(c.Request.Context(), logger.AuditActionSmartRewrite, "task", id, true)

	c.JSON(http.StatusOK, result)
}
