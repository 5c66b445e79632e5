package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cleberrangel/task-tracker-api/internal/logger"
	"github.com/cleberrangel/task-tracker-api/internal/metrics"
	"github.com/cleberrangel/task-tracker-api/internal/model"
	"github.com/cleberrangel/task-tracker-api/internal/repository"
	"github.com/cleberrangel/task-tracker-api/internal/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler manipula a exportação de relatórios de tasks
type ReportHandler struct {
	tasks  *repository.TaskRepository
	export *service.ExportService
}

// NewReportHandler cria um novo handler de relatórios
func NewReportHandler(tasks *repository.TaskRepository, export *service.ExportService) *ReportHandler {
	return &ReportHandler{
		tasks:  tasks,
		export: export,
	}
}

// ExportTasks gera um relatório Excel das tasks
// @Summary      Exporta relatório Excel
// @Description  Gera um arquivo xlsx com as tasks, aceitando os mesmos filtros da listagem
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        status query string false "Filtra por status"
// @Param        assignee query string false "Filtra por responsável"
// @Param        tag query string false "Filtra por tag"
// @Success      200 {file} binary "Arquivo Excel"
// @Failure      500 {object} model.ErrorResponse
// @Router       /api/v1/reports/tasks [get]
func (h *ReportHandler) ExportTasks(c *gin.Context) {
	log := logger.Get(c.Request.Context())

	filter := repository.TaskFilter{
		Status:   c.Query("status"),
		Assignee: c.Query("assignee"),
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
		Page:     1,
		PageSize: service.MaxPageSize,
	}

	// Percorre todas as páginas para exportar o conjunto completo
	var all []model.Task
	for {
		tasks, total, err := h.tasks.ListTasksPage(c.Request.Context(), filter)
		if err != nil {
			metrics.Get().IncrementReportGenerated(false)
			handleError(c, err)
			return
		}
		all = append(all, tasks...)
		if len(all) >= total || len(tasks) == 0 {
			break
		}
		filter.Page++
	}

	buf, err := h.export.ExportTasks(all)
	if err != nil {
		metrics.Get().IncrementReportGenerated(false)
		handleError(c, err)
		return
	}

	metrics.Get().IncrementReportGenerated(true)
	logger.AuditResource(c.Request.Context(), logger.AuditActionReportExport, "report", "tasks", true)
	log.Info().Int("tasks", len(all)).Msg("Relatório de tasks gerado")

	filename := fmt.Sprintf("tasks_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Header("X-Total-Tasks", fmt.Sprintf("%d", len(all)))

	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
