package handler

import (
	"errors"
	"net/http"

	"github.com/cleberrangel/task-tracker-api/internal/logger"
	"github.com/cleberrangel/task-tracker-api/internal/model"
	"github.com/gin-gonic/gin"
)

// validationErrors agrupa os erros de regra de negócio que viram 400
var validationErrors = []error{
	model.ErrTitleRequired,
	model.ErrTitleTooShort,
	model.ErrTitleTooLong,
	model.ErrInvalidStatus,
	model.ErrEstimateNegative,
	model.ErrEstimateTooLarge,
	model.ErrDoneWithoutEstimate,
	model.ErrInvalidTagName,
}

// handleError mapeia erros de domínio para o status HTTP apropriado
func handleError(c *gin.Context, err error) {
	log := logger.Get(c.Request.Context())

	switch {
	case errors.Is(err, model.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Error:   "task não encontrada",
		})

	case errors.Is(err, model.ErrTagNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Error:   "tag não encontrada",
		})

	case errors.Is(err, model.ErrTagConflict):
		c.JSON(http.StatusConflict, model.ErrorResponse{
			Success: false,
			Error:   "já existe uma tag com esse nome",
		})

	case isValidationError(err):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "dados inválidos",
			Details: err.Error(),
		})

	default:
		log.Error().Err(err).Msg("Erro interno")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro interno",
			Details: err.Error(),
		})
	}
}

// isValidationError verifica se o erro pertence ao conjunto de validação
func isValidationError(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// actorFrom extrai o ator da mutação: usuário autenticado ou o token de API
func actorFrom(c *gin.Context) string {
	if username, exists := c.Get("username"); exists {
		if s, ok := username.(string); ok && s != "" {
			return s
		}
	}
	return "api"
}
