package handler

import (
	"net/http"

	"github.com/cleberrangel/task-tracker-api/internal/cache"
	"github.com/cleberrangel/task-tracker-api/internal/logger"
	"github.com/cleberrangel/task-tracker-api/internal/metrics"
	"github.com/cleberrangel/task-tracker-api/internal/model"
	"github.com/cleberrangel/task-tracker-api/internal/repository"
	"github.com/gin-gonic/gin"
)

// tagListCacheKey chave do cache da listagem de tags
const tagListCacheKey = "tags_all"

// TagHandler manipula o CRUD de tags
type TagHandler struct {
	tags  *repository.TagRepository
	cache *cache.Cache
}

// NewTagHandler cria um novo handler de tags
func NewTagHandler(tags *repository.TagRepository, c *cache.Cache) *TagHandler {
	return &TagHandler{
		tags:  tags,
		cache: c,
	}
}

// Create cria uma nova tag
// @Summary      Cria tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.TagRequest true "Nome da tag"
// @Success      201 {object} model.Tag
// @Failure      400 {object} model.ErrorResponse
// @Failure      409 {object} model.ErrorResponse
// @Router       /api/v1/tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	req, ok := h.bindTagRequest(c)
	if !ok {
		return
	}

	tag, err := h.tags.CreateTag(c.Request.Context(), req.Name)
	if err != nil {
		handleError(c, err)
		return
	}

	h.cache.Delete(tagListCacheKey)
	metrics.Get().IncrementTagCreated()
	logger.AuditResource(c.Request.Context(), logger.AuditActionTagCreate, "tag", tag.ID, true)

	c.JSON(http.StatusCreated, tag)
}

// Get busca uma tag pelo ID
// @Summary      Busca tag
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID da tag"
// @Success      200 {object} model.Tag
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/v1/tags/{id} [get]
func (h *TagHandler) Get(c *gin.Context) {
	tag, err := h.tags.GetTag(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tag)
}

// List retorna todas as tags em ordem alfabética
// @Summary      Lista tags
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} model.Tag
// @Router       /api/v1/tags [get]
func (h *TagHandler) List(c *gin.Context) {
	if cached, found := h.cache.Get(tagListCacheKey); found {
		if tags, ok := cached.([]model.Tag); ok {
			metrics.Get().IncrementCacheHit()
			c.JSON(http.StatusOK, tags)
			return
		}
	}
	metrics.Get().IncrementCacheMiss()

	tags, err := h.tags.ListTags(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	if tags == nil {
		tags = []model.Tag{}
	}

	h.cache.Set(tagListCacheKey, tags)
	c.JSON(http.StatusOK, tags)
}

// Update renomeia uma tag
// @Summary      Renomeia tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID da tag"
// @Param        request body model.TagRequest true "Novo nome"
// @Success      200 {object} model.Tag
// @Failure      404 {object} model.ErrorResponse
// @Failure      409 {object} model.ErrorResponse
// @Router       /api/v1/tags/{id} [put]
func (h *TagHandler) Update(c *gin.Context) {
	req, ok := h.bindTagRequest(c)
	if !ok {
		return
	}

	tag, err := h.tags.UpdateTag(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		handleError(c, err)
		return
	}

	h.cache.Delete(tagListCacheKey)
	logger.AuditResource(c.Request.Context(), logger.AuditActionTagUpdate, "tag", tag.ID, true)

	c.JSON(http.StatusOK, tag)
}

// Delete remove uma tag
// @Summary      Remove tag
// @Tags         tags
// @Security     BearerAuth
// @Param        id path string true "ID da tag"
// @Success      204
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/v1/tags/{id} [delete]
func (h *TagHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.tags.DeleteTag(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	h.cache.Delete(tagListCacheKey)
	metrics.Get().IncrementTagDeleted()
	logger.AuditResource(c.Request.Context(), logger.AuditActionTagDelete, "tag", id, true)

	c.Status(http.StatusNoContent)
}

// bindTagRequest decodifica e valida o payload de tag
func (h *TagHandler) bindTagRequest(c *gin.Context) (model.TagRequest, bool) {
	var req model.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "payload inválido",
			Details: err.Error(),
		})
		return req, false
	}

	req.Name = model.NormalizeTagName(req.Name)
	if err := model.ValidateTagName(req.Name); err != nil {
		handleError(c, err)
		return req, false
	}

	return req, true
}
