package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepatef/prepatef-api/internal/service"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
	"github.com/prepatef/prepatef-api/pkg/response"
)

// TaxonomyHandler handles blog category and tag endpoints.
type TaxonomyHandler struct {
	service *service.TaxonomyService
}

// NewTaxonomyHandler constructs a taxonomy handler.
func NewTaxonomyHandler(svc *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: svc}
}

// ListCategories godoc
// @Summary List blog categories
// @Tags Taxonomy
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /blog/categories [get]
func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// CreateCategory godoc
// @Summary Create a blog category
// @Tags Taxonomy
// @Accept json
// @Produce json
// @Param payload body service.TaxonomyRequest true "Category payload"
// @Success 201 {object} response.Envelope
// @Router /admin/blog/categories [post]
func (h *TaxonomyHandler) CreateCategory(c *gin.Context) {
	var req service.TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

// UpdateCategory godoc
// @Summary Update a blog category
// @Tags Taxonomy
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param payload body service.TaxonomyRequest true "Category payload"
// @Success 200 {object} response.Envelope
// @Router /admin/blog/categories/{id} [put]
func (h *TaxonomyHandler) UpdateCategory(c *gin.Context) {
	var req service.TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	category, err := h.service.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, category, nil)
}

// DeleteCategory godoc
// @Summary Delete a blog category
// @Tags Taxonomy
// @Produce json
// @Param id path string true "Category ID"
// @Success 204
// @Router /admin/blog/categories/{id} [delete]
func (h *TaxonomyHandler) DeleteCategory(c *gin.Context) {
	if err := h.service.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListTags godoc
// @Summary List blog tags
// @Tags Taxonomy
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /blog/tags [get]
func (h *TaxonomyHandler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tags, nil)
}

// CreateTag godoc
// @Summary Create a blog tag
// @Tags Taxonomy
// @Accept json
// @Produce json
// @Param payload body service.TaxonomyRequest true "Tag payload"
// @Success 201 {object} response.Envelope
// @Router /admin/blog/tags [post]
func (h *TaxonomyHandler) CreateTag(c *gin.Context) {
	var req service.TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	tag, err := h.service.CreateTag(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tag)
}

// UpdateTag godoc
// @Summary Update a blog tag
// @Tags Taxonomy
// @Accept json
// @Produce json
// @Param id path string true "Tag ID"
// @Param payload body service.TaxonomyRequest true "Tag payload"
// @Success 200 {object} response.Envelope
// @Router /admin/blog/tags/{id} [put]
func (h *TaxonomyHandler) UpdateTag(c *gin.Context) {
	var req service.TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	tag, err := h.service.UpdateTag(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tag, nil)
}

// DeleteTag godoc
// @Summary Delete a blog tag
// @Tags Taxonomy
// @Produce json
// @Param id path string true "Tag ID"
// @Success 204
// @Router /admin/blog/tags/{id} [delete]
func (h *TaxonomyHandler) DeleteTag(c *gin.Context) {
	if err := h.service.DeleteTag(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
