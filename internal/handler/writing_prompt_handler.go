package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepatef/prepatef-api/internal/service"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
	"github.com/prepatef/prepatef-api/pkg/response"
)

// WritingPromptHandler handles writing practice endpoints.
type WritingPromptHandler struct {
	service    *service.WritingPromptService
	assessment *service.AssessmentService
}

// NewWritingPromptHandler constructs a writing prompt handler.
func NewWritingPromptHandler(svc *service.WritingPromptService, assessment *service.AssessmentService) *WritingPromptHandler {
	return &WritingPromptHandler{service: svc, assessment: assessment}
}

// PublicList godoc
// @Summary List writing prompts
// @Tags Practice
// @Produce json
// @Param difficulty query string false "Filter by difficulty"
// @Param search query string false "Search keyword"
// @Success 200 {object} response.Envelope
// @Router /practice/writing [get]
func (h *WritingPromptHandler) PublicList(c *gin.Context) {
	prompts, pagination, err := h.service.List(c.Request.Context(), practiceListRequest(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prompts, pagination)
}

// PublicGet godoc
// @Summary Get a writing prompt
// @Tags Practice
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} response.Envelope
// @Router /practice/writing/{id} [get]
func (h *WritingPromptHandler) PublicGet(c *gin.Context) {
	prompt, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prompt, nil)
}

// Assess godoc
// @Summary Submit a written response for AI evaluation
// @Tags Practice
// @Accept json
// @Produce json
// @Param id path string true "Prompt ID"
// @Param payload body service.AssessWritingRequest true "Written response"
// @Success 200 {object} response.Envelope
// @Router /practice/writing/{id}/assess [post]
func (h *WritingPromptHandler) Assess(c *gin.Context) {
	var req service.AssessWritingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.assessment.AssessWriting(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List writing prompts (back office)
// @Tags Practice Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/practice/writing [get]
func (h *WritingPromptHandler) List(c *gin.Context) {
	prompts, pagination, err := h.service.List(c.Request.Context(), practiceListRequest(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prompts, pagination)
}

// Get godoc
// @Summary Get a writing prompt by id (back office)
// @Tags Practice Admin
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} response.Envelope
// @Router /admin/practice/writing/{id} [get]
func (h *WritingPromptHandler) Get(c *gin.Context) {
	prompt, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prompt, nil)
}

// Create godoc
// @Summary Create a writing prompt
// @Tags Practice Admin
// @Accept json
// @Produce json
// @Param payload body service.WritingPromptRequest true "Prompt payload"
// @Success 201 {object} response.Envelope
// @Router /admin/practice/writing [post]
func (h *WritingPromptHandler) Create(c *gin.Context) {
	var req service.WritingPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	prompt, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, prompt)
}

// Update godoc
// @Summary Update a writing prompt
// @Tags Practice Admin
// @Accept json
// @Produce json
// @Param id path string true "Prompt ID"
// @Param payload body service.WritingPromptRequest true "Prompt payload"
// @Success 200 {object} response.Envelope
// @Router /admin/practice/writing/{id} [put]
func (h *WritingPromptHandler) Update(c *gin.Context) {
	var req service.WritingPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	prompt, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prompt, nil)
}

// Delete godoc
// @Summary Delete a writing prompt
// @Tags Practice Admin
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 204
// @Router /admin/practice/writing/{id} [delete]
func (h *WritingPromptHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
