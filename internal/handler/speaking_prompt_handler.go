package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepatef/prepatef-api/internal/service"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
	"github.com/prepatef/prepatef-api/pkg/response"
)

// SpeakingPromptHandler handles speaking practice endpoints.
type SpeakingPromptHandler struct {
	service    *service.SpeakingPromptService
	assessment *service.AssessmentService
}

// NewSpeakingPromptHandler constructs a speaking prompt handler.
func NewSpeakingPromptHandler(svc *service.SpeakingPromptService, assessment *service.AssessmentService) *SpeakingPromptHandler {
	return &SpeakingPromptHandler{service: svc, assessment: assessment}
}

func practiceListRequest(c *gin.Context) service.PracticeListRequest {
	params := parsePageParams(c)
	return service.PracticeListRequest{
		Search:     searchQuery(c),
		Difficulty: c.Query("difficulty"),
		Page:       params.Page,
		PageSize:   params.PageSize,
		SortBy:     params.SortBy,
		SortOrder:  params.SortOrder,
	}
}

// PublicList godoc
// @Summary List speaking prompts
// @Tags Practice
// @Produce json
// @Param difficulty query string false "Filter by difficulty"
// @Param search query string false "Search keyword"
// @Success 200 {object} response.Envelope
// @Router /practice/speaking [get]
func (h *SpeakingPromptHandler) PublicList(c *gin.Context) {
	prompts, pagination, err := h.service.List(c.Request.Context(), practiceListRequest(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prompts, pagination)
}

// PublicGet godoc
// @Summary Get a speaking prompt
// @Tags Practice
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} response.Envelope
// @Router /practice/speaking/{id} [get]
func (h *SpeakingPromptHandler) PublicGet(c *gin.Context) {
	prompt, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prompt, nil)
}

// Assess godoc
// @Summary Submit a spoken response for AI evaluation
// @Tags Practice
// @Accept json
// @Produce json
// @Param id path string true "Prompt ID"
// @Param payload body service.AssessSpeakingRequest true "Recorded response"
// @Success 200 {object} response.Envelope
// @Router /practice/speaking/{id}/assess [post]
func (h *SpeakingPromptHandler) Assess(c *gin.Context) {
	var req service.AssessSpeakingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.assessment.AssessSpeaking(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List speaking prompts (back office)
// @Tags Practice Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/practice/speaking [get]
func (h *SpeakingPromptHandler) List(c *gin.Context) {
	prompts, pagination, err := h.service.List(c.Request.Context(), practiceListRequest(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prompts, pagination)
}

// Get godoc
// @Summary Get a speaking prompt by id (back office)
// @Tags Practice Admin
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} response.Envelope
// @Router /admin/practice/speaking/{id} [get]
func (h *SpeakingPromptHandler) Get(c *gin.Context) {
	prompt, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prompt, nil)
}

// Create godoc
// @Summary Create a speaking prompt
// @Tags Practice Admin
// @Accept json
// @Produce json
// @Param payload body service.SpeakingPromptRequest true "Prompt payload"
// @Success 201 {object} response.Envelope
// @Router /admin/practice/speaking [post]
func (h *SpeakingPromptHandler) Create(c *gin.Context) {
	var req service.SpeakingPromptRequest
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
// @Summary Update a speaking prompt
// @Tags Practice Admin
// @Accept json
// @Produce json
// @Param id path string true "Prompt ID"
// @Param payload body service.SpeakingPromptRequest true "Prompt payload"
// @Success 200 {object} response.Envelope
// @Router /admin/practice/speaking/{id} [put]
func (h *SpeakingPromptHandler) Update(c *gin.Context) {
	var req service.SpeakingPromptRequest
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
// @Summary Delete a speaking prompt
// @Tags Practice Admin
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 204
// @Router /admin/practice/speaking/{id} [delete]
func (h *SpeakingPromptHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
