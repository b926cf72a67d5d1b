package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepatef/prepatef-api/internal/service"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
	"github.com/prepatef/prepatef-api/pkg/response"
)

// ListeningAudioHandler handles listening practice endpoints, including
// audio upload for the back office.
type ListeningAudioHandler struct {
	service    *service.ListeningAudioService
	grading    *service.GradingService
	assessment *service.AssessmentService
}

// NewListeningAudioHandler constructs a listening audio handler.
func NewListeningAudioHandler(svc *service.ListeningAudioService, grading *service.GradingService, assessment *service.AssessmentService) *ListeningAudioHandler {
	return &ListeningAudioHandler{service: svc, grading: grading, assessment: assessment}
}

// PublicList godoc
// @Summary List listening exercises, answers hidden
// @Tags Practice
// @Produce json
// @Param difficulty query string false "Filter by difficulty"
// @Param search query string false "Search keyword"
// @Success 200 {object} response.Envelope
// @Router /practice/listening [get]
func (h *ListeningAudioHandler) PublicList(c *gin.Context) {
	audios, pagination, err := h.service.ListPublic(c.Request.Context(), practiceListRequest(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, audios, pagination)
}

// PublicGet godoc
// @Summary Get a listening exercise, answers hidden
// @Tags Practice
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 200 {object} response.Envelope
// @Router /practice/listening/{id} [get]
func (h *ListeningAudioHandler) PublicGet(c *gin.Context) {
	audio, err := h.service.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, audio, nil)
}

// Grade godoc
// @Summary Grade a listening quiz submission
// @Tags Practice
// @Accept json
// @Produce json
// @Param id path string true "Exercise ID"
// @Param payload body service.GradeRequest true "Selected answers by question id"
// @Success 200 {object} response.Envelope
// @Router /practice/listening/{id}/grade [post]
func (h *ListeningAudioHandler) Grade(c *gin.Context) {
	var req service.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.grading.GradeListening(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Assess godoc
// @Summary Submit a free-form listening answer for AI assessment
// @Tags Practice
// @Accept json
// @Produce json
// @Param id path string true "Exercise ID"
// @Param payload body service.AssessListeningRequest true "Written answer"
// @Success 200 {object} response.Envelope
// @Router /practice/listening/{id}/assess [post]
func (h *ListeningAudioHandler) Assess(c *gin.Context) {
	var req service.AssessListeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.assessment.AssessListening(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List listening exercises (back office)
// @Tags Practice Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/practice/listening [get]
func (h *ListeningAudioHandler) List(c *gin.Context) {
	audios, pagination, err := h.service.List(c.Request.Context(), practiceListRequest(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, audios, pagination)
}

// Get godoc
// @Summary Get a listening exercise by id (back office)
// @Tags Practice Admin
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 200 {object} response.Envelope
// @Router /admin/practice/listening/{id} [get]
func (h *ListeningAudioHandler) Get(c *gin.Context) {
	audio, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, audio, nil)
}

// Create godoc
// @Summary Create a listening exercise
// @Tags Practice Admin
// @Accept json
// @Produce json
// @Param payload body service.ListeningAudioRequest true "Exercise payload"
// @Success 201 {object} response.Envelope
// @Router /admin/practice/listening [post]
func (h *ListeningAudioHandler) Create(c *gin.Context) {
	var req service.ListeningAudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	audio, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, audio)
}

// Update godoc
// @Summary Update a listening exercise
// @Tags Practice Admin
// @Accept json
// @Produce json
// @Param id path string true "Exercise ID"
// @Param payload body service.ListeningAudioRequest true "Exercise payload"
// @Success 200 {object} response.Envelope
// @Router /admin/practice/listening/{id} [put]
func (h *ListeningAudioHandler) Update(c *gin.Context) {
	var req service.ListeningAudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	audio, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, audio, nil)
}

// UploadAudio godoc
// @Summary Attach an audio file to a listening exercise
// @Tags Practice Admin
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Exercise ID"
// @Param file formData file true "Audio file"
// @Success 200 {object} response.Envelope
// @Router /admin/practice/listening/{id}/audio [post]
func (h *ListeningAudioHandler) UploadAudio(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "audio file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unable to read uploaded file"))
		return
	}
	defer src.Close()

	audio, err := h.service.UploadAudio(c.Request.Context(), c.Param("id"), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, audio, nil)
}

// Delete godoc
// @Summary Delete a listening exercise and its audio file
// @Tags Practice Admin
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 204
// @Router /admin/practice/listening/{id} [delete]
func (h *ListeningAudioHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
