package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepatef/prepatef-api/internal/service"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
	"github.com/prepatef/prepatef-api/pkg/response"
)

// ReadingPassageHandler handles reading practice endpoints.
type ReadingPassageHandler struct {
	service *service.ReadingPassageService
	grading *service.GradingService
}

// NewReadingPassageHandler constructs a reading passage handler.
func NewReadingPassageHandler(svc *service.ReadingPassageService, grading *service.GradingService) *ReadingPassageHandler {
	return &ReadingPassageHandler{service: svc, grading: grading}
}

// PublicList godoc
// @Summary List reading passages, answers hidden
// @Tags Practice
// @Produce json
// @Param difficulty query string false "Filter by difficulty"
// @Param search query string false "Search keyword"
// @Success 200 {object} response.Envelope
// @Router /practice/reading [get]
func (h *ReadingPassageHandler) PublicList(c *gin.Context) {
	passages, pagination, err := h.service.ListPublic(c.Request.Context(), practiceListRequest(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, passages, pagination)
}

// PublicGet godoc
// @Summary Get a reading passage, answers hidden
// @Tags Practice
// @Produce json
// @Param id path string true "Passage ID"
// @Success 200 {object} response.Envelope
// @Router /practice/reading/{id} [get]
func (h *ReadingPassageHandler) PublicGet(c *gin.Context) {
	passage, err := h.service.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, passage, nil)
}

// Grade godoc
// @Summary Grade a reading quiz submission
// @Tags Practice
// @Accept json
// @Produce json
// @Param id path string true "Passage ID"
// @Param payload body service.GradeRequest true "Selected answers by question id"
// @Success 200 {object} response.Envelope
// @Router /practice/reading/{id}/grade [post]
func (h *ReadingPassageHandler) Grade(c *gin.Context) {
	var req service.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.grading.GradeReading(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List reading passages (back office)
// @Tags Practice Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/practice/reading [get]
func (h *ReadingPassageHandler) List(c *gin.Context) {
	passages, pagination, err := h.service.List(c.Request.Context(), practiceListRequest(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, passages, pagination)
}

// Get godoc
// @Summary Get a reading passage by id (back office)
// @Tags Practice Admin
// @Produce json
// @Param id path string true "Passage ID"
// @Success 200 {object} response.Envelope
// @Router /admin/practice/reading/{id} [get]
func (h *ReadingPassageHandler) Get(c *gin.Context) {
	passage, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, passage, nil)
}

// Create godoc
// @Summary Create a reading passage
// @Tags Practice Admin
// @Accept json
// @Produce json
// @Param payload body service.ReadingPassageRequest true "Passage payload"
// @Success 201 {object} response.Envelope
// @Router /admin/practice/reading [post]
func (h *ReadingPassageHandler) Create(c *gin.Context) {
	var req service.ReadingPassageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	passage, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, passage)
}

// Update godoc
// @Summary Update a reading passage
// @Tags Practice Admin
// @Accept json
// @Produce json
// @Param id path string true "Passage ID"
// @Param payload body service.ReadingPassageRequest true "Passage payload"
// @Success 200 {object} response.Envelope
// @Router /admin/practice/reading/{id} [put]
func (h *ReadingPassageHandler) Update(c *gin.Context) {
	var req service.ReadingPassageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	passage, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, passage, nil)
}

// Delete godoc
// @Summary Delete a reading passage
// @Tags Practice Admin
// @Produce json
// @Param id path string true "Passage ID"
// @Success 204
// @Router /admin/practice/reading/{id} [delete]
func (h *ReadingPassageHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
