package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepatef/prepatef-api/internal/service"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
	"github.com/prepatef/prepatef-api/pkg/response"
)

// ClassSessionHandler handles class session reports and their review.
type ClassSessionHandler struct {
	service *service.ClassSessionService
}

// NewClassSessionHandler constructs a class session handler.
func NewClassSessionHandler(svc *service.ClassSessionService) *ClassSessionHandler {
	return &ClassSessionHandler{service: svc}
}

// List godoc
// @Summary List class sessions
// @Tags Class Sessions
// @Produce json
// @Param teacher_id query string false "Filter by teacher"
// @Param status query string false "Filter by review status"
// @Param date_from query string false "Sessions on or after this date (YYYY-MM-DD)"
// @Param date_to query string false "Sessions on or before this date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /admin/sessions [get]
func (h *ClassSessionHandler) List(c *gin.Context) {
	params := parsePageParams(c)
	sessions, pagination, err := h.service.List(c.Request.Context(), service.ClassSessionListRequest{
		TeacherID: c.Query("teacher_id"),
		Status:    c.Query("status"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		Page:      params.Page,
		PageSize:  params.PageSize,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, pagination)
}

// Get godoc
// @Summary Get a class session by id
// @Tags Class Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /admin/sessions/{id} [get]
func (h *ClassSessionHandler) Get(c *gin.Context) {
	session, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Create godoc
// @Summary Report a class session
// @Tags Class Sessions
// @Accept json
// @Produce json
// @Param payload body service.ClassSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Router /admin/sessions [post]
func (h *ClassSessionHandler) Create(c *gin.Context) {
	var req service.ClassSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Update godoc
// @Summary Update a pending class session
// @Tags Class Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body service.ClassSessionRequest true "Session payload"
// @Success 200 {object} response.Envelope
// @Router /admin/sessions/{id} [put]
func (h *ClassSessionHandler) Update(c *gin.Context) {
	var req service.ClassSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Review godoc
// @Summary Approve or reject a pending class session
// @Tags Class Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body service.ReviewSessionRequest true "Review decision"
// @Success 200 {object} response.Envelope
// @Router /admin/sessions/{id}/review [patch]
func (h *ClassSessionHandler) Review(c *gin.Context) {
	var req service.ReviewSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.service.Review(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Delete godoc
// @Summary Delete a class session
// @Tags Class Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 204
// @Router /admin/sessions/{id} [delete]
func (h *ClassSessionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
