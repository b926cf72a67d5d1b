package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepatef/prepatef-api/internal/service"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
	"github.com/prepatef/prepatef-api/pkg/response"
)

// LeadHandler handles contact messages and trial lesson bookings.
type LeadHandler struct {
	service *service.LeadService
}

// NewLeadHandler constructs a lead handler.
func NewLeadHandler(svc *service.LeadService) *LeadHandler {
	return &LeadHandler{service: svc}
}

func leadListRequest(c *gin.Context) service.LeadListRequest {
	params := parsePageParams(c)
	return service.LeadListRequest{
		Search:    searchQuery(c),
		Status:    c.Query("status"),
		Page:      params.Page,
		PageSize:  params.PageSize,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	}
}

// CreateContact godoc
// @Summary Submit a contact message
// @Tags Leads
// @Accept json
// @Produce json
// @Param payload body service.CreateContactLeadRequest true "Contact payload"
// @Success 201 {object} response.Envelope
// @Router /leads/contact [post]
func (h *LeadHandler) CreateContact(c *gin.Context) {
	var req service.CreateContactLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lead, whatsappURL, err := h.service.CreateContactLead(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lead, map[string]interface{}{"whatsapp_url": whatsappURL})
}

// CreateDemo godoc
// @Summary Book a free trial lesson
// @Tags Leads
// @Accept json
// @Produce json
// @Param payload body service.CreateDemoLeadRequest true "Trial lesson payload"
// @Success 201 {object} response.Envelope
// @Router /leads/demo [post]
func (h *LeadHandler) CreateDemo(c *gin.Context) {
	var req service.CreateDemoLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lead, whatsappURL, err := h.service.CreateDemoLead(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lead, map[string]interface{}{"whatsapp_url": whatsappURL})
}

// ListContacts godoc
// @Summary List contact messages (back office)
// @Tags Leads Admin
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search keyword"
// @Success 200 {object} response.Envelope
// @Router /admin/leads/contact [get]
func (h *LeadHandler) ListContacts(c *gin.Context) {
	leads, pagination, err := h.service.ListContactLeads(c.Request.Context(), leadListRequest(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leads, pagination)
}

// ListDemos godoc
// @Summary List trial lesson bookings (back office)
// @Tags Leads Admin
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search keyword"
// @Success 200 {object} response.Envelope
// @Router /admin/leads/demo [get]
func (h *LeadHandler) ListDemos(c *gin.Context) {
	leads, pagination, err := h.service.ListDemoLeads(c.Request.Context(), leadListRequest(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leads, pagination)
}

// UpdateContactStatus godoc
// @Summary Update a contact message status
// @Tags Leads Admin
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param payload body service.UpdateContactLeadStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /admin/leads/contact/{id}/status [patch]
func (h *LeadHandler) UpdateContactStatus(c *gin.Context) {
	var req service.UpdateContactLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lead, err := h.service.UpdateContactLeadStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lead, nil)
}

// UpdateDemoStatus godoc
// @Summary Update a trial lesson booking status
// @Tags Leads Admin
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param payload body service.UpdateDemoLeadStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /admin/leads/demo/{id}/status [patch]
func (h *LeadHandler) UpdateDemoStatus(c *gin.Context) {
	var req service.UpdateDemoLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lead, err := h.service.UpdateDemoLeadStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lead, nil)
}

// DeleteContact godoc
// @Summary Delete a contact message
// @Tags Leads Admin
// @Produce json
// @Param id path string true "Lead ID"
// @Success 204
// @Router /admin/leads/contact/{id} [delete]
func (h *LeadHandler) DeleteContact(c *gin.Context) {
	if err := h.service.DeleteContactLead(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteDemo godoc
// @Summary Delete a trial lesson booking
// @Tags Leads Admin
// @Produce json
// @Param id path string true "Lead ID"
// @Success 204
// @Router /admin/leads/demo/{id} [delete]
func (h *LeadHandler) DeleteDemo(c *gin.Context) {
	if err := h.service.DeleteDemoLead(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
