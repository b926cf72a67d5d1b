package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/prepatef/prepatef-api/internal/models"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

type contactLeadRepository interface {
	List(ctx context.Context, filter models.LeadFilter) ([]models.ContactLead, int, error)
	FindByID(ctx context.Context, id string) (*models.ContactLead, error)
	Create(ctx context.Context, lead *models.ContactLead) error
	UpdateStatus(ctx context.Context, id string, status models.ContactLeadStatus) error
	Delete(ctx context.Context, id string) error
}

type demoLeadRepository interface {
	List(ctx context.Context, filter models.LeadFilter) ([]models.DemoRequestLead, int, error)
	FindByID(ctx context.Context, id string) (*models.DemoRequestLead, error)
	Create(ctx context.Context, lead *models.DemoRequestLead) error
	UpdateStatus(ctx context.Context, id string, status models.DemoLeadStatus) error
	Delete(ctx context.Context, id string) error
}

type leadSlotRepository interface {
	FindByID(ctx context.Context, id string) (*models.TimeSlot, error)
}

type leadNotifier interface {
	NotifyContactLead(lead *models.ContactLead)
	NotifyDemoLead(lead *models.DemoRequestLead)
	WhatsAppLink(message string) string
}

// LeadService captures and manages contact and demo-booking leads.
type LeadService struct {
	contacts  contactLeadRepository
	demos     demoLeadRepository
	slots     leadSlotRepository
	notifier  leadNotifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeadService constructs the service.
func NewLeadService(contacts contactLeadRepository, demos demoLeadRepository, slots leadSlotRepository, notifier leadNotifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *LeadService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{
		contacts:  contacts,
		demos:     demos,
		slots:     slots,
		notifier:  notifier,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// CreateContactLeadRequest is the public contact form payload.
type CreateContactLeadRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,min=6"`
	Message string `json:"message" validate:"required,min=10"`
}

// CreateDemoLeadRequest is the public demo booking payload.
type CreateDemoLeadRequest struct {
	Name           string `json:"name" validate:"required,min=2"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required,min=6"`
	CourseInterest string `json:"course_interest" validate:"required,min=2"`
	TimeSlotID     string `json:"time_slot_id" validate:"required"`
}

// LeadListRequest describes filters for admin lead listings.
type LeadListRequest struct {
	Search    string
	Status    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

func leadFilter(req LeadListRequest) models.LeadFilter {
	filter := models.LeadFilter{
		Search:    req.Search,
		Status:    strings.ToUpper(req.Status),
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	return filter
}

// CreateContactLead captures a contact form submission and returns the lead
// alongside a WhatsApp deep link for the client redirect.
func (s *LeadService) CreateContactLead(ctx context.Context, req CreateContactLeadRequest) (*models.ContactLead, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Validation(err, "invalid contact payload")
	}
	lead := &models.ContactLead{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
		Status:  models.ContactLeadStatusNew,
	}
	if err := s.contacts.Create(ctx, lead); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save contact lead")
	}
	s.metrics.RecordLead("contact")
	s.notifier.NotifyContactLead(lead)
	link := s.notifier.WhatsAppLink(fmt.Sprintf("Bonjour, je suis %s. %s", lead.Name, lead.Message))
	return lead, link, nil
}

// CreateDemoLead captures a demo booking. The chosen time slot must exist and
// be active.
func (s *LeadService) CreateDemoLead(ctx context.Context, req CreateDemoLeadRequest) (*models.DemoRequestLead, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Validation(err, "invalid demo booking payload")
	}
	slot, err := s.slots.FindByID(ctx, req.TimeSlotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.WithField("time_slot_id", "time slot not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check time slot")
	}
	if !slot.Active {
		return nil, "", appErrors.WithField("time_slot_id", "time slot is no longer available")
	}
	lead := &models.DemoRequestLead{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		CourseInterest: req.CourseInterest,
		TimeSlotID:     req.TimeSlotID,
		Status:         models.DemoLeadStatusPending,
	}
	if err := s.demos.Create(ctx, lead); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save demo booking")
	}
	s.metrics.RecordLead("demo")
	s.notifier.NotifyDemoLead(lead)
	link := s.notifier.WhatsAppLink(fmt.Sprintf("Bonjour, je suis %s et je souhaite un cours d'essai pour %s.", lead.Name, lead.CourseInterest))
	return lead, link, nil
}

// ListContactLeads returns contact leads with pagination.
func (s *LeadService) ListContactLeads(ctx context.Context, req LeadListRequest) ([]models.ContactLead, *models.Pagination, error) {
	filter := leadFilter(req)
	rows, total, err := s.contacts.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contact leads")
	}
	return rows, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListDemoLeads returns demo bookings with pagination.
func (s *LeadService) ListDemoLeads(ctx context.Context, req LeadListRequest) ([]models.DemoRequestLead, *models.Pagination, error) {
	filter := leadFilter(req)
	rows, total, err := s.demos.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list demo bookings")
	}
	return rows, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// UpdateContactLeadStatusRequest moves a contact lead through follow-up.
type UpdateContactLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=NEW CONTACTED CLOSED"`
}

// UpdateDemoLeadStatusRequest moves a demo booking through its lifecycle.
type UpdateDemoLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED"`
}

// UpdateContactLeadStatus sets the follow-up status of a contact lead.
func (s *LeadService) UpdateContactLeadStatus(ctx context.Context, id string, req UpdateContactLeadStatusRequest) (*models.ContactLead, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid status payload")
	}
	if err := s.contacts.UpdateStatus(ctx, id, models.ContactLeadStatus(req.Status)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contact lead not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update contact lead")
	}
	lead, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload contact lead")
	}
	return lead, nil
}

// UpdateDemoLeadStatus sets the booking status of a demo lead.
func (s *LeadService) UpdateDemoLeadStatus(ctx context.Context, id string, req UpdateDemoLeadStatusRequest) (*models.DemoRequestLead, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid status payload")
	}
	if err := s.demos.UpdateStatus(ctx, id, models.DemoLeadStatus(req.Status)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "demo booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update demo booking")
	}
	lead, err := s.demos.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload demo booking")
	}
	return lead, nil
}

// DeleteContactLead removes a contact lead.
func (s *LeadService) DeleteContactLead(ctx context.Context, id string) error {
	if err := s.contacts.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "contact lead not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete contact lead")
	}
	return nil
}

// DeleteDemoLead removes a demo booking.
func (s *LeadService) DeleteDemoLead(ctx context.Context, id string) error {
	if err := s.demos.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "demo booking not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete demo booking")
	}
	return nil
}
