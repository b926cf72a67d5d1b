package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepatef/prepatef-api/internal/models"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

type mockContactLeadRepo struct {
	items   map[string]*models.ContactLead
	created []models.ContactLead
}

func (m *mockContactLeadRepo) List(ctx context.Context, filter models.LeadFilter) ([]models.ContactLead, int, error) {
	return nil, 0, nil
}

func (m *mockContactLeadRepo) FindByID(ctx context.Context, id string) (*models.ContactLead, error) {
	if l, ok := m.items[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockContactLeadRepo) Create(ctx context.Context, lead *models.ContactLead) error {
	lead.ID = "contact-1"
	m.created = append(m.created, *lead)
	return nil
}

func (m *mockContactLeadRepo) UpdateStatus(ctx context.Context, id string, status models.ContactLeadStatus) error {
	l, ok := m.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	l.Status = status
	return nil
}

func (m *mockContactLeadRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type mockDemoLeadRepo struct {
	items   map[string]*models.DemoRequestLead
	created []models.DemoRequestLead
}

func (m *mockDemoLeadRepo) List(ctx context.Context, filter models.LeadFilter) ([]models.DemoRequestLead, int, error) {
	return nil, 0, nil
}

func (m *mockDemoLeadRepo) FindByID(ctx context.Context, id string) (*models.DemoRequestLead, error) {
	if l, ok := m.items[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDemoLeadRepo) Create(ctx context.Context, lead *models.DemoRequestLead) error {
	lead.ID = "demo-1"
	m.created = append(m.created, *lead)
	return nil
}

func (m *mockDemoLeadRepo) UpdateStatus(ctx context.Context, id string, status models.DemoLeadStatus) error {
	l, ok := m.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	l.Status = status
	return nil
}

func (m *mockDemoLeadRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type mockSlotLookup struct {
	slots map[string]*models.TimeSlot
}

func (m *mockSlotLookup) FindByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	if s, ok := m.slots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockLeadNotifier struct {
	contacts int
	demos    int
	link     string
}

func (m *mockLeadNotifier) NotifyContactLead(lead *models.ContactLead)  { m.contacts++ }
func (m *mockLeadNotifier) NotifyDemoLead(lead *models.DemoRequestLead) { m.demos++ }
func (m *mockLeadNotifier) WhatsAppLink(message string) string          { return m.link }

func TestCreateContactLead(t *testing.T) {
	contacts := &mockContactLeadRepo{}
	notifier := &mockLeadNotifier{link: "https://wa.me/33612345678?text=bonjour"}
	service := NewLeadService(contacts, &mockDemoLeadRepo{}, &mockSlotLookup{}, notifier, nil, nil, nil)

	lead, link, err := service.CreateContactLead(context.Background(), CreateContactLeadRequest{
		Name:    "Sonia",
		Email:   "sonia@example.com",
		Message: "Je souhaite des informations sur vos formations.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContactLeadStatusNew, lead.Status)
	assert.Equal(t, "https://wa.me/33612345678?text=bonjour", link)
	assert.Equal(t, 1, notifier.contacts)
	assert.Len(t, contacts.created, 1)
}

func TestCreateContactLeadShortMessage(t *testing.T) {
	service := NewLeadService(&mockContactLeadRepo{}, &mockDemoLeadRepo{}, &mockSlotLookup{}, &mockLeadNotifier{}, nil, nil, nil)

	_, _, err := service.CreateContactLead(context.Background(), CreateContactLeadRequest{
		Name:    "Sonia",
		Email:   "sonia@example.com",
		Message: "Infos?",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestCreateDemoLead(t *testing.T) {
	demos := &mockDemoLeadRepo{}
	slots := &mockSlotLookup{slots: map[string]*models.TimeSlot{
		"s1": {ID: "s1", TimeRange: "18:00-19:00", Active: true},
	}}
	notifier := &mockLeadNotifier{link: "https://wa.me/33612345678"}
	service := NewLeadService(&mockContactLeadRepo{}, demos, slots, notifier, nil, nil, nil)

	lead, link, err := service.CreateDemoLead(context.Background(), CreateDemoLeadRequest{
		Name:           "Sonia",
		Email:          "sonia@example.com",
		Phone:          "+33612345678",
		CourseInterest: "TEF Canada",
		TimeSlotID:     "s1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DemoLeadStatusPending, lead.Status)
	assert.NotEmpty(t, link)
	assert.Equal(t, 1, notifier.demos)
	assert.Len(t, demos.created, 1)
}

func TestCreateDemoLeadUnknownSlot(t *testing.T) {
	service := NewLeadService(&mockContactLeadRepo{}, &mockDemoLeadRepo{}, &mockSlotLookup{}, &mockLeadNotifier{}, nil, nil, nil)

	_, _, err := service.CreateDemoLead(context.Background(), CreateDemoLeadRequest{
		Name:           "Sonia",
		Email:          "sonia@example.com",
		Phone:          "+33612345678",
		CourseInterest: "TEF Canada",
		TimeSlotID:     "missing",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Fields, "time_slot_id")
}

func TestCreateDemoLeadInactiveSlot(t *testing.T) {
	slots := &mockSlotLookup{slots: map[string]*models.TimeSlot{
		"s1": {ID: "s1", Active: false},
	}}
	service := NewLeadService(&mockContactLeadRepo{}, &mockDemoLeadRepo{}, slots, &mockLeadNotifier{}, nil, nil, nil)

	_, _, err := service.CreateDemoLead(context.Background(), CreateDemoLeadRequest{
		Name:           "Sonia",
		Email:          "sonia@example.com",
		Phone:          "+33612345678",
		CourseInterest: "TEF Canada",
		TimeSlotID:     "s1",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Fields, "time_slot_id")
}

func TestUpdateContactLeadStatus(t *testing.T) {
	contacts := &mockContactLeadRepo{items: map[string]*models.ContactLead{
		"c1": {ID: "c1", Status: models.ContactLeadStatusNew},
	}}
	service := NewLeadService(contacts, &mockDemoLeadRepo{}, &mockSlotLookup{}, &mockLeadNotifier{}, nil, nil, nil)

	lead, err := service.UpdateContactLeadStatus(context.Background(), "c1", UpdateContactLeadStatusRequest{Status: "CONTACTED"})
	require.NoError(t, err)
	assert.Equal(t, models.ContactLeadStatusContacted, lead.Status)
}

func TestUpdateDemoLeadStatusRejectsUnknownValue(t *testing.T) {
	service := NewLeadService(&mockContactLeadRepo{}, &mockDemoLeadRepo{}, &mockSlotLookup{}, &mockLeadNotifier{}, nil, nil, nil)

	_, err := service.UpdateDemoLeadStatus(context.Background(), "d1", UpdateDemoLeadStatusRequest{Status: "DONE"})
	require.Error(t, err)
}
