package handler

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/prepatef/prepatef-api/internal/models"
	"github.com/prepatef/prepatef-api/internal/service"
)

type contactLeadRepoStub struct {
	leads map[string]*models.ContactLead
}

func (s *contactLeadRepoStub) List(ctx context.Context, filter models.LeadFilter) ([]models.ContactLead, int, error) {
	out := []models.ContactLead{}
	for _, lead := range s.leads {
		out = append(out, *lead)
	}
	return out, len(out), nil
}

func (s *contactLeadRepoStub) FindByID(ctx context.Context, id string) (*models.ContactLead, error) {
	lead, ok := s.leads[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *lead
	return &cp, nil
}

func (s *contactLeadRepoStub) Create(ctx context.Context, lead *models.ContactLead) error {
	lead.ID = "lead-1"
	cp := *lead
	s.leads[lead.ID] = &cp
	return nil
}

func (s *contactLeadRepoStub) UpdateStatus(ctx context.Context, id string, status models.ContactLeadStatus) error {
	lead, ok := s.leads[id]
	if !ok {
		return sql.ErrNoRows
	}
	lead.Status = status
	return nil
}

func (s *contactLeadRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.leads[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.leads, id)
	return nil
}

type demoLeadRepoStub struct {
	leads map[string]*models.DemoRequestLead
}

func (s *demoLeadRepoStub) List(ctx context.Context, filter models.LeadFilter) ([]models.DemoRequestLead, int, error) {
	out := []models.DemoRequestLead{}
	for _, lead := range s.leads {
		out = append(out, *lead)
	}
	return out, len(out), nil
}

func (s *demoLeadRepoStub) FindByID(ctx context.Context, id string) (*models.DemoRequestLead, error) {
	lead, ok := s.leads[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *lead
	return &cp, nil
}

func (s *demoLeadRepoStub) Create(ctx context.Context, lead *models.DemoRequestLead) error {
	lead.ID = "demo-1"
	cp := *lead
	s.leads[lead.ID] = &cp
	return nil
}

func (s *demoLeadRepoStub) UpdateStatus(ctx context.Context, id string, status models.DemoLeadStatus) error {
	lead, ok := s.leads[id]
	if !ok {
		return sql.ErrNoRows
	}
	lead.Status = status
	return nil
}

func (s *demoLeadRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.leads[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.leads, id)
	return nil
}

type leadSlotRepoStub struct {
	slots map[string]*models.TimeSlot
}

func (s *leadSlotRepoStub) FindByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	slot, ok := s.slots[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *slot
	return &cp, nil
}

type leadNotifierStub struct{}

func (leadNotifierStub) NotifyContactLead(lead *models.ContactLead)  {}
func (leadNotifierStub) NotifyDemoLead(lead *models.DemoRequestLead) {}
func (leadNotifierStub) WhatsAppLink(message string) string {
	return "https://wa.me/33612345678?text=Bonjour"
}

func buildLeadRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewLeadService(
		&contactLeadRepoStub{leads: map[string]*models.ContactLead{}},
		&demoLeadRepoStub{leads: map[string]*models.DemoRequestLead{}},
		&leadSlotRepoStub{slots: map[string]*models.TimeSlot{
			"slot-1": {ID: "slot-1", Date: "2026-09-07", TimeRange: "18:00-19:00", Capacity: 5, Active: true},
		}},
		leadNotifierStub{}, nil, nil, nil,
	)
	h := NewLeadHandler(svc)

	router := gin.New()
	leads := router.Group("/leads")
	leads.POST("/contact", h.CreateContact)
	leads.POST("/demo", h.CreateDemo)
	return router
}

func TestLeadRoutes(t *testing.T) {
	router := buildLeadRouter()

	t.Run("contact success", func(t *testing.T) {
		payload := `{"name":"Sonia","email":"sonia@example.com","message":"Je souhaite des informations sur la formation TEF."}`
		req, _ := http.NewRequest(http.MethodPost, "/leads/contact", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
		require.Contains(t, resp.Body.String(), `"whatsapp_url"`)
		require.Contains(t, resp.Body.String(), `"status":"NEW"`)
	})

	t.Run("contact message too short", func(t *testing.T) {
		payload := `{"name":"Sonia","email":"sonia@example.com","message":"court"}`
		req, _ := http.NewRequest(http.MethodPost, "/leads/contact", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		require.Contains(t, resp.Body.String(), `"field_errors"`)
		require.Contains(t, resp.Body.String(), `"message"`)
	})

	t.Run("demo success", func(t *testing.T) {
		payload := `{"name":"Karim","email":"karim@example.com","phone":"0612345678","course_interest":"TEF Canada","time_slot_id":"slot-1"}`
		req, _ := http.NewRequest(http.MethodPost, "/leads/demo", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
		require.Contains(t, resp.Body.String(), `"status":"PENDING"`)
	})

	t.Run("demo unknown slot", func(t *testing.T) {
		payload := `{"name":"Karim","email":"karim@example.com","phone":"0612345678","course_interest":"TEF Canada","time_slot_id":"slot-404"}`
		req, _ := http.NewRequest(http.MethodPost, "/leads/demo", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		require.Contains(t, resp.Body.String(), `"time_slot_id"`)
	})

	t.Run("contact invalid body", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/leads/contact", bytes.NewBufferString(`invalid`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
