package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepatef/prepatef-api/internal/models"
	"github.com/prepatef/prepatef-api/pkg/config"
)

type mockExportContacts struct {
	leads []models.ContactLead
}

func (m *mockExportContacts) List(ctx context.Context, filter models.LeadFilter) ([]models.ContactLead, int, error) {
	return m.leads, len(m.leads), nil
}

type mockExportDemos struct {
	leads []models.DemoRequestLead
}

func (m *mockExportDemos) List(ctx context.Context, filter models.LeadFilter) ([]models.DemoRequestLead, int, error) {
	return m.leads, len(m.leads), nil
}

type mockExportEnrollments struct {
	rows []models.EnrollmentDetail
}

func (m *mockExportEnrollments) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	return m.rows, len(m.rows), nil
}

func TestExportLeadsCSV(t *testing.T) {
	submitted := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	contacts := &mockExportContacts{leads: []models.ContactLead{
		{Name: "Sonia", Email: "sonia@example.com", Message: "Infos TEF", Status: models.ContactLeadStatusNew, SubmittedAt: submitted},
	}}
	demos := &mockExportDemos{leads: []models.DemoRequestLead{
		{Name: "Karim", Email: "karim@example.com", CourseInterest: "TEF Canada", Status: models.DemoLeadStatusPending, SubmittedAt: submitted},
	}}
	service := NewExportService(contacts, demos, &mockExportEnrollments{}, config.ExportsConfig{}, nil, nil, nil)

	file, err := service.Generate(context.Background(), ExportKindLeads, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "leads-"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	body := string(file.Payload)
	assert.Contains(t, body, "Type")
	assert.Contains(t, body, "Contact")
	assert.Contains(t, body, "Cours d'essai")
	assert.Contains(t, body, "sonia@example.com")
	assert.Contains(t, body, "karim@example.com")
}

func TestExportEnrollmentsPDF(t *testing.T) {
	rows := &mockExportEnrollments{rows: []models.EnrollmentDetail{
		{
			StudentName:  "Amina Diallo",
			StudentEmail: "amina@example.com",
			Enrollment: models.Enrollment{
				CourseName:    "Formation TEF Intensive",
				PaymentStatus: models.PaymentStatusPaid,
				Status:        models.EnrollmentStatusActive,
				CreatedAt:     time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
			},
		},
	}}
	service := NewExportService(&mockExportContacts{}, &mockExportDemos{}, rows, config.ExportsConfig{}, nil, nil, nil)

	file, err := service.Generate(context.Background(), ExportKindEnrollments, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))
	assert.NotEmpty(t, file.Payload)
	assert.Equal(t, "%PDF", string(file.Payload[:4]))
}

func TestExportUnknownKind(t *testing.T) {
	service := NewExportService(&mockExportContacts{}, &mockExportDemos{}, &mockExportEnrollments{}, config.ExportsConfig{}, nil, nil, nil)

	_, err := service.Generate(context.Background(), "students", ExportFormatCSV)
	require.Error(t, err)
}

func TestExportUnknownFormat(t *testing.T) {
	service := NewExportService(&mockExportContacts{}, &mockExportDemos{}, &mockExportEnrollments{}, config.ExportsConfig{}, nil, nil, nil)

	_, err := service.Generate(context.Background(), ExportKindLeads, "xlsx")
	require.Error(t, err)
}
