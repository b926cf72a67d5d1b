package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/prepatef/prepatef-api/internal/models"
	"github.com/prepatef/prepatef-api/pkg/config"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
	"github.com/prepatef/prepatef-api/pkg/export"
)

// Export kinds and formats accepted by the admin export endpoints.
const (
	ExportKindLeads       = "leads"
	ExportKindEnrollments = "enrollments"

	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type exportContactLeadRepository interface {
	List(ctx context.Context, filter models.LeadFilter) ([]models.ContactLead, int, error)
}

type exportDemoLeadRepository interface {
	List(ctx context.Context, filter models.LeadFilter) ([]models.DemoRequestLead, int, error)
}

type exportEnrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
}

// ExportFile is a rendered export ready for streaming.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders lead and enrollment datasets to CSV or PDF for the
// back office.
type ExportService struct {
	contacts    exportContactLeadRepository
	demos       exportDemoLeadRepository
	enrollments exportEnrollmentRepository
	csv         csvRenderer
	pdf         pdfRenderer
	logger      *zap.Logger
	cfg         config.ExportsConfig
}

// NewExportService constructs an ExportService.
func NewExportService(contacts exportContactLeadRepository, demos exportDemoLeadRepository, enrollments exportEnrollmentRepository, cfg config.ExportsConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 5000
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		contacts:    contacts,
		demos:       demos,
		enrollments: enrollments,
		csv:         csv,
		pdf:         pdf,
		logger:      logger,
		cfg:         cfg,
	}
}

// Generate renders the requested dataset in the requested format.
func (s *ExportService) Generate(ctx context.Context, kind, format string) (*ExportFile, error) {
	var (
		dataset export.Dataset
		title   string
		err     error
	)
	switch kind {
	case ExportKindLeads:
		dataset, err = s.leadsDataset(ctx)
		title = "PrepaTEF - Leads"
	case ExportKindEnrollments:
		dataset, err = s.enrollmentsDataset(ctx)
		title = "PrepaTEF - Inscriptions"
	default:
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown export kind")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build export dataset")
	}

	file := &ExportFile{
		Filename: fmt.Sprintf("%s-%s.%s", kind, time.Now().UTC().Format("20060102"), format),
	}
	switch format {
	case ExportFormatCSV:
		file.ContentType = "text/csv; charset=utf-8"
		file.Payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		file.ContentType = "application/pdf"
		file.Payload, err = s.pdf.Render(dataset, title)
	default:
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown export format")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return file, nil
}

func (s *ExportService) leadsDataset(ctx context.Context) (export.Dataset, error) {
	filter := models.LeadFilter{Page: 1, PageSize: s.cfg.MaxRows}

	contacts, _, err := s.contacts.List(ctx, filter)
	if err != nil {
		return export.Dataset{}, err
	}
	demos, _, err := s.demos.List(ctx, filter)
	if err != nil {
		return export.Dataset{}, err
	}

	dataset := export.Dataset{
		Headers: []string{"Type", "Nom", "Email", "Telephone", "Detail", "Statut", "Recu le"},
		Rows:    make([]map[string]string, 0, len(contacts)+len(demos)),
	}
	for _, lead := range contacts {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Type":      "Contact",
			"Nom":       lead.Name,
			"Email":     lead.Email,
			"Telephone": lead.Phone,
			"Detail":    lead.Message,
			"Statut":    string(lead.Status),
			"Recu le":   lead.SubmittedAt.Format("2006-01-02 15:04"),
		})
	}
	for _, lead := range demos {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Type":      "Cours d'essai",
			"Nom":       lead.Name,
			"Email":     lead.Email,
			"Telephone": lead.Phone,
			"Detail":    lead.CourseInterest,
			"Statut":    string(lead.Status),
			"Recu le":   lead.SubmittedAt.Format("2006-01-02 15:04"),
		})
	}
	return dataset, nil
}

func (s *ExportService) enrollmentsDataset(ctx context.Context) (export.Dataset, error) {
	rows, _, err := s.enrollments.List(ctx, models.EnrollmentFilter{Page: 1, PageSize: s.cfg.MaxRows})
	if err != nil {
		return export.Dataset{}, err
	}

	dataset := export.Dataset{
		Headers: []string{"Etudiant", "Email", "Formation", "Paiement", "Statut", "Inscrit le"},
		Rows:    make([]map[string]string, 0, len(rows)),
	}
	for _, e := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Etudiant":   e.StudentName,
			"Email":      e.StudentEmail,
			"Formation":  e.CourseName,
			"Paiement":   string(e.PaymentStatus),
			"Statut":     string(e.Status),
			"Inscrit le": e.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return dataset, nil
}
