package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/prepatef/prepatef-api/internal/models"
	"github.com/prepatef/prepatef-api/pkg/config"
	"github.com/prepatef/prepatef-api/pkg/jobs"
)

const (
	jobTypeContactLead = "contact_lead"
	jobTypeDemoLead    = "demo_lead"
	jobTypeEnrollment  = "enrollment"
)

type emailPayload struct {
	Subject string
	Body    string
}

// NotificationService sends staff notification emails for new leads and
// enrollments. Sends happen off the request path through the jobs queue, so a
// slow provider can never delay a form submission.
type NotificationService struct {
	cfg    config.NotificationsConfig
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService constructs the service and its queue. Start must be
// called before leads can be enqueued.
func NewNotificationService(cfg config.NotificationsConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NotificationService{cfg: cfg, logger: logger}
	svc.queue = jobs.NewQueue("notifications", svc.process, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return svc
}

// Start launches the queue workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// NotifyContactLead enqueues a staff email for a new contact submission.
func (s *NotificationService) NotifyContactLead(lead *models.ContactLead) {
	body := fmt.Sprintf("Nouveau message de contact\n\nNom: %s\nEmail: %s\nTelephone: %s\n\n%s",
		lead.Name, lead.Email, lead.Phone, lead.Message)
	s.enqueue(jobTypeContactLead, emailPayload{
		Subject: "Nouveau contact: " + lead.Name,
		Body:    body,
	})
}

// NotifyDemoLead enqueues a staff email for a new demo booking.
func (s *NotificationService) NotifyDemoLead(lead *models.DemoRequestLead) {
	body := fmt.Sprintf("Nouvelle demande de cours d'essai\n\nNom: %s\nEmail: %s\nTelephone: %s\nCours: %s\nCreneau: %s",
		lead.Name, lead.Email, lead.Phone, lead.CourseInterest, lead.TimeSlotID)
	s.enqueue(jobTypeDemoLead, emailPayload{
		Subject: "Cours d'essai: " + lead.Name,
		Body:    body,
	})
}

// NotifyEnrollment enqueues a staff email for a completed public enrollment.
func (s *NotificationService) NotifyEnrollment(student *models.Student, enrollment *models.Enrollment) {
	body := fmt.Sprintf("Nouvelle inscription\n\nNom: %s\nEmail: %s\nTelephone: %s\nFormation: %s",
		student.FullName, student.Email, student.Phone, enrollment.CourseName)
	s.enqueue(jobTypeEnrollment, emailPayload{
		Subject: "Inscription: " + student.FullName,
		Body:    body,
	})
}

// WhatsAppLink builds a wa.me deep link carrying a prefilled message. Returns
// empty when no business number is configured.
func (s *NotificationService) WhatsAppLink(message string) string {
	number := digitsOnly(s.cfg.WhatsAppNumber)
	if number == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "https",
		Host:     "wa.me",
		Path:     "/" + number,
		RawQuery: url.Values{"text": {message}}.Encode(),
	}
	return u.String()
}

func (s *NotificationService) enqueue(jobType string, payload emailPayload) {
	if !s.cfg.Enabled {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobType,
		Payload: payload,
	})
	if err != nil {
		s.logger.Warn("failed to enqueue notification", zap.String("type", jobType), zap.Error(err))
	}
}

func (s *NotificationService) process(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(emailPayload)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("type", job.Type))
		return nil
	}
	return s.sendEmail(payload.Subject, payload.Body)
}

func (s *NotificationService) sendEmail(subject, body string) error {
	if s.cfg.SendgridAPIKey == "" || s.cfg.NotifyEmail == "" {
		s.logger.Debug("notifications not configured, dropping email", zap.String("subject", subject))
		return nil
	}
	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail)
	to := mail.NewEmail("", s.cfg.NotifyEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	resp, err := sendgrid.NewSendClient(s.cfg.SendgridAPIKey).Send(message)
	if err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("send notification email: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
