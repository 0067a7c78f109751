package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/querocurso/marketplace/models"
	"go.uber.org/zap"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	Endpoint    string

	client *http.Client
	logger *zap.Logger
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

// NewBrevoService returns nil when any credential is missing; a nil
// *BrevoService drops every message.
func NewBrevoService(apiKey, senderEmail, senderName string, logger *zap.Logger) *BrevoService {
	logger = logger.With(zap.String("service", "email_service"))
	if apiKey == "" || senderEmail == "" || senderName == "" {
		logger.Warn("⚠️ Email service not configured. Missing API Key, Sender Email, or Sender Name.")
		return nil
	}
	logger.Info("✅ Email service initialized successfully.", zap.String("sender", senderEmail))
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		Endpoint:    brevoEndpoint,
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

func (s *BrevoService) Send(ctx context.Context, toEmail, toName, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("failed to send email via Brevo: status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

// CertificateIssued emails the student a link to the rendered certificate.
func (s *BrevoService) CertificateIssued(ctx context.Context, cert models.CertificateProjection, url string) {
	if s == nil {
		return
	}
	subject := fmt.Sprintf("Seu certificado do curso %s está disponível", cert.CourseName)
	body := fmt.Sprintf(
		"<h1>Parabéns, %s!</h1><p>Você concluiu o curso <b>%s</b>.</p><p><a href='%s'>Baixar certificado</a></p>",
		html.EscapeString(cert.StudentName),
		html.EscapeString(cert.CourseName),
		html.EscapeString(url),
	)

	if err := s.Send(ctx, cert.StudentEmail, cert.StudentName, subject, body); err != nil {
		s.logger.Error("🔥 Failed to send certificate email",
			zap.String("to", cert.StudentEmail),
			zap.String("certificate_id", cert.CertificateID.String()),
			zap.Error(err))
		return
	}
	s.logger.Info("✅ Certificate email sent", zap.String("to", cert.StudentEmail))
}
