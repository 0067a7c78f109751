package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/querocurso/marketplace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewBrevoServiceRequiresCredentials(t *testing.T) {
	assert.Nil(t, NewBrevoService("", "no-reply@example.com", "Cursos", zap.NewNop()))
	assert.NotNil(t, NewBrevoService("key", "no-reply@example.com", "Cursos", zap.NewNop()))
}

func TestCertificateIssuedSendsEmail(t *testing.T) {
	var got brevoPayload
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	svc := NewBrevoService("secret", "no-reply@example.com", "Cursos", zap.NewNop())
	svc.Endpoint = srv.URL

	svc.CertificateIssued(context.Background(), models.CertificateProjection{
		CertificateID: uuid.New(),
		StudentName:   "Maria <Souza>",
		StudentEmail:  "maria@example.com",
		CourseName:    "Gestão Escolar",
	}, "https://files.test/cert.pdf")

	assert.Equal(t, "secret", apiKey)
	require.Len(t, got.To, 1)
	assert.Equal(t, "maria@example.com", got.To[0]["email"])
	assert.Contains(t, got.Subject, "Gestão Escolar")
	assert.Contains(t, got.HTMLContent, "Maria &lt;Souza&gt;")
	assert.Contains(t, got.HTMLContent, "https://files.test/cert.pdf")
}

func TestSendRejectsBadRecipient(t *testing.T) {
	svc := NewBrevoService("secret", "no-reply@example.com", "Cursos", zap.NewNop())
	assert.Error(t, svc.Send(context.Background(), "not-an-email", "", "s", "b"))
}

func TestSendReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := NewBrevoService("bad", "no-reply@example.com", "Cursos", zap.NewNop())
	svc.Endpoint = srv.URL
	err := svc.Send(context.Background(), "maria@example.com", "Maria", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNilServiceIsNoop(t *testing.T) {
	var svc *BrevoService
	svc.CertificateIssued(context.Background(), models.CertificateProjection{}, "")
}
