package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/querocurso/marketplace/models"
	"github.com/querocurso/marketplace/ranking"
	"github.com/querocurso/marketplace/services"
	"github.com/querocurso/marketplace/storage"
	"github.com/querocurso/marketplace/websocket"
	"go.uber.org/zap"
)

var validate = validator.New()

type CourseService interface {
	Catalog(ctx context.Context) ([]services.CatalogEntry, error)
	Course(ctx context.Context, id string) (services.CatalogEntry, error)
	Ranking(ctx context.Context, key ranking.SortKey) ([]ranking.Ranked[models.Course], error)
	CreateCourse(ctx context.Context, course *models.Course) error
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id string) error
	Settings(ctx context.Context) (models.Setting, error)
	UpdateSettings(ctx context.Context, setting models.Setting) (models.Setting, error)
}

type CertificateService interface {
	Render(ctx context.Context, certificateID string) (string, error)
	CompleteEnrollment(ctx context.Context, enrollmentID string) (models.Certificate, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]models.Certificate, error)
	CleanupExpired(ctx context.Context) (services.CleanupResult, error)
}

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

type UploadSigner interface {
	SignUpload(folder string, now time.Time) (storage.UploadSignature, error)
}

// Handler carries the dependencies every route needs.
type Handler struct {
	Courses      CourseService
	Certificates CertificateService
	Users        UserFinder
	// Signer is nil when uploads go to in-memory storage.
	Signer       UploadSigner
	Hub          *websocket.Hub
	JWTSecret    string
	UploadFolder string
	Now          func() time.Time
	Logger       *zap.Logger
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
