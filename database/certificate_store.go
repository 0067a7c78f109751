package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/querocurso/marketplace/models"
	"gorm.io/gorm"
)

// MaxRenderAttempts is how many failed renders a certificate gets before the
// pending sweep stops picking it up.
const MaxRenderAttempts = 5

type CertificateStore struct {
	db *gorm.DB
}

func NewCertificateStore(db *gorm.DB) *CertificateStore {
	return &CertificateStore{db: db}
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrNotFound
	}
	return uid, nil
}

// GetCertificateWithJoins loads a certificate with its student and course and
// rejects rows whose joins are missing the data needed to render.
func (s *CertificateStore) GetCertificateWithJoins(ctx context.Context, id string) (models.CertificateProjection, error) {
	var proj models.CertificateProjection
	uid, err := parseID(id)
	if err != nil {
		return proj, err
	}

	var cert models.Certificate
	err = s.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		First(&cert, "id = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return proj, ErrNotFound
	}
	if err != nil {
		return proj, err
	}
	return projectCertificate(cert)
}

func projectCertificate(cert models.Certificate) (models.CertificateProjection, error) {
	if cert.Student.ID == uuid.Nil || strings.TrimSpace(cert.Student.FullName) == "" {
		return models.CertificateProjection{}, fmt.Errorf("%w: certificate %s has no student name", ErrMalformedProjection, cert.ID)
	}
	if cert.Course.ID == uuid.Nil || strings.TrimSpace(cert.Course.Name) == "" {
		return models.CertificateProjection{}, fmt.Errorf("%w: certificate %s has no course", ErrMalformedProjection, cert.ID)
	}
	if cert.Course.CertTemplateURL == nil || strings.TrimSpace(*cert.Course.CertTemplateURL) == "" {
		return models.CertificateProjection{}, fmt.Errorf("%w: course %s has no certificate template", ErrMalformedProjection, cert.Course.ID)
	}

	proj := models.CertificateProjection{
		CertificateID: cert.ID,
		StudentID:     cert.StudentID,
		StudentName:   cert.Student.FullName,
		StudentEmail:  cert.Student.Email,
		CourseName:    cert.Course.Name,
		Workload:      cert.Course.Workload,
		IssueDate:     cert.IssueDate,
		TemplateURL:   strings.TrimSpace(*cert.Course.CertTemplateURL),
	}
	if cert.Course.CertSignatureURL != nil {
		proj.SignatureURL = strings.TrimSpace(*cert.Course.CertSignatureURL)
	}
	if cert.Course.CertProfessorName != nil {
		proj.ProfessorName = strings.TrimSpace(*cert.Course.CertProfessorName)
	}
	return proj, nil
}

func (s *CertificateStore) UpdateCertificate(ctx context.Context, id, certificateURL, storagePath string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&models.Certificate{}).
		Where("id = ?", uid).
		Updates(map[string]interface{}{
			"certificate_url":   certificateURL,
			"storage_path":      storagePath,
			"last_render_error": nil,
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CertificateStore) ListExpired(ctx context.Context, now time.Time) ([]models.ExpiredCertificate, error) {
	var certs []models.Certificate
	err := s.db.WithContext(ctx).
		Select("id", "storage_path").
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Find(&certs).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.ExpiredCertificate, 0, len(certs))
	for _, c := range certs {
		out = append(out, models.ExpiredCertificate{ID: c.ID, StoragePath: c.StoragePath})
	}
	return out, nil
}

func (s *CertificateStore) DeleteCertificates(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Certificate{}).Error
}

// RecordRenderFailure bumps the attempt counter and keeps the last error.
func (s *CertificateStore) RecordRenderFailure(ctx context.Context, id, reason string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&models.Certificate{}).
		Where("id = ?", uid).
		Updates(map[string]interface{}{
			"render_attempts":   gorm.Expr("render_attempts + ?", 1),
			"last_render_error": reason,
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPending returns ids of certificates that have never been rendered and
// have attempts left, least-tried first so failing rows cannot starve new ones.
func (s *CertificateStore) ListPending(ctx context.Context, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Certificate{}).
		Where("(certificate_url IS NULL OR certificate_url = '') AND render_attempts < ?", MaxRenderAttempts).
		Order("render_attempts asc").
		Order("created_at asc").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *CertificateStore) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Certificate, error) {
	var certs []models.Certificate
	err := s.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("issue_date desc").
		Find(&certs).Error
	return certs, err
}

// CompleteEnrollment marks the enrollment as concluded and creates its
// pending certificate. Calling it again returns the existing certificate.
func (s *CertificateStore) CompleteEnrollment(ctx context.Context, enrollmentID string, issuedAt time.Time, expiresAt *time.Time) (models.Certificate, error) {
	var cert models.Certificate
	uid, err := parseID(enrollmentID)
	if err != nil {
		return cert, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enrollment models.Enrollment
		err := tx.First(&enrollment, "id = ?", uid).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if enrollment.Status != models.EnrollmentCompleted {
			enrollment.Status = models.EnrollmentCompleted
			enrollment.ProgressPercent = 100
			enrollment.CompletedAt = &issuedAt
			if err := tx.Save(&enrollment).Error; err != nil {
				return err
			}
		}

		err = tx.First(&cert, "enrollment_id = ?", enrollment.ID).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		cert = models.Certificate{
			StudentID:    enrollment.StudentID,
			CourseID:     enrollment.CourseID,
			EnrollmentID: &enrollment.ID,
			IssueDate:    issuedAt,
			ExpiresAt:    expiresAt,
		}
		return tx.Create(&cert).Error
	})
	return cert, err
}
