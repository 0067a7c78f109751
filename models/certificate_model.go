package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Certificate struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	CourseID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	EnrollmentID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"enrollment_id"`
	IssueDate    time.Time  `gorm:"not null" json:"issue_date"`
	ExpiresAt    *time.Time `gorm:"index" json:"expires_at"`

	// Populated once the PDF has been rendered and uploaded.
	CertificateURL *string `gorm:"type:text" json:"certificate_url"`
	StoragePath    *string `gorm:"type:text" json:"storage_path"`

	RenderAttempts  int     `gorm:"not null;default:0" json:"-"`
	LastRenderError *string `gorm:"type:text" json:"-"`

	Student User   `gorm:"foreignKey:StudentID" json:"-"`
	Course  Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c Certificate) Rendered() bool {
	return c.CertificateURL != nil && *c.CertificateURL != ""
}

// CertificateProjection is the certificate joined with the student and course
// fields needed to draw it. Built and checked at the persistence boundary.
type CertificateProjection struct {
	CertificateID uuid.UUID
	StudentID     uuid.UUID
	StudentName   string
	StudentEmail  string
	CourseName    string
	Workload      string
	IssueDate     time.Time
	TemplateURL   string
	SignatureURL  string
	ProfessorName string
}

// ExpiredCertificate is what the cleanup sweep needs to delete one artifact.
type ExpiredCertificate struct {
	ID          uuid.UUID
	StoragePath *string
}
