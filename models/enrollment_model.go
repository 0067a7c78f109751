package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EnrollmentEnrolled  = "inscrito"
	EnrollmentCompleted = "concluido"
)

type Enrollment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	CourseID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	Status          string     `gorm:"size:20;not null;default:'inscrito'" json:"status"`
	ProgressPercent int        `gorm:"default:0" json:"progress_percent"`
	EnrolledAt      time.Time  `gorm:"autoCreateTime" json:"enrolled_at"`
	CompletedAt     *time.Time `json:"completed_at"`

	Student User   `gorm:"foreignKey:StudentID" json:"-"`
	Course  Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
