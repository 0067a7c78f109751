package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/querocurso/marketplace/ranking"
)

type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Presentation string    `gorm:"type:text" json:"presentation"`
	Thumbnail    string    `gorm:"type:text" json:"thumbnail"`
	Professors   []string  `gorm:"serializer:json" json:"professors"`
	City         string    `gorm:"size:120" json:"city"`
	// Start date as DD/MM/YYYY, the format the catalog has always stored.
	Date               string `gorm:"size:10" json:"date"`
	TotalVacancies     int    `gorm:"not null;default:0" json:"total_vacancies"`
	RemainingVacancies int    `gorm:"not null;default:0" json:"remaining_vacancies"`
	IsVip              bool   `gorm:"default:false" json:"is_vip"`

	RegistrationFee      float64 `gorm:"type:numeric(10,2);default:0" json:"registration_fee"`
	RegistrationDeadline string  `gorm:"size:10" json:"registration_deadline"`
	Workload             string  `gorm:"size:100" json:"workload"`
	ClassPeriod          string  `gorm:"size:255" json:"class_period"`
	TargetAudience       string  `gorm:"type:text" json:"target_audience"`
	Objectives           string  `gorm:"type:text" json:"objectives"`
	// Sections as [{"title": ..., "topics": [...]}], passed through as-is.
	ProgramContent   datatypes.JSON `json:"program_content"`
	PriceCash        float64        `gorm:"type:numeric(10,2);default:0" json:"price_cash"`
	FullPrice        float64        `gorm:"type:numeric(10,2);default:0" json:"full_price"`
	InstallmentsText string         `gorm:"size:100" json:"installments_text"`

	CertTemplateURL   *string `gorm:"type:text" json:"cert_template_url"`
	CertSignatureURL  *string `gorm:"type:text" json:"cert_signature_url"`
	CertProfessorName *string `gorm:"size:255" json:"cert_professor_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Snapshot projects the fields the ranking engine reads.
func (c Course) Snapshot() ranking.Course {
	return ranking.Course{
		ID:                 c.ID.String(),
		TotalVacancies:     c.TotalVacancies,
		RemainingVacancies: c.RemainingVacancies,
		Date:               c.Date,
		IsVip:              c.IsVip,
	}
}
