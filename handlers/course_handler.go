package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/querocurso/marketplace/models"
	"github.com/querocurso/marketplace/ranking"
	"gorm.io/datatypes"
)

type CourseRequest struct {
	Name                 string         `json:"name" validate:"required,min=3"`
	Presentation         string         `json:"presentation"`
	Thumbnail            string         `json:"thumbnail" validate:"omitempty,url"`
	Professors           []string       `json:"professors"`
	City                 string         `json:"city"`
	Date                 string         `json:"date" validate:"omitempty,len=10"`
	TotalVacancies       int            `json:"total_vacancies" validate:"gte=0"`
	RemainingVacancies   int            `json:"remaining_vacancies" validate:"gte=0"`
	IsVip                bool           `json:"is_vip"`
	RegistrationFee      float64        `json:"registration_fee" validate:"gte=0"`
	RegistrationDeadline string         `json:"registration_deadline" validate:"omitempty,len=10"`
	Workload             string         `json:"workload"`
	ClassPeriod          string         `json:"class_period"`
	TargetAudience       string         `json:"target_audience"`
	Objectives           string         `json:"objectives"`
	ProgramContent       datatypes.JSON `json:"program_content"`
	PriceCash            float64        `json:"price_cash" validate:"gte=0"`
	FullPrice            float64        `json:"full_price" validate:"gte=0"`
	InstallmentsText     string         `json:"installments_text"`
	CertTemplateURL      *string        `json:"cert_template_url" validate:"omitempty,url"`
	CertSignatureURL     *string        `json:"cert_signature_url" validate:"omitempty,url"`
	CertProfessorName    *string        `json:"cert_professor_name"`
}

func (r CourseRequest) toModel() models.Course {
	return models.Course{
		Name:                 r.Name,
		Presentation:         r.Presentation,
		Thumbnail:            r.Thumbnail,
		Professors:           r.Professors,
		City:                 r.City,
		Date:                 r.Date,
		TotalVacancies:       r.TotalVacancies,
		RemainingVacancies:   r.RemainingVacancies,
		IsVip:                r.IsVip,
		RegistrationFee:      r.RegistrationFee,
		RegistrationDeadline: r.RegistrationDeadline,
		Workload:             r.Workload,
		ClassPeriod:          r.ClassPeriod,
		TargetAudience:       r.TargetAudience,
		Objectives:           r.Objectives,
		ProgramContent:       r.ProgramContent,
		PriceCash:            r.PriceCash,
		FullPrice:            r.FullPrice,
		InstallmentsText:     r.InstallmentsText,
		CertTemplateURL:      r.CertTemplateURL,
		CertSignatureURL:     r.CertSignatureURL,
		CertProfessorName:    r.CertProfessorName,
	}
}

func parseCourseRequest(c *fiber.Ctx) (CourseRequest, error) {
	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return req, nil
}

// ListCourses is the public catalog, most urgent courses first.
func (h *Handler) ListCourses(c *fiber.Ctx) error {
	entries, err := h.Courses.Catalog(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func (h *Handler) GetCourse(c *fiber.Ctx) error {
	entry, err := h.Courses.Course(c.UserContext(), c.Params("courseId"))
	if err != nil {
		return err
	}
	return c.JSON(entry)
}

func (h *Handler) CreateCourse(c *fiber.Ctx) error {
	req, err := parseCourseRequest(c)
	if err != nil {
		return err
	}
	course := req.toModel()
	if err := h.Courses.CreateCourse(c.UserContext(), &course); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

func (h *Handler) UpdateCourse(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid course ID")
	}
	req, err := parseCourseRequest(c)
	if err != nil {
		return err
	}
	course := req.toModel()
	course.ID = id
	if err := h.Courses.UpdateCourse(c.UserContext(), &course); err != nil {
		return err
	}
	return c.JSON(course)
}

func (h *Handler) DeleteCourse(c *fiber.Ctx) error {
	if err := h.Courses.DeleteCourse(c.UserContext(), c.Params("courseId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetRanking is the admin dashboard. ?sort= accepts default, occupancy,
// signups or fillRate.
func (h *Handler) GetRanking(c *fiber.Ctx) error {
	key := ranking.ParseSortKey(c.Query("sort"))
	ranked, err := h.Courses.Ranking(c.UserContext(), key)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"sort": key, "courses": ranked})
}
