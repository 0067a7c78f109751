package services

import (
	"context"
	"fmt"

	"github.com/querocurso/marketplace/models"
	"github.com/querocurso/marketplace/ranking"
	"go.uber.org/zap"
)

type CourseStore interface {
	GetCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id string) (models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id string) error
}

type SettingsStore interface {
	GetSettings(ctx context.Context) (models.Setting, error)
	SaveSettings(ctx context.Context, setting models.Setting) (models.Setting, error)
}

// CatalogEntry is a course as the public catalog shows it.
type CatalogEntry struct {
	models.Course
	Flags ranking.Flags `json:"flags"`
}

type CourseService struct {
	courses  CourseStore
	settings SettingsStore
	policy   ranking.Policy
	clock    ranking.Clock
	logger   *zap.Logger
}

// NewCourseService builds the catalog service. policy supplies every
// threshold except the low-stock one, which is read from settings on each
// call.
func NewCourseService(courses CourseStore, settings SettingsStore, policy ranking.Policy, clock ranking.Clock, logger *zap.Logger) *CourseService {
	return &CourseService{
		courses:  courses,
		settings: settings,
		policy:   policy,
		clock:    clock,
		logger:   logger.With(zap.String("service", "course_service")),
	}
}

// Engine returns a ranking engine using the current low-stock threshold.
func (s *CourseService) Engine(ctx context.Context) (*ranking.Engine, error) {
	setting, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	policy := s.policy
	if setting.LowStockThreshold > 0 {
		policy = policy.WithLowStockThreshold(setting.LowStockThreshold)
	}
	return ranking.New(policy, s.clock), nil
}

// Catalog lists every course by status score, most urgent first.
func (s *CourseService) Catalog(ctx context.Context) ([]CatalogEntry, error) {
	engine, err := s.Engine(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.GetCourses(ctx)
	if err != nil {
		return nil, err
	}

	sorted := ranking.SortBy(engine, courses, models.Course.Snapshot)
	entries := make([]CatalogEntry, len(sorted))
	for i, c := range sorted {
		entries[i] = CatalogEntry{Course: c, Flags: engine.Flags(c.Snapshot())}
	}
	return entries, nil
}

func (s *CourseService) Course(ctx context.Context, id string) (CatalogEntry, error) {
	engine, err := s.Engine(ctx)
	if err != nil {
		return CatalogEntry{}, err
	}
	course, err := s.courses.GetCourse(ctx, id)
	if err != nil {
		return CatalogEntry{}, err
	}
	return CatalogEntry{Course: course, Flags: engine.Flags(course.Snapshot())}, nil
}

// Ranking is the admin dashboard: upcoming courses with metrics and forecast.
func (s *CourseService) Ranking(ctx context.Context, key ranking.SortKey) ([]ranking.Ranked[models.Course], error) {
	engine, err := s.Engine(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.GetCourses(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.Rank(engine, courses, models.Course.Snapshot, key), nil
}

func (s *CourseService) CreateCourse(ctx context.Context, course *models.Course) error {
	if err := ranking.Validate(course.Snapshot()); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.courses.CreateCourse(ctx, course); err != nil {
		return err
	}
	s.logger.Info("course created", zap.String("course_id", course.ID.String()), zap.String("name", course.Name))
	return nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, course *models.Course) error {
	if err := ranking.Validate(course.Snapshot()); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.courses.UpdateCourse(ctx, course)
}

func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	if err := s.courses.DeleteCourse(ctx, id); err != nil {
		return err
	}
	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}

func (s *CourseService) Settings(ctx context.Context) (models.Setting, error) {
	return s.settings.GetSettings(ctx)
}

func (s *CourseService) UpdateSettings(ctx context.Context, setting models.Setting) (models.Setting, error) {
	if setting.LowStockThreshold < 0 {
		return setting, fmt.Errorf("%w: low stock threshold must not be negative", ErrValidation)
	}
	return s.settings.SaveSettings(ctx, setting)
}
