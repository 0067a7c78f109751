package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/querocurso/marketplace/models"
	"gorm.io/gorm"
)

type CourseStore struct {
	db *gorm.DB
}

func NewCourseStore(db *gorm.DB) *CourseStore {
	return &CourseStore{db: db}
}

// GetCourses returns every course in creation order. Ordering for display is
// the ranking engine's job.
func (s *CourseStore) GetCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := s.db.WithContext(ctx).Order("created_at asc").Find(&courses).Error
	return courses, err
}

func (s *CourseStore) GetCourse(ctx context.Context, id string) (models.Course, error) {
	var course models.Course
	uid, err := uuid.Parse(id)
	if err != nil {
		return course, ErrNotFound
	}
	err = s.db.WithContext(ctx).First(&course, "id = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return course, ErrNotFound
	}
	return course, err
}

func (s *CourseStore) CreateCourse(ctx context.Context, course *models.Course) error {
	return s.db.WithContext(ctx).Create(course).Error
}

func (s *CourseStore) UpdateCourse(ctx context.Context, course *models.Course) error {
	res := s.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", course.ID).
		Select("*").Omit("id", "created_at").Updates(course)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CourseStore) DeleteCourse(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res := s.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", uid)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
