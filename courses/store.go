package courses

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/skillsenselab/classboard/database"
)

// ErrNotFound is returned when no course or class matches.
var ErrNotFound = errors.New("courses: not found")

// GormStore persists courses and classes.
type GormStore struct {
	db *database.DB
}

// NewGormStore creates the store.
func NewGormStore(db *database.DB) *GormStore {
	return &GormStore{db: db}
}

// CreateCourse persists a new course.
func (s *GormStore) CreateCourse(ctx context.Context, c *Course) error {
	return s.db.WithContext(ctx).Create(c).Error
}

// GetCourse fetches a course with its classes.
func (s *GormStore) GetCourse(ctx context.Context, id string) (*Course, error) {
	var c Course
	err := s.db.WithContext(ctx).Preload("Classes").First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListCourses returns a page of courses, optionally filtered by
// category, with the total count.
func (s *GormStore) ListCourses(ctx context.Context, category string, offset, limit int) ([]Course, int64, error) {
	q := s.db.WithContext(ctx).Model(&Course{})
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []Course
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

// UpdateCourse applies the given fields to an existing course.
func (s *GormStore) UpdateCourse(ctx context.Context, id string, fields map[string]any) error {
	res := s.db.WithContext(ctx).Model(&Course{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCourse removes a course and its classes in one transaction.
func (s *GormStore) DeleteCourse(ctx context.Context, id string) error {
	return s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		res := tx.Delete(&Course{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Delete(&Class{}, "course_id = ?", id).Error
	})
}

// CreateClass schedules a class within an existing course.
func (s *GormStore) CreateClass(ctx context.Context, class *Class) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Course{}).Where("id = ?", class.CourseID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return s.db.WithContext(ctx).Create(class).Error
}

// ListClasses returns the classes of a course ordered by schedule.
func (s *GormStore) ListClasses(ctx context.Context, courseID string) ([]Class, error) {
	var out []Class
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("scheduled_at ASC").
		Find(&out).Error
	return out, err
}

// CountCourses returns the total number of courses.
func (s *GormStore) CountCourses(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Course{}).Count(&n).Error
	return n, err
}

// CountClasses returns the total number of classes.
func (s *GormStore) CountClasses(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Class{}).Count(&n).Error
	return n, err
}
