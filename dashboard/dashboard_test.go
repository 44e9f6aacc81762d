package dashboard

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/skillsenselab/classboard/errors"
	"github.com/skillsenselab/classboard/logger"
)

type fakeUserStats struct {
	byRole map[string]int64
	err    error
}

func (f *fakeUserStats) CountByRole(_ context.Context) (map[string]int64, error) {
	return f.byRole, f.err
}

type fakeCourseStats struct {
	courses, classes int64
}

func (f *fakeCourseStats) CountCourses(_ context.Context) (int64, error) { return f.courses, nil }
func (f *fakeCourseStats) CountClasses(_ context.Context) (int64, error) { return f.classes, nil }

func TestCollect(t *testing.T) {
	svc := NewService(
		&fakeUserStats{byRole: map[string]int64{"student": 40, "admin": 2}},
		&fakeCourseStats{courses: 5, classes: 30},
		logger.NewDefault("test"),
	)

	m, err := svc.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if m.TotalUsers != 42 {
		t.Errorf("expected 42 total users, got %d", m.TotalUsers)
	}
	if m.UsersByRole["admin"] != 2 {
		t.Errorf("expected 2 admins, got %d", m.UsersByRole["admin"])
	}
	if m.TotalCourses != 5 || m.TotalClasses != 30 {
		t.Errorf("unexpected course metrics: %+v", m)
	}
	if m.GeneratedAt == "" {
		t.Error("expected a generation timestamp")
	}
}

func TestCollect_StoreFailure(t *testing.T) {
	svc := NewService(
		&fakeUserStats{err: errors.New("disk on fire")},
		&fakeCourseStats{},
		logger.NewDefault("test"),
	)

	_, err := svc.Collect(context.Background())
	app, ok := apperrors.AsAppError(err)
	if !ok || app.Code != apperrors.ErrCodeDatabaseError {
		t.Errorf("expected DATABASE_ERROR, got %v", err)
	}
}
