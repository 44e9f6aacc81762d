// Package dashboard aggregates platform metrics for the admin overview.
package dashboard

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/skillsenselab/classboard/errors"
	"github.com/skillsenselab/classboard/logger"
	"github.com/skillsenselab/classboard/server"
)

// UserStats is the slice of the users store the dashboard needs.
type UserStats interface {
	CountByRole(ctx context.Context) (map[string]int64, error)
}

// CourseStats is the slice of the courses store the dashboard needs.
type CourseStats interface {
	CountCourses(ctx context.Context) (int64, error)
	CountClasses(ctx context.Context) (int64, error)
}

// Metrics is the admin overview payload.
type Metrics struct {
	TotalUsers   int64            `json:"total_users"`
	UsersByRole  map[string]int64 `json:"users_by_role"`
	TotalCourses int64            `json:"total_courses"`
	TotalClasses int64            `json:"total_classes"`
	GeneratedAt  string           `json:"generated_at"`
}

// Service computes the dashboard metrics.
type Service struct {
	users   UserStats
	courses CourseStats
	log     *logger.Logger
}

// NewService wires the dashboard.
func NewService(users UserStats, courses CourseStats, log *logger.Logger) *Service {
	return &Service{users: users, courses: courses, log: log.WithComponent("dashboard")}
}

// Collect gathers the current metrics.
func (s *Service) Collect(ctx context.Context) (*Metrics, error) {
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	var total int64
	for _, n := range byRole {
		total += n
	}

	courses, err := s.courses.CountCourses(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	classes, err := s.courses.CountClasses(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	return &Metrics{
		TotalUsers:   total,
		UsersByRole:  byRole,
		TotalCourses: courses,
		TotalClasses: classes,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Handler serves the dashboard endpoint.
type Handler struct {
	svc *Service
}

// NewHandler creates the handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the routes under the admin-gated prefix.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/api/admin/dashboard", h.metrics)
}

func (h *Handler) metrics(c *gin.Context) {
	m, err := h.svc.Collect(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, m)
}
