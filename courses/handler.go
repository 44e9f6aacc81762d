package courses

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/skillsenselab/classboard/errors"
	"github.com/skillsenselab/classboard/logger"
	"github.com/skillsenselab/classboard/server"
	"github.com/skillsenselab/classboard/validation"
)

// Handler serves the course and class endpoints.
type Handler struct {
	store *GormStore
	log   *logger.Logger
}

// NewHandler creates the handler.
func NewHandler(store *GormStore, log *logger.Logger) *Handler {
	return &Handler{store: store, log: log.WithComponent("courses")}
}

// Register mounts the routes. Write access is restricted to admins by
// the route policy.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/api/courses")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.GET("/:id/classes", h.listClasses)
	g.POST("/:id/classes", h.createClass)
}

type courseInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"max=100"`
}

type classInput struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Instructor  string    `json:"instructor" validate:"max=100"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	DurationMin int       `json:"duration_min" validate:"gte=0,lte=600"`
}

func (h *Handler) create(c *gin.Context) {
	var in courseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("", "request body must be valid JSON"))
		return
	}
	if err := validation.Struct(in); err != nil {
		server.RespondWithError(c, err)
		return
	}

	course := &Course{Title: in.Title, Description: in.Description, Category: in.Category}
	if err := h.store.CreateCourse(c.Request.Context(), course); err != nil {
		server.RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	h.log.Info("course created", logger.Fields("course_id", course.ID))
	server.RespondCreated(c, course)
}

func (h *Handler) get(c *gin.Context) {
	course, err := h.store.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondStoreError(c, err, c.Param("id"))
		return
	}
	server.RespondOK(c, course)
}

func (h *Handler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	list, total, err := h.store.ListCourses(c.Request.Context(), c.Query("category"), (page-1)*pageSize, pageSize)
	if err != nil {
		server.RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	server.RespondOKWithMeta(c, list, &server.Meta{
		Page:       page,
		PageSize:   pageSize,
		Total:      int(total),
		TotalPages: totalPages,
	})
}

func (h *Handler) update(c *gin.Context) {
	var in courseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("", "request body must be valid JSON"))
		return
	}
	if err := validation.Struct(in); err != nil {
		server.RespondWithError(c, err)
		return
	}

	id := c.Param("id")
	fields := map[string]any{
		"title":       in.Title,
		"description": in.Description,
		"category":    in.Category,
	}
	if err := h.store.UpdateCourse(c.Request.Context(), id, fields); err != nil {
		h.respondStoreError(c, err, id)
		return
	}

	course, err := h.store.GetCourse(c.Request.Context(), id)
	if err != nil {
		h.respondStoreError(c, err, id)
		return
	}
	server.RespondOK(c, course)
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteCourse(c.Request.Context(), id); err != nil {
		h.respondStoreError(c, err, id)
		return
	}
	h.log.Info("course deleted", logger.Fields("course_id", id))
	server.RespondNoContent(c)
}

func (h *Handler) listClasses(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.GetCourse(c.Request.Context(), id); err != nil {
		h.respondStoreError(c, err, id)
		return
	}
	classes, err := h.store.ListClasses(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	server.RespondOK(c, classes)
}

func (h *Handler) createClass(c *gin.Context) {
	var in classInput
	if err := c.ShouldBindJSON(&in); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("", "request body must be valid JSON"))
		return
	}
	if err := validation.Struct(in); err != nil {
		server.RespondWithError(c, err)
		return
	}

	class := &Class{
		CourseID:    c.Param("id"),
		Title:       in.Title,
		Instructor:  in.Instructor,
		ScheduledAt: in.ScheduledAt,
		DurationMin: in.DurationMin,
	}
	if err := h.store.CreateClass(c.Request.Context(), class); err != nil {
		h.respondStoreError(c, err, class.CourseID)
		return
	}
	server.RespondCreated(c, class)
}

func (h *Handler) respondStoreError(c *gin.Context, err error, id string) {
	if errors.Is(err, ErrNotFound) {
		server.RespondWithError(c, apperrors.NotFound("course", id))
		return
	}
	server.RespondWithError(c, apperrors.DatabaseError(err))
}
