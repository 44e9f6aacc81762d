package users

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/classboard/auth/authctx"
	"github.com/skillsenselab/classboard/auth/credential"
	apperrors "github.com/skillsenselab/classboard/errors"
	"github.com/skillsenselab/classboard/logger"
	"github.com/skillsenselab/classboard/server"
)

// Handler serves the account endpoints.
type Handler struct {
	store *GormStore
	creds *credential.Service
	log   *logger.Logger
}

// NewHandler creates the handler.
func NewHandler(store *GormStore, creds *credential.Service, log *logger.Logger) *Handler {
	return &Handler{store: store, creds: creds, log: log.WithComponent("users")}
}

// Register mounts the routes. Access control is enforced by the route
// policy, not here.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/api/users/me", h.me)

	admin := r.Group("/api/admin")
	admin.GET("/users", h.list)
	admin.PATCH("/users/:id/role", h.changeRole)
}

func (h *Handler) me(c *gin.Context) {
	p, ok := authctx.Get(c.Request.Context())
	if !ok {
		server.RespondWithError(c, apperrors.Unauthorized("authentication required"))
		return
	}

	cred, err := h.store.FindByEmail(c.Request.Context(), p.Email)
	if err != nil {
		server.RespondWithError(c, apperrors.NotFound("user", p.Email))
		return
	}
	u := User{
		Email: cred.Email,
		Name:  cred.Name,
		Role:  cred.Role,
	}
	u.ID = cred.ID
	u.CreatedAt = cred.CreatedAt
	server.RespondOK(c, u.ToProfile())
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

	list, total, err := h.store.List(c.Request.Context(), (page-1)*pageSize, pageSize)
	if err != nil {
		server.RespondWithError(c, apperrors.DatabaseError(err))
		return
	}

	profiles := make([]Profile, len(list))
	for i := range list {
		profiles[i] = list[i].ToProfile()
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	server.RespondOKWithMeta(c, profiles, &server.Meta{
		Page:       page,
		PageSize:   pageSize,
		Total:      int(total),
		TotalPages: totalPages,
	})
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *Handler) changeRole(c *gin.Context) {
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("role", "role is required"))
		return
	}

	if err := h.creds.ElevateRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}
