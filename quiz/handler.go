package quiz

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/skillsenselab/classboard/errors"
	"github.com/skillsenselab/classboard/server"
)

// Handler serves the quiz generation endpoint.
type Handler struct {
	svc *Service
}

// NewHandler creates the handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the routes. Generation requires an authenticated
// principal by route policy.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/api/quiz/generate", h.generate)
}

func (h *Handler) generate(c *gin.Context) {
	var in GenerateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("", "request body must be valid JSON"))
		return
	}

	q, err := h.svc.Generate(c.Request.Context(), in)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, q)
}
