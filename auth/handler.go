package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/classboard/auth/credential"
	"github.com/skillsenselab/classboard/auth/keyexchange"
	apperrors "github.com/skillsenselab/classboard/errors"
	"github.com/skillsenselab/classboard/logger"
	"github.com/skillsenselab/classboard/server"
)

// Handler serves the authentication endpoints under /api/auth.
type Handler struct {
	creds *credential.Service
	keys  *keyexchange.Service
	log   *logger.Logger
}

// NewHandler creates the handler.
func NewHandler(creds *credential.Service, keys *keyexchange.Service, log *logger.Logger) *Handler {
	return &Handler{creds: creds, keys: keys, log: log.WithComponent("auth")}
}

// Register mounts the routes. The /api/auth group is public by policy;
// key rotation sits under the admin-gated prefix.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/api/auth")
	g.GET("/public-key", h.publicKey)
	g.POST("/register", h.register)
	g.POST("/login", h.login)

	r.POST("/api/admin/keys/rotate", h.rotateKeys)
}

type registerRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	EncryptedPassword string `json:"encrypted_password"`
	Role              string `json:"role"`
}

type loginRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	EncryptedPassword string `json:"encrypted_password"`
}

// tokenResponse is the success payload for both register and login.
type tokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func (h *Handler) publicKey(c *gin.Context) {
	key, err := h.keys.PublicKey()
	if err != nil {
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}
	server.RespondOK(c, gin.H{
		"public_key": key,
		"algorithm":  "RSA",
	})
}

// rotateKeys swaps the RSA keypair. Passwords encrypted against the
// old public key stop decrypting immediately.
func (h *Handler) rotateKeys(c *gin.Context) {
	if err := h.keys.Rotate(); err != nil {
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}
	key, err := h.keys.PublicKey()
	if err != nil {
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}
	h.log.Info("RSA keypair rotated")
	server.RespondOK(c, gin.H{
		"public_key": key,
		"algorithm":  "RSA",
	})
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("", "request body must be valid JSON"))
		return
	}

	res, err := h.creds.Register(c.Request.Context(), credential.RegisterInput{
		Name:              req.Name,
		Email:             req.Email,
		Password:          req.Password,
		EncryptedPassword: req.EncryptedPassword,
		Role:              req.Role,
	})
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, tokenResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		Email:     res.Identity,
		Role:      res.Role,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidCredentials())
		return
	}

	res, err := h.creds.Login(c.Request.Context(), credential.LoginInput{
		Email:             req.Email,
		Password:          req.Password,
		EncryptedPassword: req.EncryptedPassword,
	})
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, tokenResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		Email:     res.Identity,
		Role:      res.Role,
	})
}
