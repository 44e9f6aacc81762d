package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/classboard/auth/authctx"
	"github.com/skillsenselab/classboard/auth/token"
	"github.com/skillsenselab/classboard/logger"
)

// authErrorKey stores the token parse failure for the policy middleware
// to report when the route turns out to require authentication.
const authErrorKey = "auth_error"

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	Parse(tokenString string) (*token.Claims, error)
}

// Authenticate returns middleware that resolves the request's principal
// from the Authorization header. A missing, malformed, or rejected
// token leaves the request anonymous and lets it proceed; the route
// policy decides whether anonymous is acceptable.
func Authenticate(parser TokenParser, log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("authn")
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			c.Next()
			return
		}

		claims, err := parser.Parse(raw)
		if err != nil {
			c.Set(authErrorKey, err)
			log.Debug("bearer token rejected", logger.Fields(
				logger.FieldError, err.Error(),
				"path", c.Request.URL.Path,
			))
			c.Next()
			return
		}

		ctx := authctx.Set(c.Request.Context(), authctx.Principal{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
