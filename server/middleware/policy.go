package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/classboard/auth/authctx"
	"github.com/skillsenselab/classboard/auth/token"
	"github.com/skillsenselab/classboard/authz"
	apperrors "github.com/skillsenselab/classboard/errors"
)

// Authorize returns middleware that enforces the route policy. It must
// run after Authenticate.
func Authorize(policy *authz.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, authenticated := authctx.Get(c.Request.Context())

		switch policy.Evaluate(c.Request.Method, c.Request.URL.Path, p.Role, authenticated) {
		case authz.Allow:
			c.Next()
		case authz.Forbidden:
			appErr := apperrors.Forbidden("insufficient role")
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
		default:
			appErr := unauthorizedError(c)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
		}
	}
}

// unauthorizedError picks the most precise 401: a request that carried
// a token gets told why it was rejected, a bare request gets the
// generic message.
func unauthorizedError(c *gin.Context) *apperrors.AppError {
	v, ok := c.Get(authErrorKey)
	if !ok {
		return apperrors.Unauthorized("authentication required")
	}
	err, _ := v.(error)
	if errors.Is(err, token.ErrExpired) {
		return apperrors.TokenExpired()
	}
	return apperrors.InvalidToken()
}
