package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vidhub/vidhub-api/internal/apperrors"
	"github.com/vidhub/vidhub-api/internal/domain/repository"
	"github.com/vidhub/vidhub-api/pkg/helpers"
	"github.com/vidhub/vidhub-api/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "currentUser"
)

// Auth verifies the access token and loads the authenticated user into the
// Gin context. The access_token cookie takes precedence; an
// "Authorization: Bearer" header is accepted as a fallback.
func Auth(jwt *helpers.JWTManager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "Unauthorized request")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "Invalid access token")
			return
		}

		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				response.AbortError(c, http.StatusUnauthorized, "Invalid access token")
				return
			}
			response.AbortError(c, http.StatusInternalServerError, "internal server error")
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u.Public())
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(helpers.AccessTokenCookie); err == nil && token != "" {
		return token
	}
	auth := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}
