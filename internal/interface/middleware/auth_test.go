package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidhub/vidhub-api/internal/apperrors"
	"github.com/vidhub/vidhub-api/internal/domain/entity"
	"github.com/vidhub/vidhub-api/pkg/helpers"
)

type stubUserRepo struct {
	users map[string]*entity.User
}

func (s *stubUserRepo) Create(context.Context, *entity.User) error { return nil }

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) GetByUsername(context.Context, string) (*entity.User, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) FindByIdentity(context.Context, string, string) (*entity.User, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) UpdatePassword(context.Context, string, string) error  { return nil }
func (s *stubUserRepo) SetRefreshToken(context.Context, string, string) error { return nil }

func (s *stubUserRepo) RotateRefreshToken(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func (s *stubUserRepo) UpdateDetails(context.Context, string, string, string) (*entity.User, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) UpdateAvatar(context.Context, string, string) (*entity.User, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) UpdateCoverImage(context.Context, string, string) (*entity.User, error) {
	return nil, apperrors.ErrNotFound
}

func authTestRouter(jwt *helpers.JWTManager, users *stubUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(jwt, users), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString(CtxUserIDKey)})
	})
	return r
}

func TestAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	u := &entity.User{ID: "user-1", Username: "ada", Email: "ada@example.com", FullName: "Ada Lovelace"}
	users := &stubUserRepo{users: map[string]*entity.User{"user-1": u}}
	r := authTestRouter(jwt, users)

	token, _, err := jwt.GenerateAccessToken(u)
	require.NoError(t, err)

	t.Run("missing token is unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Unauthorized request", body["message"])
		assert.Equal(t, false, body["success"])
	})

	t.Run("cookie token is accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: token})
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "user-1", body["userID"])
	})

	t.Run("bearer header is accepted as fallback", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cookie takes precedence over header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: "garbage"})
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token is rejected before the handler", func(t *testing.T) {
		shortJWT := helpers.NewJWTManager("access-secret", "refresh-secret", -time.Minute, time.Hour)
		expired, _, err := shortJWT.GenerateAccessToken(u)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: expired})
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Invalid access token", body["message"])
	})

	t.Run("token for a deleted user is rejected", func(t *testing.T) {
		ghost := &entity.User{ID: "ghost", Username: "ghost", Email: "g@example.com"}
		ghostToken, _, err := jwt.GenerateAccessToken(ghost)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: ghostToken})
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
