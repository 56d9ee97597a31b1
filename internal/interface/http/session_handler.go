package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vidhub/vidhub-api/internal/application"
	"github.com/vidhub/vidhub-api/internal/interface/middleware"
	"github.com/vidhub/vidhub-api/pkg/helpers"
	"github.com/vidhub/vidhub-api/pkg/response"
	"github.com/vidhub/vidhub-api/pkg/validation"
)

// SessionHandler exposes registration and the token lifecycle over HTTP.
type SessionHandler struct {
	Svc     *application.SessionService
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewSessionHandler(svc *application.SessionService, cookies *helpers.CookieManager, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{Svc: svc, Cookies: cookies, Logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"oldPassword"`
	ConfirmPassword string `json:"confirmPassword"`
	NewPassword     string `json:"newPassword"`
}

// Register accepts a multipart form with the account fields plus an avatar
// file and an optional coverImage file.
func (h *SessionHandler) Register(c *gin.Context) {
	in := application.RegisterInput{
		FullName: c.PostForm("fullName"),
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	avatar, closeAvatar, err := formFile(c, "avatar")
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer closeAvatar()
	in.Avatar = avatar

	cover, closeCover, err := formFile(c, "coverImage")
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer closeCover()
	in.CoverImage = cover

	u, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "User registered successfully")
}

func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, pair, err := h.Svc.Login(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{
		"user":         u,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User logged in successfully")
}

func (h *SessionHandler) Logout(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Logout(c.Request.Context(), uid); err != nil {
		response.FromError(c, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "User logged out")
}

// Refresh reads the refresh token from the cookie, falling back to the JSON
// body for clients that do not use cookies.
func (h *SessionHandler) Refresh(c *gin.Context) {
	presented, _ := c.Cookie(helpers.RefreshTokenCookie)
	if presented == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := h.Svc.Refresh(c.Request.Context(), presented)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Access token refreshed")
}

func (h *SessionHandler) ChangePassword(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.ConfirmPassword, req.NewPassword); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Password changed successfully")
}

// formFile opens an optional multipart file. A missing field is not an
// error; required-file checks live in the service layer.
func formFile(c *gin.Context, field string) (*application.UploadedFile, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &application.UploadedFile{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: contentTypeOf(fh),
	}, func() { _ = f.Close() }, nil
}

func contentTypeOf(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
