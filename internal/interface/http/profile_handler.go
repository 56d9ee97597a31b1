package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidhub/vidhub-api/internal/application"
	"github.com/vidhub/vidhub-api/internal/domain/entity"
	"github.com/vidhub/vidhub-api/internal/interface/middleware"
	"github.com/vidhub/vidhub-api/pkg/response"
	"github.com/vidhub/vidhub-api/pkg/validation"
)

// ProfileHandler serves the current user's account endpoints.
type ProfileHandler struct {
	Svc *application.ProfileService
}

func NewProfileHandler(svc *application.ProfileService) *ProfileHandler {
	return &ProfileHandler{Svc: svc}
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// CurrentUser returns the user the auth middleware resolved, without a
// second store round trip.
func (h *ProfileHandler) CurrentUser(c *gin.Context) {
	v, ok := c.Get(middleware.CtxUserKey)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized request", nil)
		return
	}
	u, ok := v.(*entity.PublicUser)
	if !ok {
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "User fetched successfully")
}

func (h *ProfileHandler) UpdateAccount(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateDetails(c.Request.Context(), uid, req.FullName, req.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Account details updated successfully")
}

func (h *ProfileHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", h.Svc.UpdateAvatar, "Avatar image updated successfully")
}

func (h *ProfileHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", h.Svc.UpdateCoverImage, "Cover image updated successfully")
}

func (h *ProfileHandler) updateImage(
	c *gin.Context,
	field string,
	apply func(ctx context.Context, userID string, file *application.UploadedFile) (*entity.PublicUser, error),
	message string,
) {
	uid := c.GetString(middleware.CtxUserIDKey)
	file, closeFile, err := formFile(c, field)
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer closeFile()

	u, err := apply(c.Request.Context(), uid, file)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, message)
}
