package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vidhub/vidhub-api/internal/application"
	"github.com/vidhub/vidhub-api/internal/interface/middleware"
	"github.com/vidhub/vidhub-api/pkg/response"
)

// ChannelHandler serves channel profiles, watch history, and channel search.
type ChannelHandler struct {
	Svc *application.ChannelService
}

func NewChannelHandler(svc *application.ChannelService) *ChannelHandler {
	return &ChannelHandler{Svc: svc}
}

func (h *ChannelHandler) Channel(c *gin.Context) {
	viewerID := c.GetString(middleware.CtxUserIDKey)
	profile, err := h.Svc.Profile(c.Request.Context(), viewerID, c.Param("username"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile, "User channel fetched successfully")
}

func (h *ChannelHandler) History(c *gin.Context) {
	viewerID := c.GetString(middleware.CtxUserIDKey)
	entries, err := h.Svc.WatchHistory(c.Request.Context(), viewerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries, "Watch history fetched successfully")
}

func (h *ChannelHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("limit"))
	hits, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "Channels fetched successfully")
}
