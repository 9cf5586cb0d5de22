package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/cliptube/cliptube/pkg/apperr"
	"github.com/cliptube/cliptube/pkg/catalog"
	"github.com/cliptube/cliptube/pkg/repository/document"
)

var playlistSortFields = map[string]struct{}{
	"createdAt": {},
}

// PlaylistController handles the playlist lifecycle and membership endpoints.
type PlaylistController struct {
	playlists *catalog.PlaylistService
}

// NewPlaylistController creates a PlaylistController.
func NewPlaylistController(playlists *catalog.PlaylistService) *PlaylistController {
	return &PlaylistController{playlists: playlists}
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles POST /playlists.
func (ctl *PlaylistController) Create(c *gin.Context) {
	owner, err := requester(c)
	if err != nil {
		Error(c, err)
		return
	}

	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, apperr.NewValidationFailed("invalid request body"))
		return
	}

	playlist, err := ctl.playlists.Create(c.Request.Context(), owner, req.Name, req.Description)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, playlist)
}

// Get handles GET /playlists/:playlistId.
func (ctl *PlaylistController) Get(c *gin.Context) {
	playlist, err := ctl.playlists.GetByID(c.Request.Context(), c.Param("playlistId"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, playlist)
}

// ListByUser handles GET /playlists/user/:userId.
func (ctl *PlaylistController) ListByUser(c *gin.Context) {
	sort := document.ParseSort(c.Query("sortBy"), c.Query("sortType"), playlistSortFields)
	page := document.ParsePage(c.Query("page"), c.Query("limit"))

	playlists, err := ctl.playlists.ListByOwner(c.Request.Context(), c.Param("userId"), sort, page)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, playlists)
}

// Update handles PATCH /playlists/:playlistId.
func (ctl *PlaylistController) Update(c *gin.Context) {
	owner, err := requester(c)
	if err != nil {
		Error(c, err)
		return
	}

	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, apperr.NewValidationFailed("invalid request body"))
		return
	}

	playlist, err := ctl.playlists.Update(c.Request.Context(), c.Param("playlistId"), owner, req.Name, req.Description)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, playlist)
}

// Delete handles DELETE /playlists/:playlistId.
func (ctl *PlaylistController) Delete(c *gin.Context) {
	owner, err := requester(c)
	if err != nil {
		Error(c, err)
		return
	}

	playlist, err := ctl.playlists.Delete(c.Request.Context(), c.Param("playlistId"), owner)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, playlist)
}

// AddVideo handles POST /playlists/:playlistId/videos/:videoId.
func (ctl *PlaylistController) AddVideo(c *gin.Context) {
	if _, err := requester(c); err != nil {
		Error(c, err)
		return
	}

	playlist, err := ctl.playlists.AddMember(c.Request.Context(), c.Param("playlistId"), c.Param("videoId"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, playlist)
}

// RemoveVideo handles DELETE /playlists/:playlistId/videos/:videoId.
func (ctl *PlaylistController) RemoveVideo(c *gin.Context) {
	if _, err := requester(c); err != nil {
		Error(c, err)
		return
	}

	playlist, err := ctl.playlists.RemoveMember(c.Request.Context(), c.Param("playlistId"), c.Param("videoId"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, playlist)
}
