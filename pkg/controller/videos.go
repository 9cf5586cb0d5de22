package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/cliptube/cliptube/pkg/apperr"
	"github.com/cliptube/cliptube/pkg/catalog"
	"github.com/cliptube/cliptube/pkg/repository/document"
)

// VideoController handles the video feed and lifecycle endpoints.
type VideoController struct {
	videos *catalog.VideoService
}

// NewVideoController creates a VideoController.
func NewVideoController(videos *catalog.VideoService) *VideoController {
	return &VideoController{videos: videos}
}

// ListFeed handles GET /videos. All feed parameters are optional; malformed
// page and sort values fall back to defaults while a malformed userId is a
// hard 400.
func (ctl *VideoController) ListFeed(c *gin.Context) {
	feed := catalog.VideoFeed{
		Query:   c.Query("query"),
		OwnerID: c.Query("userId"),
		Sort:    document.ParseSort(c.Query("sortBy"), c.Query("sortType"), catalog.VideoSortFields),
		Page:    document.ParsePage(c.Query("page"), c.Query("limit")),
	}

	page, err := ctl.videos.ListFeed(c.Request.Context(), feed)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, page)
}

type publishVideoRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	VideoURL     string  `json:"videoUrl"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	Duration     float64 `json:"duration"`
}

// Publish handles POST /videos.
func (ctl *VideoController) Publish(c *gin.Context) {
	owner, err := requester(c)
	if err != nil {
		Error(c, err)
		return
	}

	var req publishVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, apperr.NewValidationFailed("invalid request body"))
		return
	}

	video, err := ctl.videos.Publish(c.Request.Context(), owner, catalog.PublishVideoInput{
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		Duration:     req.Duration,
	})
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, video)
}

// Get handles GET /videos/:videoId.
func (ctl *VideoController) Get(c *gin.Context) {
	video, err := ctl.videos.GetByID(c.Request.Context(), c.Param("videoId"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, video)
}

type updateVideoRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Update handles PATCH /videos/:videoId.
func (ctl *VideoController) Update(c *gin.Context) {
	owner, err := requester(c)
	if err != nil {
		Error(c, err)
		return
	}

	var req updateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, apperr.NewValidationFailed("invalid request body"))
		return
	}

	video, err := ctl.videos.Update(c.Request.Context(), c.Param("videoId"), owner, catalog.VideoPatch{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, video)
}

// TogglePublish handles PATCH /videos/:videoId/toggle-publish.
func (ctl *VideoController) TogglePublish(c *gin.Context) {
	owner, err := requester(c)
	if err != nil {
		Error(c, err)
		return
	}

	video, err := ctl.videos.TogglePublish(c.Request.Context(), c.Param("videoId"), owner)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, video)
}

// Delete handles DELETE /videos/:videoId.
func (ctl *VideoController) Delete(c *gin.Context) {
	owner, err := requester(c)
	if err != nil {
		Error(c, err)
		return
	}

	video, err := ctl.videos.Delete(c.Request.Context(), c.Param("videoId"), owner)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, video)
}
