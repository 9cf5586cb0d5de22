package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/cliptube/cliptube/pkg/apperr"
	"github.com/cliptube/cliptube/pkg/catalog"
	"github.com/cliptube/cliptube/pkg/repository/document"
)

var commentSortFields = map[string]struct{}{
	"createdAt": {},
}

// CommentController handles the comment endpoints nested under videos.
type CommentController struct {
	comments *catalog.CommentService
}

// NewCommentController creates a CommentController.
func NewCommentController(comments *catalog.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

// ListForVideo handles GET /videos/:videoId/comments.
func (ctl *CommentController) ListForVideo(c *gin.Context) {
	sort := document.ParseSort(c.Query("sortBy"), c.Query("sortType"), commentSortFields)
	page := document.ParsePage(c.Query("page"), c.Query("limit"))

	comments, err := ctl.comments.ListForVideo(c.Request.Context(), c.Param("videoId"), sort, page)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, comments)
}

type commentRequest struct {
	Content string `json:"content"`
}

// Add handles POST /videos/:videoId/comments.
func (ctl *CommentController) Add(c *gin.Context) {
	owner, err := requester(c)
	if err != nil {
		Error(c, err)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, apperr.NewValidationFailed("invalid request body"))
		return
	}

	comment, err := ctl.comments.Add(c.Request.Context(), c.Param("videoId"), owner, req.Content)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, comment)
}

// Update handles PATCH /comments/:commentId.
func (ctl *CommentController) Update(c *gin.Context) {
	owner, err := requester(c)
	if err != nil {
		Error(c, err)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, apperr.NewValidationFailed("invalid request body"))
		return
	}

	comment, err := ctl.comments.Update(c.Request.Context(), c.Param("commentId"), owner, req.Content)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, comment)
}

// Delete handles DELETE /comments/:commentId.
func (ctl *CommentController) Delete(c *gin.Context) {
	owner, err := requester(c)
	if err != nil {
		Error(c, err)
		return
	}

	comment, err := ctl.comments.Delete(c.Request.Context(), c.Param("commentId"), owner)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, comment)
}
