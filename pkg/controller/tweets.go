package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/cliptube/cliptube/pkg/apperr"
	"github.com/cliptube/cliptube/pkg/catalog"
	"github.com/cliptube/cliptube/pkg/repository/document"
)

var tweetSortFields = map[string]struct{}{
	"createdAt": {},
}

// TweetController handles the tweet endpoints.
type TweetController struct {
	tweets *catalog.TweetService
}

// NewTweetController creates a TweetController.
func NewTweetController(tweets *catalog.TweetService) *TweetController {
	return &TweetController{tweets: tweets}
}

type tweetRequest struct {
	Content string `json:"content"`
}

// Create handles POST /tweets.
func (ctl *TweetController) Create(c *gin.Context) {
	owner, err := requester(c)
	if err != nil {
		Error(c, err)
		return
	}

	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, apperr.NewValidationFailed("invalid request body"))
		return
	}

	tweet, err := ctl.tweets.Create(c.Request.Context(), owner, req.Content)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, tweet)
}

// ListByUser handles GET /tweets/user/:userId.
func (ctl *TweetController) ListByUser(c *gin.Context) {
	sort := document.ParseSort(c.Query("sortBy"), c.Query("sortType"), tweetSortFields)
	page := document.ParsePage(c.Query("page"), c.Query("limit"))

	tweets, err := ctl.tweets.ListByOwner(c.Request.Context(), c.Param("userId"), sort, page)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, tweets)
}

// Update handles PATCH /tweets/:tweetId.
func (ctl *TweetController) Update(c *gin.Context) {
	owner, err := requester(c)
	if err != nil {
		Error(c, err)
		return
	}

	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, apperr.NewValidationFailed("invalid request body"))
		return
	}

	tweet, err := ctl.tweets.Update(c.Request.Context(), c.Param("tweetId"), owner, req.Content)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, tweet)
}

// Delete handles DELETE /tweets/:tweetId.
func (ctl *TweetController) Delete(c *gin.Context) {
	owner, err := requester(c)
	if err != nil {
		Error(c, err)
		return
	}

	tweet, err := ctl.tweets.Delete(c.Request.Context(), c.Param("tweetId"), owner)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, tweet)
}
