package catalog

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliptube/cliptube/pkg/apperr"
	"github.com/cliptube/cliptube/pkg/observability/logger"
	"github.com/cliptube/cliptube/pkg/repository/document"
)

var commentJoins = []document.Join{
	{From: CollectionUsers, LocalField: "owner", As: "ownerDoc"},
	{From: CollectionVideos, LocalField: "video", As: "videoDoc"},
}

// CommentService implements the comment feed and lifecycle operations.
type CommentService struct {
	store document.Store
	log   logger.Logger
}

// NewCommentService creates a CommentService on the given store.
func NewCommentService(store document.Store, log logger.Logger) *CommentService {
	return &CommentService{store: store, log: log}
}

// ListForVideo returns one page of a video's comments, each enriched with
// its owner and parent video. A video without comments yields an empty
// page, not an error.
func (s *CommentService) ListForVideo(ctx context.Context, rawVideoID string, sort document.Sort, page document.Page) (*FeedPage[Comment], error) {
	videoID, err := document.ParseID(rawVideoID)
	if err != nil {
		return nil, err
	}

	plan := document.Plan{
		Match: document.Match{Equals: document.Filter{"video": videoID}},
		Joins: commentJoins,
		Sort:  sort,
		Page:  page,
	}
	return runFeed[Comment](ctx, s.store, CollectionComments, plan)
}

// Add creates a comment on a video. The video reference is validated as an
// identifier here; referential existence is the caller's responsibility.
func (s *CommentService) Add(ctx context.Context, rawVideoID string, owner primitive.ObjectID, content string) (*Comment, error) {
	videoID, err := document.ParseID(rawVideoID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.NewValidationFailed("comment content is required")
	}

	comment := &Comment{
		Content:   content,
		VideoID:   videoID,
		OwnerID:   owner,
		CreatedAt: time.Now().UTC(),
	}
	id, err := s.store.InsertOne(ctx, CollectionComments, comment)
	if err != nil {
		return nil, err
	}
	comment.ID = id

	s.log.WithContext(ctx).Info("comment added", "comment_id", id.Hex(), "video_id", videoID.Hex())
	return comment, nil
}

// Update rewrites the content of a comment the requester owns, as one
// atomic store operation.
func (s *CommentService) Update(ctx context.Context, rawID string, requester primitive.ObjectID, content string) (*Comment, error) {
	id, err := document.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.NewValidationFailed("comment content is required")
	}

	return mutateOwned[Comment](ctx, s.store, CollectionComments, id, requester,
		document.Update{Set: document.Filter{"content": content}},
		"comment not found or not owned by requester")
}

// Delete removes a comment the requester owns.
func (s *CommentService) Delete(ctx context.Context, rawID string, requester primitive.ObjectID) (*Comment, error) {
	id, err := document.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return deleteOwned[Comment](ctx, s.store, CollectionComments, id, requester,
		"comment not found or not owned by requester")
}
