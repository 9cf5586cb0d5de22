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

// VideoSortFields are the fields a video feed may be ordered by.
var VideoSortFields = map[string]struct{}{
	"createdAt": {},
	"title":     {},
	"duration":  {},
}

var videoOwnerJoin = []document.Join{
	{From: CollectionUsers, LocalField: "owner", As: "ownerDoc"},
}

// VideoService implements the video feed and lifecycle operations.
type VideoService struct {
	store document.Store
	log   logger.Logger
}

// NewVideoService creates a VideoService on the given store.
func NewVideoService(store document.Store, log logger.Logger) *VideoService {
	return &VideoService{store: store, log: log}
}

// VideoFeed carries the normalized feed parameters. Query is an optional
// case-insensitive title substring; OwnerID an optional raw owner filter,
// validated before any store call.
type VideoFeed struct {
	Query   string
	OwnerID string
	Sort    document.Sort
	Page    document.Page
}

// ListFeed returns one page of the filtered video feed, each video enriched
// with its owner when the owner document exists. An empty page is a valid
// result, not an error.
func (s *VideoService) ListFeed(ctx context.Context, feed VideoFeed) (*FeedPage[Video], error) {
	match, err := document.BuildMatch("title", feed.Query, map[string]string{"owner": feed.OwnerID})
	if err != nil {
		return nil, err
	}

	plan := document.Plan{
		Match: match,
		Joins: videoOwnerJoin,
		Sort:  feed.Sort,
		Page:  feed.Page,
	}
	page, err := runFeed[Video](ctx, s.store, CollectionVideos, plan)
	if err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Debug("video feed listed",
		"query", feed.Query, "page", feed.Page.Number, "items", len(page.Items))
	return page, nil
}

// PublishVideoInput is the payload for publishing a video. The URLs come
// from the upload collaborator, already resolved.
type PublishVideoInput struct {
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	Duration     float64
}

// Publish creates a new video owned by the requester.
func (s *VideoService) Publish(ctx context.Context, owner primitive.ObjectID, in PublishVideoInput) (*Video, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.NewValidationFailed("title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, apperr.NewValidationFailed("description is required")
	}
	if strings.TrimSpace(in.VideoURL) == "" {
		return nil, apperr.NewValidationFailed("video file is required")
	}

	video := &Video{
		Title:        in.Title,
		Description:  in.Description,
		VideoURL:     in.VideoURL,
		ThumbnailURL: in.ThumbnailURL,
		Duration:     in.Duration,
		OwnerID:      owner,
		IsPublished:  true,
		CreatedAt:    time.Now().UTC(),
	}
	id, err := s.store.InsertOne(ctx, CollectionVideos, video)
	if err != nil {
		return nil, err
	}
	video.ID = id

	s.log.WithContext(ctx).Info("video published", "video_id", id.Hex(), "owner", owner.Hex())
	return video, nil
}

// GetByID returns one video with its owner joined.
func (s *VideoService) GetByID(ctx context.Context, rawID string) (*Video, error) {
	id, err := document.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return fetchOne[Video](ctx, s.store, CollectionVideos, id, videoOwnerJoin, "video not found")
}

// VideoPatch holds the mutable video fields; empty fields are left as-is.
type VideoPatch struct {
	Title        string
	Description  string
	ThumbnailURL string
}

// Update patches a video the requester owns. The ownership check and the
// write are one atomic store operation.
func (s *VideoService) Update(ctx context.Context, rawID string, requester primitive.ObjectID, patch VideoPatch) (*Video, error) {
	id, err := document.ParseID(rawID)
	if err != nil {
		return nil, err
	}

	set := document.Filter{}
	if strings.TrimSpace(patch.Title) != "" {
		set["title"] = patch.Title
	}
	if strings.TrimSpace(patch.Description) != "" {
		set["description"] = patch.Description
	}
	if strings.TrimSpace(patch.ThumbnailURL) != "" {
		set["thumbnailUrl"] = patch.ThumbnailURL
	}
	if len(set) == 0 {
		return nil, apperr.NewValidationFailed("nothing to update")
	}

	return mutateOwned[Video](ctx, s.store, CollectionVideos, id, requester,
		document.Update{Set: set}, "video not found or not owned by requester")
}

// TogglePublish flips the published flag of a video the requester owns, in
// one atomic store operation.
func (s *VideoService) TogglePublish(ctx context.Context, rawID string, requester primitive.ObjectID) (*Video, error) {
	id, err := document.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return mutateOwned[Video](ctx, s.store, CollectionVideos, id, requester,
		document.Update{Toggle: []string{"isPublished"}}, "video not found or not owned by requester")
}

// Delete removes a video the requester owns.
func (s *VideoService) Delete(ctx context.Context, rawID string, requester primitive.ObjectID) (*Video, error) {
	id, err := document.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	video, err := deleteOwned[Video](ctx, s.store, CollectionVideos, id, requester,
		"video not found or not owned by requester")
	if err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Info("video deleted", "video_id", id.Hex())
	return video, nil
}
