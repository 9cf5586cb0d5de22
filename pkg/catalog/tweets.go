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

// TweetService implements the tweet feed and lifecycle operations.
type TweetService struct {
	store document.Store
	log   logger.Logger
}

// NewTweetService creates a TweetService on the given store.
func NewTweetService(store document.Store, log logger.Logger) *TweetService {
	return &TweetService{store: store, log: log}
}

// Create posts a new tweet owned by the requester.
func (s *TweetService) Create(ctx context.Context, owner primitive.ObjectID, content string) (*Tweet, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.NewValidationFailed("tweet content is required")
	}

	tweet := &Tweet{
		Content:   content,
		OwnerID:   owner,
		CreatedAt: time.Now().UTC(),
	}
	id, err := s.store.InsertOne(ctx, CollectionTweets, tweet)
	if err != nil {
		return nil, err
	}
	tweet.ID = id

	s.log.WithContext(ctx).Info("tweet created", "tweet_id", id.Hex())
	return tweet, nil
}

// ListByOwner returns one page of a user's tweets, newest first unless the
// caller asked otherwise. A user without tweets yields an empty page.
func (s *TweetService) ListByOwner(ctx context.Context, rawOwnerID string, sort document.Sort, page document.Page) (*FeedPage[Tweet], error) {
	ownerID, err := document.ParseID(rawOwnerID)
	if err != nil {
		return nil, err
	}

	plan := document.Plan{
		Match: document.Match{Equals: document.Filter{"owner": ownerID}},
		Sort:  sort,
		Page:  page,
	}
	return runFeed[Tweet](ctx, s.store, CollectionTweets, plan)
}

// Update rewrites the content of a tweet the requester owns, as one atomic
// store operation.
func (s *TweetService) Update(ctx context.Context, rawID string, requester primitive.ObjectID, content string) (*Tweet, error) {
	id, err := document.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.NewValidationFailed("tweet content is required")
	}

	return mutateOwned[Tweet](ctx, s.store, CollectionTweets, id, requester,
		document.Update{Set: document.Filter{"content": content}},
		"tweet not found or not owned by requester")
}

// Delete removes a tweet the requester owns.
func (s *TweetService) Delete(ctx context.Context, rawID string, requester primitive.ObjectID) (*Tweet, error) {
	id, err := document.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return deleteOwned[Tweet](ctx, s.store, CollectionTweets, id, requester,
		"tweet not found or not owned by requester")
}
