// Package catalog implements the content-platform domain: video, comment
// and tweet feeds plus playlist membership, all executed against an
// explicitly injected document store.
package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store collection names.
const (
	CollectionUsers     = "users"
	CollectionVideos    = "videos"
	CollectionComments  = "comments"
	CollectionTweets    = "tweets"
	CollectionPlaylists = "playlists"
)

// UserRef is the joined projection of a content owner. Users themselves are
// managed by the identity collaborator, never mutated here.
type UserRef struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username,omitempty" json:"username"`
	AvatarURL string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
}

// Video is a published video document. VideoURL and ThumbnailURL are
// resolved by the upload collaborator before publishing; this service only
// stores the resulting strings.
type Video struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	VideoURL     string             `bson:"videoUrl" json:"videoUrl"`
	ThumbnailURL string             `bson:"thumbnailUrl" json:"thumbnailUrl"`
	Duration     float64            `bson:"duration" json:"duration"`
	OwnerID      primitive.ObjectID `bson:"owner" json:"ownerId"`
	IsPublished  bool               `bson:"isPublished" json:"isPublished"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`

	// Owner is populated by the feed join; nil when the owner document is
	// missing from the store.
	Owner *UserRef `bson:"ownerDoc,omitempty" json:"owner,omitempty"`
}

// Comment is a comment on a video.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content   string             `bson:"content" json:"content"`
	VideoID   primitive.ObjectID `bson:"video" json:"videoId"`
	OwnerID   primitive.ObjectID `bson:"owner" json:"ownerId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`

	Owner *UserRef `bson:"ownerDoc,omitempty" json:"owner,omitempty"`
	Video *Video   `bson:"videoDoc,omitempty" json:"video,omitempty"`
}

// Tweet is a short standalone post.
type Tweet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content   string             `bson:"content" json:"content"`
	OwnerID   primitive.ObjectID `bson:"owner" json:"ownerId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`

	Owner *UserRef `bson:"ownerDoc,omitempty" json:"owner,omitempty"`
}

// Playlist is an owned collection of video references. Videos is a set:
// each reference appears at most once, enforced by the store-level
// add-if-absent operation, not by application code.
type Playlist struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	OwnerID     primitive.ObjectID   `bson:"owner" json:"ownerId"`
	Videos      []primitive.ObjectID `bson:"videos" json:"videoIds"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`

	// VideoDocs is populated by the playlist join on reads.
	VideoDocs []Video `bson:"videoDocs,omitempty" json:"videos,omitempty"`
}

// FeedPage is one window of a filtered, sorted result sequence. An empty
// Items slice is a valid page, not an error; HasMore reports whether a
// following page exists without a separate count query.
type FeedPage[T any] struct {
	Items   []T  `json:"items"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}
