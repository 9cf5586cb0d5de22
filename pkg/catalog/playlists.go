package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliptube/cliptube/pkg/apperr"
	"github.com/cliptube/cliptube/pkg/observability/logger"
	"github.com/cliptube/cliptube/pkg/repository/document"
)

var playlistVideoJoin = []document.Join{
	{From: CollectionVideos, LocalField: "videos", As: "videoDocs", Multi: true},
}

// PlaylistService implements playlist lifecycle and set membership. The
// membership operations are single atomic store calls: add-if-absent keeps
// the videos set duplicate-free under concurrent adds, and removing an
// absent member is a successful no-op.
type PlaylistService struct {
	store document.Store
	log   logger.Logger
}

// NewPlaylistService creates a PlaylistService on the given store.
func NewPlaylistService(store document.Store, log logger.Logger) *PlaylistService {
	return &PlaylistService{store: store, log: log}
}

// Create makes an empty playlist owned by the requester.
func (s *PlaylistService) Create(ctx context.Context, owner primitive.ObjectID, name, description string) (*Playlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.NewValidationFailed("playlist name is required")
	}
	if strings.TrimSpace(description) == "" {
		return nil, apperr.NewValidationFailed("playlist description is required")
	}

	playlist := &Playlist{
		Name:        name,
		Description: description,
		OwnerID:     owner,
		Videos:      []primitive.ObjectID{},
		CreatedAt:   time.Now().UTC(),
	}
	id, err := s.store.InsertOne(ctx, CollectionPlaylists, playlist)
	if err != nil {
		return nil, err
	}
	playlist.ID = id

	s.log.WithContext(ctx).Info("playlist created", "playlist_id", id.Hex())
	return playlist, nil
}

// GetByID returns one playlist with its member videos joined.
func (s *PlaylistService) GetByID(ctx context.Context, rawID string) (*Playlist, error) {
	id, err := document.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return fetchOne[Playlist](ctx, s.store, CollectionPlaylists, id, playlistVideoJoin, "playlist not found")
}

// ListByOwner returns one page of a user's playlists.
func (s *PlaylistService) ListByOwner(ctx context.Context, rawOwnerID string, sort document.Sort, page document.Page) (*FeedPage[Playlist], error) {
	ownerID, err := document.ParseID(rawOwnerID)
	if err != nil {
		return nil, err
	}

	plan := document.Plan{
		Match: document.Match{Equals: document.Filter{"owner": ownerID}},
		Sort:  sort,
		Page:  page,
	}
	return runFeed[Playlist](ctx, s.store, CollectionPlaylists, plan)
}

// Update renames a playlist the requester owns, as one atomic store
// operation.
func (s *PlaylistService) Update(ctx context.Context, rawID string, requester primitive.ObjectID, name, description string) (*Playlist, error) {
	id, err := document.ParseID(rawID)
	if err != nil {
		return nil, err
	}

	set := document.Filter{}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
	}
	if strings.TrimSpace(description) != "" {
		set["description"] = description
	}
	if len(set) == 0 {
		return nil, apperr.NewValidationFailed("nothing to update")
	}

	return mutateOwned[Playlist](ctx, s.store, CollectionPlaylists, id, requester,
		document.Update{Set: set}, "playlist not found or not owned by requester")
}

// Delete removes a playlist the requester owns.
func (s *PlaylistService) Delete(ctx context.Context, rawID string, requester primitive.ObjectID) (*Playlist, error) {
	id, err := document.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return deleteOwned[Playlist](ctx, s.store, CollectionPlaylists, id, requester,
		"playlist not found or not owned by requester")
}

// AddMember adds a video to the playlist's set unless already present, as
// one atomic add-if-absent store operation. Repeated and concurrent adds of
// the same video leave it in the set exactly once.
func (s *PlaylistService) AddMember(ctx context.Context, rawPlaylistID, rawVideoID string) (*Playlist, error) {
	playlistID, videoID, err := s.memberIDs(rawPlaylistID, rawVideoID)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.FindOneAndUpdate(ctx, CollectionPlaylists,
		document.Filter{"_id": playlistID},
		document.Update{AddToSet: document.Filter{"videos": videoID}})
	if errors.Is(err, document.ErrNoDocument) {
		return nil, apperr.NewNotFound("playlist not found")
	}
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Debug("playlist member added",
		"playlist_id", playlistID.Hex(), "video_id", videoID.Hex())
	return document.Decode[Playlist](doc)
}

// RemoveMember removes a video from the playlist's set, as one atomic store
// operation. Removing an absent video succeeds and returns the unchanged
// playlist: the invariant "video absent from set" already holds.
func (s *PlaylistService) RemoveMember(ctx context.Context, rawPlaylistID, rawVideoID string) (*Playlist, error) {
	playlistID, videoID, err := s.memberIDs(rawPlaylistID, rawVideoID)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.FindOneAndUpdate(ctx, CollectionPlaylists,
		document.Filter{"_id": playlistID},
		document.Update{Pull: document.Filter{"videos": videoID}})
	if errors.Is(err, document.ErrNoDocument) {
		return nil, apperr.NewNotFound("playlist not found")
	}
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Debug("playlist member removed",
		"playlist_id", playlistID.Hex(), "video_id", videoID.Hex())
	return document.Decode[Playlist](doc)
}

func (s *PlaylistService) memberIDs(rawPlaylistID, rawVideoID string) (primitive.ObjectID, primitive.ObjectID, error) {
	playlistID, err := document.ParseID(rawPlaylistID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	videoID, err := document.ParseID(rawVideoID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return playlistID, videoID, nil
}
