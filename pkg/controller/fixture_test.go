package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliptube/cliptube/pkg/auth"
	"github.com/cliptube/cliptube/pkg/catalog"
	"github.com/cliptube/cliptube/pkg/observability/logger"
	"github.com/cliptube/cliptube/pkg/store/memory"
)

// fixture wires the controllers onto an in-memory store behind a gin router.
// The requester identity is injected directly instead of minting tokens.
type fixture struct {
	store     *memory.Adapter
	router    *gin.Engine
	requester primitive.ObjectID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewAdapter()
	log := logger.Noop()

	f := &fixture{
		store:     store,
		requester: primitive.NewObjectID(),
	}

	videos := NewVideoController(catalog.NewVideoService(store, log))
	comments := NewCommentController(catalog.NewCommentService(store, log))
	tweets := NewTweetController(catalog.NewTweetService(store, log))
	playlists := NewPlaylistController(catalog.NewPlaylistService(store, log))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if f.requester != primitive.NilObjectID {
			auth.WithRequester(c, f.requester)
		}
		c.Next()
	})

	v1 := router.Group("/api/v1")
	v1.GET("/videos", videos.ListFeed)
	v1.POST("/videos", videos.Publish)
	v1.GET("/videos/:videoId", videos.Get)
	v1.PATCH("/videos/:videoId", videos.Update)
	v1.DELETE("/videos/:videoId", videos.Delete)
	v1.PATCH("/videos/:videoId/toggle-publish", videos.TogglePublish)

	v1.GET("/videos/:videoId/comments", comments.ListForVideo)
	v1.POST("/videos/:videoId/comments", comments.Add)
	v1.PATCH("/comments/:commentId", comments.Update)
	v1.DELETE("/comments/:commentId", comments.Delete)

	v1.POST("/tweets", tweets.Create)
	v1.GET("/tweets/user/:userId", tweets.ListByUser)
	v1.PATCH("/tweets/:tweetId", tweets.Update)
	v1.DELETE("/tweets/:tweetId", tweets.Delete)

	v1.POST("/playlists", playlists.Create)
	v1.GET("/playlists/:playlistId", playlists.Get)
	v1.GET("/playlists/user/:userId", playlists.ListByUser)
	v1.PATCH("/playlists/:playlistId", playlists.Update)
	v1.DELETE("/playlists/:playlistId", playlists.Delete)
	v1.POST("/playlists/:playlistId/videos/:videoId", playlists.AddVideo)
	v1.DELETE("/playlists/:playlistId/videos/:videoId", playlists.RemoveVideo)

	f.router = router
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v (body %s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decoding data: %v (body %s)", err, rec.Body.String())
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v (body %s)", err, rec.Body.String())
	}
	return body
}

func (f *fixture) seedVideo(t *testing.T, owner primitive.ObjectID, title string) primitive.ObjectID {
	t.Helper()
	id, err := f.store.InsertOne(context.Background(), catalog.CollectionVideos, bson.M{
		"title":        title,
		"description":  "a video",
		"videoUrl":     "https://cdn.example.com/v.mp4",
		"thumbnailUrl": "https://cdn.example.com/v.jpg",
		"duration":     12.5,
		"owner":        owner,
		"isPublished":  true,
		"createdAt":    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seeding video: %v", err)
	}
	return id
}

func (f *fixture) seedPlaylist(t *testing.T, owner primitive.ObjectID, name string) primitive.ObjectID {
	t.Helper()
	id, err := f.store.InsertOne(context.Background(), catalog.CollectionPlaylists, bson.M{
		"name":        name,
		"description": "a playlist",
		"owner":       owner,
		"videos":      bson.A{},
		"createdAt":   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seeding playlist: %v", err)
	}
	return id
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}
