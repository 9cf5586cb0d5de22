package catalog

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliptube/cliptube/pkg/observability/logger"
	"github.com/cliptube/cliptube/pkg/repository/document"
	"github.com/cliptube/cliptube/pkg/store/memory"
)

func testLogger() logger.Logger {
	return logger.Noop()
}

func seedUser(t *testing.T, store *memory.Adapter, username string) primitive.ObjectID {
	t.Helper()
	id, err := store.InsertOne(context.Background(), CollectionUsers, bson.M{"username": username})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

func seedVideo(t *testing.T, store *memory.Adapter, title string, owner primitive.ObjectID, createdAt time.Time) primitive.ObjectID {
	t.Helper()
	id, err := store.InsertOne(context.Background(), CollectionVideos, bson.M{
		"title":       title,
		"description": "seeded",
		"videoUrl":    "https://cdn.example.test/" + title,
		"owner":       owner,
		"isPublished": true,
		"createdAt":   createdAt,
	})
	if err != nil {
		t.Fatalf("seed video: %v", err)
	}
	return id
}

// untouchableStore fails the test on any use. It proves that validation
// errors are raised before the first store interaction.
type untouchableStore struct {
	t *testing.T
}

func (s untouchableStore) fail() {
	s.t.Helper()
	s.t.Fatal("store must not be called before validation passes")
}

func (s untouchableStore) InsertOne(context.Context, string, interface{}) (primitive.ObjectID, error) {
	s.fail()
	return primitive.NilObjectID, nil
}

func (s untouchableStore) FindOne(context.Context, string, document.Filter) (bson.M, error) {
	s.fail()
	return nil, nil
}

func (s untouchableStore) Query(context.Context, string, document.Plan) ([]bson.M, error) {
	s.fail()
	return nil, nil
}

func (s untouchableStore) FindOneAndUpdate(context.Context, string, document.Filter, document.Update) (bson.M, error) {
	s.fail()
	return nil, nil
}

func (s untouchableStore) FindOneAndDelete(context.Context, string, document.Filter) (bson.M, error) {
	s.fail()
	return nil, nil
}

func (s untouchableStore) Ping(context.Context) error {
	s.fail()
	return nil
}
