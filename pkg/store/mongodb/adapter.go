// Package mongodb implements the document store capability on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/cliptube/cliptube/pkg/apperr"
	"github.com/cliptube/cliptube/pkg/observability/logger"
	"github.com/cliptube/cliptube/pkg/observability/metrics"
	"github.com/cliptube/cliptube/pkg/repository/document"
)

// Adapter provides MongoDB connectivity and implements document.Store.
type Adapter struct {
	client   *mongo.Client
	database string
	logger   logger.Logger
	timeout  time.Duration
	mu       sync.RWMutex
	closed   bool
}

// Config holds MongoDB adapter configuration.
type Config struct {
	URL              string
	Database         string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

// NewAdapter initializes a MongoDB adapter and verifies connectivity with a
// ping. It does not create indexes or collections.
func NewAdapter(cfg Config, log logger.Logger) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("mongodb URL is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongodb database is required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info("MongoDB connection established", "database", cfg.Database)
	return &Adapter{
		client:   client,
		database: cfg.Database,
		logger:   log,
		timeout:  cfg.OperationTimeout,
	}, nil
}

func (a *Adapter) Collection(name string) *mongo.Collection {
	return a.client.Database(a.database).Collection(name)
}

// Ping verifies the connection is still alive.
func (a *Adapter) Ping(ctx context.Context) error {
	a.mu.RLock()
	closed := a.closed
	a.mu.RUnlock()
	if closed {
		return fmt.Errorf("mongodb adapter is closed")
	}
	return a.client.Ping(ctx, readpref.Primary())
}

// HealthCheck pings with a short deadline for liveness probes.
func (a *Adapter) HealthCheck(ctx context.Context) error {
	hcCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := a.Ping(hcCtx); err != nil {
		a.logger.Error("MongoDB health check failed", "error", err)
		return fmt.Errorf("mongodb health check failed: %w", err)
	}
	return nil
}

// Close disconnects the client. Safe to call more than once.
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close mongodb connection: %w", err)
	}
	return nil
}

// InsertOne inserts a document and returns its generated id.
func (a *Adapter) InsertOne(ctx context.Context, collection string, doc interface{}) (id primitive.ObjectID, err error) {
	defer observeOp("insert", collection, time.Now())(&err)
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	result, err := a.Collection(collection).InsertOne(opCtx, doc)
	if err != nil {
		return primitive.NilObjectID, storeErr("insert", collection, err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, apperr.NewStoreUnavailable(
			fmt.Sprintf("insert into %s returned a non-ObjectID id", collection), nil)
	}
	return id, nil
}

// FindOne returns the single document matching the filter.
func (a *Adapter) FindOne(ctx context.Context, collection string, filter document.Filter) (_ bson.M, err error) {
	defer observeOp("find", collection, time.Now())(&err)
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	out := bson.M{}
	err = a.Collection(collection).FindOne(opCtx, bson.M(filter)).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, document.ErrNoDocument
		}
		return nil, storeErr("find", collection, err)
	}
	return out, nil
}

// Query executes the compiled aggregation pipeline of the plan.
func (a *Adapter) Query(ctx context.Context, collection string, plan document.Plan) (_ []bson.M, err error) {
	defer observeOp("query", collection, time.Now())(&err)
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	cursor, err := a.Collection(collection).Aggregate(opCtx, plan.Pipeline())
	if err != nil {
		return nil, storeErr("query", collection, err)
	}
	defer cursor.Close(opCtx)

	docs := []bson.M{}
	if err := cursor.All(opCtx, &docs); err != nil {
		return nil, storeErr("query", collection, err)
	}
	return docs, nil
}

// FindOneAndUpdate applies the update to the single document matching the
// filter as one atomic operation and returns the post-update document.
// Zero matches yield document.ErrNoDocument.
func (a *Adapter) FindOneAndUpdate(ctx context.Context, collection string, filter document.Filter, update document.Update) (_ bson.M, err error) {
	defer observeOp("update", collection, time.Now())(&err)
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	out := bson.M{}
	err = a.Collection(collection).
		FindOneAndUpdate(opCtx, bson.M(filter), update.Document(), opts).
		Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, document.ErrNoDocument
		}
		return nil, storeErr("update", collection, err)
	}
	return out, nil
}

// FindOneAndDelete removes the single document matching the filter as one
// atomic operation and returns the removed document.
func (a *Adapter) FindOneAndDelete(ctx context.Context, collection string, filter document.Filter) (_ bson.M, err error) {
	defer observeOp("delete", collection, time.Now())(&err)
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	out := bson.M{}
	err = a.Collection(collection).FindOneAndDelete(opCtx, bson.M(filter)).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, document.ErrNoDocument
		}
		return nil, storeErr("delete", collection, err)
	}
	return out, nil
}

func (a *Adapter) withOperationTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.timeout)
}

func storeErr(op, collection string, cause error) error {
	return apperr.NewStoreUnavailable(fmt.Sprintf("%s on %s failed", op, collection), cause)
}

// observeOp records the operation duration once the surrounding call returns.
// A no-match result is not a store failure.
func observeOp(op, collection string, start time.Time) func(*error) {
	return func(err *error) {
		failed := *err != nil && !errors.Is(*err, document.ErrNoDocument)
		metrics.RecordStoreMetrics(op, collection, failed, time.Since(start))
	}
}
