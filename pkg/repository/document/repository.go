// Package document defines the document-store capability consumed by the
// domain services: typed query plans (filter, join, sort, page) and the
// atomic single-document mutation contract. Implementations live under
// pkg/store; tests substitute the in-memory one.
package document

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNoDocument is returned by conditional operations that matched zero
// documents. For owner-scoped mutations this is deliberately ambiguous
// between "does not exist" and "not owned by the requester".
var ErrNoDocument = errors.New("document: no matching document")

// Filter represents field-based equality criteria for document stores.
type Filter map[string]interface{}

// Update describes a single atomic update. Exactly one call applies the
// whole update; there is never a separate read before it.
//
// Toggle flips boolean fields in-place and cannot be combined with the
// other operators in the same update.
type Update struct {
	// Set assigns field values.
	Set Filter
	// AddToSet adds a value to an embedded set field unless already present.
	AddToSet Filter
	// Pull removes a value from an embedded set field; absent values no-op.
	Pull Filter
	// Toggle inverts boolean fields.
	Toggle []string
}

// Store is the document store capability. It is passed explicitly to every
// component that needs it, so tests can substitute a fake.
//
// FindOneAndUpdate and FindOneAndDelete evaluate their filter and apply the
// mutation as one indivisible store operation and return the resulting
// document (post-update for updates, the removed document for deletes).
// Zero matches yield ErrNoDocument. Any other failure means the store call
// itself failed and surfaces as a store.unavailable application error,
// never retried at this layer.
type Store interface {
	InsertOne(ctx context.Context, collection string, doc interface{}) (primitive.ObjectID, error)
	FindOne(ctx context.Context, collection string, filter Filter) (bson.M, error)
	Query(ctx context.Context, collection string, plan Plan) ([]bson.M, error)
	FindOneAndUpdate(ctx context.Context, collection string, filter Filter, update Update) (bson.M, error)
	FindOneAndDelete(ctx context.Context, collection string, filter Filter) (bson.M, error)
	Ping(ctx context.Context) error
}

// Decode converts a raw store document into a typed model.
func Decode[T any](doc bson.M) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := bson.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeAll converts a result page of raw documents into typed models.
// An empty input produces an empty, non-nil slice.
func DecodeAll[T any](docs []bson.M) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := Decode[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, nil
}
