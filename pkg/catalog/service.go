package catalog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliptube/cliptube/pkg/apperr"
	"github.com/cliptube/cliptube/pkg/repository/document"
)

// runFeed executes the plan and shapes the result into a page. The query
// fetches one document past the page limit; the extra is trimmed here and
// only drives HasMore.
func runFeed[T any](ctx context.Context, store document.Store, collection string, plan document.Plan) (*FeedPage[T], error) {
	docs, err := store.Query(ctx, collection, plan)
	if err != nil {
		return nil, err
	}

	hasMore := false
	if plan.Page.Limit > 0 && len(docs) > plan.Page.Limit {
		docs = docs[:plan.Page.Limit]
		hasMore = true
	}

	items, err := document.DecodeAll[T](docs)
	if err != nil {
		return nil, err
	}
	return &FeedPage[T]{
		Items:   items,
		Page:    plan.Page.Number,
		Limit:   plan.Page.Limit,
		HasMore: hasMore,
	}, nil
}

// fetchOne reads a single document through the same pipeline the feeds use,
// so single reads get the same join enrichment.
func fetchOne[T any](ctx context.Context, store document.Store, collection string, id primitive.ObjectID, joins []document.Join, notFound string) (*T, error) {
	plan := document.Plan{
		Match: document.Match{Equals: document.Filter{"_id": id}},
		Joins: joins,
		Page:  document.Page{Number: 1, Limit: 1},
	}
	docs, err := store.Query(ctx, collection, plan)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperr.NewNotFound(notFound)
	}
	return document.Decode[T](docs[0])
}

// mutateOwned applies an update to the document matching both id and owner
// as one atomic store operation. Zero matches report resource.not_owned:
// whether the document is absent or owned by someone else is not
// distinguishable without a second read, and the mutation must not pay for
// one.
func mutateOwned[T any](ctx context.Context, store document.Store, collection string, id, owner primitive.ObjectID, update document.Update, msg string) (*T, error) {
	doc, err := store.FindOneAndUpdate(ctx, collection,
		document.Filter{"_id": id, "owner": owner}, update)
	if errors.Is(err, document.ErrNoDocument) {
		return nil, apperr.NewNotOwned(msg)
	}
	if err != nil {
		return nil, err
	}
	return document.Decode[T](doc)
}

// deleteOwned removes the document matching both id and owner as one atomic
// store operation and returns the removed document.
func deleteOwned[T any](ctx context.Context, store document.Store, collection string, id, owner primitive.ObjectID, msg string) (*T, error) {
	doc, err := store.FindOneAndDelete(ctx, collection,
		document.Filter{"_id": id, "owner": owner})
	if errors.Is(err, document.ErrNoDocument) {
		return nil, apperr.NewNotOwned(msg)
	}
	if err != nil {
		return nil, err
	}
	return document.Decode[T](doc)
}
