// Package memory implements the document store capability in process.
// It backs tests and local development: every conditional mutation applies
// its precondition check and its write inside one critical section, so the
// atomicity the domain relies on holds under concurrent use.
package memory

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliptube/cliptube/pkg/repository/document"
)

// Adapter is an in-memory document.Store.
type Adapter struct {
	mu    sync.Mutex
	colls map[string][]bson.M
}

// NewAdapter creates an empty in-memory store.
func NewAdapter() *Adapter {
	return &Adapter{colls: make(map[string][]bson.M)}
}

// InsertOne stores a normalized copy of the document, assigning an id when
// the document carries none.
func (a *Adapter) InsertOne(ctx context.Context, collection string, doc interface{}) (primitive.ObjectID, error) {
	normalized, err := normalize(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}

	id, ok := normalized["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		normalized["_id"] = id
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.colls[collection] = append(a.colls[collection], normalized)
	return id, nil
}

// FindOne returns a copy of the first document matching the filter.
func (a *Adapter) FindOne(ctx context.Context, collection string, filter document.Filter) (bson.M, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, doc := range a.colls[collection] {
		if matches(doc, filter) {
			return clone(doc), nil
		}
	}
	return nil, document.ErrNoDocument
}

// Query evaluates the plan: filter, left-outer joins, stable sort with an
// _id tie-break, then the page window (limit plus one look-ahead document,
// mirroring the compiled pipeline).
func (a *Adapter) Query(ctx context.Context, collection string, plan document.Plan) ([]bson.M, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var result []bson.M
	for _, doc := range a.colls[collection] {
		if matchesPlan(doc, plan.Match) {
			result = append(result, clone(doc))
		}
	}

	for _, join := range plan.Joins {
		a.resolveJoin(result, join)
	}

	if plan.Sort.Field != "" {
		sortDocs(result, plan.Sort)
	}

	skip, fetch := plan.Page.Window()
	if skip >= len(result) {
		return []bson.M{}, nil
	}
	result = result[skip:]
	if plan.Page.Limit > 0 && len(result) > fetch {
		result = result[:fetch]
	}
	return result, nil
}

// FindOneAndUpdate atomically applies the update to the first document
// matching the filter and returns the post-update copy.
func (a *Adapter) FindOneAndUpdate(ctx context.Context, collection string, filter document.Filter, update document.Update) (bson.M, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, doc := range a.colls[collection] {
		if matches(doc, filter) {
			if err := applyUpdate(doc, update); err != nil {
				return nil, err
			}
			return clone(doc), nil
		}
	}
	return nil, document.ErrNoDocument
}

// FindOneAndDelete atomically removes the first document matching the
// filter and returns the removed copy.
func (a *Adapter) FindOneAndDelete(ctx context.Context, collection string, filter document.Filter) (bson.M, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	docs := a.colls[collection]
	for i, doc := range docs {
		if matches(doc, filter) {
			a.colls[collection] = append(docs[:i:i], docs[i+1:]...)
			return doc, nil
		}
	}
	return nil, document.ErrNoDocument
}

// Ping always succeeds.
func (a *Adapter) Ping(ctx context.Context) error {
	return nil
}

// Count reports how many documents a collection holds. Test helper.
func (a *Adapter) Count(collection string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.colls[collection])
}

// resolveJoin attaches related documents in place. Single-valued joins take
// the first match and leave the field absent when nothing matches; multi
// joins attach every match of an array-valued local field.
func (a *Adapter) resolveJoin(docs []bson.M, join document.Join) {
	related := a.colls[join.From]
	for _, doc := range docs {
		local, ok := doc[join.LocalField]
		if !ok {
			continue
		}

		if join.Multi {
			matched := bson.A{}
			for _, rel := range related {
				if containsValue(local, rel["_id"]) {
					matched = append(matched, clone(rel))
				}
			}
			doc[join.As] = matched
			continue
		}

		for _, rel := range related {
			if valuesEqual(rel["_id"], local) {
				doc[join.As] = clone(rel)
				break
			}
		}
	}
}

func matchesPlan(doc bson.M, match document.Match) bool {
	if match.Text.Term != "" && match.Text.Field != "" {
		text, _ := doc[match.Text.Field].(string)
		if !strings.Contains(strings.ToLower(text), strings.ToLower(match.Text.Term)) {
			return false
		}
	}
	return matches(doc, match.Equals)
}

func matches(doc bson.M, filter document.Filter) bool {
	for field, want := range filter {
		if !valuesEqual(doc[field], want) {
			return false
		}
	}
	return true
}

func applyUpdate(doc bson.M, update document.Update) error {
	for field, value := range update.Set {
		normalized, err := normalizeValue(value)
		if err != nil {
			return err
		}
		doc[field] = normalized
	}
	for field, value := range update.AddToSet {
		arr, _ := doc[field].(bson.A)
		if !containsValue(arr, value) {
			arr = append(arr, value)
		}
		doc[field] = arr
	}
	for field, value := range update.Pull {
		arr, _ := doc[field].(bson.A)
		kept := bson.A{}
		for _, elem := range arr {
			if !valuesEqual(elem, value) {
				kept = append(kept, elem)
			}
		}
		doc[field] = kept
	}
	for _, field := range update.Toggle {
		current, _ := doc[field].(bool)
		doc[field] = !current
	}
	return nil
}

func sortDocs(docs []bson.M, s document.Sort) {
	dir := 1
	if s.Order == document.SortDesc {
		dir = -1
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if cmp := compareValues(docs[i][s.Field], docs[j][s.Field]); cmp != 0 {
			return cmp*dir < 0
		}
		return compareValues(docs[i]["_id"], docs[j]["_id"])*dir < 0
	})
}

func containsValue(value interface{}, want interface{}) bool {
	arr, ok := value.(bson.A)
	if !ok {
		return valuesEqual(value, want)
	}
	for _, elem := range arr {
		if valuesEqual(elem, want) {
			return true
		}
	}
	return false
}

func valuesEqual(a, b interface{}) bool {
	return compareValues(a, b) == 0
}

// compareValues orders the value types that appear in stored documents.
// Mixed numeric widths compare by value; times tolerate the bson DateTime
// round trip.
func compareValues(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if at, aok := asTime(a); aok {
		if bt, bok := asTime(b); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}

	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	switch av := a.(type) {
	case primitive.ObjectID:
		if bv, ok := b.(primitive.ObjectID); ok {
			return bytes.Compare(av[:], bv[:])
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	}
	return -1
}

func asTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	default:
		return time.Time{}, false
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// normalize runs a document through the bson codec so stored values carry
// the same types a real MongoDB decode would produce.
func normalize(doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out := bson.M{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeValue(value interface{}) (interface{}, error) {
	wrapped, err := normalize(bson.M{"v": value})
	if err != nil {
		return nil, err
	}
	return wrapped["v"], nil
}

func clone(doc bson.M) bson.M {
	copied, err := normalize(doc)
	if err != nil {
		// Documents in the store already survived one bson round trip.
		return doc
	}
	return copied
}
