package document

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
)

// Pipeline compiles the plan into a MongoDB aggregation pipeline:
// $match, one $lookup per join (single-valued joins keep the first match),
// $sort with an _id tie-break for stable pagination, then the page window.
func (p Plan) Pipeline() []bson.D {
	pipeline := make([]bson.D, 0, 4+2*len(p.Joins))

	if match := p.Match.document(); len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}

	for _, join := range p.Joins {
		pipeline = append(pipeline, join.stages()...)
	}

	if p.Sort.Field != "" {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: p.Sort.document()}})
	}

	skip, fetch := p.Page.Window()
	if skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: skip}})
	}
	if p.Page.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: fetch}})
	}

	return pipeline
}

func (m Match) document() bson.M {
	match := bson.M{}
	if m.Text.Term != "" && m.Text.Field != "" {
		match[m.Text.Field] = bson.M{
			"$regex":   regexp.QuoteMeta(m.Text.Term),
			"$options": "i",
		}
	}
	for field, value := range m.Equals {
		match[field] = value
	}
	return match
}

// stages emits the $lookup plus, for single-valued joins, the first-match
// projection. The lookup lands in a scratch field so a partial pipeline
// failure can never leave the enriched field holding a raw array.
func (j Join) stages() []bson.D {
	if j.Multi {
		return []bson.D{
			{{Key: "$lookup", Value: bson.M{
				"from":         j.From,
				"localField":   j.LocalField,
				"foreignField": "_id",
				"as":           j.As,
			}}},
		}
	}

	scratch := j.As + "Docs"
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         j.From,
			"localField":   j.LocalField,
			"foreignField": "_id",
			"as":           scratch,
		}}},
		{{Key: "$set", Value: bson.M{
			j.As: bson.M{"$arrayElemAt": bson.A{"$" + scratch, 0}},
		}}},
		{{Key: "$unset", Value: scratch}},
	}
}

func (s Sort) document() bson.D {
	dir := 1
	if s.Order == SortDesc {
		dir = -1
	}
	sort := bson.D{{Key: s.Field, Value: dir}}
	if s.Field != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: dir})
	}
	return sort
}

// Document compiles the update into a MongoDB update document, or an
// aggregation pipeline when boolean toggles are requested.
func (u Update) Document() interface{} {
	if len(u.Toggle) > 0 {
		set := bson.M{}
		for _, field := range u.Toggle {
			set[field] = bson.M{"$not": "$" + field}
		}
		return bson.A{bson.M{"$set": set}}
	}

	update := bson.M{}
	if len(u.Set) > 0 {
		update["$set"] = bson.M(u.Set)
	}
	if len(u.AddToSet) > 0 {
		update["$addToSet"] = bson.M(u.AddToSet)
	}
	if len(u.Pull) > 0 {
		update["$pull"] = bson.M(u.Pull)
	}
	return update
}
