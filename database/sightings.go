// path: database/sightings.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parkwatch/models"
)

// Sightings wraps the "logs" collection.
type Sightings struct {
	col *mongo.Collection
}

// Insert persists a validated sighting and returns it with the assigned id.
func (s *Sightings) Insert(ctx context.Context, doc models.Sighting) (models.Sighting, error) {
	ictx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.col.InsertOne(ictx, doc)
	if err != nil {
		return models.Sighting{}, fmt.Errorf("insert sighting: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc, nil
}

// SightingFilter narrows the map listing. Zero values mean "no constraint".
type SightingFilter struct {
	Limit     int
	Cursor    string
	StartDate *time.Time
	EndDate   *time.Time
	Bound     *orb.Bound
	FireOnly  bool
}

// List returns up to Limit sightings newest-first plus a cursor for the next
// page. Reads tolerate concurrent inserts; no snapshot isolation is assumed.
func (s *Sightings) List(ctx context.Context, f SightingFilter) ([]models.Sighting, string, error) {
	limit := f.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	filter := bson.M{}
	if f.FireOnly {
		filter["fire"] = true
	}
	if f.StartDate != nil {
		setRange(filter, "created_at", "$gte", *f.StartDate)
	}
	if f.EndDate != nil {
		setRange(filter, "created_at", "$lte", *f.EndDate)
	}
	if f.Bound != nil {
		filter["latitude"] = bson.M{"$gte": f.Bound.Min.Lat(), "$lte": f.Bound.Max.Lat()}
		filter["longitude"] = bson.M{"$gte": f.Bound.Min.Lon(), "$lte": f.Bound.Max.Lon()}
	}
	if f.Cursor != "" {
		oid, err := primitive.ObjectIDFromHex(f.Cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", err)
		}
		filter["_id"] = bson.M{"$lt": oid}
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(int64(limit + 1))

	fctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := s.col.Find(fctx, filter, findOpts)
	if err != nil {
		return nil, "", fmt.Errorf("find sightings: %w", err)
	}
	defer cur.Close(fctx)

	docs := make([]models.Sighting, 0, limit+1)
	for cur.Next(fctx) {
		var doc models.Sighting
		if err := cur.Decode(&doc); err != nil {
			return nil, "", fmt.Errorf("decode sighting: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, "", fmt.Errorf("iterate sightings: %w", err)
	}

	items, nextCursor := pageSightings(docs, limit)
	return items, nextCursor, nil
}

// pageSightings trims an over-fetched result to one page. The extra row only
// proves a next page exists; the cursor must be the id of the last item
// actually returned, so the following "$lt" query resumes right after it
// without skipping the probe row.
func pageSightings(docs []models.Sighting, limit int) ([]models.Sighting, string) {
	if len(docs) <= limit {
		return docs, ""
	}
	page := docs[:limit]
	return page, page[limit-1].ID.Hex()
}

func setRange(m bson.M, key, op string, t time.Time) {
	if m[key] == nil {
		m[key] = bson.M{}
	}
	m[key].(bson.M)[op] = t
}
