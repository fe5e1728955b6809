// path: database/sightings_test.go
package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"parkwatch/models"
)

// descendingSightings builds n docs ordered the way the listing query returns
// them: newest id first.
func descendingSightings(n int) []models.Sighting {
	docs := make([]models.Sighting, n)
	for i := range docs {
		docs[i] = models.Sighting{ID: primitive.NewObjectID()}
	}
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		docs[i], docs[j] = docs[j], docs[i]
	}
	return docs
}

func TestPageSightingsLastPage(t *testing.T) {
	docs := descendingSightings(2)

	items, cursor := pageSightings(docs, 2)
	assert.Len(t, items, 2)
	assert.Empty(t, cursor, "no probe row, no next page")

	items, cursor = pageSightings(nil, 20)
	assert.Empty(t, items)
	assert.Empty(t, cursor)
}

func TestPageSightingsCursorIsLastReturnedItem(t *testing.T) {
	docs := descendingSightings(3)

	items, cursor := pageSightings(docs, 2)
	require.Len(t, items, 2)
	assert.Equal(t, items[1].ID.Hex(), cursor,
		"cursor must point at the last returned item, not the probe row")
}

// Walking pages with the "_id < cursor" filter must visit every document
// exactly once, including the ones landing on a page boundary.
func TestPageSightingsWalkVisitsEveryDocument(t *testing.T) {
	docs := descendingSightings(5)
	const limit = 2

	after := func(cursor string) []models.Sighting {
		if cursor == "" {
			return docs
		}
		oid, err := primitive.ObjectIDFromHex(cursor)
		require.NoError(t, err)
		var out []models.Sighting
		for _, d := range docs {
			if d.ID.Hex() < oid.Hex() {
				out = append(out, d)
			}
		}
		return out
	}

	var visited []string
	cursor := ""
	for pages := 0; ; pages++ {
		require.Less(t, pages, len(docs), "walk did not terminate")
		rows := after(cursor)
		if len(rows) > limit+1 {
			rows = rows[:limit+1]
		}
		items, next := pageSightings(rows, limit)
		for _, it := range items {
			visited = append(visited, it.ID.Hex())
		}
		if next == "" {
			break
		}
		cursor = next
	}

	want := make([]string, len(docs))
	for i, d := range docs {
		want[i] = d.ID.Hex()
	}
	assert.Equal(t, want, visited, "every document retrievable, in order, exactly once")
}
