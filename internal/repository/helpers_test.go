package repository

import (
	"testing"
	"time"

	"github.com/forgo/shelf/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

func TestRecordKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", recordKey(models.RecordID{Table: "book", ID: "abc"}))
	assert.Equal(t, "abc", recordKey(&models.RecordID{Table: "book", ID: "abc"}))
	assert.Equal(t, "abc", recordKey("book:abc"))
	assert.Equal(t, "abc", recordKey("book:⟨abc⟩"))
	assert.Equal(t, "abc", recordKey(map[string]interface{}{"tb": "book", "id": "abc"}))
	assert.Equal(t, "", recordKey(nil))
}

func TestNormalizeUUID(t *testing.T) {
	t.Parallel()

	id, err := normalizeUUID(" 6BA7B810-9DAD-11D1-80B4-00C04FD430C8 ")
	require.NoError(t, err)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", id)

	_, err = normalizeUUID("64b7f0c2e13e4a5b6c7d8e9f")
	assert.ErrorIs(t, err, database.ErrInvalidID)
}

func TestParseBookRecord(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	book, err := parseBookRecord(map[string]interface{}{
		"id":              models.RecordID{Table: "book", ID: "k1"},
		"title":           "Dune",
		"author":          "Herbert",
		"category":        "SciFi",
		"publishedYear":   uint64(1965),
		"availableCopies": int64(2),
		"createdAt":       models.CustomDateTime{Time: created},
		"updatedAt":       created.Format(time.RFC3339Nano),
	})
	require.NoError(t, err)

	assert.Equal(t, "k1", book.ID)
	assert.Equal(t, 1965, book.PublishedYear)
	assert.Equal(t, 2, book.AvailableCopies)
	assert.True(t, book.CreatedAt.Equal(created))
	assert.True(t, book.UpdatedAt.Equal(created))

	_, err = parseBookRecord("oops")
	assert.ErrorIs(t, err, database.ErrQuery)
}

func TestExtractQueryResults(t *testing.T) {
	t.Parallel()

	records := []interface{}{map[string]interface{}{"title": "Dune"}}
	got := extractQueryResults([]interface{}{
		map[string]interface{}{"status": "OK", "result": records},
	})
	assert.Len(t, got, 1)

	assert.Empty(t, extractQueryResults(nil))
	assert.Empty(t, extractQueryResults([]interface{}{
		map[string]interface{}{"status": "OK", "result": nil},
	}))
}
