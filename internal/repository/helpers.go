package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/forgo/shelf/internal/database"
	"github.com/forgo/shelf/internal/model"
	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// normalizeUUID validates an id used by the memory and SurrealDB stores and
// returns its canonical form.
func normalizeUUID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", fmt.Errorf("%w: %q", database.ErrInvalidID, id)
	}
	return parsed.String(), nil
}

// recordKey extracts the key part of a SurrealDB record id
func recordKey(id interface{}) string {
	switch v := id.(type) {
	case models.RecordID:
		return fmt.Sprint(v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprint(v.ID)
		}
	case string:
		if _, key, found := strings.Cut(v, ":"); found {
			return strings.Trim(key, "⟨⟩`")
		}
		return v
	case map[string]interface{}:
		// Handle {"tb": "table", "id": "xxx"} format
		if key, ok := v["id"]; ok {
			return fmt.Sprint(key)
		}
	}
	return ""
}

// extractQueryResults extracts the records of the first statement from a
// SurrealDB response
func extractQueryResults(results []interface{}) []interface{} {
	if len(results) == 0 {
		return nil
	}
	if first, ok := results[0].(map[string]interface{}); ok {
		if records, ok := first["result"].([]interface{}); ok {
			return records
		}
		if first["result"] == nil {
			return nil
		}
	}
	return results
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getInt extracts an int value from a map
func getInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case float32:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	}
	return 0
}

// getTime extracts a time value from a map
func getTime(m map[string]interface{}, key string) time.Time {
	switch v := m[key].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	case time.Time:
		return v
	case models.CustomDateTime:
		return v.Time
	case *models.CustomDateTime:
		if v != nil {
			return v.Time
		}
	}
	return time.Time{}
}

// parseBookRecord maps a SurrealDB record onto a Book
func parseBookRecord(record interface{}) (*model.Book, error) {
	m, ok := record.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: unexpected record type %T", database.ErrQuery, record)
	}

	return &model.Book{
		ID:              recordKey(m["id"]),
		Title:           getString(m, "title"),
		Author:          getString(m, "author"),
		Category:        getString(m, "category"),
		PublishedYear:   getInt(m, "publishedYear"),
		AvailableCopies: getInt(m, "availableCopies"),
		CreatedAt:       getTime(m, "createdAt"),
		UpdatedAt:       getTime(m, "updatedAt"),
	}, nil
}

func cloneBook(b *model.Book) *model.Book {
	c := *b
	return &c
}
