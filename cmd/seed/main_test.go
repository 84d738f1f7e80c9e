package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/forgo/shelf/internal/model"
	"github.com/forgo/shelf/internal/repository"
	"github.com/forgo/shelf/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSeed_CountsCreatedAndRejected(t *testing.T) {
	t.Parallel()

	path := writeSeedFile(t, `[
		{"title":"Dune","author":"Herbert","category":"SciFi","publishedYear":1965,"availableCopies":2},
		{"title":"Emma","author":"Austen","category":"Classic","publishedYear":"1815","availableCopies":"1"},
		{"title":"Nameless"},
		{"title":"Bad","author":"x","category":"y","publishedYear":2000,"availableCopies":-3}
	]`)

	payloads, err := readPayloads(path)
	require.NoError(t, err)
	require.Len(t, payloads, 4)

	store := repository.NewMemoryBookRepository()
	books := service.NewBookService(service.BookServiceConfig{BookRepo: store})

	report := seed(context.Background(), books, payloads)

	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 2, report.Rejected)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, 2, report.Failures[0].Index)
	assert.Equal(t, "All fields are required.", report.Failures[0].Message)
	assert.Equal(t, 3, report.Failures[1].Index)

	stored, err := store.List(context.Background(), model.BookFilter{})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

// closeTrackingStore records whether the seed run released its store
type closeTrackingStore struct {
	*repository.MemoryBookRepository
	closed bool
}

func (s *closeTrackingStore) Close(ctx context.Context) error {
	s.closed = true
	return s.MemoryBookRepository.Close(ctx)
}

func TestRun_ClosesStoreBeforeReportingRejections(t *testing.T) {
	t.Parallel()

	store := &closeTrackingStore{MemoryBookRepository: repository.NewMemoryBookRepository()}
	books := service.NewBookService(service.BookServiceConfig{BookRepo: store})
	payloads, err := readPayloads(writeSeedFile(t, `[
		{"title":"Dune","author":"Herbert","category":"SciFi","publishedYear":1965,"availableCopies":2},
		{"title":"Nameless"}
	]`))
	require.NoError(t, err)

	var buf bytes.Buffer
	code := run(context.Background(), store, books, payloads, &buf, true, false)

	assert.Equal(t, 2, code)
	assert.True(t, store.closed, "store must be closed before exiting")

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Rejected)
}

func TestRun_CleanSeedExitsZero(t *testing.T) {
	t.Parallel()

	store := &closeTrackingStore{MemoryBookRepository: repository.NewMemoryBookRepository()}
	books := service.NewBookService(service.BookServiceConfig{BookRepo: store})
	payloads, err := readPayloads(writeSeedFile(t, `[
		{"title":"Emma","author":"Austen","category":"Classic","publishedYear":1815,"availableCopies":1}
	]`))
	require.NoError(t, err)

	var buf bytes.Buffer
	code := run(context.Background(), store, books, payloads, &buf, false, true)

	assert.Equal(t, 0, code)
	assert.True(t, store.closed)
	assert.Contains(t, buf.String(), "Seed Dry Run")
}

func TestReadPayloads_RejectsNonArray(t *testing.T) {
	t.Parallel()

	_, err := readPayloads(writeSeedFile(t, `{"title":"Dune"}`))
	assert.Error(t, err)

	_, err = readPayloads(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestPrintReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printReport(&buf, Report{Created: 1, Rejected: 1, Failures: []SeedFailure{{Index: 0, Message: "Invalid request"}}}, true)

	out := buf.String()
	assert.Contains(t, out, "Seed Dry Run")
	assert.Contains(t, out, "Created:  1")
	assert.Contains(t, out, "#0: Invalid request")
}
