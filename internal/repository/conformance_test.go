package repository_test

import (
	"sync"
	"testing"

	"github.com/forgo/shelf/internal/database"
	"github.com/forgo/shelf/internal/model"
	"github.com/forgo/shelf/internal/testing/fixtures"
	"github.com/forgo/shelf/internal/testing/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBookStore runs the behaviour every backend must share.
func testBookStore(t *testing.T, tdb *testdb.TestDB) {
	t.Helper()

	t.Run("create assigns identity", func(t *testing.T) {
		book := fixtures.Dune()
		require.NoError(t, tdb.Store.Create(tdb.Ctx(), book))

		assert.NotEmpty(t, book.ID)
		assert.False(t, book.CreatedAt.IsZero())

		got, err := tdb.Store.GetByID(tdb.Ctx(), book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", got.Title)
		assert.Equal(t, 1965, got.PublishedYear)
		assert.Equal(t, 2, got.AvailableCopies)
		assert.Equal(t, book.ID, got.ID)
	})

	t.Run("ids are unique", func(t *testing.T) {
		f := fixtures.New(tdb.Store)
		a := f.CreateBook(t)
		b := f.CreateBook(t)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("list is newest first", func(t *testing.T) {
		category := "Order-" + tdb.Name
		books := fixtures.New(tdb.Store).CreateBooks(t, 3, fixtures.WithCategory(category))

		got, err := tdb.Store.List(tdb.Ctx(), model.BookFilter{Category: &category})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, books[2].ID, got[0].ID)
		assert.Equal(t, books[1].ID, got[1].ID)
		assert.Equal(t, books[0].ID, got[2].ID)

		all, err := tdb.Store.List(tdb.Ctx(), model.BookFilter{})
		require.NoError(t, err)
		for i := 1; i < len(all); i++ {
			assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt), "list must be ordered by createdAt descending")
		}
	})

	t.Run("unknown category is empty", func(t *testing.T) {
		category := "NoSuchCategory"
		got, err := tdb.Store.List(tdb.Ctx(), model.BookFilter{Category: &category})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("published after filters and orders by year", func(t *testing.T) {
		category := "Years-" + tdb.Name
		f := fixtures.New(tdb.Store)
		f.CreateBook(t, fixtures.WithCategory(category), fixtures.WithYear(1985))
		f.CreateBook(t, fixtures.WithCategory(category), fixtures.WithYear(2001))
		f.CreateBook(t, fixtures.WithCategory(category), fixtures.WithYear(1990))
		f.CreateBook(t, fixtures.WithCategory(category), fixtures.WithYear(1995))

		after := 1990.0
		got, err := tdb.Store.List(tdb.Ctx(), model.BookFilter{Category: &category, PublishedAfter: &after})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 2001, got[0].PublishedYear)
		assert.Equal(t, 1995, got[1].PublishedYear)
	})

	t.Run("replace overwrites content", func(t *testing.T) {
		book := fixtures.New(tdb.Store).CreateBook(t)
		createdAt := book.CreatedAt

		update := &model.Book{
			ID:              book.ID,
			Title:           "Children of Dune",
			Author:          "Frank Herbert",
			Category:        "Classics",
			PublishedYear:   1976,
			AvailableCopies: 0,
		}
		require.NoError(t, tdb.Store.Replace(tdb.Ctx(), update))

		assert.Equal(t, "Children of Dune", update.Title)
		assert.True(t, update.CreatedAt.Equal(createdAt), "createdAt must not change")

		got, err := tdb.Store.GetByID(tdb.Ctx(), book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Classics", got.Category)
		assert.Equal(t, 0, got.AvailableCopies)
	})

	t.Run("increment is additive", func(t *testing.T) {
		book := fixtures.New(tdb.Store).CreateBook(t, fixtures.WithCopies(2))

		got, err := tdb.Store.IncrementCopies(tdb.Ctx(), book.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, got.AvailableCopies)

		got, err = tdb.Store.IncrementCopies(tdb.Ctx(), book.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, 8, got.AvailableCopies)
	})

	t.Run("update category", func(t *testing.T) {
		book := fixtures.New(tdb.Store).CreateBook(t)

		got, err := tdb.Store.UpdateCategory(tdb.Ctx(), book.ID, "Fantasy")
		require.NoError(t, err)
		assert.Equal(t, "Fantasy", got.Category)
		assert.Equal(t, book.Title, got.Title)
	})

	t.Run("delete is guarded by copies", func(t *testing.T) {
		book := fixtures.New(tdb.Store).CreateBook(t, fixtures.WithCopies(1))

		err := tdb.Store.DeleteIfNoCopies(tdb.Ctx(), book.ID)
		assert.ErrorIs(t, err, database.ErrPrecondition)

		book.AvailableCopies = 0
		require.NoError(t, tdb.Store.Replace(tdb.Ctx(), book))
		require.NoError(t, tdb.Store.DeleteIfNoCopies(tdb.Ctx(), book.ID))

		_, err = tdb.Store.GetByID(tdb.Ctx(), book.ID)
		assert.ErrorIs(t, err, database.ErrNotFound)

		err = tdb.Store.DeleteIfNoCopies(tdb.Ctx(), book.ID)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("missing ids are not found", func(t *testing.T) {
		_, err := tdb.Store.GetByID(tdb.Ctx(), tdb.MissingID)
		assert.ErrorIs(t, err, database.ErrNotFound)

		err = tdb.Store.Replace(tdb.Ctx(), &model.Book{ID: tdb.MissingID, Title: "x", Author: "y", Category: "z"})
		assert.ErrorIs(t, err, database.ErrNotFound)

		_, err = tdb.Store.IncrementCopies(tdb.Ctx(), tdb.MissingID, 1)
		assert.ErrorIs(t, err, database.ErrNotFound)

		_, err = tdb.Store.UpdateCategory(tdb.Ctx(), tdb.MissingID, "x")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("malformed ids are rejected", func(t *testing.T) {
		const bad = "not-an-id"

		_, err := tdb.Store.GetByID(tdb.Ctx(), bad)
		assert.ErrorIs(t, err, database.ErrInvalidID)

		err = tdb.Store.Replace(tdb.Ctx(), &model.Book{ID: bad})
		assert.ErrorIs(t, err, database.ErrInvalidID)

		_, err = tdb.Store.IncrementCopies(tdb.Ctx(), bad, 1)
		assert.ErrorIs(t, err, database.ErrInvalidID)

		_, err = tdb.Store.UpdateCategory(tdb.Ctx(), bad, "x")
		assert.ErrorIs(t, err, database.ErrInvalidID)

		err = tdb.Store.DeleteIfNoCopies(tdb.Ctx(), bad)
		assert.ErrorIs(t, err, database.ErrInvalidID)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, tdb.Store.Ping(tdb.Ctx()))
	})
}

func TestMemoryBookStore(t *testing.T) {
	tdb := testdb.NewMemory(t)
	defer tdb.Close()

	testBookStore(t, tdb)
}

func TestMongoBookStore(t *testing.T) {
	tdb := testdb.NewMongo(t)
	defer tdb.Close()

	testBookStore(t, tdb)
}

func TestSurrealBookStore(t *testing.T) {
	tdb := testdb.NewSurreal(t)
	defer tdb.Close()

	testBookStore(t, tdb)
}

func TestMemoryBookStore_ConcurrentIncrements(t *testing.T) {
	t.Parallel()

	tdb := testdb.NewMemory(t)
	book := fixtures.New(tdb.Store).CreateBook(t, fixtures.WithCopies(0))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tdb.Store.IncrementCopies(tdb.Ctx(), book.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := tdb.Store.GetByID(tdb.Ctx(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.AvailableCopies)
}
