package repository

import (
	"context"
	"sync/atomic"

	"github.com/forgo/shelf/internal/database"
	"github.com/forgo/shelf/internal/model"
)

var _ BookStore = (*Deferred)(nil)

type storeRef struct {
	store BookStore
}

// Deferred is a BookStore whose backend is supplied after construction.
// Until Set is called every operation fails with database.ErrNotConnected,
// which lets the HTTP server start listening while the store connects.
type Deferred struct {
	ref atomic.Pointer[storeRef]
}

// NewDeferred creates an unresolved Deferred store
func NewDeferred() *Deferred {
	return &Deferred{}
}

// Set publishes the connected store to all callers
func (d *Deferred) Set(store BookStore) {
	d.ref.Store(&storeRef{store: store})
}

// Ready reports whether Set has been called
func (d *Deferred) Ready() bool {
	return d.ref.Load() != nil
}

func (d *Deferred) current() (BookStore, error) {
	ref := d.ref.Load()
	if ref == nil {
		return nil, database.ErrNotConnected
	}
	return ref.store, nil
}

func (d *Deferred) Create(ctx context.Context, book *model.Book) error {
	s, err := d.current()
	if err != nil {
		return err
	}
	return s.Create(ctx, book)
}

func (d *Deferred) GetByID(ctx context.Context, id string) (*model.Book, error) {
	s, err := d.current()
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (d *Deferred) List(ctx context.Context, filter model.BookFilter) ([]*model.Book, error) {
	s, err := d.current()
	if err != nil {
		return nil, err
	}
	return s.List(ctx, filter)
}

func (d *Deferred) Replace(ctx context.Context, book *model.Book) error {
	s, err := d.current()
	if err != nil {
		return err
	}
	return s.Replace(ctx, book)
}

func (d *Deferred) IncrementCopies(ctx context.Context, id string, delta int) (*model.Book, error) {
	s, err := d.current()
	if err != nil {
		return nil, err
	}
	return s.IncrementCopies(ctx, id, delta)
}

func (d *Deferred) UpdateCategory(ctx context.Context, id, category string) (*model.Book, error) {
	s, err := d.current()
	if err != nil {
		return nil, err
	}
	return s.UpdateCategory(ctx, id, category)
}

func (d *Deferred) DeleteIfNoCopies(ctx context.Context, id string) error {
	s, err := d.current()
	if err != nil {
		return err
	}
	return s.DeleteIfNoCopies(ctx, id)
}

func (d *Deferred) Ping(ctx context.Context) error {
	s, err := d.current()
	if err != nil {
		return err
	}
	return s.Ping(ctx)
}

// Close closes the resolved store, if any
func (d *Deferred) Close(ctx context.Context) error {
	s, err := d.current()
	if err != nil {
		return nil
	}
	return s.Close(ctx)
}
