package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forgo/shelf/internal/database"
	"github.com/forgo/shelf/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// BooksCollection is the MongoDB collection holding books
const BooksCollection = "books"

var _ BookStore = (*MongoBookRepository)(nil)

// bookDocument is the stored shape of a book
type bookDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Author          string             `bson:"author"`
	Category        string             `bson:"category"`
	PublishedYear   int                `bson:"publishedYear"`
	AvailableCopies int                `bson:"availableCopies"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func (d *bookDocument) toModel() *model.Book {
	return &model.Book{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Author:          d.Author,
		Category:        d.Category,
		PublishedYear:   d.PublishedYear,
		AvailableCopies: d.AvailableCopies,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
}

// MongoBookRepository handles book data access in MongoDB
type MongoBookRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoBookRepository creates a repository over the given collection
func NewMongoBookRepository(coll *mongo.Collection) *MongoBookRepository {
	return &MongoBookRepository{
		coll: coll,
		// BSON dates carry millisecond precision.
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// EnsureIndexes creates the indexes used by listings. Safe to call repeatedly.
func (r *MongoBookRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "publishedYear", Value: -1}}},
	})
	return err
}

// Create inserts a new book
func (r *MongoBookRepository) Create(ctx context.Context, book *model.Book) error {
	now := r.now()
	doc := bookDocument{
		ID:              primitive.NewObjectID(),
		Title:           book.Title,
		Author:          book.Author,
		Category:        book.Category,
		PublishedYear:   book.PublishedYear,
		AvailableCopies: book.AvailableCopies,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mapMongoError(err)
	}

	book.ID = doc.ID.Hex()
	book.CreatedAt = now
	book.UpdatedAt = now
	return nil
}

// GetByID retrieves a book by ID
func (r *MongoBookRepository) GetByID(ctx context.Context, id string) (*model.Book, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc bookDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	return doc.toModel(), nil
}

// List returns books matching filter
func (r *MongoBookRepository) List(ctx context.Context, filter model.BookFilter) ([]*model.Book, error) {
	query := bson.M{}
	sortOrder := bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

	if filter.Category != nil {
		query["category"] = *filter.Category
	}
	if filter.PublishedAfter != nil {
		query["publishedYear"] = bson.M{"$gt": *filter.PublishedAfter}
		sortOrder = append(bson.D{{Key: "publishedYear", Value: -1}}, sortOrder...)
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(sortOrder))
	if err != nil {
		return nil, mapMongoError(err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapMongoError(err)
	}

	books := make([]*model.Book, 0, len(docs))
	for i := range docs {
		books = append(books, docs[i].toModel())
	}
	return books, nil
}

// Replace overwrites a book's content fields
func (r *MongoBookRepository) Replace(ctx context.Context, book *model.Book) error {
	updated, err := r.findAndUpdate(ctx, book.ID, bson.M{
		"$set": bson.M{
			"title":           book.Title,
			"author":          book.Author,
			"category":        book.Category,
			"publishedYear":   book.PublishedYear,
			"availableCopies": book.AvailableCopies,
			"updatedAt":       r.now(),
		},
	})
	if err != nil {
		return err
	}
	*book = *updated
	return nil
}

// IncrementCopies atomically adds delta to availableCopies
func (r *MongoBookRepository) IncrementCopies(ctx context.Context, id string, delta int) (*model.Book, error) {
	return r.findAndUpdate(ctx, id, bson.M{
		"$inc": bson.M{"availableCopies": delta},
		"$set": bson.M{"updatedAt": r.now()},
	})
}

// UpdateCategory moves a book to another category
func (r *MongoBookRepository) UpdateCategory(ctx context.Context, id, category string) (*model.Book, error) {
	return r.findAndUpdate(ctx, id, bson.M{
		"$set": bson.M{"category": category, "updatedAt": r.now()},
	})
}

// DeleteIfNoCopies removes a book only while availableCopies is 0
func (r *MongoBookRepository) DeleteIfNoCopies(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "availableCopies": 0})
	if err != nil {
		return mapMongoError(err)
	}
	if res.DeletedCount > 0 {
		return nil
	}

	// Nothing deleted: tell a missing book apart from one that still has copies.
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return mapMongoError(err)
	}
	if n == 0 {
		return database.ErrNotFound
	}
	return database.ErrPrecondition
}

// Ping checks the deployment is reachable
func (r *MongoBookRepository) Ping(ctx context.Context) error {
	if err := r.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %v", database.ErrConnection, err)
	}
	return nil
}

// Close disconnects the underlying client
func (r *MongoBookRepository) Close(ctx context.Context) error {
	return r.coll.Database().Client().Disconnect(ctx)
}

func (r *MongoBookRepository) findAndUpdate(ctx context.Context, id string, update bson.M) (*model.Book, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc bookDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	return doc.toModel(), nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", database.ErrInvalidID, id)
	}
	return oid, nil
}

func mapMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return database.ErrNotFound
	case mongo.IsNetworkError(err), mongo.IsTimeout(err):
		return fmt.Errorf("%w: %v", database.ErrConnection, err)
	default:
		return fmt.Errorf("%w: %v", database.ErrQuery, err)
	}
}
