package catalog

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shelfline/shelfline/pkg/errors"
)

// MongoStore is a MongoDB-backed Store for server deployments.
type MongoStore struct {
	client *mongo.Client
	books  *mongo.Collection
}

// MongoConfig holds connection settings for a MongoDB store.
type MongoConfig struct {
	URI        string // e.g. mongodb://localhost:27017
	Database   string // defaults to "shelfline"
	Collection string // defaults to "books"
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
// It also ensures the ISBN index used by FindByISBN.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "shelfline"
	}
	if cfg.Collection == "" {
		cfg.Collection = "books"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to MongoDB at %s", cfg.URI)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping MongoDB at %s", cfg.URI)
	}

	books := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = books.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "isbn", Value: 1}},
		Options: options.Index().SetSparse(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create ISBN index")
	}

	return &MongoStore{client: client, books: books}, nil
}

// List returns all books ordered by AddedAt then ID.
func (s *MongoStore) List(ctx context.Context) ([]Book, error) {
	sort := options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.books.Find(ctx, bson.D{}, sort)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list books")
	}
	defer cur.Close(ctx)

	var out []Book
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode books")
	}
	return out, nil
}

// Get returns the book with the given ID.
func (s *MongoStore) Get(ctx context.Context, id string) (Book, error) {
	var b Book
	err := s.books.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&b)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return Book{}, notFound(id)
	}
	if err != nil {
		return Book{}, errors.Wrap(errors.ErrCodeInternal, err, "get book %s", id)
	}
	return b, nil
}

// FindByISBN returns the book with the given normalized ISBN.
func (s *MongoStore) FindByISBN(ctx context.Context, isbn string) (Book, error) {
	var b Book
	err := s.books.FindOne(ctx, bson.D{{Key: "isbn", Value: isbn}}).Decode(&b)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return Book{}, errors.New(errors.ErrCodeBookNotFound, "no book with ISBN %s", isbn)
	}
	if err != nil {
		return Book{}, errors.Wrap(errors.ErrCodeInternal, err, "find book by ISBN %s", isbn)
	}
	return b, nil
}

// Put inserts or replaces a book by ID.
func (s *MongoStore) Put(ctx context.Context, b Book) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.books.ReplaceOne(ctx, bson.D{{Key: "_id", Value: b.ID}}, b, opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "store book %s", b.ID)
	}
	return nil
}

// Delete removes a book by ID.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.books.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete book %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
