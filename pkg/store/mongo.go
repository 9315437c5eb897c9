package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/albumstack/pkg/document"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string // Defaults to mongodb://localhost:27017
	Database   string // Defaults to "albumstack"
	Collection string // Defaults to "documents"
}

// MongoStore keeps one BSON document per page, keyed by document id. Updates
// are replaces filtered on both _id and revision, so a stale writer matches
// nothing.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "albumstack"
	}
	if cfg.Collection == "" {
		cfg.Collection = "documents"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*document.Document, error) {
	if err := apperr.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	var rec document.Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	return document.FromRecord(rec)
}

func (s *MongoStore) Put(ctx context.Context, doc *document.Document, expected int64) error {
	if err := validateDoc(doc); err != nil {
		return err
	}
	rec := doc.Record()

	switch expected {
	case AnyRevision:
		_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, rec, options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("write document: %w", err)
		}
		return nil
	case Missing:
		_, err := s.coll.InsertOne(ctx, rec)
		if mongo.IsDuplicateKeyError(err) {
			return apperr.New(apperr.ErrCodeConflict, "document %q already exists", doc.ID)
		}
		if err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		return nil
	}

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID, "revision": expected}, rec)
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	stored, err := s.revision(ctx, doc.ID)
	if err != nil {
		return err
	}
	return checkRevision(doc.ID, stored, expected)
}

// revision returns the stored revision of id, or Missing.
func (s *MongoStore) revision(ctx context.Context, id string) (int64, error) {
	var head struct {
		Revision int64 `bson:"revision"`
	}
	opts := options.FindOne().SetProjection(bson.M{"revision": 1})
	err := s.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&head)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Missing, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find revision: %w", err)
	}
	return head.Revision, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"title": 1, "revision": 1, "blocks.id": 1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cur.Close(ctx)

	out := []Summary{}
	for cur.Next(ctx) {
		var row struct {
			ID       string `bson:"_id"`
			Title    string `bson:"title"`
			Revision int64  `bson:"revision"`
			Blocks   []struct {
				ID string `bson:"id"`
			} `bson:"blocks"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, Summary{ID: row.ID, Title: row.Title, Revision: row.Revision, Blocks: len(row.Blocks)})
	}
	return out, cur.Err()
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
