// Package store persists page documents.
//
// Every backend stores the [document.Record] shape and enforces optimistic
// concurrency on write: [Store.Put] takes the revision the caller last read
// and fails with a CONFLICT error when the stored revision differs. Use
// [Missing] to create a document that must not exist yet, and [AnyRevision]
// to overwrite unconditionally.
//
// Backends:
//   - [MemoryStore]: process-local, for tests and the server's demo mode
//   - [FileStore]: one JSON file per document, the CLI default
//   - [SQLiteStore]: a single SQLite database file (pure Go driver)
//   - [RedisStore]: shared store with WATCH/MULTI transactions
//   - [MongoStore]: shared store with revision-filtered replaces
package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/albumstack/pkg/document"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
)

// Revision preconditions for Put.
const (
	// Missing requires that no document with the id exists.
	Missing int64 = -1

	// AnyRevision skips the revision check.
	AnyRevision int64 = -2
)

// Store is the interface for document storage backends.
type Store interface {
	// Get loads a document. A missing document is a NOT_FOUND error.
	Get(ctx context.Context, id string) (*document.Document, error)

	// Put writes doc if the stored revision equals expected.
	Put(ctx context.Context, doc *document.Document, expected int64) error

	// Delete removes a document. Deleting a missing document is NOT_FOUND.
	Delete(ctx context.Context, id string) error

	// List returns a summary of every stored document, ordered by id.
	List(ctx context.Context) ([]Summary, error)

	// Close releases backend resources.
	Close() error
}

// Summary describes a stored document without its blocks.
type Summary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Revision int64  `json:"revision"`
	Blocks   int    `json:"blocks"`
}

func summarize(doc *document.Document) Summary {
	return Summary{ID: doc.ID, Title: doc.Title, Revision: doc.Revision, Blocks: len(doc.Blocks)}
}

func sortSummaries(out []Summary) {
	slices.SortFunc(out, func(a, b Summary) int { return strings.Compare(a.ID, b.ID) })
}

// checkRevision compares the stored revision (Missing when absent) with the
// caller's precondition.
func checkRevision(id string, stored, expected int64) error {
	if expected == AnyRevision || stored == expected {
		return nil
	}
	if stored == Missing {
		return notFound(id)
	}
	if expected == Missing {
		return apperr.New(apperr.ErrCodeConflict, "document %q already exists", id)
	}
	return conflict(id, stored, expected)
}

func notFound(id string) error {
	return apperr.New(apperr.ErrCodeNotFound, "document %q not found", id)
}

func conflict(id string, stored, expected int64) error {
	return apperr.New(apperr.ErrCodeConflict, "document %q is at revision %d, expected %d", id, stored, expected)
}

func validateDoc(doc *document.Document) error {
	if doc == nil {
		return apperr.New(apperr.ErrCodeInvalidInput, "nil document")
	}
	return apperr.ValidateDocumentID(doc.ID)
}

// Config selects and configures a backend for [Open].
type Config struct {
	Backend string `toml:"backend"` // memory, file, sqlite, redis or mongo
	Path    string `toml:"path"`    // directory (file) or database file (sqlite)

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`

	Prefix string `toml:"prefix"` // key prefix (redis) or collection name (mongo)
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the supported backend names.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo}

// Open creates the backend named by cfg.Backend. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case "", BackendFile:
		return NewFileStore(cfg.Path)
	case BackendSQLite:
		return NewSQLiteStore(cfg.Path)
	case BackendRedis:
		return NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.Prefix,
		})
	case BackendMongo:
		return NewMongoStore(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q (valid: %s)", cfg.Backend, strings.Join(Backends, ", "))
	}
}
