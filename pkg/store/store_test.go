package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/albumstack/pkg/album"
	"github.com/matzehuels/albumstack/pkg/document"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	defer s.Close()

	if _, err := s.Get(ctx, document.SeedID); !apperr.Is(err, apperr.ErrCodeNotFound) {
		t.Fatalf("Get(missing) err = %v, want NOT_FOUND", err)
	}

	seed := document.Seed()
	if err := s.Put(ctx, seed, Missing); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Put(ctx, seed, Missing); !apperr.Is(err, apperr.ErrCodeConflict) {
		t.Errorf("second create err = %v, want CONFLICT", err)
	}

	got, err := s.Get(ctx, document.SeedID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != seed.Title || len(got.Blocks) != 3 || len(got.Assets) != 3 {
		t.Fatalf("loaded %s, want %s", got, seed)
	}
	if g, ok := got.Blocks[2].Variant.(album.Grid); !ok || len(g.Spans) != 4 {
		t.Errorf("grid block lost its spans: %#v", got.Blocks[2].Variant)
	}

	next, err := document.RemoveBlock(got, "b1")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, next, got.Revision); err != nil {
		t.Fatalf("update: %v", err)
	}
	// got is now stale.
	if err := s.Put(ctx, got, got.Revision); !apperr.Is(err, apperr.ErrCodeConflict) {
		t.Errorf("stale write err = %v, want CONFLICT", err)
	}
	if err := s.Put(ctx, got, AnyRevision); err != nil {
		t.Errorf("forced write: %v", err)
	}

	other := document.New("album_002", "Second")
	if err := s.Put(ctx, other, 3); !apperr.Is(err, apperr.ErrCodeNotFound) {
		t.Errorf("update of missing doc err = %v, want NOT_FOUND", err)
	}
	if err := s.Put(ctx, other, Missing); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "album_001" || list[1].ID != "album_002" {
		t.Fatalf("List() = %+v", list)
	}
	if list[0].Blocks != 3 || list[0].Title != "Sample Album" {
		t.Errorf("summary = %+v", list[0])
	}

	if err := s.Delete(ctx, "album_002"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "album_002"); !apperr.Is(err, apperr.ErrCodeNotFound) {
		t.Errorf("second delete err = %v, want NOT_FOUND", err)
	}

	bad := document.New("../escape", "x")
	if err := s.Put(ctx, bad, AnyRevision); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("bad id err = %v, want INVALID_INPUT", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := document.Seed()
	if err := s.Put(ctx, doc, Missing); err != nil {
		t.Fatal(err)
	}
	doc.Blocks[0].Aspect = 1.9
	got, _ := s.Get(ctx, doc.ID)
	if got.Blocks[0].Aspect != 1 {
		t.Errorf("store shares block memory with caller: aspect %v", got.Blocks[0].Aspect)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "docs"))
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, s)
}

func TestFileStoreCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := os.WriteFile(filepath.Join(dir, "album_001.json"), []byte(`{"title":`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(context.Background(), "album_001"); !apperr.Is(err, apperr.ErrCodeInvalidFormat) {
		t.Errorf("Get(corrupt) err = %v, want INVALID_FORMAT", err)
	}
}

func TestGridSpansSurviveStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc, err := document.SetSpan(document.Seed(), "b3", 1, album.Span{Cols: 2})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, doc, Missing); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []album.Span{{1, 1}, {2, 1}, {1, 1}, {1, 1}}
	if g := got.Blocks[2].Variant.(album.Grid); len(g.Spans) != len(want) || g.Spans[1] != want[1] {
		t.Errorf("Spans = %v, want %v", g.Spans, want)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "albumstack.db"))
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, s)
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "albumstack.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, document.Seed(), Missing); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	doc, err := s.Get(ctx, document.SeedID)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Blocks) != 3 {
		t.Errorf("blocks = %d after reopen", len(doc.Blocks))
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: BackendMemory})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(memory) = %T", s)
	}

	s, err = Open(ctx, Config{Path: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Open(default) = %T, want *FileStore", s)
	}

	if _, err := Open(ctx, Config{Backend: "postgres"}); err == nil {
		t.Error("unknown backend accepted")
	}
}

func TestRemoteBackendsUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := NewRedisStore(ctx, RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("redis store connected to a closed port")
	}
	if _, err := NewMongoStore(ctx, MongoConfig{URI: "not-a-mongo-uri"}); err == nil {
		t.Error("mongo store accepted an invalid uri")
	}
}
