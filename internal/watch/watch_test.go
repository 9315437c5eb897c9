package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/albumstack/pkg/document"
	"github.com/matzehuels/albumstack/pkg/io"
)

func writeDoc(t *testing.T, path string, doc *document.Document) {
	t.Helper()
	if err := io.ExportDocument(doc, path); err != nil {
		t.Fatal(err)
	}
}

func next(t *testing.T, ch <-chan *document.Document) *document.Document {
	t.Helper()
	select {
	case doc := <-ch:
		return doc
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return nil
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "album.json")
	doc := document.Seed()
	writeDoc(t, path, doc)

	got := make(chan *document.Document, 4)
	w, err := New(path, func(_ context.Context, d *document.Document) error {
		got <- d
		return nil
	}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	first := next(t, got)
	if first.Title != "Sample Album" {
		t.Errorf("initial title = %q", first.Title)
	}

	renamed, _ := document.SetTitle(doc, "Summer")
	writeDoc(t, path, renamed)

	for {
		d := next(t, got)
		if d.Title == "Summer" {
			break
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestWatcherReportsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "album.json")
	if err := os.WriteFile(path, []byte(`{"blocks":[{"id":"b1"}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	errs := make(chan error, 4)
	w, err := New(path, func(context.Context, *document.Document) error {
		t.Error("handler called for an invalid document")
		return nil
	}, WithErrorHandler(func(err error) { errs <- err }))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	select {
	case err := <-errs:
		if err == nil {
			t.Fatal("nil error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "album.json")
	writeDoc(t, path, document.Seed())

	got := make(chan *document.Document, 4)
	w, err := New(path, func(_ context.Context, d *document.Document) error {
		got <- d
		return nil
	}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)
	next(t, got)

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case d := <-got:
		t.Errorf("unexpected reload of %s", d.ID)
	case <-time.After(200 * time.Millisecond):
	}
}
