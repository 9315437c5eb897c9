// Package session serializes edits to a page document.
//
// The document mutations in package document are pure and synchronous. A
// [Session] owns the current version of one document and is the single
// writer for it: every [Session.Apply] runs under a mutex, checks the
// caller's expected revision, applies the mutation and persists the result
// before it becomes visible. Readers call [Session.Document] at any time;
// documents are immutable, so the returned pointer stays valid.
//
// Usage:
//
//	sess, err := session.Open(ctx, st, "album_001", logger)
//	if err != nil {
//	    return err
//	}
//	doc, err := sess.Apply(ctx, rev, "block.rm", func(d *document.Document) (*document.Document, error) {
//	    return document.RemoveBlock(d, "b2")
//	})
//
// A stale expected revision fails with a CONFLICT error and leaves the
// session unchanged. Pass [store.AnyRevision] to skip the check.
package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/albumstack/pkg/document"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
	"github.com/matzehuels/albumstack/pkg/observability"
	"github.com/matzehuels/albumstack/pkg/store"
)

// Op is one document mutation.
type Op func(*document.Document) (*document.Document, error)

// Session is the single writer for one document.
type Session struct {
	mu     sync.Mutex
	doc    *document.Document
	store  store.Store
	logger *log.Logger
}

// New starts a session on doc. A nil store keeps edits in memory only.
func New(doc *document.Document, st store.Store, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{doc: doc, store: st, logger: logger}
}

// Open loads a document from st and starts a session on it.
func Open(ctx context.Context, st store.Store, id string, logger *log.Logger) (*Session, error) {
	doc, err := st.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return New(doc, st, logger), nil
}

// Document returns the current document.
func (s *Session) Document() *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Revision returns the current revision.
func (s *Session) Revision() int64 {
	return s.Document().Revision
}

// Apply runs op against the current document if its revision equals
// expected. On success the new document is persisted and returned. On any
// failure the current document is returned with the error.
func (s *Session) Apply(ctx context.Context, expected int64, name string, op Op) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.doc
	hooks := observability.Edit()
	if expected != store.AnyRevision && expected != cur.Revision {
		hooks.OnConflict(ctx, cur.ID, expected, cur.Revision)
		return cur, apperr.New(apperr.ErrCodeConflict, "document %q is at revision %d, expected %d", cur.ID, cur.Revision, expected)
	}

	next, err := op(cur)
	if err != nil {
		hooks.OnMutation(ctx, cur.ID, name, cur.Revision, err)
		return cur, err
	}
	if next == cur {
		return cur, nil
	}

	if s.store != nil {
		if err := s.store.Put(ctx, next, cur.Revision); err != nil {
			hooks.OnMutation(ctx, cur.ID, name, cur.Revision, err)
			return cur, err
		}
	}

	s.doc = next
	hooks.OnMutation(ctx, next.ID, name, next.Revision, nil)
	s.logger.Debug("applied edit", "doc", next.ID, "op", name, "revision", next.Revision)
	return next, nil
}

// Reload replaces the current document with the stored one. It is how a
// session recovers after another writer moved the stored revision ahead.
func (s *Session) Reload(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.store.Get(ctx, s.doc.ID)
	if err != nil {
		return err
	}
	s.doc = doc
	return nil
}
