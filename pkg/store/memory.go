package store

import (
	"context"
	"sync"

	"github.com/matzehuels/albumstack/pkg/document"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
)

// MemoryStore keeps documents in process memory. Documents are cloned on the
// way in and out.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*document.Document
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*document.Document)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*document.Document, error) {
	if err := apperr.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, notFound(id)
	}
	return doc.Clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, doc *document.Document, expected int64) error {
	if err := validateDoc(doc); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := Missing
	if cur, ok := s.docs[doc.ID]; ok {
		stored = cur.Revision
	}
	if err := checkRevision(doc.ID, stored, expected); err != nil {
		return err
	}
	s.docs[doc.ID] = doc.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return notFound(id)
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) List(context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, summarize(doc))
	}
	sortSummaries(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
