package records

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process. It backs tests and local runs
// without PostgreSQL or Redis.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document)}
}

func (s *MemoryStore) Add(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = cloneDocument(doc)
	s.order = append(s.order, id)
	return id, nil
}

func (s *MemoryStore) Query(ctx context.Context, field string, value interface{}) ([]StoredDocument, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var matches []StoredDocument
	for _, doc := range all {
		if current, ok := doc.Data[field]; ok && sameValue(current, value) {
			matches = append(matches, doc)
		}
	}
	return matches, nil
}

func (s *MemoryStore) All(ctx context.Context) ([]StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StoredDocument, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, StoredDocument{ID: id, Data: cloneDocument(s.docs[id])})
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return nil
	}
	delete(s.docs, id)
	for i, candidate := range s.order {
		if candidate == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
