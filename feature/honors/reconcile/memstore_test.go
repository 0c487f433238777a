package reconcile

import (
	"context"
	"sort"
	"sync"
	"time"

	"honor-sync/core/errors"
	"honor-sync/feature/honors/models"
)

// memStore is an in-memory Store with failure injection and write accounting.
type memStore struct {
	mu   sync.Mutex
	docs map[string]Document

	saves   int
	creates int
	scans   int

	// failSave holds the remaining injected failures per game; -1 fails forever.
	failSave map[string]int
	failGet  map[string]error
	failScan error

	inflight   map[string]int
	violations int
	delay      time.Duration
}

func newMemStore(docs ...Document) *memStore {
	s := &memStore{
		docs:     make(map[string]Document),
		failSave: make(map[string]int),
		failGet:  make(map[string]error),
		inflight: make(map[string]int),
	}
	for _, d := range docs {
		s.docs[d.GameID] = clone(d)
	}
	return s
}

func clone(d Document) Document {
	d.Honors = append([]models.CanonicalHonor(nil), d.Honors...)
	return d
}

func (s *memStore) enter(id string) {
	s.mu.Lock()
	s.inflight[id]++
	if s.inflight[id] > 1 {
		s.violations++
	}
	s.mu.Unlock()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
}

func (s *memStore) leave(id string) {
	s.mu.Lock()
	s.inflight[id]--
	s.mu.Unlock()
}

func (s *memStore) Get(ctx context.Context, id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failGet[id]; ok {
		return nil, err
	}
	d, ok := s.docs[id]
	if !ok {
		return nil, errors.NewNotFoundError("game", id)
	}
	c := clone(d)
	return &c, nil
}

func (s *memStore) Save(ctx context.Context, doc *Document) error {
	s.enter(doc.GameID)
	defer s.leave(doc.GameID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.failSave[doc.GameID]; ok && n != 0 {
		if n > 0 {
			s.failSave[doc.GameID] = n - 1
		}
		return errors.ErrTransient
	}
	if _, ok := s.docs[doc.GameID]; !ok {
		return errors.NewNotFoundError("game", doc.GameID)
	}
	s.docs[doc.GameID] = clone(*doc)
	s.saves++
	return nil
}

func (s *memStore) Create(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.GameID]; ok {
		return errors.New("duplicate game")
	}
	s.docs[doc.GameID] = clone(*doc)
	s.creates++
	return nil
}

func (s *memStore) Scan(ctx context.Context, afterID string, limit int) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans++
	if s.failScan != nil {
		return nil, s.failScan
	}
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(s.docs[id]))
	}
	return out, nil
}

func (s *memStore) doc(id string) Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.docs[id])
}

func (s *memStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves + s.creates
}
