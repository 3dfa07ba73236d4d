package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/share"
)

// Memory is an in-process Gateway backed by a map. It is the demo backend
// (run without a database) and the test double; it implements the same
// contract as Postgres, including owner isolation and atomic counters.
type Memory struct {
	mu     sync.RWMutex
	docs   map[uuid.UUID]*resume.Document
	tokens map[string]uuid.UUID
	users  map[uuid.UUID]*User
	emails map[string]uuid.UUID
	now    func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		docs:   make(map[uuid.UUID]*resume.Document),
		tokens: make(map[string]uuid.UUID),
		users:  make(map[uuid.UUID]*User),
		emails: make(map[string]uuid.UUID),
		now:    time.Now,
	}
}

// WithClock replaces the store's time source. Tests use this to get
// deterministic timestamps.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

// Create persists a new document for the owner.
func (m *Memory) Create(_ context.Context, ownerID string, doc *resume.Document) (*resume.Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := doc.Clone()
	stored.ID = uuid.New()
	stored.OwnerID = ownerID
	stored.Version = 1
	stored.ViewCount = 0
	stored.DownloadCount = 0
	stored.Visibility = resume.VisibilityPrivate
	stored.ShareToken = ""
	now := m.now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	m.docs[stored.ID] = stored
	return stored.Clone(), nil
}

// get returns the live stored document with owner isolation applied.
// Callers must hold the lock.
func (m *Memory) get(ownerID string, id uuid.UUID) (*resume.Document, error) {
	doc, ok := m.docs[id]
	if !ok || doc.OwnerID != ownerID {
		return nil, &ErrNotFound{ID: id}
	}
	return doc, nil
}

// Get returns the owner's document.
func (m *Memory) Get(_ context.Context, ownerID string, id uuid.UUID) (*resume.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, err := m.get(ownerID, id)
	if err != nil {
		return nil, err
	}
	return doc.Clone(), nil
}

// Update replaces the stored document's content. Identity, counters,
// visibility and the share token survive as stored.
func (m *Memory) Update(_ context.Context, ownerID string, id uuid.UUID, doc *resume.Document) (*resume.Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.get(ownerID, id)
	if err != nil {
		return nil, err
	}

	updated := doc.Clone()
	updated.ID = current.ID
	updated.OwnerID = current.OwnerID
	updated.CreatedAt = current.CreatedAt
	updated.Visibility = current.Visibility
	updated.ShareToken = current.ShareToken
	updated.ViewCount = current.ViewCount
	updated.DownloadCount = current.DownloadCount
	updated.Version = current.Version + 1
	updated.UpdatedAt = m.now().UTC()

	m.docs[id] = updated
	return updated.Clone(), nil
}

// Delete removes the document and its share token mapping.
func (m *Memory) Delete(_ context.Context, ownerID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.get(ownerID, id)
	if err != nil {
		return err
	}
	if doc.ShareToken != "" {
		delete(m.tokens, doc.ShareToken)
	}
	delete(m.docs, id)
	return nil
}

// List returns the owner's documents ordered by updatedAt descending.
func (m *Memory) List(_ context.Context, ownerID string) ([]*resume.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*resume.Document, 0)
	for _, doc := range m.docs {
		if doc.OwnerID == ownerID {
			out = append(out, doc.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// GetByShareToken resolves a public document by token, owner-stripped.
func (m *Memory) GetByShareToken(_ context.Context, token string) (*resume.PublicDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.tokens[token]
	if !ok {
		return nil, &ErrNotFound{}
	}
	doc, ok := m.docs[id]
	if !ok || doc.Visibility != resume.VisibilityPublic || doc.ShareToken != token {
		return nil, &ErrNotFound{}
	}
	return doc.Public(), nil
}

// SetVisibility publishes or unpublishes a document. Each publish mints a
// fresh token; the previous token never resolves again.
func (m *Memory) SetVisibility(_ context.Context, ownerID string, id uuid.UUID, v resume.Visibility) (*resume.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.get(ownerID, id)
	if err != nil {
		return nil, err
	}

	if doc.ShareToken != "" {
		delete(m.tokens, doc.ShareToken)
		doc.ShareToken = ""
	}
	doc.Visibility = v
	if v == resume.VisibilityPublic {
		token, err := share.NewToken()
		if err != nil {
			return nil, err
		}
		if _, taken := m.tokens[token]; taken {
			// One retry; a second collision in a 62^12 space means the
			// randomness source is broken.
			token, err = share.NewToken()
			if err != nil {
				return nil, err
			}
			if _, taken := m.tokens[token]; taken {
				return nil, &ErrConflict{Reason: "share token collision"}
			}
		}
		doc.ShareToken = token
		m.tokens[token] = id
	}
	doc.Version++
	doc.UpdatedAt = m.now().UTC()
	return doc.Clone(), nil
}

// IncrementViews bumps the view counter. No-op error if the document is gone.
func (m *Memory) IncrementViews(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[id]
	if !ok {
		return &ErrNotFound{ID: id}
	}
	doc.ViewCount++
	return nil
}

// IncrementDownloads bumps the download counter.
func (m *Memory) IncrementDownloads(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[id]
	if !ok {
		return &ErrNotFound{ID: id}
	}
	doc.DownloadCount++
	return nil
}
