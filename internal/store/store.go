// Package store provides persistence for resume documents behind a narrow
// gateway contract. Two implementations exist: a PostgreSQL store for
// production and an in-memory store used as the demo backend and in tests.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/resume"
)

// Gateway is the persistence contract consumed by the editing session and the
// HTTP handlers. Every owner-scoped method enforces isolation: a document id
// that exists but belongs to another owner is indistinguishable from one that
// does not exist.
type Gateway interface {
	// Create persists a new document, assigning id, timestamps and version 1.
	Create(ctx context.Context, ownerID string, doc *resume.Document) (*resume.Document, error)
	// Get returns the owner's document, or ErrNotFound.
	Get(ctx context.Context, ownerID string, id uuid.UUID) (*resume.Document, error)
	// Update replaces the document's content, refreshing updatedAt and
	// incrementing version. Counters, visibility and the share token are
	// server-controlled and survive as stored.
	Update(ctx context.Context, ownerID string, id uuid.UUID, doc *resume.Document) (*resume.Document, error)
	// Delete removes the document; immediately invisible to Get, List and
	// GetByShareToken.
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
	// List returns the owner's documents ordered by updatedAt descending.
	List(ctx context.Context, ownerID string) ([]*resume.Document, error)
	// GetByShareToken returns the owner-stripped projection of a public
	// document. Private documents are ErrNotFound regardless of token.
	GetByShareToken(ctx context.Context, token string) (*resume.PublicDocument, error)
	// SetVisibility publishes or unpublishes a document. Publishing mints a
	// fresh share token; unpublishing clears it permanently.
	SetVisibility(ctx context.Context, ownerID string, id uuid.UUID, v resume.Visibility) (*resume.Document, error)
	// IncrementViews and IncrementDownloads are atomic, best-effort counter
	// bumps. Callers must not fail their primary operation when these error.
	IncrementViews(ctx context.Context, id uuid.UUID) error
	IncrementDownloads(ctx context.Context, id uuid.UUID) error
}

// ErrNotFound indicates a document that does not resolve for the caller. It
// does not distinguish "does not exist" from "exists but owned
// by someone else".
type ErrNotFound struct {
	ID uuid.UUID
}

func (e *ErrNotFound) Error() string {
	if e.ID == uuid.Nil {
		return "resume not found"
	}
	return fmt.Sprintf("resume not found: %s", e.ID)
}

// ErrConflict indicates a uniqueness or version conflict. Currently raised on
// share-token collisions; reserved for optimistic-concurrency version checks.
type ErrConflict struct {
	Reason string
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}
