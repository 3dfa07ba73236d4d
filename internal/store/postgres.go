package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/share"
)

// Postgres is the production Gateway backed by a pgx connection pool.
// Sections travel as a JSONB column; counters are bumped with atomic
// single-statement updates so concurrent increments never lose writes.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

const documentColumns = `id, owner_id, title, job_title, sections, template, color_scheme, font_size,
	 visibility, COALESCE(share_token, ''), view_count, download_count, ai_sections, version, created_at, updated_at`

// rowScanner abstracts pgx.Row and pgx.Rows for scanDocument.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*resume.Document, error) {
	var (
		doc          resume.Document
		sectionsJSON []byte
		aiJSON       []byte
	)
	err := row.Scan(
		&doc.ID, &doc.OwnerID, &doc.Title, &doc.JobTitle, &sectionsJSON,
		&doc.Styling.Template, &doc.Styling.ColorScheme, &doc.Styling.FontSize,
		&doc.Visibility, &doc.ShareToken, &doc.ViewCount, &doc.DownloadCount,
		&aiJSON, &doc.Version, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sectionsJSON, &doc.Sections); err != nil {
		return nil, fmt.Errorf("failed to parse sections: %w", err)
	}
	if len(aiJSON) > 0 {
		if err := json.Unmarshal(aiJSON, &doc.AIGeneratedSectionIDs); err != nil {
			return nil, fmt.Errorf("failed to parse ai section ids: %w", err)
		}
	}
	return &doc, nil
}

func marshalSections(doc *resume.Document) ([]byte, []byte, error) {
	sectionsJSON, err := json.Marshal(doc.Sections)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal sections: %w", err)
	}
	ai := doc.AIGeneratedSectionIDs
	if ai == nil {
		ai = []string{}
	}
	aiJSON, err := json.Marshal(ai)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal ai section ids: %w", err)
	}
	return sectionsJSON, aiJSON, nil
}

// Create inserts a new document and returns it with assigned id, timestamps
// and version 1.
func (p *Postgres) Create(ctx context.Context, ownerID string, doc *resume.Document) (*resume.Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	sectionsJSON, aiJSON, err := marshalSections(doc)
	if err != nil {
		return nil, err
	}

	row := p.pool.QueryRow(ctx,
		`INSERT INTO resumes (owner_id, title, job_title, sections, template, color_scheme, font_size, ai_sections)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+documentColumns,
		ownerID, doc.Title, doc.JobTitle, sectionsJSON,
		doc.Styling.Template, doc.Styling.ColorScheme, doc.Styling.FontSize, aiJSON,
	)
	created, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return created, nil
}

// Get returns the owner's document, or ErrNotFound. A document owned by a
// different owner is reported exactly as if it did not exist.
func (p *Postgres) Get(ctx context.Context, ownerID string, id uuid.UUID) (*resume.Document, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM resumes WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return doc, nil
}

// Update replaces the document's editable content. Counters, visibility and
// the share token are not in the SET list; they survive as stored.
func (p *Postgres) Update(ctx context.Context, ownerID string, id uuid.UUID, doc *resume.Document) (*resume.Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	sectionsJSON, aiJSON, err := marshalSections(doc)
	if err != nil {
		return nil, err
	}

	row := p.pool.QueryRow(ctx,
		`UPDATE resumes
		 SET title = $3, job_title = $4, sections = $5, template = $6, color_scheme = $7,
		     font_size = $8, ai_sections = $9, version = version + 1, updated_at = NOW()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING `+documentColumns,
		id, ownerID, doc.Title, doc.JobTitle, sectionsJSON,
		doc.Styling.Template, doc.Styling.ColorScheme, doc.Styling.FontSize, aiJSON,
	)
	updated, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	return updated, nil
}

// Delete removes the document.
func (p *Postgres) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	result, err := p.pool.Exec(ctx,
		`DELETE FROM resumes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &ErrNotFound{ID: id}
	}
	return nil
}

// List returns the owner's documents, most recently updated first.
func (p *Postgres) List(ctx context.Context, ownerID string) ([]*resume.Document, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM resumes WHERE owner_id = $1 ORDER BY updated_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	docs := make([]*resume.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return docs, nil
}

// GetByShareToken resolves a public document by its token. The owner id never
// leaves this method.
func (p *Postgres) GetByShareToken(ctx context.Context, token string) (*resume.PublicDocument, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM resumes WHERE share_token = $1 AND visibility = 'public'`,
		token,
	)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to resolve share token: %w", err)
	}
	return doc.Public(), nil
}

// SetVisibility publishes or unpublishes a document, minting a fresh token on
// publish. A token uniqueness violation is retried once.
func (p *Postgres) SetVisibility(ctx context.Context, ownerID string, id uuid.UUID, v resume.Visibility) (*resume.Document, error) {
	if v != resume.VisibilityPublic {
		row := p.pool.QueryRow(ctx,
			`UPDATE resumes
			 SET visibility = 'private', share_token = NULL, version = version + 1, updated_at = NOW()
			 WHERE id = $1 AND owner_id = $2
			 RETURNING `+documentColumns,
			id, ownerID,
		)
		doc, err := scanDocument(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &ErrNotFound{ID: id}
			}
			return nil, fmt.Errorf("failed to unpublish resume: %w", err)
		}
		return doc, nil
	}

	for attempt := 0; attempt < 2; attempt++ {
		token, err := share.NewToken()
		if err != nil {
			return nil, err
		}
		row := p.pool.QueryRow(ctx,
			`UPDATE resumes
			 SET visibility = 'public', share_token = $3, version = version + 1, updated_at = NOW()
			 WHERE id = $1 AND owner_id = $2
			 RETURNING `+documentColumns,
			id, ownerID, token,
		)
		doc, err := scanDocument(row)
		if err == nil {
			return doc, nil
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{ID: id}
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue // token collision, retry with a fresh one
		}
		return nil, fmt.Errorf("failed to publish resume: %w", err)
	}
	return nil, &ErrConflict{Reason: "share token collision"}
}

// IncrementViews bumps the view counter in a single atomic statement.
func (p *Postgres) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result, err := p.pool.Exec(ctx,
		`UPDATE resumes SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &ErrNotFound{ID: id}
	}
	return nil
}

// IncrementDownloads bumps the download counter in a single atomic statement.
func (p *Postgres) IncrementDownloads(ctx context.Context, id uuid.UUID) error {
	result, err := p.pool.Exec(ctx,
		`UPDATE resumes SET download_count = download_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment downloads: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &ErrNotFound{ID: id}
	}
	return nil
}
