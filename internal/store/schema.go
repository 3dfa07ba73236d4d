package store

import (
	"context"
	"fmt"
)

// schema is the DDL for the resume store. Statements are idempotent so the
// migrate command can run against an existing database.
const schema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS resumes (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	owner_id TEXT NOT NULL,
	title TEXT NOT NULL,
	job_title TEXT NOT NULL DEFAULT '',
	sections JSONB NOT NULL DEFAULT '[]',
	template TEXT NOT NULL DEFAULT 'modern',
	color_scheme TEXT NOT NULL DEFAULT 'blue',
	font_size TEXT NOT NULL DEFAULT 'medium',
	visibility TEXT NOT NULL DEFAULT 'private',
	share_token TEXT UNIQUE,
	view_count INTEGER NOT NULL DEFAULT 0,
	download_count INTEGER NOT NULL DEFAULT 0,
	ai_sections JSONB NOT NULL DEFAULT '[]',
	version INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_resumes_owner_updated ON resumes (owner_id, updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_resumes_share_token ON resumes (share_token) WHERE share_token IS NOT NULL;
`

// Migrate applies the schema to the connected database.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
