package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// User is a stored account. PasswordHash never leaves the store layer except
// through VerifyPassword-style flows in the auth service.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStore is the account persistence contract. Both backends implement it
// alongside Gateway.
type UserStore interface {
	// CreateUser stores a new account. Returns ErrEmailTaken when the email
	// is already registered.
	CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error)

	// GetUserByEmail returns the account, or ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID returns the account, or ErrUserNotFound.
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// ErrEmailTaken indicates the email is already registered.
type ErrEmailTaken struct {
	Email string
}

func (e *ErrEmailTaken) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrUserNotFound indicates no account matched the lookup.
type ErrUserNotFound struct{}

func (e *ErrUserNotFound) Error() string { return "user not found" }

// CreateUser stores a new account in memory.
func (m *Memory) CreateUser(_ context.Context, name, email, passwordHash string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.emails[email]; taken {
		return nil, &ErrEmailTaken{Email: email}
	}

	now := m.now().UTC()
	user := &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[user.ID] = user
	m.emails[email] = user.ID
	out := *user
	return &out, nil
}

// GetUserByEmail looks up an account by email.
func (m *Memory) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[email]
	if !ok {
		return nil, &ErrUserNotFound{}
	}
	out := *m.users[id]
	return &out, nil
}

// GetUserByID looks up an account by id.
func (m *Memory) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, &ErrUserNotFound{}
	}
	out := *user
	return &out, nil
}

const userColumns = "id, name, email, password_hash, created_at, updated_at"

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser stores a new account.
func (p *Postgres) CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailTaken{Email: email}
	}

	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(p.pool.QueryRow(ctx, query, name, email, passwordHash))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByEmail looks up an account by email.
func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = $1"
	user, err := scanUser(p.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrUserNotFound{}
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID looks up an account by id.
func (p *Postgres) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"
	user, err := scanUser(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrUserNotFound{}
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
