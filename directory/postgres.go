package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/session"
)

// Schema creates the table read by [Postgres].
const Schema = `
CREATE TABLE IF NOT EXISTS console_users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	display_name  TEXT NOT NULL DEFAULT '',
	roles         TEXT[] NOT NULL DEFAULT '{}',
	avatar_url    TEXT,
	password_hash TEXT NOT NULL,
	disabled      BOOLEAN NOT NULL DEFAULT FALSE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const lookupQuery = `
	SELECT id, display_name, roles, COALESCE(avatar_url, ''), password_hash
	FROM console_users
	WHERE email = $1 AND disabled = FALSE`

const upgradeHashQuery = `
	UPDATE console_users SET password_hash = $1, updated_at = NOW()
	WHERE id = $2`

const insertQuery = `
	INSERT INTO console_users (id, email, display_name, roles, avatar_url, password_hash)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`

// DB is the subset of *pgxpool.Pool and *pgx.Conn that Postgres uses.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ session.Directory = (*Postgres)(nil)

// Postgres looks users up in the console_users table. Emails are stored
// normalized to lower case.
type Postgres struct {
	db     DB
	hasher *password.Argon2
}

// NewPostgres creates a directory over db verifying with hasher.
func NewPostgres(db DB, hasher *password.Argon2) *Postgres {
	return &Postgres{db: db, hasher: hasher}
}

// Add hashes the user's password and inserts the row. An empty ID is
// replaced with a random UUID.
func (p *Postgres) Add(ctx context.Context, u User) (session.UserRecord, error) {
	email := normalizeEmail(u.Email)
	if email == "" {
		return session.UserRecord{}, errors.New("directory: email required")
	}
	hash, err := p.hasher.Hash(u.Password)
	if err != nil {
		return session.UserRecord{}, fmt.Errorf("directory: %s: %w", email, err)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	rec := session.UserRecord{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Roles:       session.NormalizeRoles(u.Roles),
		AvatarURL:   u.AvatarURL,
	}

	if _, err := p.db.Exec(ctx, insertQuery, rec.ID, email, rec.DisplayName, rec.Roles, rec.AvatarURL, hash); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return session.UserRecord{}, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
		}
		return session.UserRecord{}, fmt.Errorf("directory: insert %s: %w", email, err)
	}
	return rec, nil
}

// Lookup returns the record for email when password matches.
func (p *Postgres) Lookup(ctx context.Context, email, pwd string) (session.UserRecord, error) {
	var (
		rec  session.UserRecord
		hash string
	)
	err := p.db.QueryRow(ctx, lookupQuery, normalizeEmail(email)).
		Scan(&rec.ID, &rec.DisplayName, &rec.Roles, &rec.AvatarURL, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.UserRecord{}, session.ErrUserNotFound
		}
		return session.UserRecord{}, fmt.Errorf("directory: lookup: %w", err)
	}

	match, err := p.hasher.Verify(pwd, hash)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooLong) {
			return session.UserRecord{}, session.ErrUserNotFound
		}
		return session.UserRecord{}, err
	}
	if !match {
		return session.UserRecord{}, session.ErrUserNotFound
	}

	p.upgradeHash(ctx, rec.ID, pwd, hash)

	rec.Roles = session.NormalizeRoles(rec.Roles)
	return rec, nil
}

// upgradeHash rewrites hash with the current parameters. Failures are
// ignored; the old hash keeps verifying.
func (p *Postgres) upgradeHash(ctx context.Context, id, pwd, hash string) {
	if stale, err := p.hasher.NeedsUpgrade(hash); err != nil || !stale {
		return
	}
	fresh, err := p.hasher.Hash(pwd)
	if err != nil {
		return
	}
	_, _ = p.db.Exec(ctx, upgradeHashQuery, fresh, id)
}
