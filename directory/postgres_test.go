package directory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/session"
)

type pgUser struct {
	id, email, name, avatar, hash string
	roles                         []string
}

// fakeDB answers the two statements Postgres issues against an in-memory
// table.
type fakeDB struct {
	mu      sync.Mutex
	users   map[string]pgUser
	updates int
	err     error
}

func newFakeDB() *fakeDB {
	return &fakeDB{users: map[string]pgUser{}}
}

type fakeRow struct {
	u   pgUser
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.u.id
	*dest[1].(*string) = r.u.name
	*dest[2].(*[]string) = append([]string(nil), r.u.roles...)
	*dest[3].(*string) = r.u.avatar
	*dest[4].(*string) = r.u.hash
	return nil
}

func (db *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.err != nil {
		return fakeRow{err: db.err}
	}
	u, ok := db.users[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{u: u}
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if strings.Contains(sql, "INSERT") {
		email := args[1].(string)
		if _, exists := db.users[email]; exists {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505"}
		}
		db.users[email] = pgUser{
			id:     args[0].(string),
			email:  email,
			name:   args[2].(string),
			roles:  args[3].([]string),
			avatar: args[4].(string),
			hash:   args[5].(string),
		}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	for email, u := range db.users {
		if u.id == args[1].(string) {
			u.hash = args[0].(string)
			db.users[email] = u
			db.updates++
		}
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func seededPostgres(t *testing.T) (*Postgres, *fakeDB) {
	t.Helper()
	db := newFakeDB()
	p := NewPostgres(db, cheapHasher(t))
	for _, u := range ConsoleUsers() {
		_, err := p.Add(context.Background(), u)
		require.NoError(t, err)
	}
	return p, db
}

func TestPostgresLookup(t *testing.T) {
	p, _ := seededPostgres(t)

	rec, err := p.Lookup(context.Background(), " Manager@Example.com ", "manager123")
	require.NoError(t, err)
	assert.Equal(t, "2", rec.ID)
	assert.Equal(t, "Manager User", rec.DisplayName)
	assert.Equal(t, []string{"manager"}, rec.Roles)
}

func TestPostgresWrongPasswordAndUnknownEmailMatch(t *testing.T) {
	p, _ := seededPostgres(t)
	ctx := context.Background()

	_, err := p.Lookup(ctx, "admin@example.com", "nope-nope")
	assert.ErrorIs(t, err, session.ErrUserNotFound)
	_, err = p.Lookup(ctx, "ghost@example.com", "admin123")
	assert.ErrorIs(t, err, session.ErrUserNotFound)
}

func TestPostgresQueryErrorIsNotUserNotFound(t *testing.T) {
	p, db := seededPostgres(t)
	db.err = errors.New("connection reset")

	_, err := p.Lookup(context.Background(), "admin@example.com", "admin123")
	require.Error(t, err)
	assert.False(t, errors.Is(err, session.ErrUserNotFound))
}

func TestPostgresDuplicateEmail(t *testing.T) {
	p, _ := seededPostgres(t)
	_, err := p.Add(context.Background(), User{Email: "ADMIN@example.com", Password: "another1"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestPostgresUpgradesWeakHash(t *testing.T) {
	db := newFakeDB()
	weak := NewPostgres(db, cheapHasher(t))
	_, err := weak.Add(context.Background(), User{ID: "9", Email: "ops@example.com", Password: "ops-pass", Roles: []string{"user"}})
	require.NoError(t, err)

	stronger, err := password.NewArgon2(password.Config{
		Memory:      8 * 1024,
		Time:        2,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	require.NoError(t, err)

	p := NewPostgres(db, stronger)
	_, err = p.Lookup(context.Background(), "ops@example.com", "ops-pass")
	require.NoError(t, err)
	assert.Equal(t, 1, db.updates)

	_, err = p.Lookup(context.Background(), "ops@example.com", "ops-pass")
	require.NoError(t, err)
	assert.Equal(t, 1, db.updates, "upgraded hash must not be rewritten again")
}
