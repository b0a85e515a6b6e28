package test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/preferences"
)

func TestSessionSurvivesAcrossStoresOverRedis(t *testing.T) {
	rdb, _ := newRedis(t)
	engine := newEngine(t, testConfig())
	ctx := context.Background()

	first, err := engine.Sessions(clientStorage(rdb, "browser-1"))
	require.NoError(t, err)
	_, err = first.Login(ctx, goGate.Credentials{Email: "admin@example.com", Password: "admin123"})
	require.NoError(t, err)

	// A new store over the same client keys sees the session: a page reload.
	reloaded, err := engine.Sessions(clientStorage(rdb, "browser-1"))
	require.NoError(t, err)
	p, ok := reloaded.Current(ctx)
	require.True(t, ok)
	assert.Equal(t, "1", p.ID)
	assert.Equal(t, []string{goGate.RoleAdmin}, p.Roles)

	other, err := engine.Sessions(clientStorage(rdb, "browser-2"))
	require.NoError(t, err)
	assert.False(t, other.IsAuthenticated(ctx))
}

func TestMalformedTokenInRedisReadsAsAnonymous(t *testing.T) {
	rdb, mr := newRedis(t)
	engine := newEngine(t, testConfig())
	ctx := context.Background()

	sessions, err := engine.Sessions(clientStorage(rdb, "browser-1"))
	require.NoError(t, err)
	_, err = sessions.Login(ctx, goGate.Credentials{Email: "user@example.com", Password: "user123"})
	require.NoError(t, err)

	key := "gg:browser-1:token"
	require.True(t, mr.Exists(key))
	require.NoError(t, mr.Set(key, "not-a-token"))

	assert.False(t, sessions.IsAuthenticated(ctx))
	assert.False(t, mr.Exists(key), "malformed token should be removed")
}

func TestConcurrentClientsKeepTheirOwnDecisions(t *testing.T) {
	rdb, _ := newRedis(t)
	engine := newEngine(t, testConfig())
	ctx := context.Background()

	users := map[string]goGate.Credentials{
		"admin":   {Email: "admin@example.com", Password: "admin123"},
		"manager": {Email: "manager@example.com", Password: "manager123"},
		"user":    {Email: "user@example.com", Password: "user123"},
	}
	want := map[string]goGate.Decision{
		"admin":   goGate.Allow,
		"manager": goGate.RedirectToAccessDenied,
		"user":    goGate.RedirectToAccessDenied,
	}

	var wg sync.WaitGroup
	got := make(map[string]goGate.Decision, len(users))
	var mu sync.Mutex
	for name, creds := range users {
		wg.Add(1)
		go func(name string, creds goGate.Credentials) {
			defer wg.Done()
			g, err := engine.Guard(clientStorage(rdb, name), &navigator{})
			if err != nil {
				t.Errorf("guard %s: %v", name, err)
				return
			}
			if _, err := g.Login(ctx, creds); err != nil {
				t.Errorf("login %s: %v", name, err)
				return
			}
			out, err := g.Navigate(ctx, "/settings")
			if err != nil {
				t.Errorf("navigate %s: %v", name, err)
				return
			}
			mu.Lock()
			got[name] = out.Decision
			mu.Unlock()
		}(name, creds)
	}
	wg.Wait()

	assert.Equal(t, want, got)
}

func TestLayoutPersistsPerUserOverRedis(t *testing.T) {
	rdb, _ := newRedis(t)
	engine := newEngine(t, testConfig())
	ctx := context.Background()

	prefs, err := engine.Preferences(clientStorage(rdb, "browser-1"))
	require.NoError(t, err)

	saved, err := prefs.Save(ctx, "1", []byte(`{"mode":"custom","widgets":[{"id":"stats","column":1,"order":0}]}`))
	require.NoError(t, err)

	again, err := engine.Preferences(clientStorage(rdb, "browser-1"))
	require.NoError(t, err)
	loaded, err := again.Load(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	other, err := again.Load(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultLayout(), other)
}
