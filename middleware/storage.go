package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"

	goGate "github.com/MrEthical07/goGate"
)

// Storage is a per-request session.Storage over cookies. Values are
// base64url encoded so any string survives the cookie syntax. Writes are
// visible to later reads in the same request.
type Storage struct {
	w        http.ResponseWriter
	r        *http.Request
	cfg      goGate.CookieConfig
	tokenKey string

	mu      sync.Mutex
	pending map[string]*string
}

// NewStorage returns cookie storage for one request. The session token may
// also arrive as an Authorization bearer header; cookies win.
func NewStorage(w http.ResponseWriter, r *http.Request, cfg goGate.CookieConfig, tokenKey string) *Storage {
	return &Storage{
		w:        w,
		r:        r,
		cfg:      cfg,
		tokenKey: tokenKey,
		pending:  make(map[string]*string),
	}
}

// CookieName maps a storage key to a valid cookie name.
func CookieName(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '.'
		}
	}, key)
}

func (s *Storage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	if v, ok := s.pending[key]; ok {
		s.mu.Unlock()
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}
	s.mu.Unlock()

	c, err := s.r.Cookie(CookieName(key))
	if err != nil {
		if key == s.tokenKey {
			if tok, ok := bearerToken(s.r.Header.Get("Authorization")); ok {
				return tok, true, nil
			}
		}
		return "", false, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		// Undecodable cookies surface as a malformed value, which the
		// session store clears.
		return c.Value, true, nil
	}
	return string(raw), true, nil
}

func (s *Storage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.pending[key] = &value
	s.mu.Unlock()

	http.SetCookie(s.w, s.cookie(key, base64.RawURLEncoding.EncodeToString([]byte(value)), 0))
	return nil
}

func (s *Storage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	s.pending[key] = nil
	s.mu.Unlock()

	http.SetCookie(s.w, s.cookie(key, "", -1))
	return nil
}

func (s *Storage) cookie(key, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName(key),
		Value:    value,
		Path:     s.cfg.Path,
		Domain:   s.cfg.Domain,
		Secure:   s.cfg.Secure,
		HttpOnly: true,
		SameSite: s.cfg.SameSite,
		MaxAge:   maxAge,
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
