package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/goGate/session"
)

// MockSignature is the constant placeholder appended to mock tokens.
const MockSignature = "mock-signature"

type mockPayload struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	IAT   int64    `json:"iat"`
	Exp   int64    `json:"exp"`
}

// MockCodec encodes tokens as base64url JSON followed by [MockSignature].
// Timestamps are Unix milliseconds. Nothing is verified beyond the
// placeholder, so anyone can forge a token; use it only for development.
type MockCodec struct{}

// NewMockCodec returns the development codec.
func NewMockCodec() MockCodec {
	return MockCodec{}
}

// Encode implements [session.Codec].
func (MockCodec) Encode(p *session.Principal) (string, error) {
	if p == nil {
		return "", errors.New("nil principal")
	}
	data, err := json.Marshal(mockPayload{
		ID:    p.ID,
		Name:  p.DisplayName,
		Roles: p.Roles,
		IAT:   p.IssuedAt.UnixMilli(),
		Exp:   p.ExpiresAt.UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data) + "." + MockSignature, nil
}

// Decode implements [session.Codec].
func (MockCodec) Decode(tok string, now time.Time) (*session.Principal, error) {
	payload, sig, ok := strings.Cut(tok, ".")
	if !ok || sig != MockSignature || payload == "" {
		return nil, session.ErrTokenMalformed
	}
	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, session.ErrTokenMalformed
	}

	var m mockPayload
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, session.ErrTokenMalformed
	}
	roles := session.NormalizeRoles(m.Roles)
	if m.ID == "" || len(roles) == 0 || m.Exp == 0 {
		return nil, session.ErrTokenMalformed
	}

	p := &session.Principal{
		ID:          m.ID,
		DisplayName: m.Name,
		Roles:       roles,
		IssuedAt:    time.UnixMilli(m.IAT),
		ExpiresAt:   time.UnixMilli(m.Exp),
	}
	if !p.ExpiresAt.After(now) {
		return nil, session.ErrTokenExpired
	}
	return p, nil
}
