package token

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goGate/session"
	gjwt "github.com/golang-jwt/jwt/v5"
)

func newEdKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate ed25519 key: %v", err)
	}
	return pub, priv
}

func testPrincipal(now time.Time) *session.Principal {
	return session.NewPrincipal("1", "Admin User", []string{"admin", "manager"}, now, time.Hour)
}

func signClaims(t *testing.T, method gjwt.SigningMethod, key interface{}, c Claims, kid string) string {
	t.Helper()
	tok := gjwt.NewWithClaims(method, c)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	s, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestDecodeRoundTripEd25519(t *testing.T) {
	pub, priv := newEdKeys(t)
	c, err := NewJWTCodec(Config{SigningMethod: MethodEd25519, PrivateKey: priv, PublicKey: pub, Issuer: "gogate"})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	now := time.Now().Truncate(time.Second)
	p := testPrincipal(now)
	tok, err := c.Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := c.Decode(tok, now)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != p.ID || got.DisplayName != p.DisplayName {
		t.Fatalf("identity mismatch: got %+v want %+v", got, p)
	}
	if len(got.Roles) != 2 || got.Roles[0] != "admin" || got.Roles[1] != "manager" {
		t.Fatalf("roles mismatch: %v", got.Roles)
	}
	if !got.ExpiresAt.Equal(p.ExpiresAt) || !got.IssuedAt.Equal(p.IssuedAt) {
		t.Fatalf("timestamps mismatch: got %v/%v want %v/%v", got.IssuedAt, got.ExpiresAt, p.IssuedAt, p.ExpiresAt)
	}
}

func TestDecodeRejectsWrongAlgorithm(t *testing.T) {
	pub, _ := newEdKeys(t)
	c, err := NewJWTCodec(Config{SigningMethod: MethodEd25519, PublicKey: pub})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	now := time.Now()
	claims := claimsFromPrincipal(testPrincipal(now))
	tok := signClaims(t, gjwt.SigningMethodHS256, []byte("secret-secret-secret-secret-secret"), claims, "")

	if _, err := c.Decode(tok, now); !errors.Is(err, session.ErrTokenMalformed) {
		t.Fatalf("expected malformed for wrong algorithm, got %v", err)
	}
}

func TestDecodeIssuerAudienceAndExpiry(t *testing.T) {
	_, priv := newEdKeys(t)
	c, err := NewJWTCodec(Config{
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     priv.Public().(ed25519.PublicKey),
		Issuer:        "gogate",
		Audience:      "console",
	})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	now := time.Now()
	good, err := c.Encode(testPrincipal(now))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := c.Decode(good, now); err != nil {
		t.Fatalf("expected valid token to decode: %v", err)
	}

	wrongIssuer := claimsFromPrincipal(testPrincipal(now))
	wrongIssuer.Issuer = "other"
	wrongIssuer.Audience = gjwt.ClaimStrings{"console"}
	if _, err := c.Decode(signClaims(t, gjwt.SigningMethodEdDSA, priv, wrongIssuer, ""), now); !errors.Is(err, session.ErrTokenMalformed) {
		t.Fatalf("expected wrong issuer to be malformed, got %v", err)
	}

	wrongAudience := claimsFromPrincipal(testPrincipal(now))
	wrongAudience.Issuer = "gogate"
	wrongAudience.Audience = gjwt.ClaimStrings{"other-app"}
	if _, err := c.Decode(signClaims(t, gjwt.SigningMethodEdDSA, priv, wrongAudience, ""), now); !errors.Is(err, session.ErrTokenMalformed) {
		t.Fatalf("expected wrong audience to be malformed, got %v", err)
	}

	if _, err := c.Decode(good, now.Add(2*time.Hour)); !errors.Is(err, session.ErrTokenExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestDecodeRejectsEmptyRoles(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	c, err := NewJWTCodec(Config{SigningMethod: MethodHS256, PrivateKey: secret})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	now := time.Now()
	claims := claimsFromPrincipal(testPrincipal(now))
	claims.Roles = nil
	tok := signClaims(t, gjwt.SigningMethodHS256, secret, claims, "")
	if _, err := c.Decode(tok, now); !errors.Is(err, session.ErrTokenMalformed) {
		t.Fatalf("expected malformed for empty roles, got %v", err)
	}
}

func TestDecodeUnknownKidFails(t *testing.T) {
	pub1, priv1 := newEdKeys(t)
	pub2, _ := newEdKeys(t)
	c, err := NewJWTCodec(Config{
		SigningMethod: MethodEd25519,
		PrivateKey:    priv1,
		PublicKey:     pub1,
		KeyID:         "k1",
		VerifyKeys:    map[string][]byte{"k1": pub1},
	})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	now := time.Now()
	claims := claimsFromPrincipal(testPrincipal(now))
	if _, err := c.Decode(signClaims(t, gjwt.SigningMethodEdDSA, priv1, claims, "k2"), now); err == nil {
		t.Fatal("expected unknown kid failure")
	}

	good := signClaims(t, gjwt.SigningMethodEdDSA, priv1, claims, "k1")
	if _, err := c.Decode(good, now); err != nil {
		t.Fatalf("expected known kid token to pass: %v", err)
	}

	c2, err := NewJWTCodec(Config{SigningMethod: MethodEd25519, PublicKey: pub2, VerifyKeys: map[string][]byte{"k1": pub2}})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	if _, err := c2.Decode(good, now); err == nil {
		t.Fatal("expected decode failure with mismatched key set")
	}
}

func TestNewJWTCodecRejectsBadConfig(t *testing.T) {
	pub, _ := newEdKeys(t)
	for name, cfg := range map[string]Config{
		"short secret":   {SigningMethod: MethodHS256, PrivateKey: []byte("short")},
		"unknown method": {SigningMethod: "rs256"},
		"no ed25519 key": {SigningMethod: MethodEd25519},
		"bad public key": {SigningMethod: MethodEd25519, PublicKey: []byte("nope")},
		"leeway":         {SigningMethod: MethodEd25519, PublicKey: pub, Leeway: time.Hour},
		"kid not in set": {SigningMethod: MethodEd25519, KeyID: "k2", VerifyKeys: map[string][]byte{"k1": pub}},
		"empty kid":      {SigningMethod: MethodEd25519, VerifyKeys: map[string][]byte{" ": pub}},
	} {
		if _, err := NewJWTCodec(cfg); !errors.Is(err, ErrCodecConfig) {
			t.Fatalf("%s: expected ErrCodecConfig, got %v", name, err)
		}
	}
}

func TestDecodeOnlyCodecCannotEncode(t *testing.T) {
	pub, _ := newEdKeys(t)
	c, err := NewJWTCodec(Config{SigningMethod: MethodEd25519, PublicKey: pub})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	if _, err := c.Encode(testPrincipal(time.Now())); err == nil {
		t.Fatal("expected encode without a private key to fail")
	}
}

func TestMockCodecRoundTripAndTamper(t *testing.T) {
	c := NewMockCodec()
	now := time.Now().Truncate(time.Millisecond)
	p := testPrincipal(now)

	tok, err := c.Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := c.Decode(tok, now)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != p.ID || got.DisplayName != p.DisplayName || !got.ExpiresAt.Equal(p.ExpiresAt) {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if _, err := c.Decode(tok+"x", now); !errors.Is(err, session.ErrTokenMalformed) {
		t.Fatalf("expected malformed for altered placeholder, got %v", err)
	}
	if _, err := c.Decode("%%%."+MockSignature, now); !errors.Is(err, session.ErrTokenMalformed) {
		t.Fatalf("expected malformed for bad base64, got %v", err)
	}
	if _, err := c.Decode(tok, p.ExpiresAt); !errors.Is(err, session.ErrTokenExpired) {
		t.Fatalf("expected expired at exact expiry, got %v", err)
	}
}

func TestLeewayDoesNotExtendExpiry(t *testing.T) {
	pub, priv := newEdKeys(t)
	c, err := NewJWTCodec(Config{SigningMethod: MethodEd25519, PrivateKey: priv, PublicKey: pub, Leeway: 30 * time.Second})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	issued := time.Now().Add(-time.Hour).Truncate(time.Second)
	tok, err := c.Encode(testPrincipal(issued))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	expiry := issued.Add(time.Hour)

	if _, err := c.Decode(tok, expiry.Add(-time.Second)); err != nil {
		t.Fatalf("expected token to be valid before expiry: %v", err)
	}
	for _, at := range []time.Time{expiry, expiry.Add(5 * time.Second), expiry.Add(29 * time.Second)} {
		if _, err := c.Decode(tok, at); !errors.Is(err, session.ErrTokenExpired) {
			t.Fatalf("decode at exp%+v: expected ErrTokenExpired, got %v", at.Sub(expiry), err)
		}
	}
}

func TestLeewayToleratesSkewedIssuedAt(t *testing.T) {
	pub, priv := newEdKeys(t)
	c, err := NewJWTCodec(Config{SigningMethod: MethodEd25519, PrivateKey: priv, PublicKey: pub, Leeway: 30 * time.Second})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	now := time.Now().Truncate(time.Second)
	claims := claimsFromPrincipal(testPrincipal(now.Add(10 * time.Second)))
	claims.NotBefore = claims.IssuedAt
	tok := signClaims(t, gjwt.SigningMethodEdDSA, priv, claims, "")
	if _, err := c.Decode(tok, now); err != nil {
		t.Fatalf("expected 10s skew within leeway to pass: %v", err)
	}
}
