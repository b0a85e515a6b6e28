package token

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MrEthical07/goGate/session"
)

// SigningMethod selects the JWT signature algorithm.
type SigningMethod string

const (
	MethodEd25519 SigningMethod = "ed25519"
	MethodHS256   SigningMethod = "hs256"
)

// ErrCodecConfig is returned by NewJWTCodec for unusable settings or keys.
var ErrCodecConfig = errors.New("invalid token codec config")

const (
	maxLeeway           = 2 * time.Minute
	defaultMaxFutureIAT = 10 * time.Minute
	minHMACSecret       = 32
)

// Config configures a [JWTCodec].
type Config struct {
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	// Leeway tolerates clock skew on iat and nbf. It does not extend exp.
	Leeway       time.Duration
	MaxFutureIAT time.Duration
	// KeyID is written to the kid header. With VerifyKeys set it must name
	// one of them.
	KeyID string
	// VerifyKeys, when set, replaces PublicKey for decoding: tokens must
	// carry a kid found here.
	VerifyKeys map[string][]byte
}

// JWTCodec signs and verifies session tokens. Keys are parsed once at
// construction.
type JWTCodec struct {
	method   jwt.SigningMethod
	issuer   string
	audience string
	leeway   time.Duration
	maxIAT   time.Duration
	kid      string

	signKey   any // nil for decode-only codecs
	verifyKey any
	byKID     map[string]any
	parser    func(now time.Time) *jwt.Parser
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCodecConfig, fmt.Sprintf(format, args...))
}

// NewJWTCodec validates cfg and returns a codec. HS256 takes a shared secret
// of at least 32 bytes in PrivateKey. Ed25519 needs PublicKey or VerifyKeys
// to decode and PrivateKey to encode; keys are raw or PEM.
func NewJWTCodec(cfg Config) (*JWTCodec, error) {
	if cfg.Leeway < 0 || cfg.Leeway > maxLeeway {
		return nil, configErr("leeway must be within [0, %s]", maxLeeway)
	}
	if cfg.MaxFutureIAT == 0 {
		cfg.MaxFutureIAT = defaultMaxFutureIAT
	}
	if cfg.MaxFutureIAT < 0 || cfg.MaxFutureIAT > 24*time.Hour {
		return nil, configErr("max future iat must be within (0, 24h]")
	}

	c := &JWTCodec{
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		leeway:   cfg.Leeway,
		maxIAT:   cfg.MaxFutureIAT,
		kid:      strings.TrimSpace(cfg.KeyID),
	}

	var err error
	switch cfg.SigningMethod {
	case MethodHS256:
		c.method = jwt.SigningMethodHS256
		if len(cfg.PrivateKey) < minHMACSecret {
			return nil, configErr("hs256 secret must be at least %d bytes", minHMACSecret)
		}
		secret := append([]byte(nil), cfg.PrivateKey...)
		c.signKey, c.verifyKey = secret, secret
		c.byKID, err = resolveKeys(cfg.VerifyKeys, func(b []byte) (any, error) { return b, nil })
	case MethodEd25519:
		c.method = jwt.SigningMethodEdDSA
		if len(cfg.PrivateKey) > 0 {
			if c.signKey, err = edPrivateKey(cfg.PrivateKey); err != nil {
				return nil, err
			}
		}
		if len(cfg.PublicKey) > 0 {
			if c.verifyKey, err = edPublicKey(cfg.PublicKey); err != nil {
				return nil, err
			}
		}
		if c.verifyKey == nil && len(cfg.VerifyKeys) == 0 {
			return nil, configErr("ed25519 needs a public key or verify keys")
		}
		c.byKID, err = resolveKeys(cfg.VerifyKeys, func(b []byte) (any, error) { return edPublicKey(b) })
	default:
		return nil, configErr("unsupported signing method %q", cfg.SigningMethod)
	}
	if err != nil {
		return nil, err
	}
	if c.kid != "" && c.byKID != nil {
		if _, ok := c.byKID[c.kid]; !ok {
			return nil, configErr("key id %q not among verify keys", c.kid)
		}
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if c.leeway > 0 {
		opts = append(opts, jwt.WithLeeway(c.leeway))
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	if c.audience != "" {
		opts = append(opts, jwt.WithAudience(c.audience))
	}
	c.parser = func(now time.Time) *jwt.Parser {
		return jwt.NewParser(append(opts, jwt.WithTimeFunc(func() time.Time { return now }))...)
	}
	return c, nil
}

func resolveKeys(raw map[string][]byte, parse func([]byte) (any, error)) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(raw))
	for kid, b := range raw {
		if strings.TrimSpace(kid) == "" {
			return nil, configErr("empty kid in verify keys")
		}
		k, err := parse(b)
		if err != nil {
			return nil, fmt.Errorf("verify key %q: %w", kid, err)
		}
		out[kid] = k
	}
	return out, nil
}

// Encode signs the principal into a compact JWT.
func (j *JWTCodec) Encode(p *session.Principal) (string, error) {
	if p == nil {
		return "", errors.New("nil principal")
	}
	if j.signKey == nil {
		return "", errors.New("codec has no signing key")
	}

	claims := claimsFromPrincipal(p)
	claims.ID = uuid.NewString()
	claims.Issuer = j.issuer
	if j.audience != "" {
		claims.Audience = jwt.ClaimStrings{j.audience}
	}

	tok := jwt.NewWithClaims(j.method, claims)
	if j.kid != "" {
		tok.Header["kid"] = j.kid
	}
	return tok.SignedString(j.signKey)
}

// Decode verifies the token and rebuilds the principal. Expiry is judged
// against now, not the wall clock, and leeway never extends it; leeway only
// relaxes the issued-at and not-before checks.
func (j *JWTCodec) Decode(raw string, now time.Time) (*session.Principal, error) {
	claims := &Claims{}
	tok, err := j.parser(now).ParseWithClaims(raw, claims, j.key)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, session.ErrTokenExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", session.ErrTokenMalformed, err)
	case !tok.Valid:
		return nil, session.ErrTokenMalformed
	}

	if claims.IssuedAt != nil && claims.IssuedAt.After(now.Add(j.maxIAT)) {
		return nil, fmt.Errorf("%w: issued in the future", session.ErrTokenMalformed)
	}
	if err := claims.check(now); err != nil {
		return nil, err
	}
	return claims.principal(), nil
}

// key picks the verification key for t by its kid header.
func (j *JWTCodec) key(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if j.byKID != nil {
		k, ok := j.byKID[kid]
		if !ok {
			return nil, fmt.Errorf("unknown kid %q", kid)
		}
		return k, nil
	}
	if j.kid != "" && kid != j.kid {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	if j.verifyKey == nil {
		return nil, errors.New("no verification key")
	}
	return j.verifyKey, nil
}

func edPrivateKey(b []byte) (ed25519.PrivateKey, error) {
	if len(b) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(b), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(b)
	if err != nil {
		return nil, configErr("ed25519 private key: %v", err)
	}
	k, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, configErr("ed25519 private key has type %T", parsed)
	}
	return k, nil
}

func edPublicKey(b []byte) (ed25519.PublicKey, error) {
	if len(b) == ed25519.PublicKeySize {
		return ed25519.PublicKey(b), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(b)
	if err != nil {
		return nil, configErr("ed25519 public key: %v", err)
	}
	k, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, configErr("ed25519 public key has type %T", parsed)
	}
	return k, nil
}
