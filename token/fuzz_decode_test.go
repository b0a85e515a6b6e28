package token

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/MrEthical07/goGate/session"
)

// FuzzDecode feeds arbitrary strings to both codecs. Invalid input must be
// rejected with an error, never a panic or a nil principal, and nothing
// expired at now is accepted.
func FuzzDecode(f *testing.F) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		f.Fatal(err)
	}
	jc, err := NewJWTCodec(Config{
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
		Issuer:        "fuzz-test",
		Leeway:        30 * time.Second,
		KeyID:         "k1",
		VerifyKeys:    map[string][]byte{"k1": pub},
	})
	if err != nil {
		f.Fatal(err)
	}
	mc := NewMockCodec()

	now := time.Now()
	p := session.NewPrincipal("uid1", "Fuzz", []string{"user"}, now, time.Hour)
	if tok, err := jc.Encode(p); err == nil {
		f.Add(tok)
	}
	if tok, err := mc.Encode(p); err == nil {
		f.Add(tok)
	}
	f.Add("")
	f.Add("not.a.jwt")
	f.Add("." + MockSignature)
	f.Add("eyJhbGciOiJub25lIn0.eyJzdWIiOiJ0ZXN0In0.")

	f.Fuzz(func(t *testing.T, input string) {
		for _, c := range []session.Codec{jc, mc} {
			got, err := c.Decode(input, now)
			if err != nil {
				continue
			}
			if got == nil {
				t.Fatal("Decode returned nil principal without error")
			}
			if !got.ExpiresAt.After(now) {
				t.Fatalf("Decode accepted a token expired at %v", got.ExpiresAt)
			}
		}
	})
}
