// Package token encodes a session principal into the opaque bearer token kept
// in client storage, and decodes it back.
//
// Two codecs are provided. [JWTCodec] signs tokens (HS256 or Ed25519) and
// verifies signature, issuer, audience, and expiry on decode. [MockCodec]
// reproduces the development-only format of base64 JSON with a constant
// placeholder signature; it proves nothing about who produced the token and
// must not be enabled in production.
//
// Both codecs report undecodable input as [session.ErrTokenMalformed] and
// expired input as [session.ErrTokenExpired].
package token
