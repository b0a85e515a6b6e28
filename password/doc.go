// Package password hashes the console users' passwords with Argon2id.
//
// Hashes are PHC strings:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Passwords shorter than six bytes are refused by Hash (the seeded console
// account "user123" is seven). Verify never rejects a short password, so
// accounts created under an older minimum can still sign in. A directory
// that sees [Argon2.NeedsUpgrade] report true re-hashes after the lookup
// succeeds.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords.
//   - Import any other goGate package.
//   - Log plaintext passwords.
package password
