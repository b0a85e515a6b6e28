// Package directory provides user directories for the console.
//
// [Memory] keeps users in process and backs development and tests.
// [Postgres] reads the console_users table (see [Schema]) through a pgx pool.
// Both satisfy [session.Directory]. Passwords are held as argon2id hashes;
// an unknown email and a wrong password are indistinguishable to the caller
// and both return [session.ErrUserNotFound].
//
// # What this package must NOT do
//
//   - Issue or persist session tokens.
//   - Keep plaintext passwords after Add returns.
package directory
