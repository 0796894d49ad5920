// Package service declares the ports the use cases need from infrastructure:
// hashing, session tokens, federated identity and rate limiting.
package service

// PasswordHasher turns plaintext passwords into stored credentials and checks them.
//
// Hash output is self-describing: algorithm, cost and salt travel inside the string,
// so a hash stays verifiable after the configured cost changes. Check never errors.
// A malformed or foreign value, such as the placeholder stored for federated-only
// accounts, reports false exactly like a wrong password. Rejecting such a value may
// be much faster than a real comparison, so callers that must not leak timing
// compare against a real hash instead.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}
