package ports

// PasswordHasher is the one-way salted hash contract. Hash is
// non-deterministic (fresh salt per call); Verify delegates the
// constant-time comparison to the underlying primitive.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
