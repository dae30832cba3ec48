package ports

// CredentialService hashes plaintext passwords into storable credentials and
// verifies plaintext against them.
type CredentialService interface {
	Hash(plaintext string) (string, error)
	// Verify never fails loudly: a malformed credential simply does not match.
	Verify(credential, plaintext string) bool
}
