package memory

import "newsletter/internal/domain"

// CredentialStore holds operator password digests, loaded once at startup
// and read-only afterwards.
type CredentialStore struct {
	digests map[string]string
}

// NewCredentialStore builds a store from the configured operators.
func NewCredentialStore(operators []domain.Operator) *CredentialStore {
	digests := make(map[string]string, len(operators))
	for _, op := range operators {
		digests[op.Username] = op.Digest
	}
	return &CredentialStore{digests: digests}
}

// Lookup returns the password digest for the given username.
func (s *CredentialStore) Lookup(username string) (string, bool) {
	digest, ok := s.digests[username]
	return digest, ok
}
