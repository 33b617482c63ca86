package domain

import "errors"

// Authentication failures for the publish endpoint. The HTTP layer maps
// these to 401 (missing header, unknown operator, wrong password) or
// 400 (malformed header), always with a WWW-Authenticate challenge.
var (
	ErrAuthHeaderMissing   = errors.New("missing Authorization header")
	ErrAuthHeaderMalformed = errors.New("malformed Authorization header")
	ErrUnknownOperator     = errors.New("unknown operator username")
	ErrWrongPassword       = errors.New("wrong operator password")
)

// Operator is an authenticated principal permitted to publish newsletters.
// Digest is the hex-encoded SHA3-256 of the operator's password.
type Operator struct {
	Username string
	Digest   string
}

// CredentialStore looks up operator password digests. Populated once at
// startup from configuration and read-only afterwards.
type CredentialStore interface {
	Lookup(username string) (digest string, ok bool)
}
