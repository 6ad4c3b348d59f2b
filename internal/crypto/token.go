package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// TokenLen is the session token length in bytes (256 bits).
const TokenLen = 32

// TokenPair couples the raw token handed to the client with the hash kept
// in storage. The raw value is never persisted.
type TokenPair struct {
	Token string
	Hash  string
}

// NewToken generates an unguessable session token and its storage hash.
func NewToken() (TokenPair, error) {
	b, err := RandBytes(TokenLen)
	if err != nil {
		return TokenPair{}, err
	}
	token := base64.RawURLEncoding.EncodeToString(b)
	return TokenPair{Token: token, Hash: HashToken(token)}, nil
}

// HashToken returns the hex SHA-256 of a raw token for storage lookups.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
