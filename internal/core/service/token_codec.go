package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dynamicreport/report-api/internal/core/domain"
	"github.com/dynamicreport/report-api/internal/core/ports"
)

const bearerScheme = "Bearer"

// TokenCodec turns an identity into an opaque token by encrypting
// "<accountId>:<username>" with the service public key. A token is valid for
// as long as it decrypts under the current key pair.
type TokenCodec struct {
	cipher ports.Cipher
}

// NewTokenCodec returns a codec backed by cipher.
func NewTokenCodec(cipher ports.Cipher) *TokenCodec {
	return &TokenCodec{cipher: cipher}
}

// Encode serialises and encrypts identity.
func (c *TokenCodec) Encode(identity domain.Identity) (string, error) {
	if identity.AccountID < 0 || identity.Username == "" || strings.Contains(identity.Username, ":") {
		return "", fmt.Errorf("encode token: identity %q cannot be encoded", identity.Username)
	}
	token, err := c.cipher.Encrypt(identity.String())
	if err != nil {
		return "", fmt.Errorf("encode token: %w", err)
	}
	return token, nil
}

// Decode decrypts token and parses the identity inside it.
func (c *TokenCodec) Decode(token string) (domain.Identity, error) {
	payload, err := c.cipher.Decrypt(token)
	if err != nil {
		return domain.Identity{}, domain.ErrDecryption
	}

	parts := strings.Split(payload, ":")
	if len(parts) != 2 {
		return domain.Identity{}, domain.NewTokenFormatError("invalid token format")
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id < 0 {
		return domain.Identity{}, domain.NewTokenFormatError("invalid token account id")
	}
	if parts[1] == "" {
		return domain.Identity{}, domain.NewTokenFormatError("invalid token username")
	}
	return domain.Identity{AccountID: id, Username: parts[1]}, nil
}

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func ExtractBearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) == 0 {
		return "", domain.NewTokenFormatError("missing authorization header")
	}
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
		return "", domain.NewTokenFormatError("invalid authorization header")
	}
	return parts[1], nil
}
