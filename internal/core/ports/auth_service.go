package ports

import (
	"context"

	"github.com/dynamicreport/report-api/internal/core/domain"
)

// AuthService issues tokens from credentials or re-validates an existing one.
type AuthService interface {
	Login(ctx context.Context, authorization string, creds *domain.Credentials) (*domain.LoginResult, error)
}

// Cipher encrypts and decrypts text with the service key pair. Ciphertexts
// are base64 encoded.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// TokenCodec converts identities to and from opaque bearer tokens.
type TokenCodec interface {
	Encode(identity domain.Identity) (string, error)
	Decode(token string) (domain.Identity, error)
}

// RoleResolver looks up the role of an already decoded identity.
type RoleResolver interface {
	Resolve(ctx context.Context, identity domain.Identity) (string, error)
}

// LoginThrottle counts failed password logins per username.
type LoginThrottle interface {
	Allow(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
