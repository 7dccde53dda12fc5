package domain

import (
	"context"
	"strconv"
)

const (
	// RoleUser only sees report rows that belong to its own account.
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is the stored login record. The password is kept RSA-encrypted
// with the service key pair, not hashed.
type Account struct {
	ID                *int64
	Username          string
	EncryptedPassword string
	Role              string
}

// Identity is the (account id, username) pair carried inside a token.
type Identity struct {
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
}

func (i Identity) String() string {
	return strconv.FormatInt(i.AccountID, 10) + ":" + i.Username
}

// Credentials is the optional username/password pair of a login call.
type Credentials struct {
	Username string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string
	Username    string
}

// Principal is the authenticated caller of a protected request: the decoded
// identity plus the role resolved from the account store.
type Principal struct {
	Identity Identity
	Role     string
}

type principalContextKey struct{}

// ContextWithPrincipal attaches the authenticated principal to the context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &p)
}

// PrincipalFromContext extracts the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || p == nil {
		return Principal{}, false
	}
	return *p, true
}
