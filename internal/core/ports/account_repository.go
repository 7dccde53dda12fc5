package ports

import (
	"context"

	"github.com/dynamicreport/report-api/internal/core/domain"
)

// AccountRepository is the read-only view of the account store.
type AccountRepository interface {
	// FindByUsername matches the username case-insensitively and returns
	// domain.ErrAccountNotFound when no account exists.
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	// ExistsByIdentity reports whether an account with exactly this id and
	// username exists.
	ExistsByIdentity(ctx context.Context, identity domain.Identity) (bool, error)
	// FindRole returns the role of the account matching id and username.
	// ok is false when no row matched or the stored role is NULL.
	FindRole(ctx context.Context, identity domain.Identity) (role string, ok bool, err error)
}
