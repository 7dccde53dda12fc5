package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dynamicreport/report-api/internal/core/domain"
	"github.com/dynamicreport/report-api/internal/core/ports"
)

// RoleResolver reads the current role of an account from the store on every
// request, so role changes apply to tokens that were already issued.
type RoleResolver struct {
	accounts ports.AccountRepository
}

func NewRoleResolver(accounts ports.AccountRepository) *RoleResolver {
	return &RoleResolver{accounts: accounts}
}

// Resolve returns domain.ErrAccountRoleMissing when the account is gone or
// has no role.
func (r *RoleResolver) Resolve(ctx context.Context, identity domain.Identity) (string, error) {
	role, ok, err := r.accounts.FindRole(ctx, identity)
	if err != nil {
		return "", fmt.Errorf("resolve role: %w", err)
	}
	if !ok || strings.TrimSpace(role) == "" {
		return "", domain.ErrAccountRoleMissing
	}
	return role, nil
}
