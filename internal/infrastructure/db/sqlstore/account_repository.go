package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dynamicreport/report-api/internal/core/domain"
)

const (
	findAccountByUsernameQuery = `SELECT id, username, password, role FROM account WHERE LOWER(username) = LOWER(?) LIMIT 1`
	accountExistsQuery         = `SELECT id FROM account WHERE id = ? AND username = ? LIMIT 1`
	findAccountRoleQuery       = `SELECT role FROM account WHERE id = ? AND username = ? LIMIT 1`
)

type AccountRepository struct {
	db   *sql.DB
	opts options
}

func NewAccountRepository(db *sql.DB, opts ...Option) *AccountRepository {
	return &AccountRepository{db: db, opts: newOptions(opts)}
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.queryTimeout)
	defer cancel()

	var (
		id       sql.NullInt64
		account  domain.Account
		password sql.NullString
		role     sql.NullString
	)
	err := r.db.QueryRowContext(ctx, r.opts.rebind(findAccountByUsernameQuery), username).
		Scan(&id, &account.Username, &password, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if id.Valid {
		v := id.Int64
		account.ID = &v
	}
	account.EncryptedPassword = password.String
	account.Role = role.String
	return &account, nil
}

func (r *AccountRepository) ExistsByIdentity(ctx context.Context, identity domain.Identity) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.queryTimeout)
	defer cancel()

	var id sql.NullInt64
	err := r.db.QueryRowContext(ctx, r.opts.rebind(accountExistsQuery), identity.AccountID, identity.Username).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("account exists: %w", err)
	}
	return true, nil
}

func (r *AccountRepository) FindRole(ctx context.Context, identity domain.Identity) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.queryTimeout)
	defer cancel()

	var role sql.NullString
	err := r.db.QueryRowContext(ctx, r.opts.rebind(findAccountRoleQuery), identity.AccountID, identity.Username).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("find role: %w", err)
	}
	if !role.Valid {
		return "", false, nil
	}
	return role.String, true, nil
}
