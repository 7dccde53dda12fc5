package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dynamicreport/report-api/internal/core/domain"
	"github.com/dynamicreport/report-api/internal/core/reportquery"
	"github.com/dynamicreport/report-api/internal/infrastructure/crypto/rsakeys"
)

// ---------------------------------------------------------------------------
// Shared key pairs; 2048-bit generation is slow enough to do once.
// ---------------------------------------------------------------------------

var (
	keysOnce   sync.Once
	primaryKey *rsakeys.KeyPair
	foreignKey *rsakeys.KeyPair
)

func testKeys(t *testing.T) (*rsakeys.KeyPair, *rsakeys.KeyPair) {
	t.Helper()
	keysOnce.Do(func() {
		a, errA := rsa.GenerateKey(rand.Reader, 2048)
		b, errB := rsa.GenerateKey(rand.Reader, 2048)
		if errA != nil || errB != nil {
			return
		}
		primaryKey, foreignKey = rsakeys.New(a), rsakeys.New(b)
	})
	if primaryKey == nil {
		t.Fatalf("generate test keys failed")
	}
	return primaryKey, foreignKey
}

var nopLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory account repository
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	accounts map[string]*domain.Account // keyed by lowercased username
	err      error                      // if set, every call returns it
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) add(t *testing.T, cipher *rsakeys.KeyPair, id int64, username, password, role string) {
	t.Helper()
	enc, err := cipher.Encrypt(password)
	if err != nil {
		t.Fatalf("encrypt password: %v", err)
	}
	r.accounts[strings.ToLower(username)] = &domain.Account{
		ID:                &id,
		Username:          username,
		EncryptedPassword: enc,
		Role:              role,
	}
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.accounts[strings.ToLower(username)]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) lookup(identity domain.Identity) *domain.Account {
	for _, a := range r.accounts {
		if a.ID != nil && *a.ID == identity.AccountID && a.Username == identity.Username {
			return a
		}
	}
	return nil
}

func (r *stubAccountRepo) ExistsByIdentity(_ context.Context, identity domain.Identity) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.lookup(identity) != nil, nil
}

func (r *stubAccountRepo) FindRole(_ context.Context, identity domain.Identity) (string, bool, error) {
	if r.err != nil {
		return "", false, r.err
	}
	a := r.lookup(identity)
	if a == nil || a.Role == "" {
		return "", false, nil
	}
	return a.Role, true, nil
}

// ---------------------------------------------------------------------------
// Login throttle stub
// ---------------------------------------------------------------------------

type stubThrottle struct {
	failures map[string]int
	limit    int
	err      error
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), limit: limit}
}

func (s *stubThrottle) Allow(_ context.Context, username string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.failures[username] < s.limit, nil
}

func (s *stubThrottle) RecordFailure(_ context.Context, username string) error {
	if s.err != nil {
		return s.err
	}
	s.failures[username]++
	return nil
}

func (s *stubThrottle) Reset(_ context.Context, username string) error {
	if s.err != nil {
		return s.err
	}
	delete(s.failures, username)
	return nil
}

// ---------------------------------------------------------------------------
// Report repository stub
// ---------------------------------------------------------------------------

type stubReportRepo struct {
	total    int64
	rows     []domain.ReportRow
	countErr error
	fetchErr error

	countQuery reportquery.Query
	fetchQuery reportquery.Query
}

func (r *stubReportRepo) Count(_ context.Context, q reportquery.Query) (int64, error) {
	r.countQuery = q
	return r.total, r.countErr
}

func (r *stubReportRepo) Fetch(_ context.Context, q reportquery.Query) ([]domain.ReportRow, error) {
	r.fetchQuery = q
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	return r.rows, nil
}

var errStore = errors.New("store unavailable")
