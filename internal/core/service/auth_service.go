package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dynamicreport/report-api/internal/core/domain"
	"github.com/dynamicreport/report-api/internal/core/ports"
)

// AuthService issues tokens from username/password credentials and
// re-validates tokens presented in an Authorization header.
type AuthService struct {
	accounts ports.AccountRepository
	codec    ports.TokenCodec
	cipher   ports.Cipher
	throttle ports.LoginThrottle
	logger   zerolog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithLoginThrottle limits failed password logins per username.
func WithLoginThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

func NewAuthService(accounts ports.AccountRepository, codec ports.TokenCodec, cipher ports.Cipher, logger zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{accounts: accounts, codec: codec, cipher: cipher, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login re-validates the bearer token when authorization is non-blank and
// otherwise authenticates creds. creds is ignored when a header is present.
func (s *AuthService) Login(ctx context.Context, authorization string, creds *domain.Credentials) (*domain.LoginResult, error) {
	if strings.TrimSpace(authorization) != "" {
		return s.loginWithToken(ctx, authorization)
	}
	return s.loginWithPassword(ctx, creds)
}

func (s *AuthService) loginWithToken(ctx context.Context, authorization string) (*domain.LoginResult, error) {
	token, err := ExtractBearerToken(authorization)
	if err != nil {
		return nil, err
	}
	identity, err := s.codec.Decode(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("token login rejected")
		return nil, err
	}

	exists, err := s.accounts.ExistsByIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("check account: %w", err)
	}
	if !exists {
		s.logger.Info().Int64("account_id", identity.AccountID).Msg("token refers to unknown account")
		return nil, domain.ErrAccountNotFound
	}

	s.logger.Debug().Int64("account_id", identity.AccountID).Msg("token login")
	return &domain.LoginResult{AccessToken: token, Username: identity.Username}, nil
}

func (s *AuthService) loginWithPassword(ctx context.Context, creds *domain.Credentials) (*domain.LoginResult, error) {
	var username, password string
	if creds != nil {
		username, password = creds.Username, creds.Password
	}
	if strings.TrimSpace(username) == "" {
		return nil, domain.NewValidationError(domain.CodeUsernameRequired, "username", "username is required")
	}
	if strings.TrimSpace(password) == "" {
		return nil, domain.NewValidationError(domain.CodePasswordRequired, "password", "password is required")
	}

	key := strings.ToLower(username)
	if !s.allow(ctx, key) {
		s.logger.Warn().Str("username", key).Msg("login throttled")
		return nil, domain.ErrLoginThrottled
	}

	account, err := s.accounts.FindByUsername(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.logger.Info().Str("username", key).Msg("login for unknown account")
			return nil, err
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	stored, err := s.cipher.Decrypt(account.EncryptedPassword)
	if err != nil {
		s.logger.Error().Err(err).Str("username", key).Msg("stored password cannot be decrypted")
		return nil, domain.ErrDecryption
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		s.recordFailure(ctx, key)
		s.logger.Info().Str("username", key).Msg("invalid password")
		return nil, domain.ErrInvalidCredentials
	}
	if account.ID == nil || *account.ID < 0 {
		s.logger.Error().Str("username", key).Msg("account has no usable id")
		return nil, domain.ErrInvalidAccountID
	}

	identity := domain.Identity{AccountID: *account.ID, Username: account.Username}
	token, err := s.codec.Encode(identity)
	if err != nil {
		s.logger.Error().Err(err).Int64("account_id", identity.AccountID).Msg("account cannot be encoded into a token")
		return nil, domain.ErrInvalidAccountID
	}
	s.reset(ctx, key)

	s.logger.Info().Int64("account_id", identity.AccountID).Msg("password login")
	return &domain.LoginResult{AccessToken: token, Username: account.Username}, nil
}

// The throttle fails open: a broken counter store must not lock everyone out.
func (s *AuthService) allow(ctx context.Context, username string) bool {
	if s.throttle == nil {
		return true
	}
	ok, err := s.throttle.Allow(ctx, username)
	if err != nil {
		s.logger.Warn().Err(err).Msg("login throttle unavailable")
		return true
	}
	return ok
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.logger.Warn().Err(err).Msg("record failed login")
	}
}

func (s *AuthService) reset(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Reset(ctx, username); err != nil {
		s.logger.Warn().Err(err).Msg("reset login attempts")
	}
}
