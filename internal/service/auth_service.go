package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/suflam/usersvc/internal/domain"
	"github.com/suflam/usersvc/internal/repository"
	"github.com/suflam/usersvc/pkg/config"
	"github.com/suflam/usersvc/pkg/events"
	"github.com/suflam/usersvc/pkg/logger"
)

// tokenBytes is the raw entropy of a bearer token: 32 bytes = 256 bits,
// encoded URL-safe without padding.
const tokenBytes = 32

type AuthService interface {
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, hash string) bool
	IssueToken(ctx context.Context, user *domain.User) (*domain.AccessToken, error)
	ResolveToken(ctx context.Context, token string) (*domain.User, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AccessToken, error)
	ReapExpired(ctx context.Context) (int64, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	bus       events.Publisher
	params    *argon2id.Params
	ttlMillis int64
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	bus events.Publisher,
	cfg *config.Config,
) AuthService {
	params := *argon2id.DefaultParams
	if cfg.Auth.Argon2Memory > 0 {
		params.Memory = cfg.Auth.Argon2Memory
	}
	if cfg.Auth.Argon2Iterations > 0 {
		params.Iterations = cfg.Auth.Argon2Iterations
	}
	if cfg.Auth.Argon2Parallelism > 0 {
		params.Parallelism = cfg.Auth.Argon2Parallelism
	}

	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		bus:       bus,
		params:    &params,
		ttlMillis: cfg.Auth.TokenTTL.Milliseconds(),
	}
}

func (s *authService) HashPassword(plain string) (string, error) {
	hash, err := argon2id.CreateHash(plain, s.params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// VerifyPassword reports whether plain matches hash. A malformed hash is
// treated the same as a mismatch.
func (s *authService) VerifyPassword(plain, hash string) bool {
	match, err := argon2id.ComparePasswordAndHash(plain, hash)
	if err != nil {
		return false
	}
	return match
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *authService) IssueToken(ctx context.Context, user *domain.User) (*domain.AccessToken, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	record, err := s.tokenRepo.Insert(ctx, token, s.ttlMillis, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to store access token: %w", err)
	}

	return record, nil
}

func (s *authService) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	record, err := s.tokenRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if record == nil {
		return nil, domain.ErrInvalidToken
	}

	if record.Expired(time.Now()) {
		return nil, domain.ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load token owner: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AccessToken, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByCellNumber(ctx, req.CellNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Unknown cellnumber and wrong password must be indistinguishable to the
	// caller, so both collapse into the same error.
	if user == nil || !s.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	record, err := s.IssueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.bus.Publish(ctx, events.UserLogin, events.UserLoginEvent{
		UserID:   user.ID,
		IssuedAt: record.Created,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish login event", "error", err, "user_id", user.ID)
	}

	return record, nil
}

func (s *authService) ReapExpired(ctx context.Context) (int64, error) {
	return s.tokenRepo.DeleteExpired(ctx)
}
