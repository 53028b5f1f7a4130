package service

import (
	"context"
	"fmt"
	"time"

	"github.com/suflam/usersvc/internal/domain"
	"github.com/suflam/usersvc/internal/repository"
	"github.com/suflam/usersvc/pkg/events"
	"github.com/suflam/usersvc/pkg/logger"
)

// PasswordHasher is the slice of AuthService the user CRUD needs: create and
// update must store hashes, never plaintext.
type PasswordHasher interface {
	HashPassword(plain string) (string, error)
}

type UserService interface {
	Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, req *domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	bus      events.Publisher
}

func NewUserService(userRepo repository.UserRepository, hasher PasswordHasher, bus events.Publisher) UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
		bus:      bus,
	}
}

func (s *userService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	passwordHash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, req, passwordHash)
	if err != nil {
		return nil, err
	}

	if err := s.bus.Publish(ctx, events.UserCreated, events.UserCreatedEvent{
		UserID:     user.ID,
		CellNumber: user.CellNumber,
		Email:      user.Email,
		RoleID:     int(user.Role),
		CreatedAt:  user.Created,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish user created event", "error", err, "user_id", user.ID)
	}

	return user, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int64, req *domain.UpdateUserRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	// Re-hash only when the password is among the updated fields.
	var passwordHash *string
	if req.Password != nil {
		hash, err := s.hasher.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = &hash
	}

	user, err := s.userRepo.Update(ctx, id, req, passwordHash)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.bus.Publish(ctx, events.UserUpdated, events.UserUpdatedEvent{
		UserID:    user.ID,
		UpdatedAt: user.Modified,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish user updated event", "error", err, "user_id", user.ID)
	}

	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.bus.Publish(ctx, events.UserDeleted, events.UserDeletedEvent{
		UserID:    id,
		DeletedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish user deleted event", "error", err, "user_id", id)
	}

	return nil
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
