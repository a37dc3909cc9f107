package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"devhive/internal/model"
	"devhive/internal/repository"
)

// UserService handles registration, login, and subject resolution.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a new user with a hashed password and a freshly minted
// external subject ID.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if len(req.Username) < model.MinUsernameLength || len(req.Username) > model.MaxUsernameLength {
		return nil, model.ErrInvalidUsername
	}
	if len(req.Password) < model.MinPasswordLength {
		return nil, model.ErrInvalidPassword
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username exists: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ExternalID:     uuid.NewString(),
		Username:       req.Username,
		PasswordHashed: string(hashed),
		AvatarURL:      req.AvatarURL,
		AvatarKey:      req.AvatarKey,
	}
	if req.DisplayName != "" {
		user.DisplayName = &req.DisplayName
	}
	if req.Email != "" {
		user.Email = &req.Email
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[UserService] Registered user %d (%s)", user.ID, user.Username)
	return user, nil
}

// Login verifies credentials and returns the user.
// Unknown usernames and wrong passwords both map to ErrInvalidCredentials
// so the response doesn't leak which usernames exist.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// ResolveSubject maps an authenticated token subject to the user record.
// A valid token whose subject has no matching user yields ErrUserNotFound;
// every authenticated operation resolves the subject before touching data.
func (s *UserService) ResolveSubject(ctx context.Context, subject string) (*model.User, error) {
	return s.userRepo.GetByExternalID(ctx, subject)
}

// GetByID retrieves a user by internal ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
