package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/vgestion/vehiculos-backend/internal/domain"
	"github.com/vgestion/vehiculos-backend/internal/models"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, username, email, hashedPassword string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// FindByUsernameOrEmail returns the first user matching either field,
	// or domain.ErrNotFound when neither exists.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
}

// Service is the authentication gate: it registers users, exchanges
// credentials for bearer tokens, and resolves presented tokens back to
// users. Every protected request passes through Resolve.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens *TokenManager
}

func NewService(users UserRepository, hasher PasswordHasher, tokens *TokenManager) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// Register validates the request, rejects duplicate identities and stores
// the user with a hashed password. The plaintext is not retained.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email y password son obligatorios", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email no válido", domain.ErrValidation)
	}

	// Single combined lookup; the matched field only decides the message.
	existing, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Username == username {
			return nil, domain.ErrUsernameTaken
		}
		return nil, domain.ErrEmailTaken
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, username, email, hashed)
}

// Login exchanges a username and password for a signed bearer token. An
// unknown username and a wrong password return the identical error so that
// the response does not reveal which one failed.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}
	if !s.hasher.Check(password, user.HashedPassword) {
		return "", domain.ErrInvalidCredentials
	}
	return s.tokens.Issue(user.Username)
}

// Resolve verifies a presented token and loads the subject user. Signature
// mismatch, expiry, a missing subject and a subject that no longer exists
// all collapse to ErrUnauthenticated.
func (s *Service) Resolve(ctx context.Context, token string) (*models.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.FindByUsername(ctx, subject)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
