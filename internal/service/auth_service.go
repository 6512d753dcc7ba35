package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"farmdirect/internal/domain"
	"farmdirect/internal/security"
)

// emailPattern is a deliberately loose two-part local@domain.tld check.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// AuthService handles registration and login.
type AuthService struct {
	users  domain.UserRepository
	tokens *security.TokenService
	hash   *security.PasswordHasher
}

func NewAuthService(users domain.UserRepository, tokens *security.TokenService, hash *security.PasswordHasher) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hash:   hash,
	}
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     string
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new account. Checks run before any write, in a fixed
// order: duplicate email, password size, email shape, password strength,
// role. A concurrent duplicate registration that slips past the lookup is
// still caught by the store's unique constraint.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, domain.E(domain.ErrConflict, "Email already registered")
	}

	if len(in.Password) > security.MaxPasswordBytes {
		return nil, domain.EStatus(domain.ErrValidation, 422, "Password is too long (max 72 characters).")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, domain.EStatus(domain.ErrValidation, 422, "Invalid email format")
	}
	if ok, msg := security.ValidatePasswordStrength(in.Password); !ok {
		return nil, domain.E(domain.ErrValidation, msg)
	}
	if !domain.ValidRole(in.Role) {
		return nil, domain.E(domain.ErrValidation, "Role must be 'farmer' or 'buyer'")
	}

	hashed, err := s.hash.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		UUID:         uuid.NewString(),
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hashed,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token carrying the user's
// email, role and public id. The same message covers unknown email and wrong
// password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.E(domain.ErrUnauthorized, "Incorrect email or password")
	}
	if err := s.hash.Verify(password, user.PasswordHash); err != nil {
		return nil, domain.E(domain.ErrUnauthorized, "Incorrect email or password")
	}

	token, err := s.tokens.Issue(security.Identity{
		Email:  user.Email,
		Role:   user.Role,
		UserID: user.UUID,
	})
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}
