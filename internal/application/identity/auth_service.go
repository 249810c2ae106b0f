package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/bizline/backoffice/internal/domain/identity"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Error codes returned by Login
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
)

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	GenerateAccessToken(user *identity.User) (*auth.AccessToken, error)
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo identity.UserRepository
	tokens   TokenIssuer
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login authenticates a user and returns an access token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown user", zap.String("username", username))
			return nil, shared.NewDomainError(CodeInvalidCredentials, "Invalid username or password")
		}
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", username))
		return nil, shared.NewDomainError(CodeInvalidCredentials, "Invalid username or password")
	}
	if !user.IsActive() {
		s.logger.Warn("Login attempt for inactive account", zap.String("username", username))
		return nil, shared.NewDomainError(CodeAccountInactive, "Account has been deactivated")
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.NewDomainErrorWithCause("TOKEN_ERROR", "Failed to generate access token", err)
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("username", username),
		zap.String("user_id", user.ID.String()))

	return &LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserResponse(user),
	}, nil
}

// Me returns the profile of the signed-in user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// Navigation returns the menu sections the user's role can read
func (s *AuthService) Navigation(ctx context.Context, userID uuid.UUID) (*NavigationResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NavigationResponse{
		Role:     user.Role.String(),
		Sections: user.Role.Navigation(),
	}, nil
}
