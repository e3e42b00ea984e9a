package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mylibapp/mylib-server/internal/auth"
	"github.com/mylibapp/mylib-server/internal/cache"
	"github.com/mylibapp/mylib-server/internal/code"
	"github.com/mylibapp/mylib-server/internal/domain"
	domainerrors "github.com/mylibapp/mylib-server/internal/errors"
	"github.com/mylibapp/mylib-server/internal/mail"
	"github.com/mylibapp/mylib-server/internal/store"
	"github.com/mylibapp/mylib-server/internal/validation"
)

// AuthService handles registration, login, and the one-time code flows for
// email verification and password reset.
type AuthService struct {
	store        *store.Store
	cache        *cache.Cache
	tokens       *auth.TokenService
	mailer       mail.Mailer
	logger       *slog.Logger
	validator    *validation.Validator
	codeDuration time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(st *store.Store, c *cache.Cache, tokens *auth.TokenService, mailer mail.Mailer, codeDuration time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:        st,
		cache:        c,
		tokens:       tokens,
		mailer:       mailer,
		logger:       logger,
		validator:    validation.New(),
		codeDuration: codeDuration,
	}
}

// RegisterRequest contains fields for creating an account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Register creates a user with the USER role and seeds their default
// collections in the same transaction. Returns the user and an access token.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", domainerrors.Internal("password hashing failed").WithCause(err)
	}

	u := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.store.CreateUser(ctx, u, domain.DefaultCollectionTitles); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, "", domainerrors.Conflict("email already registered")
		}
		return nil, "", mapStoreErr(err)
	}

	token, err := s.tokens.GenerateAccessToken(u)
	if err != nil {
		return nil, "", domainerrors.Internal("token generation failed").WithCause(err)
	}

	s.logger.Info("user registered", "id", u.ID, "email", u.Email)
	return u, token, nil
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, "", err
	}

	u, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if domainerrors.Is(err, store.ErrUserNotFound) {
			return nil, "", domainerrors.Unauthorized("invalid credentials")
		}
		return nil, "", mapStoreErr(err)
	}

	ok, err := auth.VerifyPassword(u.PasswordHash, req.Password)
	if err != nil {
		return nil, "", domainerrors.Internal("password verification failed").WithCause(err)
	}
	if !ok {
		return nil, "", domainerrors.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.GenerateAccessToken(u)
	if err != nil {
		return nil, "", domainerrors.Internal("token generation failed").WithCause(err)
	}

	return u, token, nil
}

// Authenticate resolves an access token to a user. The user row, including
// the role, is read fresh from the store on every call so role changes and
// deletions take effect on the next request.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token")
	}
	if claims.Purpose != auth.PurposeAccess {
		return nil, domainerrors.Unauthorized("not an access token")
	}

	u, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if domainerrors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.Unauthorized("account no longer exists")
		}
		return nil, mapStoreErr(err)
	}
	return u, nil
}

// RequestVerify issues a one-time verification code for the given email and
// hands it to the mailer.
func (s *AuthService) RequestVerify(ctx context.Context, email string) error {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return mapStoreErr(err)
	}
	if u.IsVerified {
		return domainerrors.Conflict("email already verified")
	}
	return s.issueCode(ctx, u, auth.PurposeVerify)
}

// ForgotPassword issues a one-time reset code for the given email and hands
// it to the mailer.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return mapStoreErr(err)
	}
	return s.issueCode(ctx, u, auth.PurposeReset)
}

// issueCode generates an action token, stashes it under a short one-time
// code with a TTL, and mails the code.
func (s *AuthService) issueCode(ctx context.Context, u *domain.User, purpose string) error {
	token, err := s.tokens.GenerateActionToken(u, purpose, s.codeDuration)
	if err != nil {
		return domainerrors.Internal("token generation failed").WithCause(err)
	}

	c, err := code.Generate()
	if err != nil {
		return domainerrors.Internal("code generation failed").WithCause(err)
	}

	if err := s.cache.PutCode(c, token, s.codeDuration); err != nil {
		return domainerrors.Internal("code storage failed").WithCause(err)
	}

	if err := s.mailer.SendCode(ctx, u.Email, purpose, c); err != nil {
		return domainerrors.Internal("code delivery failed").WithCause(err)
	}

	s.logger.Info("one-time code issued", "user_id", u.ID, "purpose", purpose)
	return nil
}

// ExchangeCode swaps a one-time code for its action token. The code is
// consumed even if the caller then loses the token; they must restart the
// email flow. A missing or expired code reports as expired.
func (s *AuthService) ExchangeCode(_ context.Context, c string) (string, error) {
	token, err := s.cache.TakeCode(c)
	if err != nil {
		if domainerrors.Is(err, cache.ErrCodeNotFound) {
			return "", domainerrors.Expired("code expired or unknown")
		}
		return "", domainerrors.Internal("code lookup failed").WithCause(err)
	}
	return token, nil
}

// Verify consumes a verification action token and marks the user verified.
func (s *AuthService) Verify(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.VerifyActionToken(tokenString, auth.PurposeVerify)
	if err != nil {
		return domainerrors.Unauthorized("invalid or expired verification token")
	}

	if err := s.store.SetUserVerified(ctx, claims.UserID); err != nil {
		return mapStoreErr(err)
	}

	s.logger.Info("email verified", "user_id", claims.UserID)
	return nil
}

// ResetPasswordRequest carries a reset action token and the new password.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// ResetPassword consumes a reset action token and replaces the password.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	claims, err := s.tokens.VerifyActionToken(req.Token, auth.PurposeReset)
	if err != nil {
		return domainerrors.Unauthorized("invalid or expired reset token")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return domainerrors.Internal("password hashing failed").WithCause(err)
	}

	if err := s.store.SetUserPassword(ctx, claims.UserID, hash); err != nil {
		return mapStoreErr(err)
	}

	s.logger.Info("password reset", "user_id", claims.UserID)
	return nil
}
