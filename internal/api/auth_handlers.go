package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mylibapp/mylib-server/internal/domain"
	"github.com/mylibapp/mylib-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register new user",
		Description: "Creates a user account with the USER role and seeds the default collections.",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns an access token.",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "requestVerify",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/request-verify",
		Summary:     "Request email verification",
		Description: "Emails a one-time code for verifying the account's address.",
		Tags:        []string{"Authentication"},
	}, s.handleRequestVerify)

	huma.Register(s.api, huma.Operation{
		OperationID: "forgotPassword",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/forgot-password",
		Summary:     "Request password reset",
		Description: "Emails a one-time code for resetting the account's password.",
		Tags:        []string{"Authentication"},
	}, s.handleForgotPassword)

	huma.Register(s.api, huma.Operation{
		OperationID: "exchangeCode",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/exchange-code",
		Summary:     "Exchange one-time code",
		Description: "Swaps an emailed one-time code for its action token. Codes are single use.",
		Tags:        []string{"Authentication"},
	}, s.handleExchangeCode)

	huma.Register(s.api, huma.Operation{
		OperationID: "verify",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/verify",
		Summary:     "Verify email",
		Description: "Consumes a verification action token and marks the account verified.",
		Tags:        []string{"Authentication"},
	}, s.handleVerify)

	huma.Register(s.api, huma.Operation{
		OperationID: "resetPassword",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/reset-password",
		Summary:     "Reset password",
		Description: "Consumes a reset action token and replaces the account password.",
		Tags:        []string{"Authentication"},
	}, s.handleResetPassword)
}

// === DTOs ===

// UserResponse contains user information in auth responses.
type UserResponse struct {
	ID         int64  `json:"id" doc:"User ID"`
	Name       string `json:"name" doc:"Display name"`
	Email      string `json:"email" doc:"Email address"`
	Role       string `json:"role" doc:"Role name"`
	IsVerified bool   `json:"is_verified" doc:"Whether the email address is verified"`
}

// AuthResponse contains an access token and the authenticated user.
type AuthResponse struct {
	Token string       `json:"token" doc:"PASETO access token"`
	User  UserResponse `json:"user" doc:"Authenticated user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body service.RegisterRequest
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body service.LoginRequest
}

// EmailRequest carries an email address for the one-time code flows.
type EmailRequest struct {
	Email string `json:"email" doc:"Account email address"`
}

// EmailInput wraps an email request for Huma.
type EmailInput struct {
	Body EmailRequest
}

// CodeInput wraps a one-time code for Huma.
type CodeInput struct {
	Body struct {
		Code string `json:"code" doc:"One-time code from the email"`
	}
}

// TokenResponse contains an action token.
type TokenResponse struct {
	Token string `json:"token" doc:"Action token for the verify or reset endpoint"`
}

// TokenOutput wraps the token response for Huma.
type TokenOutput struct {
	Body TokenResponse
}

// VerifyInput wraps a verification token for Huma.
type VerifyInput struct {
	Body struct {
		Token string `json:"token" doc:"Verification action token"`
	}
}

// ResetPasswordInput wraps the reset request for Huma.
type ResetPasswordInput struct {
	Body service.ResetPasswordRequest
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	u, token, err := s.services.Auth.Register(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: AuthResponse{Token: token, User: mapUserResponse(u)}}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	u, token, err := s.services.Auth.Login(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: AuthResponse{Token: token, User: mapUserResponse(u)}}, nil
}

func (s *Server) handleRequestVerify(ctx context.Context, input *EmailInput) (*MessageOutput, error) {
	if err := s.services.Auth.RequestVerify(ctx, input.Body.Email); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "verification code sent"}}, nil
}

func (s *Server) handleForgotPassword(ctx context.Context, input *EmailInput) (*MessageOutput, error) {
	if err := s.services.Auth.ForgotPassword(ctx, input.Body.Email); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "reset code sent"}}, nil
}

func (s *Server) handleExchangeCode(ctx context.Context, input *CodeInput) (*TokenOutput, error) {
	token, err := s.services.Auth.ExchangeCode(ctx, input.Body.Code)
	if err != nil {
		return nil, err
	}
	return &TokenOutput{Body: TokenResponse{Token: token}}, nil
}

func (s *Server) handleVerify(ctx context.Context, input *VerifyInput) (*MessageOutput, error) {
	if err := s.services.Auth.Verify(ctx, input.Body.Token); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "email verified"}}, nil
}

func (s *Server) handleResetPassword(ctx context.Context, input *ResetPasswordInput) (*MessageOutput, error) {
	if err := s.services.Auth.ResetPassword(ctx, input.Body); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "password reset"}}, nil
}

// === Mappers ===

func mapUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role.String(),
		IsVerified: u.IsVerified,
	}
}
