package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mylibapp/mylib-server/internal/domain"
)

// authenticateRequest validates the Authorization header and resolves it to
// the current user. The user row, including the role, comes fresh from the
// store on every call.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, error) {
	if authHeader == "" {
		return nil, huma.Error401Unauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, huma.Error401Unauthorized("invalid authorization header format")
	}

	user, err := s.services.Auth.Authenticate(ctx, parts[1])
	if err != nil {
		return nil, err
	}

	return user, nil
}

// RemovedResponse reports the id a delete endpoint removed.
type RemovedResponse struct {
	Removed int64 `json:"removed" doc:"ID of the removed resource"`
}

// RemovedOutput wraps the removed response for Huma.
type RemovedOutput struct {
	Body RemovedResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Status message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}
