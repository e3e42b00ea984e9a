package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mylibapp/mylib-server/internal/domain"
	"github.com/mylibapp/mylib-server/internal/service"
)

func (s *Server) registerAuthorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listAuthors",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors",
		Summary:     "List authors",
		Tags:        []string{"Authors"},
	}, s.handleListAuthors)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAuthor",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors/{id}",
		Summary:     "Get author",
		Description: "Returns an author with their books. Served cache-first.",
		Tags:        []string{"Authors"},
	}, s.handleGetAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID: "createAuthor",
		Method:      http.MethodPost,
		Path:        "/api/v1/authors",
		Summary:     "Create author",
		Description: "Creates an author. Requires the ADMIN role.",
		Tags:        []string{"Authors"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateAuthor",
		Method:      http.MethodPut,
		Path:        "/api/v1/authors/{id}",
		Summary:     "Update author",
		Description: "Replaces an author's fields. Requires the ADMIN role.",
		Tags:        []string{"Authors"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAuthor",
		Method:      http.MethodDelete,
		Path:        "/api/v1/authors/{id}",
		Summary:     "Delete author",
		Description: "Deletes an author and cascades to their books. Requires the ADMIN role.",
		Tags:        []string{"Authors"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAuthor)
}

// === DTOs ===

type ListAuthorsOutput struct {
	Body struct {
		Authors []*domain.Author `json:"authors" doc:"All authors"`
	}
}

type GetAuthorInput struct {
	ID int64 `path:"id" doc:"Author ID"`
}

type AuthorDetailOutput struct {
	Body service.AuthorDetail
}

type CreateAuthorInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateAuthorRequest
}

type AuthorOutput struct {
	Body domain.Author
}

type UpdateAuthorInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Author ID"`
	Body          service.UpdateAuthorRequest
}

type DeleteAuthorInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Author ID"`
}

// === Handlers ===

func (s *Server) handleListAuthors(ctx context.Context, _ *struct{}) (*ListAuthorsOutput, error) {
	authors, err := s.services.Authors.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}

	out := &ListAuthorsOutput{}
	out.Body.Authors = authors
	return out, nil
}

func (s *Server) handleGetAuthor(ctx context.Context, input *GetAuthorInput) (*AuthorDetailOutput, error) {
	detail, err := s.services.Authors.GetAuthor(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AuthorDetailOutput{Body: *detail}, nil
}

func (s *Server) handleCreateAuthor(ctx context.Context, input *CreateAuthorInput) (*AuthorOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	a, err := s.services.Authors.CreateAuthor(ctx, actor, input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthorOutput{Body: *a}, nil
}

func (s *Server) handleUpdateAuthor(ctx context.Context, input *UpdateAuthorInput) (*AuthorOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	a, err := s.services.Authors.UpdateAuthor(ctx, actor, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthorOutput{Body: *a}, nil
}

func (s *Server) handleDeleteAuthor(ctx context.Context, input *DeleteAuthorInput) (*RemovedOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Authors.DeleteAuthor(ctx, actor, input.ID); err != nil {
		return nil, err
	}
	return &RemovedOutput{Body: RemovedResponse{Removed: input.ID}}, nil
}
