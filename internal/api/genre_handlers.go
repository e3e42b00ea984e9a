package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mylibapp/mylib-server/internal/domain"
	"github.com/mylibapp/mylib-server/internal/service"
)

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Tags:        []string{"Genres"},
	}, s.handleListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGenre",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres/{id}",
		Summary:     "Get genre",
		Description: "Returns a genre with its books. Served cache-first.",
		Tags:        []string{"Genres"},
	}, s.handleGetGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "createGenre",
		Method:      http.MethodPost,
		Path:        "/api/v1/genres",
		Summary:     "Create genre",
		Description: "Creates a genre. Requires the ADMIN role.",
		Tags:        []string{"Genres"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGenre",
		Method:      http.MethodPut,
		Path:        "/api/v1/genres/{id}",
		Summary:     "Update genre",
		Description: "Renames a genre. Requires the ADMIN role.",
		Tags:        []string{"Genres"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGenre",
		Method:      http.MethodDelete,
		Path:        "/api/v1/genres/{id}",
		Summary:     "Delete genre",
		Description: "Deletes a genre and its book links. Requires the ADMIN role.",
		Tags:        []string{"Genres"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteGenre)
}

// === DTOs ===

type ListGenresOutput struct {
	Body struct {
		Genres []*domain.Genre `json:"genres" doc:"All genres"`
	}
}

type GetGenreInput struct {
	ID int64 `path:"id" doc:"Genre ID"`
}

type GenreDetailOutput struct {
	Body service.GenreDetail
}

type CreateGenreInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateGenreRequest
}

type GenreOutput struct {
	Body domain.Genre
}

type UpdateGenreInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Genre ID"`
	Body          service.UpdateGenreRequest
}

type DeleteGenreInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Genre ID"`
}

// === Handlers ===

func (s *Server) handleListGenres(ctx context.Context, _ *struct{}) (*ListGenresOutput, error) {
	genres, err := s.services.Genres.ListGenres(ctx)
	if err != nil {
		return nil, err
	}

	out := &ListGenresOutput{}
	out.Body.Genres = genres
	return out, nil
}

func (s *Server) handleGetGenre(ctx context.Context, input *GetGenreInput) (*GenreDetailOutput, error) {
	detail, err := s.services.Genres.GetGenre(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GenreDetailOutput{Body: *detail}, nil
}

func (s *Server) handleCreateGenre(ctx context.Context, input *CreateGenreInput) (*GenreOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	g, err := s.services.Genres.CreateGenre(ctx, actor, input.Body)
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: *g}, nil
}

func (s *Server) handleUpdateGenre(ctx context.Context, input *UpdateGenreInput) (*GenreOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	g, err := s.services.Genres.UpdateGenre(ctx, actor, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: *g}, nil
}

func (s *Server) handleDeleteGenre(ctx context.Context, input *DeleteGenreInput) (*RemovedOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Genres.DeleteGenre(ctx, actor, input.ID); err != nil {
		return nil, err
	}
	return &RemovedOutput{Body: RemovedResponse{Removed: input.ID}}, nil
}
