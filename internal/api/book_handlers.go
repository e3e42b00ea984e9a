package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mylibapp/mylib-server/internal/service"
	"github.com/mylibapp/mylib-server/internal/store"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns book summaries matching the filter. All filter fields are optional and combine conjunctively.",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns the aggregated book view with author, genres, reviews, and mean rating. Served cache-first.",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Create book",
		Description: "Creates a book. The author and every listed genre must exist. Requires the ADMIN role.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Replaces a book's fields and its genre-link set wholesale. Requires the ADMIN role.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Deletes a book and cascades to its reviews and links. Requires the ADMIN role.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)
}

// === DTOs ===

type ListBooksInput struct {
	Query     string  `query:"query" doc:"Case-insensitive substring match on title"`
	GenreIDs  []int64 `query:"genre_ids" doc:"Match books linked to any of these genres"`
	YearFrom  int     `query:"year_from" doc:"Inclusive lower bound on publication year"`
	YearTo    int     `query:"year_to" doc:"Inclusive upper bound on publication year"`
	AuthorIDs []int64 `query:"author_ids" doc:"Match books by any of these authors"`
}

type ListBooksOutput struct {
	Body struct {
		Books []service.BookSummary `json:"books" doc:"Matching book summaries in id order"`
	}
}

type GetBookInput struct {
	ID int64 `path:"id" doc:"Book ID"`
}

type BookDetailOutput struct {
	Body service.BookDetail
}

type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateBookRequest
}

type UpdateBookInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Book ID"`
	Body          service.UpdateBookRequest
}

type DeleteBookInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Book ID"`
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	filter := store.BookFilter{
		Query:     input.Query,
		GenreIDs:  input.GenreIDs,
		AuthorIDs: input.AuthorIDs,
	}
	if input.YearFrom != 0 {
		filter.YearFrom = &input.YearFrom
	}
	if input.YearTo != 0 {
		filter.YearTo = &input.YearTo
	}

	books, err := s.services.Books.ListBooks(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := &ListBooksOutput{}
	out.Body.Books = books
	return out, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookDetailOutput, error) {
	detail, err := s.services.Books.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookDetailOutput{Body: *detail}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookDetailOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Books.CreateBook(ctx, actor, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookDetailOutput{Body: *detail}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookDetailOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Books.UpdateBook(ctx, actor, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookDetailOutput{Body: *detail}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*RemovedOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Books.DeleteBook(ctx, actor, input.ID); err != nil {
		return nil, err
	}
	return &RemovedOutput{Body: RemovedResponse{Removed: input.ID}}, nil
}
