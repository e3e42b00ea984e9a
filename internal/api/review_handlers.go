package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mylibapp/mylib-server/internal/service"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/reviews",
		Summary:     "List reviews",
		Description: "Returns all reviews, or one book's reviews when book_id is given, oldest first.",
		Tags:        []string{"Reviews"},
	}, s.handleListReviews)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReview",
		Method:      http.MethodGet,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Get review",
		Tags:        []string{"Reviews"},
	}, s.handleGetReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "createReview",
		Method:      http.MethodPost,
		Path:        "/api/v1/reviews",
		Summary:     "Create review",
		Description: "Posts a review on a book. Any authenticated user may review.",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReview",
		Method:      http.MethodDelete,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Delete review",
		Description: "Deletes a review. Allowed for its author, moderators, and admins.",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteReview)
}

// === DTOs ===

type ListReviewsInput struct {
	BookID int64 `query:"book_id" doc:"Restrict to one book's reviews"`
}

type ListReviewsOutput struct {
	Body struct {
		Reviews []service.ReviewView `json:"reviews" doc:"Matching reviews"`
	}
}

type GetReviewInput struct {
	ID int64 `path:"id" doc:"Review ID"`
}

type ReviewOutput struct {
	Body service.ReviewView
}

type CreateReviewInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateReviewRequest
}

type DeleteReviewInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Review ID"`
}

// === Handlers ===

func (s *Server) handleListReviews(ctx context.Context, input *ListReviewsInput) (*ListReviewsOutput, error) {
	var reviews []service.ReviewView
	var err error
	if input.BookID > 0 {
		reviews, err = s.services.Reviews.ListReviewsForBook(ctx, input.BookID)
	} else {
		reviews, err = s.services.Reviews.ListReviews(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := &ListReviewsOutput{}
	out.Body.Reviews = reviews
	return out, nil
}

func (s *Server) handleGetReview(ctx context.Context, input *GetReviewInput) (*ReviewOutput, error) {
	view, err := s.services.Reviews.GetReview(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: *view}, nil
}

func (s *Server) handleCreateReview(ctx context.Context, input *CreateReviewInput) (*ReviewOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Reviews.CreateReview(ctx, actor, input.Body)
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: *view}, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *DeleteReviewInput) (*RemovedOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Reviews.DeleteReview(ctx, actor, input.ID); err != nil {
		return nil, err
	}
	return &RemovedOutput{Body: RemovedResponse{Removed: input.ID}}, nil
}
