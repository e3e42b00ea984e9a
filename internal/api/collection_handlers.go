package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mylibapp/mylib-server/internal/domain"
	"github.com/mylibapp/mylib-server/internal/service"
)

func (s *Server) registerCollectionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCollections",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections",
		Summary:     "List collections",
		Description: "Lists the caller's own collections.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCollections)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCollection",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Get collection",
		Description: "Returns a collection with its books. Owner only.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCollection",
		Method:      http.MethodPost,
		Path:        "/api/v1/collections",
		Summary:     "Create collection",
		Description: "Creates a collection owned by the caller. Every listed book must exist.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCollection",
		Method:      http.MethodPut,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Update collection",
		Description: "Replaces a collection's title and book set wholesale. Owner only.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCollection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Delete collection",
		Description: "Deletes a collection. Owner only.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCollection)
}

// === DTOs ===

type ListCollectionsInput struct {
	Authorization string `header:"Authorization"`
}

type ListCollectionsOutput struct {
	Body struct {
		Collections []*domain.Collection `json:"collections" doc:"The caller's collections"`
	}
}

type GetCollectionInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Collection ID"`
}

type CollectionOutput struct {
	Body service.CollectionView
}

type CreateCollectionInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateCollectionRequest
}

type UpdateCollectionInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Collection ID"`
	Body          service.UpdateCollectionRequest
}

type DeleteCollectionInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Collection ID"`
}

// === Handlers ===

func (s *Server) handleListCollections(ctx context.Context, input *ListCollectionsInput) (*ListCollectionsOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	collections, err := s.services.Collections.ListCollections(ctx, actor)
	if err != nil {
		return nil, err
	}

	out := &ListCollectionsOutput{}
	out.Body.Collections = collections
	return out, nil
}

func (s *Server) handleGetCollection(ctx context.Context, input *GetCollectionInput) (*CollectionOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Collections.GetCollection(ctx, actor, input.ID)
	if err != nil {
		return nil, err
	}
	return &CollectionOutput{Body: *view}, nil
}

func (s *Server) handleCreateCollection(ctx context.Context, input *CreateCollectionInput) (*CollectionOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Collections.CreateCollection(ctx, actor, input.Body)
	if err != nil {
		return nil, err
	}
	return &CollectionOutput{Body: *view}, nil
}

func (s *Server) handleUpdateCollection(ctx context.Context, input *UpdateCollectionInput) (*CollectionOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Collections.UpdateCollection(ctx, actor, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &CollectionOutput{Body: *view}, nil
}

func (s *Server) handleDeleteCollection(ctx context.Context, input *DeleteCollectionInput) (*RemovedOutput, error) {
	actor, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Collections.DeleteCollection(ctx, actor, input.ID); err != nil {
		return nil, err
	}
	return &RemovedOutput{Body: RemovedResponse{Removed: input.ID}}, nil
}
