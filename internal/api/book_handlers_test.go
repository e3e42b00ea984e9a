package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mylibapp/mylib-server/internal/service"
)

func createAuthor(t *testing.T, ts *testServer, token, name string) int64 {
	t.Helper()
	resp := ts.api.Post("/api/v1/authors", bearer(token), map[string]any{"name": name})
	require.Equal(t, http.StatusOK, resp.Code, "create author failed: %s", resp.Body.String())

	var body struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body.ID
}

func createGenre(t *testing.T, ts *testServer, token, name string) int64 {
	t.Helper()
	resp := ts.api.Post("/api/v1/genres", bearer(token), map[string]any{"name": name})
	require.Equal(t, http.StatusOK, resp.Code, "create genre failed: %s", resp.Body.String())

	var body struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body.ID
}

func TestBookLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	admin := ts.registerAdmin(t, "admin@example.com")
	authorID := createAuthor(t, ts, admin, "Iain Banks")
	genreID := createGenre(t, ts, admin, "Science Fiction")

	resp := ts.api.Post("/api/v1/books", bearer(admin), map[string]any{
		"title":     "Excession",
		"year":      1996,
		"author_id": authorID,
		"genre_ids": []int64{genreID},
	})
	require.Equal(t, http.StatusOK, resp.Code, "create book failed: %s", resp.Body.String())

	var created service.BookDetail
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "Excession", created.Title)
	assert.Equal(t, "Iain Banks", created.Author.Name)
	require.Len(t, created.Genres, 1)
	assert.Zero(t, created.Rating)

	// Public read, no auth header.
	resp = ts.api.Get("/api/v1/books/" + itoa(created.ID))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Put("/api/v1/books/"+itoa(created.ID), bearer(admin), map[string]any{
		"title":     "Excession (revised)",
		"year":      1997,
		"author_id": authorID,
		"genre_ids": []int64{},
	})
	require.Equal(t, http.StatusOK, resp.Code, "update failed: %s", resp.Body.String())

	var updated service.BookDetail
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, "Excession (revised)", updated.Title)
	assert.Empty(t, updated.Genres)

	resp = ts.api.Delete("/api/v1/books/"+itoa(created.ID), bearer(admin))
	require.Equal(t, http.StatusOK, resp.Code)

	var removed RemovedResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &removed))
	assert.Equal(t, created.ID, removed.Removed)

	resp = ts.api.Get("/api/v1/books/" + itoa(created.ID))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateBook_NonAdminForbidden(t *testing.T) {
	ts := setupTestServer(t)

	admin := ts.registerAdmin(t, "admin@example.com")
	authorID := createAuthor(t, ts, admin, "Author")

	user, _ := ts.registerUser(t, "user@example.com")
	resp := ts.api.Post("/api/v1/books", bearer(user), map[string]any{
		"title":     "Denied",
		"year":      2020,
		"author_id": authorID,
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "FORBIDDEN")
}

func TestCreateBook_MissingGenresNamed(t *testing.T) {
	ts := setupTestServer(t)

	admin := ts.registerAdmin(t, "admin@example.com")
	authorID := createAuthor(t, ts, admin, "Author")

	resp := ts.api.Post("/api/v1/books", bearer(admin), map[string]any{
		"title":     "Partial",
		"year":      2020,
		"author_id": authorID,
		"genre_ids": []int64{777, 888},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "777")
	assert.Contains(t, resp.Body.String(), "888")
}

func TestListBooks_QueryFilter(t *testing.T) {
	ts := setupTestServer(t)

	admin := ts.registerAdmin(t, "admin@example.com")
	authorID := createAuthor(t, ts, admin, "Author")

	for _, title := range []string{"Alpha Dark", "Beta Bright", "Gamma Darkness"} {
		resp := ts.api.Post("/api/v1/books", bearer(admin), map[string]any{
			"title":     title,
			"year":      2001,
			"author_id": authorID,
		})
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/books?query=dark")
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Books []service.BookSummary `json:"books"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Books, 2)
	assert.Equal(t, "Alpha Dark", body.Books[0].Title)
	assert.Equal(t, "Gamma Darkness", body.Books[1].Title)
}

func TestReviewsOverHTTP(t *testing.T) {
	ts := setupTestServer(t)

	admin := ts.registerAdmin(t, "admin@example.com")
	authorID := createAuthor(t, ts, admin, "Author")

	resp := ts.api.Post("/api/v1/books", bearer(admin), map[string]any{
		"title": "Discussed", "year": 2001, "author_id": authorID,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var book service.BookDetail
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &book))

	reader, _ := ts.registerUser(t, "reader@example.com")
	resp = ts.api.Post("/api/v1/reviews", bearer(reader), map[string]any{
		"book_id": book.ID, "rating": 4, "text": "good",
	})
	require.Equal(t, http.StatusOK, resp.Code, "create review failed: %s", resp.Body.String())

	var review service.ReviewView
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &review))
	assert.Equal(t, 4, review.Rating)

	// The book view reflects the new rating.
	resp = ts.api.Get("/api/v1/books/" + itoa(book.ID))
	require.Equal(t, http.StatusOK, resp.Code)
	var detail service.BookDetail
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &detail))
	assert.InDelta(t, 4.0, detail.Rating, 1e-12)
	require.Len(t, detail.Reviews, 1)

	// A stranger may not delete the review.
	stranger, _ := ts.registerUser(t, "stranger@example.com")
	resp = ts.api.Delete("/api/v1/reviews/"+itoa(review.ID), bearer(stranger))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete("/api/v1/reviews/"+itoa(review.ID), bearer(reader))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/reviews?book_id=" + itoa(book.ID))
	require.Equal(t, http.StatusOK, resp.Code)
	var list struct {
		Reviews []service.ReviewView `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Empty(t, list.Reviews)
}

func TestListReviews_NoFilterReturnsAll(t *testing.T) {
	ts := setupTestServer(t)

	admin := ts.registerAdmin(t, "admin@example.com")
	authorID := createAuthor(t, ts, admin, "Author")

	var bookIDs []int64
	for _, title := range []string{"One", "Two"} {
		resp := ts.api.Post("/api/v1/books", bearer(admin), map[string]any{
			"title": title, "year": 2001, "author_id": authorID,
		})
		require.Equal(t, http.StatusOK, resp.Code)
		var book service.BookDetail
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &book))
		bookIDs = append(bookIDs, book.ID)
	}

	reader, _ := ts.registerUser(t, "reader@example.com")
	for i, id := range bookIDs {
		resp := ts.api.Post("/api/v1/reviews", bearer(reader), map[string]any{
			"book_id": id, "rating": i + 3,
		})
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/reviews")
	require.Equal(t, http.StatusOK, resp.Code)
	var list struct {
		Reviews []service.ReviewView `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Reviews, 2)
	assert.Equal(t, 3, list.Reviews[0].Rating)
	assert.Equal(t, 4, list.Reviews[1].Rating)

	resp = ts.api.Get("/api/v1/reviews?book_id=" + itoa(bookIDs[1]))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Reviews, 1)
	assert.Equal(t, 4, list.Reviews[0].Rating)
}

func TestCreateReview_UnknownBookIsBadRequest(t *testing.T) {
	ts := setupTestServer(t)

	reader, _ := ts.registerUser(t, "reader@example.com")
	resp := ts.api.Post("/api/v1/reviews", bearer(reader), map[string]any{
		"book_id": 999, "rating": 3,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "VALIDATION")
	assert.Contains(t, resp.Body.String(), "999")
}

func TestCollectionsOverHTTP(t *testing.T) {
	ts := setupTestServer(t)

	owner, _ := ts.registerUser(t, "owner@example.com")

	// Registration seeded the default collections.
	resp := ts.api.Get("/api/v1/collections", bearer(owner))
	require.Equal(t, http.StatusOK, resp.Code)
	var list struct {
		Collections []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"collections"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Collections, 3)

	// Another user cannot read them.
	other, _ := ts.registerUser(t, "other@example.com")
	resp = ts.api.Get("/api/v1/collections/"+itoa(list.Collections[0].ID), bearer(other))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Post("/api/v1/collections", bearer(owner), map[string]any{
		"title": "favorites",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var created service.CollectionView
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "favorites", created.Title)

	resp = ts.api.Delete("/api/v1/collections/"+itoa(created.ID), bearer(owner))
	assert.Equal(t, http.StatusOK, resp.Code)
}
