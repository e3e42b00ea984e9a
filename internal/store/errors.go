package store

import "errors"

// Sentinel errors returned by store operations. The service layer converts
// these into coded domain errors with caller-facing messages.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAuthorNotFound     = errors.New("author not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrGenreNotFound      = errors.New("genre not found")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrAlreadyExists      = errors.New("already exists")
)
