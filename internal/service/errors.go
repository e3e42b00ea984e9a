package service

import (
	"fmt"
	"sort"
	"strings"

	domainerrors "github.com/mylibapp/mylib-server/internal/errors"
	"github.com/mylibapp/mylib-server/internal/store"
)

// notFoundMessages maps store sentinels to caller-facing messages.
var notFoundMessages = map[error]string{
	store.ErrUserNotFound:       "user not found",
	store.ErrAuthorNotFound:     "author not found",
	store.ErrBookNotFound:       "book not found",
	store.ErrGenreNotFound:      "genre not found",
	store.ErrCollectionNotFound: "collection not found",
	store.ErrReviewNotFound:     "review not found",
}

// mapStoreErr converts store sentinel errors into coded domain errors.
// Anything unrecognized becomes an internal error carrying the cause.
func mapStoreErr(err error) error {
	for sentinel, msg := range notFoundMessages {
		if domainerrors.Is(err, sentinel) {
			return domainerrors.NotFound(msg)
		}
	}
	if domainerrors.Is(err, store.ErrAlreadyExists) {
		return domainerrors.Conflict("already exists")
	}
	return domainerrors.Internal("storage failure").WithCause(err)
}

// missingIDsError builds the validation error for sub-resource id sets that
// did not fully resolve. Every missing id is named, sorted for determinism.
func missingIDsError(kind string, requested []int64, found map[int64]bool) error {
	var missing []int64
	seen := make(map[int64]bool)
	for _, id := range requested {
		if !found[id] && !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })

	parts := make([]string, len(missing))
	for i, id := range missing {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return domainerrors.Validationf("%ss with ids [%s] do not exist", kind, strings.Join(parts, ", "))
}
