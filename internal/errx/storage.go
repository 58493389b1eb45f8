package errx

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// WrapStorage maps backend errors to AppError with consistent statuses.
func WrapStorage(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) || errors.Is(err, sql.ErrNoRows) {
		return New(err, http.StatusNotFound, StorageNotFoundMessage)
	}
	return New(err, http.StatusBadGateway, StorageErrorMessage)
}

// IsNotFound reports whether err marks an absent storage key.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Status == http.StatusNotFound
}
