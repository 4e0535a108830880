package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"musicbox/internal/app/songs"
	"musicbox/internal/app/users"
	"musicbox/internal/policy"
	"musicbox/internal/schema"
	"musicbox/internal/store"
	"musicbox/internal/upload"
)

type errorResponse struct {
	Message string              `json:"message"`
	Errors  []schema.FieldError `json:"errors,omitempty"`
}

// badRequest is a client error that is not tied to a single field.
type badRequest struct {
	msg string
}

func (e badRequest) Error() string { return e.msg }

var errInvalidJSON = badRequest{msg: "invalid JSON payload"}

var notFoundErrors = []error{
	store.ErrArtistNotFound,
	store.ErrAlbumNotFound,
	store.ErrSongNotFound,
	store.ErrVideoNotFound,
	store.ErrPlaylistNotFound,
	store.ErrUserNotFound,
}

// writeError is the single place that turns a service error into a status
// and body. Unexpected errors are logged in full and reported generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		fieldErrs schema.Errors
		bad       badRequest
	)
	switch {
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "validation failed", Errors: fieldErrs})
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message: "validation failed",
			Errors:  []schema.FieldError{{Field: "password", Message: "must be at most 72 bytes"}},
		})
	case errors.As(err, &bad):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: bad.msg})
	case errors.Is(err, songs.ErrArtistRequired),
		errors.Is(err, upload.ErrMissingFile),
		errors.Is(err, upload.ErrWrongType):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, upload.ErrTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Message: err.Error()})
	case errors.Is(err, users.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "invalid username or password"})
	case errors.Is(err, policy.ErrUnauthenticated), errors.Is(err, users.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "authentication required"})
	case errors.Is(err, policy.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: "forbidden"})
	case errors.Is(err, store.ErrUserExists):
		writeJSON(w, http.StatusConflict, errorResponse{Message: "username already taken"})
	case errors.Is(err, store.ErrEmailExists):
		writeJSON(w, http.StatusConflict, errorResponse{Message: "email already registered"})
	case errors.Is(err, upload.ErrUnknownKind):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	default:
		for _, target := range notFoundErrors {
			if errors.Is(err, target) {
				writeJSON(w, http.StatusNotFound, errorResponse{Message: target.Error()})
				return
			}
		}
		logFor(r).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

// decodeAndValidate reads a JSON body into dst and applies its validation rules.
func decodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return schema.Errors{{Field: typeErr.Field, Message: fmt.Sprintf("must be a %s", typeErr.Type)}}
		}
		return errInvalidJSON
	}
	return schema.Validate(dst)
}

func logFor(r *http.Request) *zerolog.Logger {
	if l := log.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
