package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// conflictMessages are the user-facing texts of the 409 errors.
var conflictMessages = map[error]string{
	domain.ErrDuplicatePlatform: "You already have a link for this platform",
	domain.ErrUsernameTaken:     "Username is already taken",
	domain.ErrEmailTaken:        "An account with this email already exists",
	domain.ErrAlreadySubscribed: "You're already subscribed!",
}

// writeError maps a service error onto a status code and {"error": msg}.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{ve.Message})
		return
	case errors.Is(err, domain.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody{"Unauthorized"})
		return
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{"Invalid email or password"})
		return
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{"Not found"})
		return
	}
	for target, msg := range conflictMessages {
		if errors.Is(err, target) {
			writeJSON(w, http.StatusConflict, errorBody{msg})
			return
		}
	}

	log.Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorBody{err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"Invalid request body"})
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"Invalid ID"})
		return uuid.Nil, false
	}
	return id, true
}

// formFile reads one uploaded file from a multipart body of at most
// maxBytes plus form overhead.
func formFile(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (multipart.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusBadRequest, errorBody{fmt.Sprintf("File must be less than %dMB", maxBytes>>20)})
		} else {
			writeJSON(w, http.StatusBadRequest, errorBody{"Invalid upload"})
		}
		return nil, false
	}
	file, _, err := r.FormFile(field)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"No file selected"})
		return nil, false
	}
	return file, true
}
