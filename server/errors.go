package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/honganh1206/guideme/server/data"
)

type HTTPError struct {
	Code    int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (s *server) handleError(w http.ResponseWriter, err error) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			s.logger.Error().Err(err).Msg("request failed")
		}
		writeError(w, httpErr.Code, httpErr.Message)
		return
	}

	switch {
	case errors.Is(err, data.ErrDuplicateUser):
		writeError(w, http.StatusConflict, "User already exists")
	case errors.Is(err, data.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, data.ErrUserNotFound), errors.Is(err, data.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Resource not found")
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// readJSON decodes the request body into dst. An empty body leaves dst untouched.
func readJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
