// Package handler implements the HTTP endpoints of the sweet shop API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sweetshop/sweetshop/internal/model"
	"github.com/sweetshop/sweetshop/internal/server/middleware"
	"github.com/sweetshop/sweetshop/internal/service"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// writeJSON serializes v as JSON and writes it to the response with the given
// HTTP status code. The Content-Type header is set to application/json.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a structured error response using the standard error
// envelope. The optional ctx map provides additional context fields.
func writeError(w http.ResponseWriter, code int, message string, ctx ...map[string]interface{}) {
	var ctxMap map[string]interface{}
	if len(ctx) > 0 {
		ctxMap = ctx[0]
	}
	writeJSON(w, code, model.ErrorResponse{
		Error: model.ErrorDetail{
			Code:    code,
			Message: message,
			Context: ctxMap,
		},
	})
}

// writeServiceError maps err to a status code and writes it. Errors the
// client cannot act on are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		var ctx map[string]interface{}
		if verr.Field != "" {
			ctx = map[string]interface{}{"field": verr.Field}
		}
		writeError(w, http.StatusUnprocessableEntity, verr.Error(), ctx)
	case errors.Is(err, service.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "The user with this email already exists in the system")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Incorrect email or password")
	case errors.Is(err, service.ErrInactiveAccount):
		writeError(w, http.StatusBadRequest, "Inactive user")
	case errors.Is(err, service.ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, service.ErrUnknownSubject):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "User not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not enough permissions")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "Sweet not found")
	case errors.Is(err, service.ErrInsufficientStock):
		writeError(w, http.StatusBadRequest, "Insufficient quantity in stock")
	default:
		logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// readJSON decodes the request body as JSON into v. Malformed or missing
// bodies are reported as validation errors naming the offending field when
// one can be determined.
func readJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return model.NewValidationError("body", "field required")
	case errors.As(err, &typeErr):
		return model.NewValidationError(typeErr.Field, "expected %s", typeErr.Type.String())
	default:
		return model.NewValidationError("body", "invalid JSON: %v", err)
	}
}

// queryInt extracts an integer query parameter, returning defaultVal if the
// parameter is missing. A value that does not parse is a validation error.
func queryInt(r *http.Request, key string, defaultVal int) (int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, model.NewValidationError(key, "value is not a valid integer")
	}
	return n, nil
}

// queryFloat extracts an optional float query parameter.
func queryFloat(r *http.Request, key string) (*float64, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, model.NewValidationError(key, "value is not a valid number")
	}
	return &f, nil
}

// queryString extracts an optional string query parameter. Empty values are
// treated as absent.
func queryString(r *http.Request, key string) *string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	return &val
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, model.NewValidationError("id", "value is not a valid integer")
	}
	return id, nil
}

// page reads the skip and limit query parameters.
func page(r *http.Request) (offset, limit int, err error) {
	if offset, err = queryInt(r, "skip", 0); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(r, "limit", service.DefaultPageSize); err != nil {
		return 0, 0, err
	}
	return offset, limit, nil
}
