package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/store"
)

// errorBody is the JSON error envelope: {"error": {"code", "message"}}.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondJSON writes v as JSON with the given status. A nil v writes only
// the status (204 responses).
func respondJSON(w http.ResponseWriter, status int, v any) {
	if v == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps an error to an HTTP status and writes the error envelope.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := classify(err)
	status := statusFor(code)

	if status >= 500 {
		s.logger.Error("request failed",
			"request_id", requestIDFrom(r.Context()),
			"error", err)
	}

	respondJSON(w, status, errorBody{Error: errorDetail{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

// classify bridges store sentinel errors and plain errors to error codes.
func classify(err error) errors.Code {
	switch {
	case stderrors.Is(err, store.ErrPersonNotFound):
		return errors.ErrCodePersonNotFound
	case stderrors.Is(err, store.ErrRelationshipNotFound):
		return errors.ErrCodeRelationshipNotFound
	}
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}

// statusFor maps error codes to HTTP statuses: invalid input is 400,
// missing resources are 404, everything else is 500.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidPerson,
		errors.ErrCodeInvalidRelationship,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidStyle,
		errors.ErrCodeInvalidSnapshot:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodePersonNotFound,
		errors.ErrCodeRelationshipNotFound,
		errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
