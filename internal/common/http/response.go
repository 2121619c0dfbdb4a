package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"site-functions/internal/common/errors"
)

// ErrorBody is the 500 envelope: {"error":{"message":...,"type":...}}.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ClientErrorBody is the 400 and 429 envelope: {"error":"..."}.
type ClientErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err using the envelope for its status.
func WriteError(w http.ResponseWriter, err error) {
	stdErr := errors.Normalize(err)
	status := stdErr.HTTPStatus()

	switch stdErr.Code {
	case errors.ErrCodeValidationFailed:
		WriteJSON(w, status, ClientErrorBody{Error: stdErr.Message})
	case errors.ErrCodeRateLimited:
		if d, ok := stdErr.Metadata["retryAfter"].(string); ok {
			if retryAfter, err := time.ParseDuration(d); err == nil {
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
			}
		}
		WriteJSON(w, status, ClientErrorBody{Error: stdErr.Message})
	default:
		errType := stdErr.Type
		if errType == "" {
			errType = errors.TypeInternal
		}
		WriteJSON(w, status, ErrorBody{Error: ErrorDetail{
			Message: stdErr.Message,
			Type:    errType,
		}})
	}
}
