// Package functions holds what the form functions share: request decoding,
// validation and invocation metrics.
package functions

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"site-functions/internal/common/errors"
	"site-functions/internal/common/metrics"
	"site-functions/internal/common/validation"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes = 1 << 20

// DecodeRequest reads a JSON object from r, validates it against schema and
// decodes it into dst. Any failure is a validation error.
func DecodeRequest(r *http.Request, maxBytes int64, schema validation.JSONSchema, dst interface{}) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return errors.NewMalformedBodyError(err)
	}
	if int64(len(body)) > maxBytes {
		return errors.NewMalformedBodyError(fmt.Errorf("body exceeds %d bytes", maxBytes))
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return errors.NewMalformedBodyError(err)
	}

	return ValidateAndDecode(doc, schema, dst)
}

// ValidateAndDecode checks an already decoded document, as received from
// job variables, and decodes it into dst.
func ValidateAndDecode(doc map[string]interface{}, schema validation.JSONSchema, dst interface{}) error {
	if doc == nil {
		doc = map[string]interface{}{}
	}

	result, err := validation.ValidateInput(doc, schema)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if !result.Valid {
		return errors.NewValidationError(validation.InvalidFields(result))
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.NewMalformedBodyError(err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.NewMalformedBodyError(err)
	}
	return nil
}

// Track records one invocation of function. Call the returned func with the
// outcome.
func Track(function string) func(err error) {
	start := time.Now()
	metrics.FunctionsActive.WithLabelValues(function).Inc()

	return func(err error) {
		metrics.FunctionsActive.WithLabelValues(function).Dec()
		metrics.FunctionDuration.WithLabelValues(function).Observe(time.Since(start).Seconds())

		status := http.StatusOK
		if err != nil {
			stdErr := errors.Normalize(err)
			status = stdErr.HTTPStatus()
			metrics.FunctionFailures.WithLabelValues(function, string(stdErr.Code), stdErr.Type).Inc()
		}
		metrics.FunctionRequests.WithLabelValues(function, strconv.Itoa(status)).Inc()
	}
}
