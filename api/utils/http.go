// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/vechain/challenge-registry/log"
	"github.com/vechain/challenge-registry/registry"
)

var logger = log.WithContext("pkg", "api")

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

func (e *httpError) Unwrap() error {
	return e.cause
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// ErrorBody is the JSON body of failed requests.
type ErrorBody struct {
	Code     string `json:"code"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// StatusOf maps registry errors to http status codes by category.
func StatusOf(err error) int {
	switch registry.CategoryOf(err) {
	case registry.CategoryValidation:
		switch registry.CodeOf(err) {
		case registry.ErrChallengeNotFound.Code, registry.ErrPlayerNotFound.Code:
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	case registry.CategoryConflict:
		return http.StatusConflict
	case registry.CategoryArithmetic:
		return http.StatusUnprocessableEntity
	case registry.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// Registry errors are responded with the status of their category, httpError with
// its own status, and anything else with http.StatusInternalServerError.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}

		body := ErrorBody{
			Code:     registry.CodeOf(err),
			Category: registry.CategoryOf(err).String(),
			Message:  err.Error(),
		}
		status := StatusOf(err)
		if he, ok := err.(*httpError); ok {
			status = he.status
			if body.Code == "" {
				body.Code = http.StatusText(status)
				body.Category = registry.CategoryValidation.String()
			}
		}
		if status == http.StatusInternalServerError {
			logger.Error("request failed", "method", r.Method, "uri", r.URL.Path, "err", err)
		}

		w.Header().Set("Content-Type", JSONContentType)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(&body)
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}
