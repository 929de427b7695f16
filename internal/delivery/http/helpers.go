// Package http holds the auth service's weave controllers: one per
// resource family (auth, users, authorization), each exposing
// Routes() to satisfy module.Controller. Request decoding and struct
// validation follow the teacher's own handler style (go-playground/
// validator, one decode-then-validate block per action) adapted onto
// the framework's httpctx extractors and response.Response builder
// instead of encoding/json against http.ResponseWriter directly.
package http

import (
	"net/http"

	"github.com/aras-services/weave/pkg/weave/apperror"
	"github.com/aras-services/weave/pkg/weave/response"
)

// envelope matches the teacher's {success, message, data} shape so
// existing API consumers see the same response contract.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func success(data any, message string) response.Response {
	return response.New().Status(http.StatusOK).JSON(envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func fail(status int, errCode, message string) response.Response {
	return response.New().Status(status).JSON(envelope{
		Success: false,
		Error:   errCode,
		Message: message,
	})
}

func validationError(message string) response.Response {
	return fail(http.StatusBadRequest, "validation_error", message)
}

func unauthorizedResponse(message string) response.Response {
	return fail(http.StatusUnauthorized, "unauthorized", message)
}

func notFoundResponse(message string) response.Response {
	return fail(http.StatusNotFound, "not_found", message)
}

// fromError maps any usecase error to an envelope carrying the right
// status code, using apperror's taxonomy when the error is one of ours.
func fromError(err error) response.Response {
	e := apperror.As(err)
	return fail(e.Status(), string(e.Kind()), e.Message())
}
