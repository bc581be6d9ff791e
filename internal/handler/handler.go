// Package handler exposes the rules engine over HTTP. Handlers stay thin:
// decode, validate, call a service, map the error taxonomy onto a status
// code.
package handler

import (
	"net/http"

	customError "github.com/hmkim/club-ledger/pkg/errors"
	"github.com/hmkim/club-ledger/pkg/response"
)

// writeError maps the engine's error taxonomy onto HTTP status codes:
// validation errors are the caller's to fix, missing records are 404, and
// anything else is a storage-level failure.
func writeError(w http.ResponseWriter, message string, err error) {
	switch {
	case customError.IsValidation(err):
		response.BadRequest(w, message, err)
	case customError.IsNotFound(err):
		response.NotFound(w, message, err)
	default:
		response.InternalServerError(w, message, err)
	}
}
