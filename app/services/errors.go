// Package services holds the application use cases. The center piece is the
// mutation orchestrator that coordinates remote asset writes with relational
// transactions and compensates on partial failure.
package services

import (
	"errors"
	"net/http"

	"github.com/brianmacetas/admin-api/pkg/media"
)

// Sentinel errors services return. Controllers map them to HTTP statuses
// with HTTPStatus and never leak infrastructure detail to the client.
var (
	// ErrNotFoundOrNoop signals a write that affected zero rows where at
	// least one was expected: the id does not exist or nothing changed.
	ErrNotFoundOrNoop = errors.New("recurso inexistente o sin cambios")

	// ErrUpload signals a failed upload to the media host. Compensation for
	// any sibling uploads already ran by the time callers see it.
	ErrUpload = errors.New("no se pudieron subir las imágenes")

	// ErrTransaction signals a database-level fault (begin/commit/hard
	// query error). Fatal; no further compensation is attempted.
	ErrTransaction = errors.New("error de base de datos")
)

// HTTPStatus maps a service error to the response status code.
//
// Data-level outcomes (missing row, host refusing an asset delete) are the
// client's problem: 400. Infrastructure faults are ours: 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFoundOrNoop):
		return http.StatusBadRequest
	case errors.Is(err, media.ErrDeleteRejected):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
