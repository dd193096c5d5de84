package endee

import (
	"fmt"
	"strings"

	"github.com/itspunkaj/endee-go/internal/shared"
)

// Semantic errors (re-exported from internal/shared).
var (
	ErrInvalidIndexName      = shared.ErrInvalidIndexName
	ErrInvalidIndexConfig    = shared.ErrInvalidIndexConfig
	ErrEmptyID               = shared.ErrEmptyID
	ErrDuplicateID           = shared.ErrDuplicateID
	ErrBatchTooLarge         = shared.ErrBatchTooLarge
	ErrDimensionMismatch     = shared.ErrDimensionMismatch
	ErrSparseNotSupported    = shared.ErrSparseNotSupported
	ErrSparseRequired        = shared.ErrSparseRequired
	ErrSparseMismatch        = shared.ErrSparseMismatch
	ErrSparseIndexOutOfRange = shared.ErrSparseIndexOutOfRange
	ErrInvalidQuery          = shared.ErrInvalidQuery
	ErrInvalidFilter         = shared.ErrInvalidFilter
	ErrInvalidKey            = shared.ErrInvalidKey
	ErrWireFormat            = shared.ErrWireFormat
)

// APIError reports a non-2xx service response, carrying the numeric status
// and the raw error body verbatim. The client performs no retries; backoff
// policy, if any, belongs to the caller.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	switch e.Status {
	case 400:
		return "endee: bad request: " + e.Body
	case 401:
		return "endee: unauthorized: " + e.Body
	case 403:
		return "endee: forbidden: " + e.Body
	case 404:
		return "endee: not found: " + e.Body
	case 409:
		return "endee: conflict: " + e.Body
	case 500:
		return "endee: internal server error: " + e.Body
	default:
		return fmt.Sprintf("endee: API error (%d): %s", e.Status, e.Body)
	}
}

// DuplicateIDError lists every id that appears more than once in a batch.
// The whole batch is scanned before it is raised, so one failure gives the
// complete picture.
type DuplicateIDError struct {
	IDs []string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s: %s", shared.ErrDuplicateID, strings.Join(e.IDs, ", "))
}

// Is lets errors.Is(err, ErrDuplicateID) match the structured form.
func (e *DuplicateIDError) Is(target error) bool {
	return target == shared.ErrDuplicateID
}
