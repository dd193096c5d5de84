// Package shared contains canonical definitions used across endee packages.
package shared

import "errors"

// Semantic errors for client-side validation and decoding. All of them are
// raised before any bytes reach the wire, except ErrWireFormat which reports
// a structurally malformed response.
var (
	// ErrInvalidIndexName indicates the index name fails the service's
	// naming rules (alphanumeric plus underscore, shorter than 48 chars).
	ErrInvalidIndexName = errors.New("endee: invalid index name")

	// ErrInvalidIndexConfig indicates out-of-range index creation
	// parameters (dimension, sparse dimension, space type, precision).
	ErrInvalidIndexConfig = errors.New("endee: invalid index configuration")

	// ErrEmptyID indicates a vector in a batch has no id.
	ErrEmptyID = errors.New("endee: vector id must be non-empty")

	// ErrDuplicateID indicates a batch contains repeated vector ids.
	ErrDuplicateID = errors.New("endee: duplicate vector ids")

	// ErrBatchTooLarge indicates an upsert batch exceeds the service limit.
	ErrBatchTooLarge = errors.New("endee: batch exceeds maximum size")

	// ErrDimensionMismatch indicates a dense vector's length does not match
	// the index dimension.
	ErrDimensionMismatch = errors.New("endee: vector dimension mismatch")

	// ErrSparseNotSupported indicates sparse data was supplied for a
	// dense-only index.
	ErrSparseNotSupported = errors.New("endee: sparse data requires a hybrid index")

	// ErrSparseRequired indicates a hybrid index write is missing its
	// sparse component.
	ErrSparseRequired = errors.New("endee: hybrid index requires sparse indices and values")

	// ErrSparseMismatch indicates sparse indices and values differ in length.
	ErrSparseMismatch = errors.New("endee: sparse indices and values must have the same length")

	// ErrSparseIndexOutOfRange indicates a sparse index falls outside the
	// index's sparse dimension.
	ErrSparseIndexOutOfRange = errors.New("endee: sparse index out of range")

	// ErrInvalidQuery indicates out-of-range or inconsistent query
	// parameters (topK, ef, missing query component).
	ErrInvalidQuery = errors.New("endee: invalid query")

	// ErrInvalidFilter indicates a malformed filter clause.
	ErrInvalidFilter = errors.New("endee: invalid filter")

	// ErrInvalidKey indicates the encryption key is not 256 bits
	// (64 hex characters).
	ErrInvalidKey = errors.New("endee: encryption key must be 64 hex characters")

	// ErrWireFormat indicates a structurally malformed binary response
	// (wrong tuple arity or element type).
	ErrWireFormat = errors.New("endee: malformed wire payload")
)
