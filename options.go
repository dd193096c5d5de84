package endee

import (
	"net/http"

	"go.uber.org/zap"
)

// Service limits enforced client-side, before any request is issued.
const (
	// MaxBatchSize is the maximum number of records per upsert call.
	MaxBatchSize = 1000

	// MaxTopK is the maximum result count a query may ask for.
	MaxTopK = 512

	// MaxEF is the maximum search breadth.
	MaxEF = 1024

	// MaxDimension is the maximum dense dimension at index creation.
	MaxDimension = 10000

	maxIndexNameLen = 48
)

// Defaults for index construction and querying.
const (
	// DefaultTopK is used when QueryOptions.TopK is zero.
	DefaultTopK = 10

	// DefaultEF is used when QueryOptions.EF is zero.
	DefaultEF = 128

	// DefaultM is the default graph connectivity at index creation.
	DefaultM = 16

	// DefaultEFConstruction is the default construction breadth.
	DefaultEFConstruction = 128
)

// CreateIndexOptions configures CreateIndex. Zero-valued fields fall back to
// the named defaults: SpaceCosine, DefaultM, DefaultEFConstruction,
// PrecisionInt8D. A SparseDimension greater than zero makes the index
// hybrid-capable.
type CreateIndexOptions struct {
	Name            string
	Dimension       int
	SpaceType       SpaceType
	M               int
	EFConstruction  int
	Precision       Precision
	SparseDimension int
	Version         int
}

// QueryOptions configures a similarity search. At least one of Vector or the
// sparse pair must be set. TopK and EF fall back to DefaultTopK and
// DefaultEF when zero.
type QueryOptions struct {
	Vector         []float64
	SparseIndices  []int
	SparseValues   []float64
	TopK           int
	EF             int
	Filter         Filter
	IncludeVectors bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, including any URL derived from
// the token.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets the underlying HTTP client. Timeouts and transport
// tuning belong there.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithLogger sets the client logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithEncryptionKey enables metadata encryption with a 256-bit key given as
// 64 hex characters. Metadata is encrypted on writes and decrypted on reads
// for the lifetime of the client.
func WithEncryptionKey(keyHex string) Option {
	return func(c *Client) {
		c.encryptionKey = keyHex
	}
}
