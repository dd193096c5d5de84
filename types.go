package endee

import (
	"fmt"
	"strings"
)

// SpaceType identifies the distance metric an index was built with.
type SpaceType string

// Supported distance metrics.
const (
	SpaceCosine SpaceType = "cosine"
	SpaceL2     SpaceType = "l2"
	SpaceIP     SpaceType = "ip"
)

// ParseSpaceType parses a metric name case-insensitively.
func ParseSpaceType(s string) (SpaceType, error) {
	switch SpaceType(strings.ToLower(s)) {
	case SpaceCosine:
		return SpaceCosine, nil
	case SpaceL2:
		return SpaceL2, nil
	case SpaceIP:
		return SpaceIP, nil
	default:
		return "", fmt.Errorf("%w: unknown space type %q", ErrInvalidIndexConfig, s)
	}
}

// Precision is the quantization precision tag of an index. The client
// forwards it verbatim and never interprets it.
type Precision string

// Supported precision tags.
const (
	PrecisionBinary  Precision = "binary"
	PrecisionInt8D   Precision = "int8d"
	PrecisionInt16D  Precision = "int16d"
	PrecisionFloat32 Precision = "float32"
	PrecisionFloat16 Precision = "float16"
)

// ParsePrecision parses a precision tag case-insensitively.
func ParsePrecision(s string) (Precision, error) {
	switch Precision(strings.ToLower(s)) {
	case PrecisionBinary:
		return PrecisionBinary, nil
	case PrecisionInt8D:
		return PrecisionInt8D, nil
	case PrecisionInt16D:
		return PrecisionInt16D, nil
	case PrecisionFloat32:
		return PrecisionFloat32, nil
	case PrecisionFloat16:
		return PrecisionFloat16, nil
	default:
		return "", fmt.Errorf("%w: unknown precision %q", ErrInvalidIndexConfig, s)
	}
}

// Metadata is the schemaless payload attached to a vector.
type Metadata = map[string]any

// VectorItem is one record to write. SparseIndices and SparseValues must be
// present together (hybrid indexes) or not at all.
type VectorItem struct {
	ID            string
	Vector        []float64
	Meta          Metadata
	Filter        map[string]any
	SparseIndices []int
	SparseValues  []float64
}

// VectorInfo is a point-lookup result.
type VectorInfo struct {
	ID     string
	Meta   Metadata
	Filter map[string]any
	Norm   float64
	Vector []float64
}

// QueryResult is one similarity-search hit. Distance is always
// 1 - Similarity as defined by the service contract, regardless of the
// index's metric. Vector is nil unless the query asked for vectors.
type QueryResult struct {
	ID         string
	Similarity float64
	Distance   float64
	Meta       Metadata
	Filter     map[string]any
	Norm       float64
	Vector     []float64
}

// IndexDescription is a snapshot of an index's configuration as read at
// GetIndex time.
type IndexDescription struct {
	Name            string
	SpaceType       SpaceType
	Dimension       int
	SparseDimension int
	Hybrid          bool
	Count           int64
	Precision       Precision
	M               int
}

func (d IndexDescription) String() string {
	return fmt.Sprintf("{name=%q, spaceType=%s, dimension=%d, precision=%s, count=%d, hybrid=%t, sparseDimension=%d, M=%d}",
		d.Name, d.SpaceType, d.Dimension, d.Precision, d.Count, d.Hybrid, d.SparseDimension, d.M)
}

// indexInfoPayload mirrors the JSON body of GET /index/<name>/info.
type indexInfoPayload struct {
	SpaceType     string `json:"space_type"`
	Dimension     int    `json:"dimension"`
	TotalElements int64  `json:"total_elements"`
	Precision     string `json:"precision"`
	M             int    `json:"M"`
	Checksum      int64  `json:"checksum"`
	Version       *int   `json:"version"`
	SparseDim     *int   `json:"sparse_dim"`
}
