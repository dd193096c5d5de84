package endee

import "fmt"

// queryPayload is the outbound JSON body of /index/<name>/search. The
// filter travels as a pre-rendered JSON string, not a nested document.
type queryPayload struct {
	K              int       `json:"k"`
	EF             int       `json:"ef"`
	IncludeVectors bool      `json:"include_vectors"`
	Vector         []float64 `json:"vector,omitempty"`
	SparseIndices  []int     `json:"sparse_indices,omitempty"`
	SparseValues   []float64 `json:"sparse_values,omitempty"`
	Filter         string    `json:"filter,omitempty"`
}

// buildQueryPayload validates opts against the index shape and assembles the
// request body. The dense component is normalized with the same cosine rule
// as writes; the filter is attached only when it has clauses.
func (ix *Index) buildQueryPayload(opts QueryOptions) (*queryPayload, error) {
	if opts.TopK < 0 || opts.TopK > MaxTopK {
		return nil, fmt.Errorf("%w: top_k %d not in [0, %d]", ErrInvalidQuery, opts.TopK, MaxTopK)
	}
	topK := opts.TopK
	if topK == 0 {
		topK = DefaultTopK
	}
	ef := opts.EF
	if ef == 0 {
		ef = DefaultEF
	}
	if ef < 0 || ef > MaxEF {
		return nil, fmt.Errorf("%w: ef %d not in (0, %d]", ErrInvalidQuery, opts.EF, MaxEF)
	}

	hasDense := len(opts.Vector) > 0
	hasSparse := len(opts.SparseIndices) > 0 || len(opts.SparseValues) > 0
	if !hasDense && !hasSparse {
		return nil, fmt.Errorf("%w: at least one of vector or sparse_indices/sparse_values is required", ErrInvalidQuery)
	}
	if hasSparse && !ix.Hybrid() {
		return nil, fmt.Errorf("%w: index %q is dense-only", ErrSparseNotSupported, ix.name)
	}
	if hasSparse && len(opts.SparseIndices) != len(opts.SparseValues) {
		return nil, fmt.Errorf("%w: got %d indices and %d values",
			ErrSparseMismatch, len(opts.SparseIndices), len(opts.SparseValues))
	}

	payload := &queryPayload{
		K:              topK,
		EF:             ef,
		IncludeVectors: opts.IncludeVectors,
	}
	if hasDense {
		vec, _, err := normalizeVector(opts.Vector, ix.dimension, ix.spaceType)
		if err != nil {
			return nil, err
		}
		payload.Vector = vec
	}
	if hasSparse {
		payload.SparseIndices = opts.SparseIndices
		payload.SparseValues = opts.SparseValues
	}
	if len(opts.Filter) > 0 {
		rendered, err := opts.Filter.Render()
		if err != nil {
			return nil, err
		}
		payload.Filter = rendered
	}
	return payload, nil
}
