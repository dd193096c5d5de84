package endee

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/itspunkaj/endee-go/internal/metacodec"
	"github.com/itspunkaj/endee-go/internal/wire"
)

// Index is a handle on one Endee index. It carries the configuration read
// at GetIndex time (dimension, space type, sparse dimension, precision);
// that configuration is read-only for the handle's lifetime, so an Index is
// safe for concurrent use.
type Index struct {
	name            string
	client          *Client
	spaceType       SpaceType
	dimension       int
	sparseDimension int
	precision       Precision
	m               int
	count           int64
}

// Name returns the index name.
func (ix *Index) Name() string { return ix.name }

// Hybrid reports whether the index accepts sparse components.
func (ix *Index) Hybrid() bool { return ix.sparseDimension > 0 }

// Describe returns the index configuration snapshot.
func (ix *Index) Describe() IndexDescription {
	return IndexDescription{
		Name:            ix.name,
		SpaceType:       ix.spaceType,
		Dimension:       ix.dimension,
		SparseDimension: ix.sparseDimension,
		Hybrid:          ix.Hybrid(),
		Count:           ix.count,
		Precision:       ix.precision,
		M:               ix.m,
	}
}

// Upsert writes a batch of at most MaxBatchSize records. Every record is
// validated, normalized, and its metadata compressed before anything is
// encoded, so an invalid batch never partially reaches the wire.
func (ix *Index) Upsert(ctx context.Context, items []VectorItem) error {
	if len(items) > MaxBatchSize {
		return fmt.Errorf("%w: %d records (max %d)", ErrBatchTooLarge, len(items), MaxBatchSize)
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	if err := validateVectorIDs(ids); err != nil {
		return err
	}
	tuples := make([]wire.UpsertTuple, len(items))
	for i := range items {
		t, err := ix.buildUpsertTuple(&items[i])
		if err != nil {
			return err
		}
		tuples[i] = *t
	}
	body, err := wire.EncodeBatch(tuples)
	if err != nil {
		return err
	}
	_, err = ix.client.postMsgpack(ctx, "/index/"+ix.name+"/vector/insert", body)
	return err
}

func (ix *Index) buildUpsertTuple(item *VectorItem) (*wire.UpsertTuple, error) {
	vec, norm, err := normalizeVector(item.Vector, ix.dimension, ix.spaceType)
	if err != nil {
		return nil, fmt.Errorf("vector %q: %w", item.ID, err)
	}

	hasSparse := len(item.SparseIndices) > 0 || len(item.SparseValues) > 0
	if hasSparse && !ix.Hybrid() {
		return nil, fmt.Errorf("%w: index %q is dense-only", ErrSparseNotSupported, ix.name)
	}
	if ix.Hybrid() {
		if len(item.SparseIndices) == 0 || len(item.SparseValues) == 0 {
			return nil, fmt.Errorf("vector %q: %w", item.ID, ErrSparseRequired)
		}
		if len(item.SparseIndices) != len(item.SparseValues) {
			return nil, fmt.Errorf("%w: got %d indices and %d values",
				ErrSparseMismatch, len(item.SparseIndices), len(item.SparseValues))
		}
		for _, idx := range item.SparseIndices {
			if idx < 0 || idx >= ix.sparseDimension {
				return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrSparseIndexOutOfRange, idx, ix.sparseDimension)
			}
		}
	}

	meta, err := metacodec.Compress(item.Meta, ix.client.encryptionKey)
	if err != nil {
		return nil, err
	}
	filterStr, err := marshalRecordFilter(item.Filter)
	if err != nil {
		return nil, err
	}
	return &wire.UpsertTuple{
		ID:            item.ID,
		Meta:          meta,
		Filter:        filterStr,
		Norm:          norm,
		Vector:        vec,
		SparseIndices: item.SparseIndices,
		SparseValues:  item.SparseValues,
		Hybrid:        ix.Hybrid(),
	}, nil
}

// Query runs a similarity search and reconstructs each hit: metadata is
// decompressed leniently, the record filter is parsed when present, and
// distance is derived as 1 - similarity.
func (ix *Index) Query(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	payload, err := ix.buildQueryPayload(opts)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("endee: encode query: %w", err)
	}
	resp, err := ix.client.postJSON(ctx, "/index/"+ix.name+"/search", body)
	if err != nil {
		return nil, err
	}
	tuples, err := wire.DecodeResults(resp)
	if err != nil {
		return nil, err
	}
	results := make([]QueryResult, 0, len(tuples))
	for _, t := range tuples {
		filter, err := parseRecordFilter(t.Filter)
		if err != nil {
			return nil, err
		}
		r := QueryResult{
			ID:         t.ID,
			Similarity: t.Similarity,
			Distance:   1 - t.Similarity,
			Meta:       metacodec.Decompress(t.Meta, ix.client.encryptionKey),
			Filter:     filter,
			Norm:       t.Norm,
		}
		if opts.IncludeVectors && t.HasVector {
			r.Vector = t.Vector
		}
		results = append(results, r)
	}
	return results, nil
}

// GetVector fetches a single vector by id.
func (ix *Index) GetVector(ctx context.Context, id string) (*VectorInfo, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	body, err := json.Marshal(map[string]string{"id": id})
	if err != nil {
		return nil, fmt.Errorf("endee: encode lookup: %w", err)
	}
	resp, err := ix.client.postJSON(ctx, "/index/"+ix.name+"/vector/get", body)
	if err != nil {
		return nil, err
	}
	t, err := wire.DecodeLookup(resp)
	if err != nil {
		return nil, err
	}
	filter, err := parseRecordFilter(t.Filter)
	if err != nil {
		return nil, err
	}
	return &VectorInfo{
		ID:     t.ID,
		Meta:   metacodec.Decompress(t.Meta, ix.client.encryptionKey),
		Filter: filter,
		Norm:   t.Norm,
		Vector: t.Vector,
	}, nil
}

// DeleteVector removes a single vector by id.
func (ix *Index) DeleteVector(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	_, err := ix.client.delete(ctx, "/index/"+ix.name+"/vector/"+url.PathEscape(id)+"/delete")
	return err
}

// DeleteWithFilter removes every vector matching the filter. The filter
// must contain at least one clause.
func (ix *Index) DeleteWithFilter(ctx context.Context, filter Filter) error {
	rendered, err := filter.Render()
	if err != nil {
		return err
	}
	if rendered == "" {
		return fmt.Errorf("%w: delete filter must contain at least one clause", ErrInvalidFilter)
	}
	body, err := json.Marshal(map[string]json.RawMessage{"filter": json.RawMessage(rendered)})
	if err != nil {
		return fmt.Errorf("endee: encode delete filter: %w", err)
	}
	_, err = ix.client.deleteJSON(ctx, "/index/"+ix.name+"/vectors/delete", body)
	return err
}

// marshalRecordFilter serializes a record's flat filter map. The canonical
// empty form is "{}" so the wire field is never blank.
func marshalRecordFilter(f map[string]any) (string, error) {
	if len(f) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return string(data), nil
}

// parseRecordFilter parses a record's flat filter map off the wire. Empty
// and "{}" both mean no filter.
func parseRecordFilter(s string) (map[string]any, error) {
	if s == "" || s == "{}" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("%w: parse record filter: %v", ErrWireFormat, err)
	}
	return m, nil
}
