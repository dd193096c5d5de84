// Package wire implements the msgpack tuple schema the Endee service speaks:
// count-prefixed batches of upsert tuples on the way out, search-result and
// point-lookup tuples on the way back. Tuple shapes are a closed set; arity
// or element-type mismatches surface as ErrWireFormat.
package wire

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/itspunkaj/endee-go/internal/shared"
)

// Upsert tuple arities: [id, meta, filter, norm, vector] for dense-only
// indexes, plus [sparseIndices, sparseValues] for hybrid ones.
const (
	denseArity  = 5
	hybridArity = 7

	resultArity       = 5
	resultVectorArity = 6
	lookupArity       = 5
)

// UpsertTuple is one record in an upsert batch. Hybrid selects the
// seven-element shape carrying the sparse component.
type UpsertTuple struct {
	ID            string
	Meta          []byte
	Filter        string
	Norm          float64
	Vector        []float64
	SparseIndices []int
	SparseValues  []float64
	Hybrid        bool
}

// ResultTuple is one similarity-search hit. Vector is populated only when
// the response tuple carries it; presence is signalled by arity on the wire,
// not by a sentinel value.
type ResultTuple struct {
	Similarity float64
	ID         string
	Meta       []byte
	Filter     string
	Norm       float64
	Vector     []float64
	HasVector  bool
}

// LookupTuple is a point-lookup response; the vector is always present.
type LookupTuple struct {
	ID     string
	Meta   []byte
	Filter string
	Norm   float64
	Vector []float64
}

// EncodeBatch packs tuples as a count-prefixed msgpack array of arrays.
// The caller is responsible for batch homogeneity with the target index.
func EncodeBatch(tuples []UpsertTuple) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeArrayLen(len(tuples)); err != nil {
		return nil, encodeErr(err)
	}
	for i := range tuples {
		if err := encodeTuple(enc, &tuples[i]); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func encodeTuple(enc *msgpack.Encoder, t *UpsertTuple) error {
	arity := denseArity
	if t.Hybrid {
		arity = hybridArity
	}
	if err := enc.EncodeArrayLen(arity); err != nil {
		return encodeErr(err)
	}
	if err := enc.EncodeString(t.ID); err != nil {
		return encodeErr(err)
	}
	meta := t.Meta
	if meta == nil {
		meta = []byte{}
	}
	if err := enc.EncodeBytes(meta); err != nil {
		return encodeErr(err)
	}
	if err := enc.EncodeString(t.Filter); err != nil {
		return encodeErr(err)
	}
	if err := enc.EncodeFloat64(t.Norm); err != nil {
		return encodeErr(err)
	}
	if err := encodeFloat64s(enc, t.Vector); err != nil {
		return err
	}
	if !t.Hybrid {
		return nil
	}
	if err := enc.EncodeArrayLen(len(t.SparseIndices)); err != nil {
		return encodeErr(err)
	}
	for _, idx := range t.SparseIndices {
		if err := enc.EncodeInt(int64(idx)); err != nil {
			return encodeErr(err)
		}
	}
	return encodeFloat64s(enc, t.SparseValues)
}

func encodeFloat64s(enc *msgpack.Encoder, vals []float64) error {
	if err := enc.EncodeArrayLen(len(vals)); err != nil {
		return encodeErr(err)
	}
	for _, v := range vals {
		if err := enc.EncodeFloat64(v); err != nil {
			return encodeErr(err)
		}
	}
	return nil
}

// DecodeBatch unpacks an upsert batch produced by EncodeBatch. The service
// never sends one back; it exists for symmetry and round-trip verification.
func DecodeBatch(data []byte) ([]UpsertTuple, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	n, err := dec.DecodeArrayLen()
	if err != nil || n < 0 {
		return nil, decodeErr("upsert batch", err)
	}
	tuples := make([]UpsertTuple, 0, n)
	for i := 0; i < n; i++ {
		arity, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, decodeErr("upsert tuple", err)
		}
		if arity != denseArity && arity != hybridArity {
			return nil, fmt.Errorf("%w: upsert tuple arity %d", shared.ErrWireFormat, arity)
		}
		var t UpsertTuple
		if t.ID, err = dec.DecodeString(); err != nil {
			return nil, decodeErr("id", err)
		}
		if t.Meta, err = dec.DecodeBytes(); err != nil {
			return nil, decodeErr("meta", err)
		}
		if t.Filter, err = dec.DecodeString(); err != nil {
			return nil, decodeErr("filter", err)
		}
		if t.Norm, err = decodeNumber(dec); err != nil {
			return nil, err
		}
		if t.Vector, err = decodeNumberSlice(dec); err != nil {
			return nil, err
		}
		if arity == hybridArity {
			t.Hybrid = true
			if t.SparseIndices, err = decodeIntSlice(dec); err != nil {
				return nil, err
			}
			if t.SparseValues, err = decodeNumberSlice(dec); err != nil {
				return nil, err
			}
		}
		tuples = append(tuples, t)
	}
	return tuples, nil
}

// DecodeResults unpacks a similarity-search response.
func DecodeResults(data []byte) ([]ResultTuple, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	n, err := dec.DecodeArrayLen()
	if err != nil || n < 0 {
		return nil, decodeErr("result batch", err)
	}
	results := make([]ResultTuple, 0, n)
	for i := 0; i < n; i++ {
		arity, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, decodeErr("result tuple", err)
		}
		if arity != resultArity && arity != resultVectorArity {
			return nil, fmt.Errorf("%w: result tuple arity %d", shared.ErrWireFormat, arity)
		}
		var t ResultTuple
		if t.Similarity, err = decodeNumber(dec); err != nil {
			return nil, err
		}
		if t.ID, err = dec.DecodeString(); err != nil {
			return nil, decodeErr("id", err)
		}
		if t.Meta, err = dec.DecodeBytes(); err != nil {
			return nil, decodeErr("meta", err)
		}
		if t.Filter, err = dec.DecodeString(); err != nil {
			return nil, decodeErr("filter", err)
		}
		if t.Norm, err = decodeNumber(dec); err != nil {
			return nil, err
		}
		if arity == resultVectorArity {
			t.HasVector = true
			if t.Vector, err = decodeNumberSlice(dec); err != nil {
				return nil, err
			}
		}
		results = append(results, t)
	}
	return results, nil
}

// DecodeLookup unpacks a point-lookup response.
func DecodeLookup(data []byte) (*LookupTuple, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	arity, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, decodeErr("lookup tuple", err)
	}
	if arity != lookupArity {
		return nil, fmt.Errorf("%w: lookup tuple arity %d", shared.ErrWireFormat, arity)
	}
	var t LookupTuple
	if t.ID, err = dec.DecodeString(); err != nil {
		return nil, decodeErr("id", err)
	}
	if t.Meta, err = dec.DecodeBytes(); err != nil {
		return nil, decodeErr("meta", err)
	}
	if t.Filter, err = dec.DecodeString(); err != nil {
		return nil, decodeErr("filter", err)
	}
	if t.Norm, err = decodeNumber(dec); err != nil {
		return nil, err
	}
	if t.Vector, err = decodeNumberSlice(dec); err != nil {
		return nil, err
	}
	return &t, nil
}

// decodeNumber accepts both integer and float encodings for a numeric
// element. The wire format does not force float codes for integral doubles,
// so an int-encoded norm or vector element is valid, not a protocol error.
func decodeNumber(dec *msgpack.Decoder) (float64, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return 0, decodeErr("number", err)
	}
	switch {
	case c == msgpcode.Float || c == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return 0, decodeErr("number", err)
		}
		return f, nil
	case msgpcode.IsFixedNum(c) || isIntCode(c):
		n, err := dec.DecodeInt64()
		if err != nil {
			return 0, decodeErr("number", err)
		}
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: expected numeric element, got code 0x%02x", shared.ErrWireFormat, c)
	}
}

func decodeNumberSlice(dec *msgpack.Decoder) ([]float64, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil || n < 0 {
		return nil, decodeErr("vector", err)
	}
	out := make([]float64, n)
	for i := range out {
		if out[i], err = decodeNumber(dec); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeIntSlice(dec *msgpack.Decoder) ([]int, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil || n < 0 {
		return nil, decodeErr("sparse indices", err)
	}
	out := make([]int, n)
	for i := range out {
		v, err := dec.DecodeInt64()
		if err != nil {
			return nil, decodeErr("sparse index", err)
		}
		out[i] = int(v)
	}
	return out, nil
}

func isIntCode(c byte) bool {
	switch c {
	case msgpcode.Uint8, msgpcode.Uint16, msgpcode.Uint32, msgpcode.Uint64,
		msgpcode.Int8, msgpcode.Int16, msgpcode.Int32, msgpcode.Int64:
		return true
	}
	return false
}

func encodeErr(err error) error {
	return fmt.Errorf("endee: encode wire tuple: %w", err)
}

func decodeErr(what string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: nil %s", shared.ErrWireFormat, what)
	}
	return fmt.Errorf("%w: decode %s: %v", shared.ErrWireFormat, what, err)
}
