package endee

import (
	"fmt"
	"math"
)

// normalizeVector returns the vector to put on the wire and its scale
// factor. Cosine indexes store unit vectors with the original Euclidean
// length as norm; a zero vector passes through unchanged with norm 1.0 so
// there is no division by zero. Non-cosine metrics store the raw vector
// with a neutral norm.
func normalizeVector(vec []float64, dimension int, space SpaceType) ([]float64, float64, error) {
	if len(vec) != dimension {
		return nil, 0, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, dimension, len(vec))
	}
	if space != SpaceCosine {
		return vec, 1.0, nil
	}
	var sumSquares float64
	for _, v := range vec {
		sumSquares += v * v
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return vec, 1.0, nil
	}
	normalized := make([]float64, len(vec))
	for i, v := range vec {
		normalized[i] = v / norm
	}
	return normalized, norm, nil
}
