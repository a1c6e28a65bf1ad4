package knowledge

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ============================================================================
// VECTOR CODEC
// ============================================================================

// Vectors are stored as little-endian float32 blobs, four bytes per
// dimension. Both SQLite drivers and the sqlite-vec extension read the
// same layout.

// EncodeVector packs a float32 slice into a blob.
func EncodeVector(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodeVector unpacks a blob back into a float32 slice.
func DecodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d not a multiple of 4", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec, nil
}

// vectorDistance returns the cosine distance 1-cos(a,b). Empty or
// zero-magnitude vectors are maximally distant.
func vectorDistance(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 1, nil
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector_distance_cos: dimension mismatch %d vs %d", len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		af := float64(a[i])
		bf := float64(b[i])
		dot += af * bf
		na += af * af
		nb += bf * bf
	}
	if na == 0 || nb == 0 {
		return 1, nil
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb)), nil
}
