package core

import "math"

// NormalizeVector scales the vector to unit length so that the dot
// product of two normalized vectors equals their cosine similarity.
// Returns the input unchanged when it is empty or all-zero.
func NormalizeVector(vector []float32) []float32 {
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return vector
	}
	norm := float32(1.0 / math.Sqrt(sumSquares))
	normalized := make([]float32, len(vector))
	for i, v := range vector {
		normalized[i] = v * norm
	}
	return normalized
}
