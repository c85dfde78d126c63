// Package vector provides the similarity arithmetic shared by the
// in-process chunk stores. The postgres backend ranks in the database
// instead and does not use this package.
package vector

import "math"

// Zero returns an all-zero vector of the given dimensionality. It is the
// documented fallback for failed embedding calls: well-defined, constant
// length, and effectively unretrievable by similarity.
func Zero(dimensions int) []float32 {
	return make([]float32, dimensions)
}

// IsZero reports whether every component is zero.
func IsZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// CosineSimilarity returns the cosine of the angle between a and b in
// [-1, 1]. Mismatched lengths and zero vectors score 0 so that callers
// never divide by zero and fallback embeddings rank last.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
