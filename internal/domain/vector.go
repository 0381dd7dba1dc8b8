package domain

import "math"

// Vector is a dense feature vector over a shared space (TF-IDF terms
// or embedding dimensions).
type Vector []float32

// Cosine computes cosine similarity between two vectors, clamped to [0,1].
// Returns 0 when either vector has zero magnitude. Vectors of different
// lengths are compared over their common prefix.
func Cosine(a, b Vector) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, magA, magB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		magA += float64(v) * float64(v)
	}
	for _, v := range b {
		magB += float64(v) * float64(v)
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	// Embedding vectors may have negative components; treat anti-similarity
	// as no similarity, and guard the upper bound against float drift.
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
