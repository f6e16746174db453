package fuzzy

import "math"

// CosineSimilarity treats both lists as word-frequency vectors over the union
// of their terms and returns dot(a,b) / (|a|·|b|). The result lies in [0,1].
// If either list has no words after normalization the similarity is 0.
func CosineSimilarity(a, b []string) float64 {
	return NewCounter(a).Cosine(NewCounter(b))
}

func (c Counter) Cosine(other Counter) float64 {
	if len(c) == 0 || len(other) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for term, n := range c {
		fa := float64(n)
		magA += fa * fa
		dot += fa * float64(other[term])
	}
	for _, n := range other {
		fb := float64(n)
		magB += fb * fb
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	// Rounding can push identical vectors a hair above 1.
	return math.Min(sim, 1)
}
