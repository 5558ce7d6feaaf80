package memory

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// Embedder converts text into a fixed-length vector for similarity search.
// Production deployments plug an embedding provider here; the built-in
// HashEmbedder is a deterministic, dependency-free stand-in.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// HashEmbedder produces deterministic bag-of-tokens embeddings by hashing
// each token into a fixed-size vector. It captures lexical overlap only, not
// semantics, which is sufficient for tests and local development.
type HashEmbedder struct {
	dim int
}

var _ Embedder = (*HashEmbedder)(nil)

// NewHashEmbedder creates a HashEmbedder with the given dimensionality.
// Dimensions below 8 are raised to 8.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim < 8 {
		dim = 8
	}
	return &HashEmbedder{dim: dim}
}

// Embed hashes lowercased tokens into buckets and L2-normalizes the result.
// An all-zero vector is returned for empty input.
func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, e.dim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[int(h.Sum32())%e.dim]++
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// cosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either vector is zero or the lengths differ.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
