// Package hashing provides a local, in-process embedding model based on
// feature hashing. It is deterministic: the same input always produces the
// same vector.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
)

// Embedder buckets tokens by FNV-1a into a fixed-dimension term-frequency
// vector and L2-normalizes the result. The dimension is fixed at
// construction time.
type Embedder struct {
	dimension int
}

// New creates a hashing embedder with the given output dimension.
func New(dimension int) (*Embedder, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("hashing: invalid dimension %d", dimension)
	}
	return &Embedder{dimension: dimension}, nil
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "hashing" }

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// EmbedBatch returns one embedding vector per input text, in input order.
// A text with no tokens embeds to the zero vector.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *Embedder) embed(text string) []float64 {
	vec := make([]float64, e.dimension)
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return vec
	}
	for _, tok := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[int(h.Sum32())%e.dimension]++
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
