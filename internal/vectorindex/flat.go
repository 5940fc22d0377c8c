// Package vectorindex implements a flat inner-product index over
// unit-normalized embedding vectors. Vectors are stored append-only at
// integer positions that stay aligned with the document store.
package vectorindex

import (
	"sort"
	"sync"

	"github.com/father-fjv/ChanceRAG/internal/domain"
)

// Match is a single search hit: the vector's position and its inner-product
// score against the query.
type Match struct {
	Position int
	Score    float64
}

// Flat is a brute-force exact nearest-neighbor index. Inserted vectors must
// already be unit-normalized by the caller; similarity is plain inner
// product, which equals cosine similarity for unit vectors.
type Flat struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
}

// New creates an empty index for vectors of the given dimension.
func New(dimension int) (*Flat, error) {
	if dimension <= 0 {
		return nil, &domain.DimensionMismatchError{Expected: 1, Actual: dimension}
	}
	return &Flat{dimension: dimension}, nil
}

// Dimension returns the fixed vector dimension of the index.
func (f *Flat) Dimension() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dimension
}

// Len returns the number of stored vectors (ntotal).
func (f *Flat) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.vectors)
}

// Insert appends a batch of vectors. Every vector's dimension is validated
// before any mutation, so a rejected batch leaves the index untouched and a
// concurrent search observes either the pre- or post-insert state.
func (f *Flat) Insert(vectors [][]float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range vectors {
		if len(v) != f.dimension {
			return &domain.DimensionMismatchError{Expected: f.dimension, Actual: len(v)}
		}
	}
	for _, v := range vectors {
		owned := make([]float64, len(v))
		copy(owned, v)
		f.vectors = append(f.vectors, owned)
	}
	return nil
}

// Search returns up to k matches sorted by descending score, ties broken by
// lowest position. An empty index yields an empty result without error.
func (f *Flat) Search(query []float64, k int) ([]Match, error) {
	if k <= 0 {
		return nil, domain.ErrInvalidK
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.vectors) == 0 {
		return nil, nil
	}
	if len(query) != f.dimension {
		return nil, &domain.DimensionMismatchError{Expected: f.dimension, Actual: len(query)}
	}
	matches := make([]Match, len(f.vectors))
	for i, v := range f.vectors {
		matches[i] = Match{Position: i, Score: dot(v, query)}
	}
	// Stable sort keeps the first inserted vector ahead on score ties.
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k:k], nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
