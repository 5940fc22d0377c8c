package embedding

import "context"

// Embedder converts batches of text into fixed-dimension numeric vectors.
// EmbedBatch preserves the order and length of its input; the output
// dimension is fixed at construction time.
type Embedder interface {
	Name() string
	Dimension() int
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}
