// Package service orchestrates normalization, embedding, index search and
// result filtering for the retrieval core.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/father-fjv/ChanceRAG/internal/docstore"
	"github.com/father-fjv/ChanceRAG/internal/domain"
	"github.com/father-fjv/ChanceRAG/internal/embedding"
	"github.com/father-fjv/ChanceRAG/internal/tokenizer"
	"github.com/father-fjv/ChanceRAG/internal/vectorindex"
)

// IndexFile is the persisted vector index artifact inside the store
// directory; the docstore artifacts live alongside it.
const IndexFile = "vectors.index"

// Retriever owns the (vector index, document store) pair and is the only
// component allowed to mutate it. It is constructed once at startup and
// passed by reference to callers; queries are safe to run concurrently.
type Retriever struct {
	embedder embedding.Embedder
	dir      string
	logger   *zap.Logger

	// mu guards the index+docs pair as one unit so no partial insert is
	// visible to a concurrent retrieve. Embedding happens before the
	// write lock is taken; the slow external call never blocks readers.
	mu    sync.RWMutex
	index *vectorindex.Flat
	docs  *docstore.Store
}

// New creates an empty retriever backed by the given embedder, persisting
// under dir. A nil logger disables logging.
func New(embedder embedding.Embedder, dir string, logger *zap.Logger) (*Retriever, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	index, err := vectorindex.New(embedder.Dimension())
	if err != nil {
		return nil, err
	}
	return &Retriever{
		embedder: embedder,
		dir:      dir,
		logger:   logger,
		index:    index,
		docs:     docstore.New(),
	}, nil
}

// InsertFragments normalizes, embeds and appends a batch of fragments to
// the index and document store as one atomic unit. A failed batch leaves
// both containers untouched; nothing is reported as partially persisted.
func (r *Retriever) InsertFragments(ctx context.Context, fragments []domain.Fragment) error {
	if len(fragments) == 0 {
		return nil
	}
	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = tokenizer.NormalizeForEmbedding(f.Text)
	}
	vectors, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(fragments) {
		return &domain.EmbeddingError{
			Provider:  r.embedder.Name(),
			BatchSize: len(fragments),
			Err:       fmt.Errorf("got %d vectors for %d texts", len(vectors), len(fragments)),
		}
	}
	for _, v := range vectors {
		unitNormalize(v)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.index.Insert(vectors); err != nil {
		return err
	}
	r.docs.Append(fragments)
	r.logger.Info("fragments indexed",
		zap.Int("count", len(fragments)),
		zap.Int("total", r.index.Len()),
		zap.Int("dimension", r.embedder.Dimension()),
	)
	return nil
}

// Retrieve embeds the query and returns up to topK fragments whose score
// meets scoreThreshold, in descending score order. An empty result is a
// valid answer meaning no sufficiently relevant fragment was found.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int, scoreThreshold float64) ([]domain.RetrievalResult, error) {
	if topK <= 0 {
		return nil, domain.ErrInvalidK
	}
	normalized := tokenizer.NormalizeForEmbedding(query)
	vectors, err := r.embedder.EmbedBatch(ctx, []string{normalized})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, &domain.EmbeddingError{
			Provider:  r.embedder.Name(),
			BatchSize: 1,
			Err:       errors.New("expected a single query vector"),
		}
	}
	// Stored vectors were normalized at insert time; the query side needs
	// it too for inner product to equal cosine similarity.
	qv := vectors[0]
	unitNormalize(qv)

	r.mu.RLock()
	defer r.mu.RUnlock()
	matches, err := r.index.Search(qv, topK)
	if err != nil {
		return nil, err
	}
	results := make([]domain.RetrievalResult, 0, len(matches))
	for _, m := range matches {
		if m.Score < scoreThreshold {
			continue
		}
		frag, err := r.docs.Get(m.Position)
		if err != nil {
			return nil, err
		}
		results = append(results, domain.RetrievalResult{Fragment: frag, Score: m.Score, Query: query})
	}
	r.logger.Debug("retrieve",
		zap.String("query", query),
		zap.Int("top_k", topK),
		zap.Float64("score_threshold", scoreThreshold),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// Save persists the index and document store into the configured directory
// as one logical unit. It serializes with inserts but not with queries.
func (r *Retriever) Save() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return &domain.PersistenceError{Op: "save", Path: r.dir, Err: err}
	}
	if err := r.index.Save(filepath.Join(r.dir, IndexFile)); err != nil {
		return err
	}
	if err := r.docs.Save(r.dir); err != nil {
		return err
	}
	r.logger.Info("store saved", zap.String("dir", r.dir), zap.Int("fragments", r.docs.Len()))
	return nil
}

// Load replaces the in-memory pair with the persisted state, verifying
// that the persisted artifacts agree on size. It fails closed: on any
// error the prior in-memory state is kept.
func (r *Retriever) Load() error {
	index, err := vectorindex.New(r.embedder.Dimension())
	if err != nil {
		return err
	}
	if err := index.Load(filepath.Join(r.dir, IndexFile)); err != nil {
		return err
	}
	docs := docstore.New()
	if err := docs.Load(r.dir); err != nil {
		return err
	}
	if docs.Len() != index.Len() {
		return &domain.PersistenceError{
			Op:   "load",
			Path: r.dir,
			Err:  fmt.Errorf("document count %d does not match index size %d", docs.Len(), index.Len()),
		}
	}
	if index.Dimension() != r.embedder.Dimension() {
		return &domain.PersistenceError{
			Op:   "load",
			Path: r.dir,
			Err:  fmt.Errorf("index dimension %d does not match embedder dimension %d", index.Dimension(), r.embedder.Dimension()),
		}
	}

	r.mu.Lock()
	r.index = index
	r.docs = docs
	r.mu.Unlock()
	r.logger.Info("store loaded", zap.String("dir", r.dir), zap.Int("fragments", docs.Len()))
	return nil
}

// Stats reports the current store sizes.
func (r *Retriever) Stats() domain.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.Stats{
		TotalDocuments:     r.docs.Len(),
		IndexSize:          r.index.Len(),
		EmbeddingDimension: r.index.Dimension(),
	}
}

// unitNormalize scales v to unit Euclidean norm in place. The zero vector
// is left unchanged.
func unitNormalize(v []float64) {
	norm := 0.0
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}
