package domain

// Fragment is an immutable unit of indexable text with source metadata.
// Text holds the normalized form used for embedding. Fragments are created
// by the segmentation collaborator and never mutated after creation.
type Fragment struct {
	Text       string
	SourcePath string
	Filename   string
	PageNumber int
	ChunkIndex int
}

// RetrievalResult pairs a fragment with its similarity score for one query.
// It is transient and recomputed per query; Query carries the original
// query string for downstream traceability.
type RetrievalResult struct {
	Fragment Fragment
	Score    float64
	Query    string
}

// Stats describes the current size of the retrieval store.
type Stats struct {
	TotalDocuments     int
	IndexSize          int
	EmbeddingDimension int
}
