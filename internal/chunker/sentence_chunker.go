// Package chunker segments raw document text into fragments for the
// retrieval core. It is the segmentation collaborator: emitted fragment
// text is already normalized for embedding.
package chunker

import (
	"path/filepath"
	"strings"

	"github.com/father-fjv/ChanceRAG/internal/domain"
	"github.com/father-fjv/ChanceRAG/internal/tokenizer"
)

// SentenceChunker groups sentences into fragments with optional overlap.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
}

// NewSentenceChunker creates a chunker producing chunks of
// sentencesPerChunk sentences with overlapSentences sentences of overlap.
func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	// The stride must advance by at least one sentence per chunk.
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
	}
}

// Chunk splits content into fragments carrying source metadata and a
// sequential chunk index for traceability. Empty content yields no
// fragments and no error.
func (c *SentenceChunker) Chunk(sourcePath string, pageNumber int, content string) ([]domain.Fragment, error) {
	sentences := tokenizer.SplitSentences(content)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(content)
		if trimmed == "" {
			return nil, nil
		}
		sentences = []string{trimmed}
	}
	filename := filepath.Base(sourcePath)
	var fragments []domain.Fragment
	i := 0
	idx := 0
	for i < len(sentences) {
		end := i + c.sentencesPerChunk
		if end > len(sentences) {
			end = len(sentences)
		}
		text := strings.Join(sentences[i:end], " ")
		fragments = append(fragments, domain.Fragment{
			Text:       tokenizer.NormalizeForEmbedding(text),
			SourcePath: sourcePath,
			Filename:   filename,
			PageNumber: pageNumber,
			ChunkIndex: idx,
		})
		if end == len(sentences) {
			break
		}
		i = end - c.overlapSentences
		if i < 0 {
			i = 0
		}
		idx++
	}
	return fragments, nil
}
