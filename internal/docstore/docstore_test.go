package docstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/father-fjv/ChanceRAG/internal/domain"
)

func sampleFragments() []domain.Fragment {
	return []domain.Fragment{
		{
			Text:       "출장비 정산 한도는 1 5 0 , 0 0 0 원입니다 .",
			SourcePath: "/data/policy.pdf",
			Filename:   "policy.pdf",
			PageNumber: 1,
			ChunkIndex: 0,
		},
		{
			Text:       "휴가 신청은 3 일 전에 해야 합니다 .",
			SourcePath: "/data/policy.pdf",
			Filename:   "policy.pdf",
			PageNumber: 2,
			ChunkIndex: 1,
		},
	}
}

func TestAppendAndGet(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.Len())

	s.Append(sampleFragments())
	require.Equal(t, 2, s.Len())

	frag, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "policy.pdf", frag.Filename)
	assert.Equal(t, 2, frag.PageNumber)
}

func TestGetOutOfRange(t *testing.T) {
	s := New()
	s.Append(sampleFragments())

	for _, pos := range []int{-1, 2, 100} {
		_, err := s.Get(pos)
		var rangeErr *domain.OutOfRangeError
		require.True(t, errors.As(err, &rangeErr), "position %d", pos)
		assert.Equal(t, pos, rangeErr.Position)
		assert.Equal(t, 2, rangeErr.Size)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := New()
	s.Append(sampleFragments())
	require.NoError(t, s.Save(dir))

	loaded := New()
	require.NoError(t, loaded.Load(dir))
	require.Equal(t, s.Len(), loaded.Len())
	for i := 0; i < s.Len(); i++ {
		want, err := s.Get(i)
		require.NoError(t, err)
		got, err := loaded.Get(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestLoadMissingArtifactFailsClosed(t *testing.T) {
	dir := t.TempDir()

	s := New()
	s.Append(sampleFragments())
	require.NoError(t, s.Save(dir))
	require.NoError(t, os.Remove(filepath.Join(dir, MetadataFile)))

	loaded := New()
	loaded.Append(sampleFragments()[:1])
	err := loaded.Load(dir)
	var perr *domain.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 1, loaded.Len())
}

func TestLoadCountMismatchFailsClosed(t *testing.T) {
	dir := t.TempDir()

	s := New()
	s.Append(sampleFragments())
	require.NoError(t, s.Save(dir))

	// Overwrite the metadata artifact with one from a shorter store to
	// create positional drift between the two sequences.
	short := New()
	short.Append(sampleFragments()[:1])
	shortDir := t.TempDir()
	require.NoError(t, short.Save(shortDir))
	data, err := os.ReadFile(filepath.Join(shortDir, MetadataFile))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), data, 0o644))

	loaded := New()
	err = loaded.Load(dir)
	var perr *domain.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 0, loaded.Len())
}

func TestLoadCorruptedArtifactFailsClosed(t *testing.T) {
	dir := t.TempDir()

	s := New()
	s.Append(sampleFragments())
	require.NoError(t, s.Save(dir))

	path := filepath.Join(dir, DocumentsFile)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded := New()
	err = loaded.Load(dir)
	var perr *domain.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 0, loaded.Len())
}
