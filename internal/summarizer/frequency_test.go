package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEmptyText(t *testing.T) {
	s := NewFrequencySummarizer()

	out, err := s.Summarize("", 3)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestSummarizeSingleSentence(t *testing.T) {
	s := NewFrequencySummarizer()

	out, err := s.Summarize("출장비 한도는 150,000원입니다.", 3)
	require.NoError(t, err)
	assert.Equal(t, "출장비 한도는 150,000원입니다", out)
}

func TestSummarizePicksFrequentSentences(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "apple apple apple. banana. apple banana."

	out, err := s.Summarize(text, 1)
	require.NoError(t, err)
	assert.Equal(t, "apple apple apple", out)

	out, err = s.Summarize(text, 2)
	require.NoError(t, err)
	// Selected sentences keep their original order.
	assert.Equal(t, "apple apple apple apple banana", out)
}

func TestSummarizeKeepsAllWhenBudgetExceedsSentences(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "첫 문장입니다. 둘째 문장입니다."

	out, err := s.Summarize(text, 10)
	require.NoError(t, err)
	assert.Equal(t, "첫 문장입니다 둘째 문장입니다", out)
}

func TestSummarizeDefaultsInvalidBudget(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "하나. 둘. 셋."

	out, err := s.Summarize(text, 0)
	require.NoError(t, err)
	assert.Equal(t, "하나 둘 셋", out)
}
