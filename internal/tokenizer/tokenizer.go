// Package tokenizer normalizes Korean text into a canonical token sequence
// shared by the ingestion and query paths, so embedding similarity is
// computed on text cleaned the same way on both sides.
package tokenizer

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	periodRunRe   = regexp.MustCompile(`\.{2,}`)
	bangRunRe     = regexp.MustCompile(`!{2,}`)
	questionRunRe = regexp.MustCompile(`\?{2,}`)
	sentenceEndRe = regexp.MustCompile(`[.!?。！？]+\s*`)
)

const punctuation = `.,!?;:()[]{}"'-`

// Tokenize segments text into tokens: maximal Hangul runs, punctuation
// characters and other non-blank characters, each as their own token.
// It never fails; on an internal fault it falls back to naive whitespace
// splitting so the pipeline always produces some tokenization.
func Tokenize(text string) (tokens []string) {
	defer func() {
		if recover() != nil {
			tokens = strings.Fields(text)
		}
	}()

	cleaned := clean(text)
	if cleaned == "" {
		return nil
	}

	var run []rune
	flush := func() {
		if len(run) > 0 {
			tokens = append(tokens, string(run))
			run = run[:0]
		}
	}
	for _, r := range cleaned {
		switch {
		case unicode.Is(unicode.Hangul, r):
			run = append(run, r)
		case unicode.IsSpace(r):
			flush()
		case strings.ContainsRune(punctuation, r):
			flush()
			tokens = append(tokens, string(r))
		default:
			flush()
			tokens = append(tokens, string(r))
		}
	}
	flush()
	return tokens
}

// NormalizeForEmbedding returns the canonical string that is actually
// embedded: the token sequence joined with single spaces.
// The function is idempotent.
func NormalizeForEmbedding(text string) string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return ""
	}
	return strings.Join(tokens, " ")
}

// SplitSentences splits text on Korean and Latin sentence terminators.
func SplitSentences(text string) []string {
	parts := sentenceEndRe.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// clean collapses whitespace runs to a single space and caps runs of
// sentence-terminal punctuation at two repetitions.
func clean(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = periodRunRe.ReplaceAllString(text, "..")
	text = bangRunRe.ReplaceAllString(text, "!!")
	text = questionRunRe.ReplaceAllString(text, "??")
	return strings.TrimSpace(text)
}
