package util

import (
	"sync"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// WhitespacePattern splits on runs of whitespace.
const WhitespacePattern = `\s+`

var (
	patternCache   = map[string]*regexp2.Regexp{}
	patternCacheMu sync.Mutex
)

func compilePattern(pattern string) (*regexp2.Regexp, error) {
	patternCacheMu.Lock()
	defer patternCacheMu.Unlock()
	if re, ok := patternCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid separator pattern %q", pattern)
	}
	patternCache[pattern] = re
	return re, nil
}

// Tokenize splits input on every match of pattern.
//
// maxTokens controls the number of splits: 0 splits without limit and drops trailing empty
// tokens, a negative value splits without limit and keeps them, and a positive N performs at
// most N-1 splits so that the last token holds the unsplit remainder.
//
// A zero-width match only ends a token once that token has at least one character in it.
// This makes the empty pattern split into single characters and lets lookahead patterns such
// as `(?=,)` split in front of a separator without consuming it.
func Tokenize(input string, pattern string, maxTokens int) ([]string, error) {
	if input == "" {
		return []string{}, nil
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}

	runes := []rune(input)
	tokens := make([]string, 0)
	tokenStart := 0
	searchFrom := 0
	for searchFrom <= len(runes) {
		if maxTokens > 0 && len(tokens) >= maxTokens-1 {
			break
		}
		m, err := re.FindRunesMatchStartingAt(runes, searchFrom)
		if err != nil {
			return nil, errors.Wrapf(err, "matching separator pattern %q", pattern)
		}
		if m == nil {
			break
		}
		if m.Length == 0 && m.Index <= tokenStart {
			searchFrom = m.Index + 1
			continue
		}
		tokens = append(tokens, string(runes[tokenStart:m.Index]))
		tokenStart = m.Index + m.Length
		searchFrom = tokenStart
	}
	tokens = append(tokens, string(runes[tokenStart:]))

	if maxTokens == 0 {
		for len(tokens) > 0 && tokens[len(tokens)-1] == "" {
			tokens = tokens[:len(tokens)-1]
		}
	}
	return tokens, nil
}

// MustTokenize is Tokenize for patterns known to be valid.
func MustTokenize(input string, pattern string, maxTokens int) []string {
	tokens, err := Tokenize(input, pattern, maxTokens)
	if err != nil {
		panic(err)
	}
	return tokens
}
