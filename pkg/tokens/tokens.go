package tokens

import (
	"fmt"
	"sync/atomic"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const encodingName = "cl100k_base"

var enc atomic.Pointer[tiktoken.Tiktoken]

// Load fetches the cl100k encoding. Until it succeeds Count falls back to Estimate,
// so callers never block on the download.
func Load() error {
	t, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return fmt.Errorf("load %s encoding: %w", encodingName, err)
	}
	enc.Store(t)
	return nil
}

// Count returns the number of tokens in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	if t := enc.Load(); t != nil {
		return len(t.Encode(text, nil, nil))
	}
	return Estimate(text)
}

// Estimate approximates token count as one token per four runes.
func Estimate(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4
}
