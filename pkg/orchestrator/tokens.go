package orchestrator

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// tokenEncoding is lazily initialized: loading the cl100k_base encoding
// touches the filesystem/embedded BPE ranks, which is wasted work for every
// test that never calls estimateTokens.
var (
	tokenEncodingOnce sync.Once
	tokenEncoding     *tiktoken.Tiktoken
)

// estimateTokens reports an approximate prompt token count for text, using
// the same cl100k_base encoding Tangerg-lynx's tokenizer package wraps. It
// is used only for the llm_tokens_estimated metric, never for the
// character-bound truncation in composeLLMRequest: if the encoding fails to
// load, this falls back to a coarse byte/4 estimate rather than erroring,
// since an estimate feeding a histogram must never block a response.
func estimateTokens(text string) int {
	tokenEncodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			tokenEncoding = enc
		}
	})
	if tokenEncoding == nil {
		return len(text) / 4
	}
	return len(tokenEncoding.Encode(text, nil, nil))
}
