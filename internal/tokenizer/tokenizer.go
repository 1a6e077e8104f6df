// Package tokenizer counts tokens in recorded request and response bodies.
package tokenizer

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens for a model.
type Counter interface {
	// CountTokens counts tokens in a plain text string.
	CountTokens(text string, model string) (int, error)

	// CountRequest counts prompt tokens in a recorded request body. Chat
	// completion bodies are counted per message; anything else is counted
	// as plain text.
	CountRequest(body string, model string) (int, error)
}

// Encoding names used by tiktoken.
const (
	EncodingCL100kBase = "cl100k_base" // GPT-4, GPT-3.5-turbo
	EncodingO200kBase  = "o200k_base"  // GPT-4o, o-series
)

type modelEncoding struct {
	prefix   string
	encoding string
}

// modelEncodings is matched in order, so longer prefixes come first.
var modelEncodings = []modelEncoding{
	{"text-embedding", EncodingCL100kBase},
	{"gpt-4o", EncodingO200kBase},
	{"gpt-4.1", EncodingO200kBase},
	{"gpt-3.5", EncodingCL100kBase},
	{"gpt-4", EncodingCL100kBase},
	{"gpt-5", EncodingO200kBase},
	{"chatgpt", EncodingO200kBase},
	{"o1", EncodingO200kBase},
	{"o3", EncodingO200kBase},
	{"o4", EncodingO200kBase},
}

// Tiktoken implements Counter using tiktoken-go. Encodings are loaded
// lazily and cached.
type Tiktoken struct {
	mu        sync.RWMutex
	encodings map[string]*tiktoken.Tiktoken
}

// New creates a new Tiktoken counter.
func New() *Tiktoken {
	return &Tiktoken{encodings: make(map[string]*tiktoken.Tiktoken)}
}

func (t *Tiktoken) encoding(model string) (*tiktoken.Tiktoken, error) {
	name := resolveEncoding(model)

	t.mu.RLock()
	enc, ok := t.encodings[name]
	t.mu.RUnlock()
	if ok {
		return enc, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if enc, ok = t.encodings[name]; ok {
		return enc, nil
	}

	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, err
	}
	t.encodings[name] = enc
	return enc, nil
}

// resolveEncoding picks the encoding for model. Unknown models, including
// non-OpenAI ones, fall back to cl100k_base.
func resolveEncoding(model string) string {
	lower := strings.ToLower(model)
	if i := strings.LastIndexByte(lower, '/'); i >= 0 {
		lower = lower[i+1:]
	}
	for _, me := range modelEncodings {
		if strings.HasPrefix(lower, me.prefix) {
			return me.encoding
		}
	}
	return EncodingCL100kBase
}

// CountTokens counts tokens in text.
func (t *Tiktoken) CountTokens(text string, model string) (int, error) {
	if text == "" {
		return 0, nil
	}
	enc, err := t.encoding(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}
