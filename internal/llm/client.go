package llm

import (
	"context"
	"iter"
)

// Client streams a completion as text chunks in arrival order. The sequence
// ends after the last chunk, or after yielding a single error.
type Client interface {
	StreamText(ctx context.Context, system, user string) iter.Seq2[string, error]
	Close() error
}
