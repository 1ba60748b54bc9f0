package llm

import (
	"context"
	"iter"
)

// MockClient replays Chunks. When Err is set it is yielded after the first
// FailAfter chunks.
type MockClient struct {
	Chunks    []string
	Err       error
	FailAfter int

	LastSystem string
	LastUser   string
	Calls      int
	Closed     bool
}

func (m *MockClient) StreamText(ctx context.Context, system, user string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		m.Calls++
		m.LastSystem = system
		m.LastUser = user

		for i, chunk := range m.Chunks {
			if m.Err != nil && i == m.FailAfter {
				break
			}
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
		if m.Err != nil {
			yield("", m.Err)
		}
	}
}

func (m *MockClient) Close() error {
	m.Closed = true
	return nil
}
