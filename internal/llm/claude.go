package llm

import (
	"context"
	"fmt"
	"iter"

	"github.com/liushuangls/go-anthropic/v2"
)

type ClaudeClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

func NewClaudeClient(apiKey string, model string, baseURL string, maxTokens int) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(apiKey, opts...)

	if maxTokens <= 0 {
		maxTokens = 1000
	}
	return &ClaudeClient{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// StreamText adapts the SDK's callback stream to a pull sequence. The
// callback runs on the calling goroutine, so yield is never called
// concurrently. When the consumer stops early the request context is
// cancelled to end the stream.
func (c *ClaudeClient) StreamText(ctx context.Context, system, user string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		stopped := false
		_, err := c.client.CreateMessagesStream(ctx, anthropic.MessagesStreamRequest{
			MessagesRequest: anthropic.MessagesRequest{
				Model:  anthropic.Model(c.model),
				System: system,
				Messages: []anthropic.Message{
					{
						Role: anthropic.RoleUser,
						Content: []anthropic.MessageContent{
							anthropic.NewTextMessageContent(user),
						},
					},
				},
				MaxTokens: c.maxTokens,
			},
			OnContentBlockDelta: func(data anthropic.MessagesEventContentBlockDeltaData) {
				if stopped || data.Delta.Text == nil {
					return
				}
				if !yield(*data.Delta.Text, nil) {
					stopped = true
					cancel()
				}
			},
		})
		if err != nil && !stopped {
			yield("", fmt.Errorf("claude stream: %w", err))
		}
	}
}

func (c *ClaudeClient) Close() error {
	return nil
}
