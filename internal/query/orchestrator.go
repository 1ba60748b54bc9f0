package query

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/streetwatch/internal/llm"
	"github.com/agenthands/streetwatch/internal/logging"
)

// DefaultQuestion stands in for a blank question. Providers such as Gemini
// reject a user turn with no text.
const DefaultQuestion = "Summarize the recent incidents."

type Orchestrator struct {
	LLM    llm.Client
	Logger *zap.Logger
}

func NewOrchestrator(client llm.Client, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		LLM:    client,
		Logger: logging.OrNop(logger),
	}
}

// Ask streams a completion for question under instructions and returns the
// whole reply once the stream ends. On a stream error nothing of the partial
// reply is returned.
//
// A blank question is sent as DefaultQuestion.
//
// Ask sets no deadline of its own; it blocks until the provider finishes or
// ctx is cancelled.
func (o *Orchestrator) Ask(ctx context.Context, question, instructions string) (string, error) {
	if strings.TrimSpace(question) == "" {
		question = DefaultQuestion
	}

	var reply strings.Builder
	chunks := 0

	for chunk, err := range o.LLM.StreamText(ctx, instructions, question) {
		if err != nil {
			o.Logger.Error("model stream failed",
				zap.Int("chunks_received", chunks), zap.Error(err))
			return "", fmt.Errorf("failed to stream model reply: %w", err)
		}
		if chunk == "" {
			continue
		}
		reply.WriteString(chunk)
		chunks++
	}

	o.Logger.Debug("model stream complete",
		zap.Int("chunks", chunks), zap.Int("bytes", reply.Len()))
	return reply.String(), nil
}
