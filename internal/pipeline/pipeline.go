package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/streetwatch/internal/answer"
	"github.com/agenthands/streetwatch/internal/config"
	"github.com/agenthands/streetwatch/internal/incident"
	"github.com/agenthands/streetwatch/internal/llm"
	"github.com/agenthands/streetwatch/internal/logging"
	"github.com/agenthands/streetwatch/internal/metrics"
	"github.com/agenthands/streetwatch/internal/prompt"
	"github.com/agenthands/streetwatch/internal/query"
)

// Query is the only external input of a run.
type Query struct {
	Question string `json:"question"`
}

type Pipeline struct {
	URL          string
	Collector    *incident.Collector
	Assembler    *prompt.Assembler
	Orchestrator *query.Orchestrator
	Splitter     *answer.Splitter
	Metrics      *metrics.Metrics
	Logger       *zap.Logger

	llm llm.Client
}

func New(cfg *config.Config, fetcher incident.Fetcher, client llm.Client, m *metrics.Metrics, logger *zap.Logger) *Pipeline {
	logger = logging.OrNop(logger)
	return &Pipeline{
		URL:          cfg.Collector.URL,
		Collector:    incident.NewCollector(fetcher, logger.Named("collector")),
		Assembler:    prompt.NewAssembler(cfg.Prompt, cfg.Splitter),
		Orchestrator: query.NewOrchestrator(client, logger.Named("query")),
		Splitter:     answer.NewSplitter(cfg.Splitter),
		Metrics:      m,
		Logger:       logger,
		llm:          client,
	}
}

// NewFromConfig builds the fetcher and model client named by cfg.
func NewFromConfig(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*Pipeline, error) {
	client, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	return New(cfg, NewFetcher(cfg.Collector), client, m, logger), nil
}

func NewFetcher(cfg config.CollectorConfig) incident.Fetcher {
	if cfg.Fetcher == "browser" {
		return incident.NewBrowserFetcher(cfg.Timeout.Duration, cfg.UserAgent)
	}
	return incident.NewHTTPFetcher(cfg.Timeout.Duration, cfg.UserAgent)
}

// Run answers one question. Collection problems only shrink the incident list;
// the returned error is always a model stream failure.
func (p *Pipeline) Run(ctx context.Context, q Query) (answer.StructuredAnswer, error) {
	log := p.Logger.With(zap.String("run_id", uuid.New().String()))

	res := p.Collector.Collect(ctx, p.URL)
	p.Metrics.ObserveCollection(res.Kind.String(), len(res.Batch))
	log.Info("incidents collected",
		zap.String("kind", res.Kind.String()), zap.Int("count", len(res.Batch)))

	instructions := p.Assembler.BuildInstructions(res.Batch)

	reply, err := p.Orchestrator.Ask(ctx, q.Question, instructions)
	if err != nil {
		p.Metrics.ObserveQuery(false)
		return answer.StructuredAnswer{}, err
	}

	out, outcome := p.Splitter.SplitWithOutcome(reply)
	p.Metrics.ObserveSplit(outcome.String())
	p.Metrics.ObserveQuery(true)
	if outcome == answer.OutcomeFallback {
		log.Info("model reply had no section markers, returning it as the answer",
			zap.Int("reply_bytes", len(reply)))
	}

	return out, nil
}

func (p *Pipeline) Close() error {
	if p.llm == nil {
		return nil
	}
	return p.llm.Close()
}
