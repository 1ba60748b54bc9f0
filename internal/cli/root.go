package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/streetwatch/internal/answer"
	"github.com/agenthands/streetwatch/internal/config"
	"github.com/agenthands/streetwatch/internal/logging"
	"github.com/agenthands/streetwatch/internal/pipeline"
)

const Version = "0.1.0"

var errExpectedObject = errors.New("failed to read question from stdin: expected exactly one JSON object")

var (
	configPath   string
	logLevel     string
	logFormat    string
	incidentsURL string
)

var rootCmd = &cobra.Command{
	Use:   "streetwatch",
	Short: "Answer questions about recent street incidents in an area",
	Long: `streetwatch reads one JSON object {"question": "..."} from stdin, scrapes the
latest incident table, asks a language model about it and prints one JSON object
{"answer", "coords", "recent_news"} to stdout.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAskCmd,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a TOML config file (defaults to $CONFIG_PATH, then built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json")
	rootCmd.PersistentFlags().StringVar(&incidentsURL, "url", "", "Incident page URL override")

	rootCmd.AddCommand(serveCmd)
}

// loadConfig resolves the config from file, environment and flags, in that
// order of increasing priority, and validates it.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if incidentsURL != "" {
		cfg.Collector.URL = incidentsURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runAskCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signalContext()
	defer cancel()

	p, err := pipeline.NewFromConfig(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	return runAsk(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), p, logger)
}

type runner interface {
	Run(ctx context.Context, q pipeline.Query) (answer.StructuredAnswer, error)
}

// runAsk handles a single question. Nothing is written to out unless the whole
// run succeeded.
func runAsk(ctx context.Context, in io.Reader, out io.Writer, p runner, logger *zap.Logger) error {
	q, err := decodeQuery(in)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx, q)
	if err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode answer: %w", err)
	}
	if _, err := fmt.Fprintln(out, string(data)); err != nil {
		return fmt.Errorf("failed to write answer: %w", err)
	}

	logging.OrNop(logger).Debug("answer written", zap.Int("bytes", len(data)))
	return nil
}

func decodeQuery(in io.Reader) (pipeline.Query, error) {
	dec := json.NewDecoder(in)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return pipeline.Query{}, fmt.Errorf("failed to read question from stdin: %w", err)
	}
	if len(raw) == 0 || raw[0] != '{' {
		return pipeline.Query{}, errExpectedObject
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return pipeline.Query{}, errExpectedObject
	}

	var q pipeline.Query
	if err := json.Unmarshal(raw, &q); err != nil {
		return pipeline.Query{}, fmt.Errorf("failed to read question from stdin: %w", err)
	}
	return q, nil
}
