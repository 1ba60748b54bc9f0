package incident

import (
	"bytes"
	"context"

	"go.uber.org/zap"

	"github.com/agenthands/streetwatch/internal/logging"
)

type Collector struct {
	Fetcher Fetcher
	Logger  *zap.Logger
}

func NewCollector(fetcher Fetcher, logger *zap.Logger) *Collector {
	return &Collector{
		Fetcher: fetcher,
		Logger:  logging.OrNop(logger),
	}
}

// Collect fetches url and extracts its incident table. It never fails: fetch
// errors and pages without a table come back as empty results of the matching
// kind.
func (c *Collector) Collect(ctx context.Context, url string) Result {
	body, err := c.Fetcher.Fetch(ctx, url)
	if err != nil {
		c.Logger.Warn("incident page fetch failed, continuing without incidents",
			zap.String("url", url), zap.Error(err))
		return Result{Kind: KindFetchFailed, Batch: Batch{}, Err: err}
	}

	batch, found := ParseTable(bytes.NewReader(body))
	if !found {
		c.Logger.Warn("no table on incident page, continuing without incidents",
			zap.String("url", url))
		return Result{Kind: KindNoTable, Batch: Batch{}}
	}

	c.Logger.Debug("collected incidents", zap.String("url", url), zap.Int("count", len(batch)))
	return Result{Kind: KindOK, Batch: batch}
}
