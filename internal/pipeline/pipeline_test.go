package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/agenthands/streetwatch/internal/answer"
	"github.com/agenthands/streetwatch/internal/config"
	"github.com/agenthands/streetwatch/internal/incident"
	"github.com/agenthands/streetwatch/internal/llm"
	"github.com/agenthands/streetwatch/internal/metrics"
	"github.com/agenthands/streetwatch/internal/query"
)

type stubFetcher struct {
	Body []byte
	Err  error
	URL  string
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	s.URL = url
	return s.Body, s.Err
}

const downtownPage = `<table><tbody><tr><td>10:32am</td><td>Downtown</td><td>Break-in reported</td></tr></tbody></table>`

func newTestPipeline(t *testing.T, fetcher incident.Fetcher, mock *llm.MockClient) (*Pipeline, *metrics.Metrics) {
	t.Helper()
	cfg := config.Default()
	cfg.Collector.URL = "http://incidents.test/"
	m := metrics.NewMetrics(prometheus.NewRegistry())
	return New(cfg, fetcher, mock, m, zaptest.NewLogger(t)), m
}

func TestRunDowntownScenario(t *testing.T) {
	fetcher := &stubFetcher{Body: []byte(downtownPage)}
	mock := &llm.MockClient{Chunks: []string{
		"ANSWER: One break-in downtown. ",
		"COORDS: 43.65,-79.38 ",
		"NEWS: none found",
	}}
	p, m := newTestPipeline(t, fetcher, mock)

	out, err := p.Run(context.Background(), Query{Question: "What happened downtown?"})

	require.NoError(t, err)
	assert.Equal(t, answer.StructuredAnswer{
		Answer:     "One break-in downtown.",
		Coords:     "43.65,-79.38",
		RecentNews: "none found",
	}, out)
	assert.Equal(t, "http://incidents.test/", fetcher.URL)
	assert.Equal(t, "What happened downtown?", mock.LastUser)
	assert.Contains(t, mock.LastSystem, `{"time":"10:32am","district":"Downtown","details":"Break-in reported"}`)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SplitsTotal.WithLabelValues("parsed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IncidentsTotal))
}

func TestRunReplyWithoutMarkers(t *testing.T) {
	reply := "I found one break-in downtown this morning."
	mock := &llm.MockClient{Chunks: []string{"I found one break-in ", "downtown this morning."}}
	p, m := newTestPipeline(t, &stubFetcher{Body: []byte(downtownPage)}, mock)

	out, err := p.Run(context.Background(), Query{Question: "What happened downtown?"})

	require.NoError(t, err)
	assert.Equal(t, answer.StructuredAnswer{Answer: reply}, out)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SplitsTotal.WithLabelValues("fallback")))
}

func TestRunFetchFailureContinues(t *testing.T) {
	mock := &llm.MockClient{Chunks: []string{"Nothing to report."}}
	p, m := newTestPipeline(t, &stubFetcher{Err: errors.New("dial tcp: refused")}, mock)

	out, err := p.Run(context.Background(), Query{})

	require.NoError(t, err)
	assert.Equal(t, "Nothing to report.", out.Answer)
	assert.Contains(t, mock.LastSystem, "[]")
	assert.Equal(t, query.DefaultQuestion, mock.LastUser)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CollectionsTotal.WithLabelValues("fetch_failed")))
}

func TestRunNoTableContinues(t *testing.T) {
	mock := &llm.MockClient{Chunks: []string{"ANSWER: none COORDS: NEWS:"}}
	p, m := newTestPipeline(t, &stubFetcher{Body: []byte("<p>down for maintenance</p>")}, mock)

	out, err := p.Run(context.Background(), Query{Question: ""})

	require.NoError(t, err)
	assert.Equal(t, answer.StructuredAnswer{Answer: "none"}, out)
	assert.Contains(t, mock.LastSystem, "[]")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CollectionsTotal.WithLabelValues("no_table")))
}

func TestRunStreamFailureIsFatal(t *testing.T) {
	streamErr := errors.New("401 unauthenticated")
	mock := &llm.MockClient{Chunks: []string{"ANSWER: x"}, Err: streamErr, FailAfter: 1}
	p, m := newTestPipeline(t, &stubFetcher{Body: []byte(downtownPage)}, mock)

	out, err := p.Run(context.Background(), Query{Question: "q"})

	assert.ErrorIs(t, err, streamErr)
	assert.Equal(t, answer.StructuredAnswer{}, out)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("error")))
}

func TestCloseClosesModelClient(t *testing.T) {
	mock := &llm.MockClient{}
	p, _ := newTestPipeline(t, &stubFetcher{}, mock)

	require.NoError(t, p.Close())
	assert.True(t, mock.Closed)
}

func TestNewFetcher(t *testing.T) {
	cfg := config.Default().Collector
	assert.IsType(t, &incident.HTTPFetcher{}, NewFetcher(cfg))

	cfg.Fetcher = "browser"
	assert.IsType(t, &incident.BrowserFetcher{}, NewFetcher(cfg))
}
