// Package answer turns a free-text model reply into the three fields returned
// to callers.
package answer

import (
	"strings"

	"github.com/agenthands/streetwatch/internal/config"
)

type StructuredAnswer struct {
	Answer     string `json:"answer"`
	Coords     string `json:"coords"`
	RecentNews string `json:"recent_news"`
}

type Outcome int

const (
	OutcomeParsed Outcome = iota
	OutcomeFallback
)

func (o Outcome) String() string {
	if o == OutcomeParsed {
		return "parsed"
	}
	return "fallback"
}

// Splitter cuts a reply at CoordsMarker and then at NewsMarker. AnswerLabel is
// only stripped when it leads the answer section, it is never required.
type Splitter struct {
	AnswerLabel  string
	CoordsMarker string
	NewsMarker   string
}

func NewSplitter(cfg config.SplitterConfig) *Splitter {
	return &Splitter{
		AnswerLabel:  cfg.AnswerLabel,
		CoordsMarker: cfg.CoordsMarker,
		NewsMarker:   cfg.NewsMarker,
	}
}

type state int

const (
	seekingCoords state = iota
	seekingNews
	parsed
	fallback
)

func (s *Splitter) Split(reply string) StructuredAnswer {
	a, _ := s.SplitWithOutcome(reply)
	return a
}

// SplitWithOutcome never fails. A reply missing either marker comes back whole
// (trimmed) in Answer with OutcomeFallback.
func (s *Splitter) SplitWithOutcome(reply string) (StructuredAnswer, Outcome) {
	var head, middle, rest string

	st := seekingCoords
	for st != parsed && st != fallback {
		switch st {
		case seekingCoords:
			h, t, ok := cut(reply, s.CoordsMarker)
			if !ok {
				st = fallback
				continue
			}
			head, rest = h, t
			st = seekingNews
		case seekingNews:
			m, t, ok := cut(rest, s.NewsMarker)
			if !ok {
				st = fallback
				continue
			}
			middle, rest = m, t
			st = parsed
		}
	}

	if st == fallback {
		return StructuredAnswer{Answer: strings.TrimSpace(reply)}, OutcomeFallback
	}

	return StructuredAnswer{
		Answer:     normalize(head, s.AnswerLabel),
		Coords:     normalize(middle, s.CoordsMarker),
		RecentNews: normalize(rest, s.NewsMarker),
	}, OutcomeParsed
}

func cut(s, marker string) (before, after string, found bool) {
	if marker == "" {
		return "", "", false
	}
	return strings.Cut(s, marker)
}

func normalize(piece, label string) string {
	piece = strings.TrimSpace(piece)
	if label != "" {
		piece = strings.TrimSpace(strings.TrimPrefix(piece, label))
	}
	return piece
}
