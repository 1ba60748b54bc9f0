package incident

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Record is one row of the incident table.
type Record struct {
	Time     string `json:"time"`
	District string `json:"district"`
	Details  string `json:"details"`
}

// Batch keeps records in page order.
type Batch []Record

// JSON renders the batch for embedding in a prompt. An empty or nil batch
// renders as "[]". Scraped text is kept as-is, "&" and "<" are not escaped.
func (b Batch) JSON() string {
	if len(b) == 0 {
		return "[]"
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]Record(b)); err != nil {
		// Record only holds strings, Encode cannot fail here.
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

type ResultKind int

const (
	KindOK ResultKind = iota
	KindNoTable
	KindFetchFailed
)

func (k ResultKind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindNoTable:
		return "no_table"
	case KindFetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

// Result is what a collection produced. Only KindOK carries records; the other
// kinds come with an empty batch and are meant to be logged, not escalated.
type Result struct {
	Kind  ResultKind
	Batch Batch
	Err   error
}
