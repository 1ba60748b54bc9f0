package incident

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const minCells = 3

// ParseTable extracts records from the first <table> in an HTML document.
// The bool is false when the document has no table at all.
func ParseTable(r io.Reader) (Batch, bool) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Batch{}, false
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return Batch{}, false
	}

	rows := table.Find("tr")
	if body := table.Find("tbody").First(); body.Length() > 0 {
		rows = body.Find("tr")
	}

	batch := Batch{}
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < minCells {
			return
		}
		batch = append(batch, Record{
			Time:     strings.TrimSpace(cells.Eq(0).Text()),
			District: strings.TrimSpace(cells.Eq(1).Text()),
			Details:  strings.TrimSpace(cells.Eq(2).Text()),
		})
	})

	return batch, true
}
