package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TableData is one extracted HTML table.
type TableData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Records zips each row against the headers into maps. Extra cells beyond
// the header width are dropped; short rows simply omit the trailing keys.
// Without headers, rows fall back to positional col_N keys.
func (t TableData) Records() []map[string]string {
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(row))
		if len(t.Headers) > 0 {
			for i, h := range t.Headers {
				if i >= len(row) {
					break
				}
				rec[h] = row[i]
			}
		} else {
			for i, cell := range row {
				rec[fmt.Sprintf("col_%d", i)] = cell
			}
		}
		records = append(records, rec)
	}
	return records
}

// ExtractTables pulls every matching table out of page HTML. The selector
// defaults to "table"; a selector that matches nothing yields an empty slice,
// not an error.
func ExtractTables(htmlStr, selector string) ([]TableData, error) {
	if selector == "" {
		selector = "table"
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var tables []TableData
	doc.Find(selector).Each(func(_ int, table *goquery.Selection) {
		tables = append(tables, extractTable(table))
	})
	return tables, nil
}

func extractTable(table *goquery.Selection) TableData {
	var t TableData

	// Header preference: thead th, thead td, then the first row's th or td.
	headerRow := (*goquery.Selection)(nil)
	if cells := table.Find("thead th"); cells.Length() > 0 {
		t.Headers = cellTexts(cells)
	} else if cells := table.Find("thead td"); cells.Length() > 0 {
		t.Headers = cellTexts(cells)
	} else if first := table.Find("tr").First(); first.Length() > 0 {
		if cells := first.Find("th"); cells.Length() > 0 {
			t.Headers = cellTexts(cells)
			headerRow = first
		} else if cells := first.Find("td"); cells.Length() > 0 {
			t.Headers = cellTexts(cells)
			headerRow = first
		}
	}

	rows := table.Find("tbody tr")
	if rows.Length() == 0 {
		rows = table.Find("tr")
	}
	rows.Each(func(_ int, row *goquery.Selection) {
		if row.Closest("thead").Length() > 0 {
			return
		}
		if headerRow != nil && row.Get(0) == headerRow.Get(0) {
			return
		}
		cells := row.Find("td")
		if cells.Length() == 0 {
			cells = row.Find("th")
		}
		if cells.Length() == 0 {
			return
		}
		t.Rows = append(t.Rows, cellTexts(cells))
	})
	return t
}

func cellTexts(cells *goquery.Selection) []string {
	out := make([]string, 0, cells.Length())
	cells.Each(func(_ int, c *goquery.Selection) {
		out = append(out, strings.TrimSpace(c.Text()))
	})
	return out
}

// WriteCSV saves a table to path, creating parent directories. Headers, when
// present, become the first record.
func WriteCSV(t TableData, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(t.Headers) > 0 {
		if err := w.Write(t.Headers); err != nil {
			return "", err
		}
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return abs, nil
}
