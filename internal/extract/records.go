package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultRecordLimit caps how many containers a structured extraction visits.
const DefaultRecordLimit = 100

// SmartExtract walks every container matched by containerSel (up to limit)
// and resolves each named field's sub-selector inside it. Image elements
// yield their src, anchors yield {text, href}, everything else yields its
// trimmed text. A field whose selector matches nothing in a container is
// recorded as nil so rows stay aligned across containers. A container
// selector matching nothing at all is an error, not an empty result.
func SmartExtract(htmlStr, containerSel string, fields map[string]string, limit int) ([]map[string]any, error) {
	if containerSel == "" {
		return nil, fmt.Errorf("container selector is required")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("at least one field selector is required")
	}
	if limit <= 0 {
		limit = DefaultRecordLimit
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	containers := doc.Find(containerSel)
	if containers.Length() == 0 {
		return nil, fmt.Errorf("no elements match container selector: %s", containerSel)
	}

	var records []map[string]any
	containers.EachWithBreak(func(i int, container *goquery.Selection) bool {
		if i >= limit {
			return false
		}
		rec := make(map[string]any, len(fields))
		for name, sel := range fields {
			rec[name] = extractField(container, sel)
		}
		records = append(records, rec)
		return true
	})
	return records, nil
}

func extractField(container *goquery.Selection, sel string) any {
	el := container.Find(sel).First()
	if el.Length() == 0 {
		return nil
	}
	switch goquery.NodeName(el) {
	case "img":
		src, _ := el.Attr("src")
		return src
	case "a":
		href, _ := el.Attr("href")
		return map[string]string{
			"text": strings.TrimSpace(el.Text()),
			"href": href,
		}
	default:
		return strings.TrimSpace(el.Text())
	}
}
