// Package extract reduces raw HTML to clean, structured output: sanitized
// markup, Markdown or plain text, table records, and field-mapped record
// sets. Everything here is deterministic on a static document.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// adSelectors is the fixed denylist of non-content subtrees removed during
// sanitization. Matching is structural: the node and all descendants go.
var adSelectors = []string{
	"script", "style", "iframe", "noscript",
	`[class*="ad-"]`, `[class*="advertisement"]`,
	`[id*="ad-"]`, `[id*="advertisement"]`,
	".sidebar", ".footer", ".header-ad",
	`[class*="social-share"]`, `[class*="cookie"]`,
}

// mainSelectors is the priority order for narrowing a document to its main
// content. The first match wins.
var mainSelectors = []string{
	"main", "article", `[role="main"]`,
	".main-content", "#main-content",
	".content", "#content",
	".post-content", ".article-content",
}

// Sanitize parses htmlStr and, when removeAds is set, deletes every subtree
// matching the denylist. Overlapping matches are harmless: removing an
// already-detached node is a no-op.
func Sanitize(htmlStr string, removeAds bool) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return "", err
	}

	if removeAds {
		for _, sel := range adSelectors {
			doc.Find(sel).Remove()
		}
	}

	return doc.Html()
}

// ExtractMain returns the subtree most likely to hold the article content,
// trying each selector in priority order, then <body>, then the full input.
// No match is never an error; the fallback chain always produces HTML.
func ExtractMain(htmlStr string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return htmlStr
	}

	for _, sel := range mainSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			if h, err := goquery.OuterHtml(s.First()); err == nil {
				return h
			}
		}
	}

	if body := doc.Find("body"); body.Length() > 0 {
		if h, err := goquery.OuterHtml(body.First()); err == nil {
			return h
		}
	}

	return htmlStr
}
