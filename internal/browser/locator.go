package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// SelectorKind is the query language used to find DOM nodes.
type SelectorKind string

const (
	SelectorCSS   SelectorKind = "css"
	SelectorXPath SelectorKind = "xpath"
	SelectorText  SelectorKind = "text"
)

// Selector is a tagged (kind, query) pair. Every operation that touches DOM
// nodes resolves elements through exactly one of these; there is no
// per-operation selector dispatch.
type Selector struct {
	Kind  SelectorKind
	Query string
}

// ParseSelector validates a selector kind string. An empty kind defaults to
// CSS.
func ParseSelector(query, kind string) (Selector, error) {
	switch SelectorKind(strings.ToLower(kind)) {
	case "", SelectorCSS:
		return Selector{Kind: SelectorCSS, Query: query}, nil
	case SelectorXPath:
		return Selector{Kind: SelectorXPath, Query: query}, nil
	case SelectorText:
		return Selector{Kind: SelectorText, Query: query}, nil
	default:
		return Selector{}, fmt.Errorf("unsupported selector type: %s", kind)
	}
}

// xpath returns the selector as an XPath expression; text selectors compile
// to a contains() match on normalized text.
func (s Selector) xpath() string {
	if s.Kind == SelectorText {
		return fmt.Sprintf("//*[contains(normalize-space(text()), %s)]", xpathLiteral(s.Query))
	}
	return s.Query
}

// QueryOpts maps the selector to chromedp query options for element actions
// (click, type, wait). CSS uses querySelector; XPath and text use DOM search.
func (s Selector) QueryOpts() (string, chromedp.QueryOption) {
	if s.Kind == SelectorCSS {
		return s.Query, chromedp.ByQuery
	}
	return s.xpath(), chromedp.BySearch
}

// xpathLiteral quotes a string for embedding in an XPath expression. XPath
// 1.0 has no escaping, so strings containing both quote kinds fall back to
// concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `'`) {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, `'`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+p+"'")
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// ElementRef describes one located DOM node. Refs are snapshots: any ref
// obtained before a navigation is stale.
type ElementRef struct {
	Tag   string            `json:"tag"`
	Text  string            `json:"text"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// LocateResult is the outcome of a locate call. A timeout with zero matches
// is Found=false, not an error.
type LocateResult struct {
	Found    bool
	Count    int
	Elements []ElementRef
}

// locateJS builds a script that resolves the selector and returns the match
// count plus descriptions of the first MaxReportedElements nodes.
func locateJS(sel Selector, limit int) string {
	var resolver string
	switch sel.Kind {
	case SelectorCSS:
		q, _ := json.Marshal(sel.Query)
		resolver = fmt.Sprintf("Array.from(document.querySelectorAll(%s))", q)
	default:
		x, _ := json.Marshal(sel.xpath())
		resolver = fmt.Sprintf(`(() => {
			const it = document.evaluate(%s, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
			const out = [];
			for (let i = 0; i < it.snapshotLength; i++) out.push(it.snapshotItem(i));
			return out;
		})()`, x)
	}

	return fmt.Sprintf(`(() => {
		const els = %s;
		const describe = (el) => {
			const attrs = {};
			for (const a of el.attributes || []) attrs[a.name] = a.value;
			return {
				tag: el.tagName ? el.tagName.toLowerCase() : '',
				text: (el.textContent || '').trim(),
				attrs: attrs,
			};
		};
		return { count: els.length, elements: els.slice(0, %d).map(describe) };
	})()`, resolver, limit)
}

// Locate polls the current page until the selector matches at least one node
// or the timeout elapses. It blocks bounded by timeout and reports NotFound
// (Found=false) on zero matches rather than erroring.
func (t *Tab) Locate(sel Selector, timeout time.Duration) (LocateResult, error) {
	if t == nil {
		return LocateResult{}, fmt.Errorf("no active tab")
	}
	if timeout <= 0 {
		timeout = DefaultLocateTimeout
	}

	script := locateJS(sel, MaxReportedElements)
	deadline := time.Now().Add(timeout)

	for {
		var raw struct {
			Count    int          `json:"count"`
			Elements []ElementRef `json:"elements"`
		}
		evalCtx, cancel := context.WithTimeout(t.ctx, probeTimeout)
		err := chromedp.Run(evalCtx, chromedp.Evaluate(script, &raw))
		cancel()
		if err != nil {
			// A dead tab context is fatal; an evaluation hiccup (mid-navigation)
			// is retried until the deadline.
			if t.ctx.Err() != nil {
				return LocateResult{}, fmt.Errorf("locate %s: %w", sel.Query, t.ctx.Err())
			}
		} else if raw.Count > 0 {
			return LocateResult{Found: true, Count: raw.Count, Elements: raw.Elements}, nil
		}

		if time.Now().After(deadline) {
			return LocateResult{Found: false}, nil
		}
		select {
		case <-t.ctx.Done():
			return LocateResult{}, fmt.Errorf("locate %s: %w", sel.Query, t.ctx.Err())
		case <-time.After(locatePollInterval):
		}
	}
}

// LocateOne is Locate narrowed to the first match.
func (t *Tab) LocateOne(sel Selector, timeout time.Duration) (ElementRef, bool, error) {
	res, err := t.Locate(sel, timeout)
	if err != nil || !res.Found {
		return ElementRef{}, false, err
	}
	return res.Elements[0], true, nil
}
