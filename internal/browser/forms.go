package browser

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// FormFillResult reports a best-effort form fill: per-field failures are
// collected, never aborting the remaining fields.
type FormFillResult struct {
	FilledFields []string `json:"filled_fields"`
	Submitted    bool     `json:"submitted"`
	Errors       []string `json:"errors,omitempty"`
}

const formSubmitSettle = 2 * time.Second

// fieldProbeJS inspects the first match of a CSS selector and reports how a
// write to it must be normalized.
func fieldProbeJS(selector string) string {
	q, _ := json.Marshal(selector)
	return fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return null;
		return {
			tag: el.tagName.toLowerCase(),
			type: (el.type || '').toLowerCase(),
			checked: !!el.checked,
		};
	})()`, q)
}

// selectOptionJS picks the option matching value (by value, else by label)
// and fires a change event.
func selectOptionJS(selector, value string) string {
	q, _ := json.Marshal(selector)
	v, _ := json.Marshal(value)
	return fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return false;
		const want = %s;
		for (const opt of el.options) {
			if (opt.value === want || opt.label === want || opt.text === want) {
				el.value = opt.value;
				el.dispatchEvent(new Event('change', { bubbles: true }));
				return true;
			}
		}
		return false;
	})()`, q, v)
}

// FillForm writes each selector→value pair into the page, normalizing by
// element kind: checkbox/radio toggle only on a state mismatch, selects pick
// the matching option, everything else is cleared and typed. An optional
// submit selector is clicked after all fields, followed by a settle delay.
func (t *Tab) FillForm(fields map[string]any, submitSelector string, timeout time.Duration) (FormFillResult, error) {
	if t == nil {
		return FormFillResult{}, fmt.Errorf("no active tab")
	}
	if timeout <= 0 {
		timeout = DefaultLocateTimeout
	}

	result := FormFillResult{}

	// Deterministic field order for reproducible partial-failure reports.
	selectors := make([]string, 0, len(fields))
	for sel := range fields {
		selectors = append(selectors, sel)
	}
	sort.Strings(selectors)

	for _, selector := range selectors {
		if err := t.fillField(selector, fields[selector], timeout); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", selector, err))
			continue
		}
		result.FilledFields = append(result.FilledFields, selector)
	}

	if submitSelector != "" {
		sel := Selector{Kind: SelectorCSS, Query: submitSelector}
		if err := t.Click(sel, timeout, formSubmitSettle); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("submit %s: %v", submitSelector, err))
		} else {
			result.Submitted = true
		}
	}

	return result, nil
}

type fieldState struct {
	Tag     string `json:"tag"`
	Type    string `json:"type"`
	Checked bool   `json:"checked"`
}

// awaitField polls for the selector's element until it appears or timeout
// elapses, so fields rendered shortly after page load still get filled.
func (t *Tab) awaitField(selector string, timeout time.Duration) (*fieldState, error) {
	script := fieldProbeJS(selector)
	deadline := time.Now().Add(timeout)

	for {
		var state *fieldState
		err := t.Run(probeTimeout, chromedp.Evaluate(script, &state))
		if err != nil && t.ctx.Err() != nil {
			return nil, t.ctx.Err()
		}
		if err == nil && state != nil {
			return state, nil
		}
		if time.Now().After(deadline) {
			if err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("element not found")
		}
		select {
		case <-t.ctx.Done():
			return nil, t.ctx.Err()
		case <-time.After(locatePollInterval):
		}
	}
}

func (t *Tab) fillField(selector string, value any, timeout time.Duration) error {
	state, err := t.awaitField(selector, timeout)
	if err != nil {
		return err
	}

	sel := Selector{Kind: SelectorCSS, Query: selector}

	switch {
	case state.Tag == "input" && (state.Type == "checkbox" || state.Type == "radio"):
		// Toggle only when current state differs from the desired one.
		if truthy(value) != state.Checked {
			return t.Click(sel, timeout, 0)
		}
		return nil

	case state.Tag == "select":
		var ok bool
		if err := t.Run(timeout, chromedp.Evaluate(selectOptionJS(selector, stringify(value)), &ok)); err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no option matching %q", stringify(value))
		}
		return nil

	default:
		return t.Type(sel, stringify(value), true, timeout)
	}
}

// truthy interprets JSON argument values the way the tool surface promises:
// false, 0, "", "false" and nil are false, everything else true.
func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != "" && !strings.EqualFold(x, "false")
	case float64:
		return x != 0
	case nil:
		return false
	default:
		return true
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	case float64:
		// JSON numbers arrive as float64; render integers without a decimal.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%v", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
