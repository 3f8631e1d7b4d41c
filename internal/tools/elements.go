package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pagehand/pagehand/internal/browser"
)

// selectorSchema is the shared schema fragment for selector arguments.
const selectorSchema = `
			"selector": {
				"type": "string",
				"description": "Element selector query"
			},
			"selector_type": {
				"type": "string",
				"description": "How to interpret the selector (default css)",
				"enum": ["css", "xpath", "text"]
			}`

// FindElementsTool queries the DOM without side effects.
type FindElementsTool struct {
	manager *browser.Manager
}

// FindElementsInput defines the input for find_elements
type FindElementsInput struct {
	Selector     string  `json:"selector"`
	SelectorType string  `json:"selector_type,omitempty"`
	Single       bool    `json:"single,omitempty"`
	Timeout      float64 `json:"timeout,omitempty"`
}

func NewFindElementsTool(m *browser.Manager) *FindElementsTool {
	return &FindElementsTool{manager: m}
}

func (t *FindElementsTool) Name() string { return "find_elements" }

func (t *FindElementsTool) Description() string {
	return "Find elements matching a CSS, XPath or visible-text selector. Reports the match count and a sample of matched elements; a selector matching nothing is found:false, not an error."
}

func (t *FindElementsTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {` + selectorSchema + `,
			"single": {
				"type": "boolean",
				"description": "Report only the first match"
			},
			"timeout": {
				"type": "number",
				"description": "How long to wait for a match, in seconds (default 10)"
			}
		},
		"required": ["selector"]
	}`)
}

func (t *FindElementsTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params FindElementsInput
	if err := json.Unmarshal(input, &params); err != nil {
		return fail("invalid input: %v", err)
	}

	sel, err := browser.ParseSelector(params.Selector, params.SelectorType)
	if err != nil {
		return failErr(err)
	}

	tab, res := currentTab(t.manager)
	if res != nil {
		return res
	}

	result, err := tab.Locate(sel, seconds(params.Timeout, browser.DefaultLocateTimeout))
	if err != nil {
		return failErr(browser.WrapActionError(err, "find elements"))
	}

	if params.Single {
		fields := map[string]any{"found": result.Found}
		if result.Found {
			fields["element"] = result.Elements[0]
		}
		return ok(fields)
	}
	elements := result.Elements
	if elements == nil {
		elements = []browser.ElementRef{}
	}
	return ok(map[string]any{
		"found":    result.Found,
		"count":    result.Count,
		"elements": elements,
	})
}

// ClickElementTool clicks the first matching element.
type ClickElementTool struct {
	manager *browser.Manager
}

// ClickElementInput defines the input for click_element
type ClickElementInput struct {
	Selector     string  `json:"selector"`
	SelectorType string  `json:"selector_type,omitempty"`
	Timeout      float64 `json:"timeout,omitempty"`
	WaitAfter    float64 `json:"wait_after,omitempty"`
}

func NewClickElementTool(m *browser.Manager) *ClickElementTool {
	return &ClickElementTool{manager: m}
}

func (t *ClickElementTool) Name() string { return "click_element" }

func (t *ClickElementTool) Description() string {
	return "Click the first element matching the selector, then pause briefly so the page can react."
}

func (t *ClickElementTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {` + selectorSchema + `,
			"timeout": {
				"type": "number",
				"description": "How long to wait for the element, in seconds (default 10)"
			},
			"wait_after": {
				"type": "number",
				"description": "Pause after the click, in seconds (default 1)"
			}
		},
		"required": ["selector"]
	}`)
}

func (t *ClickElementTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params ClickElementInput
	if err := json.Unmarshal(input, &params); err != nil {
		return fail("invalid input: %v", err)
	}

	sel, err := browser.ParseSelector(params.Selector, params.SelectorType)
	if err != nil {
		return failErr(err)
	}

	tab, res := currentTab(t.manager)
	if res != nil {
		return res
	}

	waitAfter := seconds(params.WaitAfter, time.Second)
	if err := tab.Click(sel, seconds(params.Timeout, browser.DefaultLocateTimeout), waitAfter); err != nil {
		return failErr(browser.WrapActionError(err, "click"))
	}
	return ok(map[string]any{"clicked": params.Selector})
}

// InputTextTool types into a form control.
type InputTextTool struct {
	manager *browser.Manager
}

// InputTextInput defines the input for input_text
type InputTextInput struct {
	Selector     string  `json:"selector"`
	SelectorType string  `json:"selector_type,omitempty"`
	Text         string  `json:"text"`
	ClearFirst   *bool   `json:"clear_first,omitempty"`
	Timeout      float64 `json:"timeout,omitempty"`
}

func NewInputTextTool(m *browser.Manager) *InputTextTool {
	return &InputTextTool{manager: m}
}

func (t *InputTextTool) Name() string { return "input_text" }

func (t *InputTextTool) Description() string {
	return "Type text into the first element matching the selector, clearing its existing value first unless clear_first is false."
}

func (t *InputTextTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {` + selectorSchema + `,
			"text": {
				"type": "string",
				"description": "Text to type"
			},
			"clear_first": {
				"type": "boolean",
				"description": "Clear the field before typing (default true)"
			},
			"timeout": {
				"type": "number",
				"description": "How long to wait for the element, in seconds (default 10)"
			}
		},
		"required": ["selector", "text"]
	}`)
}

func (t *InputTextTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params InputTextInput
	if err := json.Unmarshal(input, &params); err != nil {
		return fail("invalid input: %v", err)
	}

	sel, err := browser.ParseSelector(params.Selector, params.SelectorType)
	if err != nil {
		return failErr(err)
	}

	tab, res := currentTab(t.manager)
	if res != nil {
		return res
	}

	clearFirst := params.ClearFirst == nil || *params.ClearFirst
	if err := tab.Type(sel, params.Text, clearFirst, seconds(params.Timeout, browser.DefaultLocateTimeout)); err != nil {
		return failErr(browser.WrapActionError(err, "input text"))
	}
	return ok(map[string]any{
		"selector":    params.Selector,
		"text_length": len(params.Text),
	})
}

// ElementTextTool reads an element's visible text.
type ElementTextTool struct {
	manager *browser.Manager
}

// ElementTextInput defines the input for get_element_text
type ElementTextInput struct {
	Selector     string `json:"selector"`
	SelectorType string `json:"selector_type,omitempty"`
}

func NewElementTextTool(m *browser.Manager) *ElementTextTool {
	return &ElementTextTool{manager: m}
}

func (t *ElementTextTool) Name() string { return "get_element_text" }

func (t *ElementTextTool) Description() string {
	return "Return the visible text of the first element matching the selector."
}

func (t *ElementTextTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {` + selectorSchema + `
		},
		"required": ["selector"]
	}`)
}

func (t *ElementTextTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params ElementTextInput
	if err := json.Unmarshal(input, &params); err != nil {
		return fail("invalid input: %v", err)
	}

	sel, err := browser.ParseSelector(params.Selector, params.SelectorType)
	if err != nil {
		return failErr(err)
	}

	tab, res := currentTab(t.manager)
	if res != nil {
		return res
	}

	text, tag, err := tab.Text(sel, browser.DefaultLocateTimeout)
	if err != nil {
		return failErr(browser.WrapActionError(err, "get text"))
	}
	return ok(map[string]any{
		"text": text,
		"tag":  tag,
	})
}

// ElementAttributeTool reads one attribute of an element.
type ElementAttributeTool struct {
	manager *browser.Manager
}

// ElementAttributeInput defines the input for get_element_attribute
type ElementAttributeInput struct {
	Selector     string `json:"selector"`
	SelectorType string `json:"selector_type,omitempty"`
	Attribute    string `json:"attribute"`
}

func NewElementAttributeTool(m *browser.Manager) *ElementAttributeTool {
	return &ElementAttributeTool{manager: m}
}

func (t *ElementAttributeTool) Name() string { return "get_element_attribute" }

func (t *ElementAttributeTool) Description() string {
	return "Return one attribute value from the first element matching the selector. A missing attribute is reported as null."
}

func (t *ElementAttributeTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {` + selectorSchema + `,
			"attribute": {
				"type": "string",
				"description": "Attribute name, e.g. href or src"
			}
		},
		"required": ["selector", "attribute"]
	}`)
}

func (t *ElementAttributeTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params ElementAttributeInput
	if err := json.Unmarshal(input, &params); err != nil {
		return fail("invalid input: %v", err)
	}
	if params.Attribute == "" {
		return fail("attribute is required")
	}

	sel, err := browser.ParseSelector(params.Selector, params.SelectorType)
	if err != nil {
		return failErr(err)
	}

	tab, res := currentTab(t.manager)
	if res != nil {
		return res
	}

	value, present, err := tab.Attribute(sel, params.Attribute, browser.DefaultLocateTimeout)
	if err != nil {
		return failErr(browser.WrapActionError(err, "get attribute"))
	}
	fields := map[string]any{"attribute": params.Attribute}
	if present {
		fields["value"] = value
	} else {
		fields["value"] = nil
	}
	return ok(fields)
}

// WaitForElementTool blocks until a selector matches.
type WaitForElementTool struct {
	manager *browser.Manager
}

// WaitForElementInput defines the input for wait_for_element
type WaitForElementInput struct {
	Selector     string  `json:"selector"`
	SelectorType string  `json:"selector_type,omitempty"`
	Timeout      float64 `json:"timeout,omitempty"`
	Visible      bool    `json:"visible,omitempty"`
}

func NewWaitForElementTool(m *browser.Manager) *WaitForElementTool {
	return &WaitForElementTool{manager: m}
}

func (t *WaitForElementTool) Name() string { return "wait_for_element" }

func (t *WaitForElementTool) Description() string {
	return "Wait until an element matching the selector appears, reporting the elapsed time. Never matching within the timeout is found:false, not an error."
}

func (t *WaitForElementTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {` + selectorSchema + `,
			"timeout": {
				"type": "number",
				"description": "Maximum wait in seconds (default 30)"
			},
			"visible": {
				"type": "boolean",
				"description": "Accepted for compatibility; matching is presence-based"
			}
		},
		"required": ["selector"]
	}`)
}

func (t *WaitForElementTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params WaitForElementInput
	if err := json.Unmarshal(input, &params); err != nil {
		return fail("invalid input: %v", err)
	}

	sel, err := browser.ParseSelector(params.Selector, params.SelectorType)
	if err != nil {
		return failErr(err)
	}

	tab, res := currentTab(t.manager)
	if res != nil {
		return res
	}

	ref, found, elapsed, err := tab.WaitFor(sel, seconds(params.Timeout, browser.DefaultWaitTimeout))
	if err != nil {
		return failErr(browser.WrapActionError(err, "wait for element"))
	}
	fields := map[string]any{
		"found":   found,
		"elapsed": elapsed.Seconds(),
	}
	if found {
		fields["element"] = ref
	}
	return ok(fields)
}
