package tools

import (
	"context"
	"encoding/json"

	"github.com/pagehand/pagehand/internal/browser"
)

// InfiniteScrollTool drives a page that loads content on scroll until it
// stops growing.
type InfiniteScrollTool struct {
	manager *browser.Manager
}

// InfiniteScrollInput defines the input for handle_infinite_scroll
type InfiniteScrollInput struct {
	MaxScrolls    int     `json:"max_scrolls,omitempty"`
	ScrollPause   float64 `json:"scroll_pause,omitempty"`
	CheckSelector string  `json:"check_selector,omitempty"`
}

func NewInfiniteScrollTool(m *browser.Manager) *InfiniteScrollTool {
	return &InfiniteScrollTool{manager: m}
}

func (t *InfiniteScrollTool) Name() string { return "handle_infinite_scroll" }

func (t *InfiniteScrollTool) Description() string {
	return "Repeatedly scroll to the page bottom until the content stops growing or max_scrolls is reached. With check_selector, growth is measured by the number of matching elements; otherwise by page height."
}

func (t *InfiniteScrollTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"max_scrolls": {
				"type": "integer",
				"description": "Maximum scroll iterations (default 10)"
			},
			"scroll_pause": {
				"type": "number",
				"description": "Wait after each scroll before measuring, in seconds (default 2)"
			},
			"check_selector": {
				"type": "string",
				"description": "CSS selector whose match count measures growth; empty measures page height"
			}
		}
	}`)
}

func (t *InfiniteScrollTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params InfiniteScrollInput
	if len(input) > 0 {
		if err := json.Unmarshal(input, &params); err != nil {
			return fail("invalid input: %v", err)
		}
	}

	opts := browser.ScrollOptions{
		MaxScrolls: params.MaxScrolls,
		Pause:      seconds(params.ScrollPause, 0),
	}
	if params.CheckSelector != "" {
		sel, err := browser.ParseSelector(params.CheckSelector, "")
		if err != nil {
			return failErr(err)
		}
		opts.CheckSelector = sel
	}

	tab, res := currentTab(t.manager)
	if res != nil {
		return res
	}

	outcome, err := tab.ScrollToConvergence(opts)
	if err != nil {
		return failErr(browser.WrapActionError(err, "infinite scroll"))
	}

	fields := map[string]any{
		"phase":        outcome.Phase.String(),
		"scroll_count": outcome.ScrollCount,
	}
	if params.CheckSelector != "" {
		fields["element_count"] = outcome.FinalCount
	} else {
		fields["page_height"] = outcome.FinalHeight
	}
	return ok(fields)
}
