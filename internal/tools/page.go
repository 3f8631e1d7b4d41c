package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pagehand/pagehand/internal/browser"
)

// ScrollPageTool moves the viewport.
type ScrollPageTool struct {
	manager *browser.Manager
}

// ScrollPageInput defines the input for scroll_page
type ScrollPageInput struct {
	Direction string  `json:"direction,omitempty"`
	Amount    string  `json:"amount,omitempty"`
	WaitAfter float64 `json:"wait_after,omitempty"`
}

func NewScrollPageTool(m *browser.Manager) *ScrollPageTool {
	return &ScrollPageTool{manager: m}
}

func (t *ScrollPageTool) Name() string { return "scroll_page" }

func (t *ScrollPageTool) Description() string {
	return "Scroll the current page. Directions top and bottom jump to the page edges; up, down, left and right move by the given amount."
}

func (t *ScrollPageTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"direction": {
				"type": "string",
				"description": "Scroll direction (default down)",
				"enum": ["up", "down", "left", "right", "top", "bottom"]
			},
			"amount": {
				"type": "string",
				"description": "'page' (1000px), 'half' (500px), or a pixel count such as '250'"
			},
			"wait_after": {
				"type": "number",
				"description": "Pause after scrolling, in seconds (default 0.5)"
			}
		}
	}`)
}

func (t *ScrollPageTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params ScrollPageInput
	if len(input) > 0 {
		if err := json.Unmarshal(input, &params); err != nil {
			return fail("invalid input: %v", err)
		}
	}
	if params.Direction == "" {
		params.Direction = "down"
	}

	pixels, err := browser.ScrollAmount(params.Amount)
	if err != nil {
		return failErr(err)
	}

	tab, res := currentTab(t.manager)
	if res != nil {
		return res
	}

	waitAfter := seconds(params.WaitAfter, 500*time.Millisecond)
	if err := tab.Scroll(params.Direction, pixels, waitAfter); err != nil {
		return failErr(browser.WrapActionError(err, "scroll"))
	}
	return ok(map[string]any{
		"direction": params.Direction,
		"pixels":    pixels,
	})
}

// TakeScreenshotTool captures the page to a PNG file.
type TakeScreenshotTool struct {
	manager *browser.Manager
}

// TakeScreenshotInput defines the input for take_screenshot
type TakeScreenshotInput struct {
	FilePath string `json:"file_path,omitempty"`
	FullPage bool   `json:"full_page,omitempty"`
}

func NewTakeScreenshotTool(m *browser.Manager) *TakeScreenshotTool {
	return &TakeScreenshotTool{manager: m}
}

func (t *TakeScreenshotTool) Name() string { return "take_screenshot" }

func (t *TakeScreenshotTool) Description() string {
	return "Capture the current page to a PNG file, creating parent directories as needed. Without file_path a timestamped name is used."
}

func (t *TakeScreenshotTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Output path (default screenshot_YYYYMMDD_HHMMSS.png in the working directory)"
			},
			"full_page": {
				"type": "boolean",
				"description": "Capture the full scrollable page instead of the viewport"
			}
		}
	}`)
}

func (t *TakeScreenshotTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params TakeScreenshotInput
	if len(input) > 0 {
		if err := json.Unmarshal(input, &params); err != nil {
			return fail("invalid input: %v", err)
		}
	}

	tab, res := currentTab(t.manager)
	if res != nil {
		return res
	}

	path, err := tab.Screenshot(params.FilePath, params.FullPage)
	if err != nil {
		return failErr(browser.WrapActionError(err, "screenshot"))
	}
	return ok(map[string]any{
		"file_path": path,
		"full_page": params.FullPage,
	})
}

// ExecuteJavaScriptTool evaluates a script in the page.
type ExecuteJavaScriptTool struct {
	manager *browser.Manager
}

// ExecuteJavaScriptInput defines the input for execute_javascript
type ExecuteJavaScriptInput struct {
	Script string `json:"script"`
}

func NewExecuteJavaScriptTool(m *browser.Manager) *ExecuteJavaScriptTool {
	return &ExecuteJavaScriptTool{manager: m}
}

func (t *ExecuteJavaScriptTool) Name() string { return "execute_javascript" }

func (t *ExecuteJavaScriptTool) Description() string {
	return "Evaluate a JavaScript expression in the current page and return its JSON-serialized result."
}

func (t *ExecuteJavaScriptTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"script": {
				"type": "string",
				"description": "JavaScript to evaluate"
			}
		},
		"required": ["script"]
	}`)
}

func (t *ExecuteJavaScriptTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params ExecuteJavaScriptInput
	if err := json.Unmarshal(input, &params); err != nil {
		return fail("invalid input: %v", err)
	}
	if params.Script == "" {
		return fail("script is required")
	}

	tab, res := currentTab(t.manager)
	if res != nil {
		return res
	}

	raw, err := tab.Evaluate(params.Script)
	if err != nil {
		return failErr(browser.WrapActionError(err, "execute javascript"))
	}
	return ok(map[string]any{"result": raw})
}
