package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pagehand/pagehand/internal/browser"
)

// InitBrowserTool launches the managed browser session.
type InitBrowserTool struct {
	manager *browser.Manager
}

// InitBrowserInput defines the input for init_browser
type InitBrowserInput struct {
	Headless   *bool `json:"headless,omitempty"`
	WindowSize *struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"window_size,omitempty"`
}

func NewInitBrowserTool(m *browser.Manager) *InitBrowserTool {
	return &InitBrowserTool{manager: m}
}

func (t *InitBrowserTool) Name() string { return "init_browser" }

func (t *InitBrowserTool) Description() string {
	return "Launch the browser session. Safe to call when a session already exists; the existing session is reported instead of launching a second browser."
}

func (t *InitBrowserTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"headless": {
				"type": "boolean",
				"description": "Run without a visible window (default from configuration)"
			},
			"window_size": {
				"type": "object",
				"description": "Viewport size, default 1920x1080",
				"properties": {
					"width": {"type": "integer"},
					"height": {"type": "integer"}
				}
			}
		}
	}`)
}

func (t *InitBrowserTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params InitBrowserInput
	if len(input) > 0 {
		if err := json.Unmarshal(input, &params); err != nil {
			return fail("invalid input: %v", err)
		}
	}

	opts := t.manager.DefaultLaunchOptions()
	if params.Headless != nil {
		opts.Headless = *params.Headless
	}
	if params.WindowSize != nil {
		opts.WindowWidth = params.WindowSize.Width
		opts.WindowHeight = params.WindowSize.Height
	}

	status, already, err := t.manager.Init(opts)
	if err != nil {
		return failErr(err)
	}

	msg := "browser started"
	if already {
		msg = "browser already running"
	}
	return ok(map[string]any{
		"message":         msg,
		"already_running": already,
		"status":          status,
	})
}

// BrowserStatusTool reports the current session snapshot.
type BrowserStatusTool struct {
	manager *browser.Manager
}

func NewBrowserStatusTool(m *browser.Manager) *BrowserStatusTool {
	return &BrowserStatusTool{manager: m}
}

func (t *BrowserStatusTool) Name() string { return "get_browser_status" }

func (t *BrowserStatusTool) Description() string {
	return "Report whether the browser is running and, if so, the current page URL, title and open tab count."
}

func (t *BrowserStatusTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *BrowserStatusTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	st := t.manager.Status()
	fields := map[string]any{"running": st.Running}
	if st.Running {
		fields["url"] = st.URL
		fields["title"] = st.Title
		fields["tab_count"] = st.TabCount
		if st.TabCountApprox {
			fields["tab_count_approx"] = true
			fields["probe_error"] = st.ProbeErr
		}
	}
	return ok(fields)
}

// CloseBrowserTool tears the session down.
type CloseBrowserTool struct {
	manager *browser.Manager
}

func NewCloseBrowserTool(m *browser.Manager) *CloseBrowserTool {
	return &CloseBrowserTool{manager: m}
}

func (t *CloseBrowserTool) Name() string { return "close_browser" }

func (t *CloseBrowserTool) Description() string {
	return "Close the browser and release its resources. Closing an already-closed browser succeeds."
}

func (t *CloseBrowserTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *CloseBrowserTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	if err := t.manager.Close(); err != nil {
		return failErr(err)
	}
	return ok(map[string]any{"message": "browser closed"})
}

// NavigateTool loads a URL in the current tab.
type NavigateTool struct {
	manager *browser.Manager
}

// NavigateInput defines the input for navigate
type NavigateInput struct {
	URL     string  `json:"url"`
	Timeout float64 `json:"timeout,omitempty"` // seconds
}

func NewNavigateTool(m *browser.Manager) *NavigateTool {
	return &NavigateTool{manager: m}
}

func (t *NavigateTool) Name() string { return "navigate" }

func (t *NavigateTool) Description() string {
	return "Navigate the current tab to a URL, waiting for the document to become ready. Starts the browser if needed."
}

func (t *NavigateTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"url": {
				"type": "string",
				"description": "Destination URL"
			},
			"timeout": {
				"type": "number",
				"description": "Navigation timeout in seconds (default 30)"
			}
		},
		"required": ["url"]
	}`)
}

func (t *NavigateTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params NavigateInput
	if err := json.Unmarshal(input, &params); err != nil {
		return fail("invalid input: %v", err)
	}
	if params.URL == "" {
		return fail("url is required")
	}

	tab, res := currentTab(t.manager)
	if res != nil {
		return res
	}

	info, err := tab.Navigate(params.URL, seconds(params.Timeout, browser.DefaultActionTimeout))
	if err != nil {
		return failErr(browser.WrapActionError(err, "navigate"))
	}
	return ok(map[string]any{
		"url":   info.URL,
		"title": info.Title,
	})
}

// currentTab resolves the active tab, lazily starting the browser. A nil
// second return means the tab is usable.
func currentTab(m *browser.Manager) (*browser.Tab, *ToolResult) {
	if !m.Ensure() {
		return nil, fail("browser failed to start")
	}
	tab := m.CurrentTab()
	if tab == nil {
		return nil, fail("no active tab")
	}
	return tab, nil
}

// seconds converts a fractional-seconds argument, zero meaning the default.
func seconds(s float64, def time.Duration) time.Duration {
	if s <= 0 {
		return def
	}
	return time.Duration(s * float64(time.Second))
}
