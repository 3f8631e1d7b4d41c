package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/pagehand/pagehand/internal/browser"
)

// SwitchToTabTool covers tab listing, creation, switching and closing.
type SwitchToTabTool struct {
	manager *browser.Manager
}

// SwitchToTabInput defines the input for switch_to_tab
type SwitchToTabInput struct {
	Action       string `json:"action"`
	URL          string `json:"url,omitempty"`
	Index        *int   `json:"index,omitempty"`
	TitlePattern string `json:"title_pattern,omitempty"`
}

func NewSwitchToTabTool(m *browser.Manager) *SwitchToTabTool {
	return &SwitchToTabTool{manager: m}
}

func (t *SwitchToTabTool) Name() string { return "switch_to_tab" }

func (t *SwitchToTabTool) Description() string {
	return "Manage browser tabs: list the open tabs, open a new tab, switch the current tab by index, URL fragment or title substring, or close a tab."
}

func (t *SwitchToTabTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"action": {
				"type": "string",
				"description": "Tab operation",
				"enum": ["list", "new", "switch", "close"]
			},
			"url": {
				"type": "string",
				"description": "URL to open ('new') or URL fragment to match ('switch')"
			},
			"index": {
				"type": "integer",
				"description": "Tab index for 'switch' or 'close'; omitted 'close' closes the current tab"
			},
			"title_pattern": {
				"type": "string",
				"description": "Title substring to match for 'switch'"
			}
		},
		"required": ["action"]
	}`)
}

func (t *SwitchToTabTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params SwitchToTabInput
	if err := json.Unmarshal(input, &params); err != nil {
		return fail("invalid input: %v", err)
	}

	if _, res := currentTab(t.manager); res != nil {
		return res
	}

	switch params.Action {
	case "list":
		tabs, err := t.manager.ListTabs()
		if err != nil {
			return failErr(err)
		}
		if tabs == nil {
			tabs = []browser.TabInfo{}
		}
		return ok(map[string]any{
			"count": len(tabs),
			"tabs":  tabs,
		})
	case "new":
		tab, err := t.manager.NewTab(params.URL)
		if err != nil {
			return failErr(err)
		}
		info, err := tab.Info()
		if err != nil {
			return failErr(err)
		}
		return ok(map[string]any{
			"url":   info.URL,
			"title": info.Title,
		})
	case "switch":
		info, err := t.switchTab(params)
		if err != nil {
			return failErr(err)
		}
		return ok(map[string]any{
			"index": info.Index,
			"url":   info.URL,
			"title": info.Title,
		})
	case "close":
		index := -1
		if params.Index != nil {
			index = *params.Index
		}
		if err := t.manager.CloseTab(index); err != nil {
			return failErr(err)
		}
		return ok(map[string]any{"message": "tab closed"})
	default:
		return fail("unknown action: %s (use list, new, switch or close)", params.Action)
	}
}

func (t *SwitchToTabTool) switchTab(params SwitchToTabInput) (browser.TabInfo, error) {
	switch {
	case params.Index != nil:
		return t.manager.SwitchTabByIndex(*params.Index)
	case params.URL != "":
		return t.manager.SwitchTabByURL(params.URL)
	case params.TitlePattern != "":
		return t.manager.SwitchTabByTitle(params.TitlePattern)
	default:
		return browser.TabInfo{}, errors.New("switch requires index, url or title_pattern")
	}
}
