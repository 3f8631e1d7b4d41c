package tools

import (
	"context"
	"encoding/json"

	"github.com/pagehand/pagehand/internal/browser"
)

// ManageCookiesTool covers cookie get/set/delete/clear under one action
// parameter.
type ManageCookiesTool struct {
	manager *browser.Manager
}

// ManageCookiesInput defines the input for manage_cookies
type ManageCookiesInput struct {
	Action string `json:"action"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value,omitempty"`
	Domain string `json:"domain,omitempty"`
}

func NewManageCookiesTool(m *browser.Manager) *ManageCookiesTool {
	return &ManageCookiesTool{manager: m}
}

func (t *ManageCookiesTool) Name() string { return "manage_cookies" }

func (t *ManageCookiesTool) Description() string {
	return "Read, set, delete or clear browser cookies. 'get' optionally filters by name; 'set' defaults the domain to the current page's host."
}

func (t *ManageCookiesTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"action": {
				"type": "string",
				"description": "Cookie operation",
				"enum": ["get", "set", "delete", "clear"]
			},
			"name": {
				"type": "string",
				"description": "Cookie name (filter for 'get', required for 'set' and 'delete')"
			},
			"value": {
				"type": "string",
				"description": "Cookie value (required for 'set')"
			},
			"domain": {
				"type": "string",
				"description": "Cookie domain for 'set' (default: current page host)"
			}
		},
		"required": ["action"]
	}`)
}

func (t *ManageCookiesTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params ManageCookiesInput
	if err := json.Unmarshal(input, &params); err != nil {
		return fail("invalid input: %v", err)
	}

	tab, res := currentTab(t.manager)
	if res != nil {
		return res
	}

	switch params.Action {
	case "get":
		cookies, err := tab.Cookies(params.Name)
		if err != nil {
			return failErr(browser.WrapActionError(err, "get cookies"))
		}
		if cookies == nil {
			cookies = []browser.Cookie{}
		}
		return ok(map[string]any{
			"count":   len(cookies),
			"cookies": cookies,
		})
	case "set":
		if params.Name == "" || params.Value == "" {
			return fail("name and value are required for set")
		}
		if err := tab.SetCookie(params.Name, params.Value, params.Domain); err != nil {
			return failErr(browser.WrapActionError(err, "set cookie"))
		}
		return ok(map[string]any{"name": params.Name})
	case "delete":
		if params.Name == "" {
			return fail("name is required for delete")
		}
		if err := tab.DeleteCookie(params.Name); err != nil {
			return failErr(browser.WrapActionError(err, "delete cookie"))
		}
		return ok(map[string]any{"name": params.Name})
	case "clear":
		if err := tab.ClearCookies(); err != nil {
			return failErr(browser.WrapActionError(err, "clear cookies"))
		}
		return ok(map[string]any{"message": "all cookies cleared"})
	default:
		return fail("unknown action: %s (use get, set, delete or clear)", params.Action)
	}
}
