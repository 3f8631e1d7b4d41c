package tools

import (
	"github.com/pagehand/pagehand/internal/browser"
)

// RegisterDefaults registers every browser operation against one manager.
func (r *Registry) RegisterDefaults(m *browser.Manager) {
	// Session lifecycle
	r.Register(NewInitBrowserTool(m))
	r.Register(NewBrowserStatusTool(m))
	r.Register(NewCloseBrowserTool(m))
	r.Register(NewNavigateTool(m))

	// DOM queries and interaction
	r.Register(NewFindElementsTool(m))
	r.Register(NewClickElementTool(m))
	r.Register(NewInputTextTool(m))
	r.Register(NewElementTextTool(m))
	r.Register(NewElementAttributeTool(m))
	r.Register(NewWaitForElementTool(m))

	// Page-level operations
	r.Register(NewScrollPageTool(m))
	r.Register(NewTakeScreenshotTool(m))
	r.Register(NewExecuteJavaScriptTool(m))

	// Content extraction
	r.Register(NewPageToMarkdownTool(m))
	r.Register(NewGetPageContentTool(m))
	r.Register(NewExtractTableDataTool(m))
	r.Register(NewSmartExtractTool(m))

	// Forms, dynamic pages, cookies, tabs
	r.Register(NewFillFormTool(m))
	r.Register(NewInfiniteScrollTool(m))
	r.Register(NewManageCookiesTool(m))
	r.Register(NewSwitchToTabTool(m))
}
