package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pagehand/pagehand/internal/browser"
	"github.com/pagehand/pagehand/internal/extract"
)

// PageToMarkdownTool saves the current page as a Markdown file.
type PageToMarkdownTool struct {
	manager *browser.Manager
}

// PageToMarkdownInput defines the input for page_to_markdown
type PageToMarkdownInput struct {
	FilePath      string `json:"file_path"`
	IncludeImages *bool  `json:"include_images,omitempty"`
	RemoveAds     *bool  `json:"remove_ads,omitempty"`
	ExtractMain   *bool  `json:"extract_main,omitempty"`
	AddMetadata   *bool  `json:"add_metadata,omitempty"`
}

func NewPageToMarkdownTool(m *browser.Manager) *PageToMarkdownTool {
	return &PageToMarkdownTool{manager: m}
}

func (t *PageToMarkdownTool) Name() string { return "page_to_markdown" }

func (t *PageToMarkdownTool) Description() string {
	return "Convert the current page to Markdown and save it to a file: main content extracted, ads and scripts stripped, page title and URL prepended. Parent directories are created as needed."
}

func (t *PageToMarkdownTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Output .md path"
			},
			"include_images": {
				"type": "boolean",
				"description": "Keep image references (default true)"
			},
			"remove_ads": {
				"type": "boolean",
				"description": "Strip ad and boilerplate elements (default true)"
			},
			"extract_main": {
				"type": "boolean",
				"description": "Narrow to the main content region (default true)"
			},
			"add_metadata": {
				"type": "boolean",
				"description": "Prepend the page title and source URL (default true)"
			}
		},
		"required": ["file_path"]
	}`)
}

func (t *PageToMarkdownTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params PageToMarkdownInput
	if err := json.Unmarshal(input, &params); err != nil {
		return fail("invalid input: %v", err)
	}
	if params.FilePath == "" {
		return fail("file_path is required")
	}

	opts := extract.DefaultOptions()
	applyFlag(&opts.IncludeImages, params.IncludeImages)
	applyFlag(&opts.RemoveAds, params.RemoveAds)
	applyFlag(&opts.ExtractMain, params.ExtractMain)
	applyFlag(&opts.AddMetadata, params.AddMetadata)

	page, res := capturePage(t.manager)
	if res != nil {
		return res
	}

	markdown, err := extract.Pipeline(page.html, page.title, page.url, opts)
	if err != nil {
		return failErr(err)
	}

	abs, err := writeOutput(params.FilePath, []byte(markdown))
	if err != nil {
		return failErr(err)
	}

	stats := extract.TextStats(markdown)
	return ok(map[string]any{
		"file_path": abs,
		"title":     page.title,
		"url":       page.url,
		"stats":     stats,
	})
}

// GetPageContentTool returns the converted page inline.
type GetPageContentTool struct {
	manager *browser.Manager
}

// GetPageContentInput defines the input for get_page_content
type GetPageContentInput struct {
	Format      string `json:"format,omitempty"`
	ExtractMain *bool  `json:"extract_main,omitempty"`
	RemoveAds   *bool  `json:"remove_ads,omitempty"`
}

func NewGetPageContentTool(m *browser.Manager) *GetPageContentTool {
	return &GetPageContentTool{manager: m}
}

func (t *GetPageContentTool) Name() string { return "get_page_content" }

func (t *GetPageContentTool) Description() string {
	return "Return the current page content as markdown, plain text or raw HTML."
}

func (t *GetPageContentTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"format": {
				"type": "string",
				"description": "Output format (default markdown)",
				"enum": ["markdown", "text", "html"]
			},
			"extract_main": {
				"type": "boolean",
				"description": "Narrow to the main content region (default true)"
			},
			"remove_ads": {
				"type": "boolean",
				"description": "Strip ad and boilerplate elements (default true)"
			}
		}
	}`)
}

func (t *GetPageContentTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params GetPageContentInput
	if len(input) > 0 {
		if err := json.Unmarshal(input, &params); err != nil {
			return fail("invalid input: %v", err)
		}
	}

	format, err := extract.ParseFormat(params.Format)
	if err != nil {
		return failErr(err)
	}

	opts := extract.DefaultOptions()
	opts.Format = format
	opts.AddMetadata = false
	applyFlag(&opts.ExtractMain, params.ExtractMain)
	applyFlag(&opts.RemoveAds, params.RemoveAds)

	page, res := capturePage(t.manager)
	if res != nil {
		return res
	}

	content, err := extract.Pipeline(page.html, page.title, page.url, opts)
	if err != nil {
		return failErr(err)
	}

	return ok(map[string]any{
		"format":  string(format),
		"url":     page.url,
		"title":   page.title,
		"content": content,
		"stats":   extract.TextStats(content),
	})
}

// capturedPage is one HTML snapshot plus the page identity it came from.
type capturedPage struct {
	html  string
	url   string
	title string
}

// capturePage grabs the current tab's HTML, URL and title in one pass so
// extraction runs on a consistent snapshot.
func capturePage(m *browser.Manager) (capturedPage, *ToolResult) {
	tab, res := currentTab(m)
	if res != nil {
		return capturedPage{}, res
	}

	htmlStr, err := tab.HTML()
	if err != nil {
		return capturedPage{}, failErr(browser.WrapActionError(err, "capture page"))
	}
	info, err := tab.Info()
	if err != nil {
		return capturedPage{}, failErr(browser.WrapActionError(err, "capture page"))
	}
	return capturedPage{html: htmlStr, url: info.URL, title: info.Title}, nil
}

// applyFlag overrides dst when the optional argument was provided.
func applyFlag(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// writeOutput writes data to path, creating parent directories, and returns
// the resolved absolute path.
func writeOutput(path string, data []byte) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return abs, nil
}
