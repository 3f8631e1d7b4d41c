package tools

import (
	"context"
	"encoding/json"

	"github.com/pagehand/pagehand/internal/browser"
	"github.com/pagehand/pagehand/internal/extract"
)

// ExtractTableDataTool pulls HTML tables into structured records.
type ExtractTableDataTool struct {
	manager *browser.Manager
}

// ExtractTableDataInput defines the input for extract_table_data
type ExtractTableDataInput struct {
	Selector      string `json:"selector,omitempty"`
	Format        string `json:"format,omitempty"`
	OutputFile    string `json:"output_file,omitempty"`
	IncludeHeader *bool  `json:"include_header,omitempty"`
}

func NewExtractTableDataTool(m *browser.Manager) *ExtractTableDataTool {
	return &ExtractTableDataTool{manager: m}
}

func (t *ExtractTableDataTool) Name() string { return "extract_table_data" }

func (t *ExtractTableDataTool) Description() string {
	return "Extract HTML tables from the current page as header-keyed records, optionally saving the first table as CSV."
}

func (t *ExtractTableDataTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"selector": {
				"type": "string",
				"description": "CSS selector for the tables (default 'table')"
			},
			"format": {
				"type": "string",
				"description": "Result format (default json)",
				"enum": ["json", "csv"]
			},
			"output_file": {
				"type": "string",
				"description": "CSV output path for format csv (default table_data.csv)"
			},
			"include_header": {
				"type": "boolean",
				"description": "Use the detected header row for record keys and CSV output (default true)"
			}
		}
	}`)
}

func (t *ExtractTableDataTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params ExtractTableDataInput
	if len(input) > 0 {
		if err := json.Unmarshal(input, &params); err != nil {
			return fail("invalid input: %v", err)
		}
	}
	if params.Format == "" {
		params.Format = "json"
	}
	if params.Format != "json" && params.Format != "csv" {
		return fail("unsupported format: %s", params.Format)
	}

	page, res := capturePage(t.manager)
	if res != nil {
		return res
	}

	tables, err := extract.ExtractTables(page.html, params.Selector)
	if err != nil {
		return failErr(err)
	}

	includeHeader := params.IncludeHeader == nil || *params.IncludeHeader
	if !includeHeader {
		for i := range tables {
			tables[i].Headers = nil
		}
	}

	if params.Format == "csv" {
		if len(tables) == 0 {
			return fail("no tables found")
		}
		out := params.OutputFile
		if out == "" {
			out = "table_data.csv"
		}
		abs, err := extract.WriteCSV(tables[0], out)
		if err != nil {
			return failErr(err)
		}
		return ok(map[string]any{
			"file_path":   abs,
			"table_count": len(tables),
			"row_count":   len(tables[0].Rows),
		})
	}

	results := make([]map[string]any, 0, len(tables))
	for _, table := range tables {
		results = append(results, map[string]any{
			"headers":   table.Headers,
			"records":   table.Records(),
			"row_count": len(table.Rows),
		})
	}
	return ok(map[string]any{
		"table_count": len(tables),
		"tables":      results,
	})
}

// SmartExtractTool maps field selectors over repeated containers.
type SmartExtractTool struct {
	manager *browser.Manager
}

// SmartExtractInput defines the input for smart_extract
type SmartExtractInput struct {
	Selector string            `json:"selector"`
	Fields   map[string]string `json:"fields"`
	Limit    int               `json:"limit,omitempty"`
}

func NewSmartExtractTool(m *browser.Manager) *SmartExtractTool {
	return &SmartExtractTool{manager: m}
}

func (t *SmartExtractTool) Name() string { return "smart_extract" }

func (t *SmartExtractTool) Description() string {
	return "Extract one record per container element, resolving each named field's sub-selector inside it. Images yield their src, links yield text and href, everything else yields its text; an unmatched field is null."
}

func (t *SmartExtractTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"selector": {
				"type": "string",
				"description": "CSS selector for the repeated container, e.g. '.product-card'"
			},
			"fields": {
				"type": "object",
				"description": "Field name to sub-selector mapping, e.g. {\"name\": \".title\", \"price\": \".price\"}",
				"additionalProperties": {"type": "string"}
			},
			"limit": {
				"type": "integer",
				"description": "Maximum containers to visit (default 100)"
			}
		},
		"required": ["selector", "fields"]
	}`)
}

func (t *SmartExtractTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params SmartExtractInput
	if err := json.Unmarshal(input, &params); err != nil {
		return fail("invalid input: %v", err)
	}

	page, res := capturePage(t.manager)
	if res != nil {
		return res
	}

	records, err := extract.SmartExtract(page.html, params.Selector, params.Fields, params.Limit)
	if err != nil {
		return failErr(err)
	}
	if records == nil {
		records = []map[string]any{}
	}
	return ok(map[string]any{
		"count":   len(records),
		"records": records,
	})
}

// FillFormTool fills and optionally submits a form.
type FillFormTool struct {
	manager *browser.Manager
}

// FillFormInput defines the input for fill_form
type FillFormInput struct {
	Fields         map[string]any `json:"fields"`
	SubmitSelector string         `json:"submit_selector,omitempty"`
	Timeout        float64        `json:"timeout,omitempty"`
}

func NewFillFormTool(m *browser.Manager) *FillFormTool {
	return &FillFormTool{manager: m}
}

func (t *FillFormTool) Name() string { return "fill_form" }

func (t *FillFormTool) Description() string {
	return "Fill multiple form fields keyed by CSS selector, handling text inputs, checkboxes, radios and selects, then optionally click a submit control. Per-field failures are collected without aborting the rest."
}

func (t *FillFormTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"fields": {
				"type": "object",
				"description": "CSS selector to value mapping, e.g. {\"#email\": \"a@b.c\", \"#agree\": true}"
			},
			"submit_selector": {
				"type": "string",
				"description": "CSS selector of the submit control to click after filling"
			},
			"timeout": {
				"type": "number",
				"description": "Per-field wait in seconds (default 10)"
			}
		},
		"required": ["fields"]
	}`)
}

func (t *FillFormTool) Execute(ctx context.Context, input json.RawMessage) *ToolResult {
	var params FillFormInput
	if err := json.Unmarshal(input, &params); err != nil {
		return fail("invalid input: %v", err)
	}
	if len(params.Fields) == 0 {
		return fail("fields is required")
	}

	tab, res := currentTab(t.manager)
	if res != nil {
		return res
	}

	result, err := tab.FillForm(params.Fields, params.SubmitSelector, seconds(params.Timeout, browser.DefaultLocateTimeout))
	if err != nil {
		return failErr(browser.WrapActionError(err, "fill form"))
	}

	filled := result.FilledFields
	if filled == nil {
		filled = []string{}
	}
	fields := map[string]any{
		"filled_fields": filled,
		"submitted":     result.Submitted,
	}
	if len(result.Errors) > 0 {
		// Partial failure: the result still carries what did get filled.
		fields["success"] = false
		fields["errors"] = result.Errors
		data, err := json.Marshal(fields)
		if err != nil {
			return fail("marshal result: %v", err)
		}
		return &ToolResult{Content: string(data), IsError: true}
	}
	return ok(fields)
}
