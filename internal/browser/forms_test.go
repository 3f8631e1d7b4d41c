package browser

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestTruthy(t *testing.T) {
	truthyValues := []any{true, "yes", "on", float64(1), float64(-1), []any{}}
	for _, v := range truthyValues {
		if !truthy(v) {
			t.Errorf("truthy(%v) = false, want true", v)
		}
	}

	falsyValues := []any{false, "", "false", "FALSE", float64(0), nil}
	for _, v := range falsyValues {
		if truthy(v) {
			t.Errorf("truthy(%v) = true, want false", v)
		}
	}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"text", "text"},
		{nil, ""},
		{float64(42), "42"},
		{float64(1.5), "1.5"},
		{true, "true"},
	}
	for _, c := range cases {
		if got := stringify(c.in); got != c.want {
			t.Errorf("stringify(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFieldProbeJSEscapesSelector(t *testing.T) {
	js := fieldProbeJS(`input[name="user's"]`)
	if !strings.Contains(js, `\"user's\"`) {
		t.Errorf("selector not JSON-escaped:\n%s", js)
	}
}

func TestSelectOptionJSMentionsValueAndLabel(t *testing.T) {
	js := selectOptionJS("#country", "Norway")
	for _, needle := range []string{"option", "change", `"Norway"`} {
		if !strings.Contains(js, needle) {
			t.Errorf("select script missing %q:\n%s", needle, js)
		}
	}
}

func TestFillFormNilTab(t *testing.T) {
	var tab *Tab
	if _, err := tab.FillForm(map[string]any{"#x": "y"}, "", 0); err == nil {
		t.Error("nil tab must error")
	}
}

// Waiting for a field must bail out as soon as the tab dies instead of
// polling until the per-field timeout; each failure lands in Errors while the
// fill as a whole still returns a result.
func TestFillFormDeadTabFailsFast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tab := &Tab{ctx: ctx}

	start := time.Now()
	res, err := tab.FillForm(map[string]any{"#a": "x", "#b": "y"}, "", 10*time.Second)
	if err != nil {
		t.Fatalf("FillForm: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("dead tab took %v, want a prompt bail-out", elapsed)
	}
	if len(res.Errors) != 2 {
		t.Errorf("errors = %v, want one per field", res.Errors)
	}
	if len(res.FilledFields) != 0 || res.Submitted {
		t.Errorf("dead tab reported progress: %+v", res)
	}
}
