package browser

import (
	"strings"
	"testing"
)

func TestParseSelectorDefaultsToCSS(t *testing.T) {
	sel, err := ParseSelector(".item", "")
	if err != nil {
		t.Fatalf("ParseSelector: %v", err)
	}
	if sel.Kind != SelectorCSS {
		t.Errorf("Kind = %q, want css", sel.Kind)
	}
	if sel.Query != ".item" {
		t.Errorf("Query = %q", sel.Query)
	}
}

func TestParseSelectorKinds(t *testing.T) {
	for _, kind := range []string{"css", "xpath", "text", "CSS", "XPath"} {
		if _, err := ParseSelector("q", kind); err != nil {
			t.Errorf("ParseSelector(%q) returned error: %v", kind, err)
		}
	}
}

func TestParseSelectorUnknownKind(t *testing.T) {
	if _, err := ParseSelector("q", "regex"); err == nil {
		t.Error("expected error for unknown selector type")
	}
}

func TestTextSelectorCompilesToXPath(t *testing.T) {
	sel, _ := ParseSelector("Sign in", "text")
	x := sel.xpath()
	if !strings.Contains(x, "contains(normalize-space(text()), 'Sign in')") {
		t.Errorf("xpath = %q", x)
	}
}

func TestXPathSelectorPassesThrough(t *testing.T) {
	sel, _ := ParseSelector("//div[@id='x']", "xpath")
	if got := sel.xpath(); got != "//div[@id='x']" {
		t.Errorf("xpath = %q", got)
	}
}

func TestXPathLiteralQuoting(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "'plain'"},
		{`has "double"`, `'has "double"'`},
		{"it's", `"it's"`},
		{`both ' and "`, `concat('both ', "'", ' and "')`},
	}
	for _, c := range cases {
		if got := xpathLiteral(c.in); got != c.want {
			t.Errorf("xpathLiteral(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestQueryOptsDispatch(t *testing.T) {
	css, _ := ParseSelector("#id", "css")
	if q, _ := css.QueryOpts(); q != "#id" {
		t.Errorf("css query = %q", q)
	}

	text, _ := ParseSelector("Next", "text")
	if q, _ := text.QueryOpts(); !strings.HasPrefix(q, "//*[contains") {
		t.Errorf("text query = %q", q)
	}
}

func TestLocateJSUsesRightResolver(t *testing.T) {
	css, _ := ParseSelector(".row", "css")
	if js := locateJS(css, 5); !strings.Contains(js, "querySelectorAll") {
		t.Errorf("css locate script missing querySelectorAll:\n%s", js)
	}

	xp, _ := ParseSelector("//tr", "xpath")
	if js := locateJS(xp, 5); !strings.Contains(js, "document.evaluate") {
		t.Errorf("xpath locate script missing document.evaluate:\n%s", js)
	}
}
