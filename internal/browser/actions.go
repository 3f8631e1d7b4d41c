package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
)

// browserErrorHints maps common chromedp failure patterns to actionable hints
// appended to tool errors.
var browserErrorHints = map[string]string{
	"context deadline": "Operation timed out. Try increasing the timeout parameter",
	"context canceled": "Browser session may have closed. Re-run init_browser",
	"node not found":   "The selector matched nothing. Check it with find_elements first",
	"not interactable": "Element may be hidden or disabled. Verify visibility with find_elements",
}

// WrapActionError decorates a browser failure with a hint when one applies.
func WrapActionError(err error, action string) error {
	if err == nil {
		return nil
	}
	low := strings.ToLower(err.Error())
	for pattern, hint := range browserErrorHints {
		if strings.Contains(low, pattern) {
			return fmt.Errorf("%s failed: %w (hint: %s)", action, err, hint)
		}
	}
	return fmt.Errorf("%s failed: %w", action, err)
}

// PageInfo is the url/title pair reported after navigation-style actions.
type PageInfo struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Navigate loads url in the tab, waits for the document body, and settles
// briefly so late scripts can run.
func (t *Tab) Navigate(url string, timeout time.Duration) (PageInfo, error) {
	var info PageInfo
	err := t.Run(timeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(time.Second),
		chromedp.Location(&info.URL),
		chromedp.Title(&info.Title),
	)
	if err != nil {
		return PageInfo{}, err
	}
	return info, nil
}

// Info probes the tab's current url and title.
func (t *Tab) Info() (PageInfo, error) {
	var info PageInfo
	err := t.Run(probeTimeout,
		chromedp.Location(&info.URL),
		chromedp.Title(&info.Title),
	)
	return info, err
}

// Click waits for the selector and clicks its first match. waitAfter pauses
// after the click so resulting navigation or DOM changes can settle.
func (t *Tab) Click(sel Selector, timeout, waitAfter time.Duration) error {
	q, opt := sel.QueryOpts()
	actions := []chromedp.Action{
		chromedp.WaitVisible(q, opt),
		chromedp.Click(q, opt),
	}
	if waitAfter > 0 {
		actions = append(actions, chromedp.Sleep(waitAfter))
	}
	return t.Run(timeout+waitAfter, actions...)
}

// Type enters text into the selector's first match, clearing existing
// content first when clearFirst is set.
func (t *Tab) Type(sel Selector, text string, clearFirst bool, timeout time.Duration) error {
	q, opt := sel.QueryOpts()
	actions := []chromedp.Action{chromedp.WaitVisible(q, opt)}
	if clearFirst {
		actions = append(actions, chromedp.Clear(q, opt))
	}
	actions = append(actions, chromedp.SendKeys(q, text, opt))
	return t.Run(timeout, actions...)
}

// Text returns the visible text of the selector's first match along with its
// tag name.
func (t *Tab) Text(sel Selector, timeout time.Duration) (text, tag string, err error) {
	ref, found, err := t.LocateOne(sel, timeout)
	if err != nil {
		return "", "", err
	}
	if !found {
		return "", "", fmt.Errorf("element not found: %s", sel.Query)
	}
	return ref.Text, ref.Tag, nil
}

// Attribute returns the named attribute of the selector's first match. A
// present-but-empty attribute yields "", an absent one yields ok=false.
func (t *Tab) Attribute(sel Selector, name string, timeout time.Duration) (string, bool, error) {
	ref, found, err := t.LocateOne(sel, timeout)
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, fmt.Errorf("element not found: %s", sel.Query)
	}
	val, ok := ref.Attrs[name]
	return val, ok, nil
}

// WaitFor blocks until the selector matches, reporting elapsed time. Zero
// matches after the timeout is a NotFound outcome, not an error.
func (t *Tab) WaitFor(sel Selector, timeout time.Duration) (ref ElementRef, found bool, elapsed time.Duration, err error) {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	start := time.Now()
	ref, found, err = t.LocateOne(sel, timeout)
	return ref, found, time.Since(start), err
}

// ScrollAmount translates "page"/"half"/pixel-count scroll amounts.
func ScrollAmount(amount string) (int, error) {
	switch amount {
	case "", "page":
		return PageScrollPixels, nil
	case "half":
		return HalfScrollPixels, nil
	default:
		px, err := strconv.Atoi(amount)
		if err != nil || px < 0 {
			return 0, fmt.Errorf("invalid scroll amount: %s", amount)
		}
		return px, nil
	}
}

// Scroll moves the viewport. Directions top/bottom jump to the page edges;
// up/down/left/right move by the given pixel amount.
func (t *Tab) Scroll(direction string, pixels int, waitAfter time.Duration) error {
	var js string
	switch direction {
	case "bottom":
		js = "window.scrollTo(0, document.body.scrollHeight)"
	case "top":
		js = "window.scrollTo(0, 0)"
	case "down":
		js = fmt.Sprintf("window.scrollBy(0, %d)", pixels)
	case "up":
		js = fmt.Sprintf("window.scrollBy(0, -%d)", pixels)
	case "left":
		js = fmt.Sprintf("window.scrollBy(-%d, 0)", pixels)
	case "right":
		js = fmt.Sprintf("window.scrollBy(%d, 0)", pixels)
	default:
		return fmt.Errorf("unsupported scroll direction: %s", direction)
	}

	actions := []chromedp.Action{chromedp.Evaluate(js, nil)}
	if waitAfter > 0 {
		actions = append(actions, chromedp.Sleep(waitAfter))
	}
	return t.Run(DefaultActionTimeout, actions...)
}

// Screenshot captures the viewport (or full page) as PNG and writes it to
// path, creating parent directories. It returns the resolved absolute path.
func (t *Tab) Screenshot(path string, fullPage bool) (string, error) {
	if path == "" {
		path = fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	var buf []byte
	var action chromedp.Action
	if fullPage {
		action = chromedp.FullScreenshot(&buf, 90)
	} else {
		action = chromedp.CaptureScreenshot(&buf)
	}
	if err := t.Run(DefaultActionTimeout, action); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create screenshot directory: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("save screenshot: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return abs, nil
}

// Evaluate runs JavaScript in the tab and returns the JSON-encoded result.
// Undefined results encode as null.
func (t *Tab) Evaluate(script string) (json.RawMessage, error) {
	var result json.RawMessage
	err := t.Run(DefaultActionTimeout, chromedp.Evaluate(script, &result))
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = json.RawMessage("null")
	}
	return result, nil
}

// HTML returns the page's full outer HTML.
func (t *Tab) HTML() (string, error) {
	var html string
	err := t.Run(DefaultActionTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		node, err := dom.GetDocument().Do(ctx)
		if err != nil {
			return err
		}
		html, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
		return err
	}))
	return html, err
}

