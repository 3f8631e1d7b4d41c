package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/pagehand/pagehand/internal/config"
	"github.com/pagehand/pagehand/internal/logging"
)

// LaunchOptions configure the Chromium launch performed by Init.
type LaunchOptions struct {
	Headless     bool
	WindowWidth  int
	WindowHeight int
	UserAgent    string
	Proxy        string

	// ExecutablePath overrides Chrome auto-detection.
	ExecutablePath string

	// NoSandbox disables the Chrome sandbox (containers).
	NoSandbox bool
}

// Status describes the managed browser at a point in time.
type Status struct {
	Running bool   `json:"running"`
	URL     string `json:"url,omitempty"`
	Title   string `json:"title,omitempty"`

	// TabCount is the number of open page targets. When the probe fails the
	// count degrades to 1 and TabCountApprox is set with the cause retained,
	// so callers can tell "really one tab" from "probe failed".
	TabCount       int    `json:"tab_count,omitempty"`
	TabCountApprox bool   `json:"tab_count_approx,omitempty"`
	ProbeErr       string `json:"probe_error,omitempty"`
}

// Tab is a non-owning reference to one browser tab. The underlying target
// belongs to Chromium; a Tab is invalidated when its context is done.
// cancel is nil for the anchor tab: its context is the browser context, and
// cancelling that tears down the whole browser.
type Tab struct {
	ctx    context.Context
	cancel context.CancelFunc
	id     target.ID
}

// ID returns the tab's devtools target ID.
func (t *Tab) ID() target.ID { return t.id }

// Alive reports whether the tab context is still usable.
func (t *Tab) Alive() bool { return t != nil && t.ctx.Err() == nil }

// Run executes chromedp actions against this tab, bounded by timeout.
func (t *Tab) Run(timeout time.Duration, actions ...chromedp.Action) error {
	if t == nil {
		return fmt.Errorf("no active tab")
	}
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}
	ctx, cancel := context.WithTimeout(t.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// Manager owns the single Chromium process and the current-tab pointer.
// All mutation (Init, Close, tab reassignment) happens under one mutex;
// read paths snapshot the pointers and probe outside the lock, so a
// concurrent Close degrades to "not running" rather than an error.
type Manager struct {
	mu sync.Mutex

	defaults config.BrowserConfig

	allocCtx    context.Context
	allocCancel context.CancelFunc

	// browserCtx is the first tab's context; it anchors the browser process
	// and parents every additional tab.
	browserCtx    context.Context
	browserCancel context.CancelFunc

	current *Tab
	tabs    []*Tab // tabs in open order, most recent last
	running bool
}

// NewManager creates a manager that launches with the given defaults when
// Init is called without options (and on the lazy Ensure path).
func NewManager(defaults config.BrowserConfig) *Manager {
	return &Manager{defaults: defaults}
}

// DefaultLaunchOptions returns the configured launch defaults.
func (m *Manager) DefaultLaunchOptions() LaunchOptions {
	return LaunchOptions{
		Headless:       m.defaults.Headless,
		WindowWidth:    m.defaults.WindowWidth,
		WindowHeight:   m.defaults.WindowHeight,
		UserAgent:      m.defaults.UserAgent,
		Proxy:          m.defaults.Proxy,
		ExecutablePath: m.defaults.ExecutablePath,
		NoSandbox:      m.defaults.NoSandbox,
	}
}

// Init launches the browser. When a session already exists it returns the
// current status with alreadyRunning=true and no error: concurrent callers
// race on the lock and exactly one performs the launch. The status probe
// happens after the lock is released.
func (m *Manager) Init(opts LaunchOptions) (Status, bool, error) {
	tab, alreadyRunning, err := m.launch(opts)
	if err != nil {
		return Status{}, false, err
	}
	return probeStatus(true, tab), alreadyRunning, nil
}

func (m *Manager) launch(opts LaunchOptions) (tab *Tab, alreadyRunning bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return m.currentTabLocked(), true, nil
	}

	if opts.WindowWidth <= 0 {
		opts.WindowWidth = 1920
	}
	if opts.WindowHeight <= 0 {
		opts.WindowHeight = 1080
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", opts.Headless),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}
	if opts.ExecutablePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecutablePath))
	}
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	m.allocCtx, m.allocCancel = chromedp.NewExecAllocator(context.Background(), allocOpts...)
	m.browserCtx, m.browserCancel = chromedp.NewContext(m.allocCtx)

	// Materialize the browser process and the initial tab.
	if err := chromedp.Run(m.browserCtx, chromedp.Navigate("about:blank")); err != nil {
		m.teardownLocked()
		return nil, false, fmt.Errorf("launch browser: %w", err)
	}

	// The anchor tab deliberately has no cancel func: its context is the
	// browser context, and cancelling that would close every tab. Teardown of
	// the browser itself stays with Close.
	first := &Tab{ctx: m.browserCtx}
	if c := chromedp.FromContext(m.browserCtx); c != nil && c.Target != nil {
		first.id = c.Target.TargetID
	}

	m.current = first
	m.tabs = []*Tab{first}
	m.running = true

	logging.Infof("browser launched (headless=%v, %dx%d)", opts.Headless, opts.WindowWidth, opts.WindowHeight)
	return first, false, nil
}

// Ensure lazily initializes the browser with defaults. Idempotent; used by
// every operation before touching the tab.
func (m *Manager) Ensure() bool {
	m.mu.Lock()
	running := m.running
	m.mu.Unlock()
	if running {
		return true
	}
	_, _, err := m.Init(m.DefaultLaunchOptions())
	if err != nil {
		logging.Errorf("lazy browser init failed: %v", err)
		return false
	}
	return true
}

// Running reports whether a browser session exists.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Close tears down the browser. Resource references are cleared even when
// the underlying teardown fails, so a failed close can never leave the
// manager in a running-but-unusable state.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}

	err := m.teardownLocked()
	logging.Infof("browser closed")
	return err
}

func (m *Manager) teardownLocked() error {
	var err error
	if m.browserCancel != nil {
		m.browserCancel()
	}
	if m.allocCancel != nil {
		m.allocCancel()
	}
	// chromedp cancellation does not surface process-exit errors; a vanished
	// browser is treated as closed.
	m.allocCtx, m.allocCancel = nil, nil
	m.browserCtx, m.browserCancel = nil, nil
	m.current = nil
	m.tabs = nil
	m.running = false
	return err
}

// CurrentTab returns the tracked tab, re-resolving to the most recently
// opened live tab when the tracked handle is nil or invalidated.
func (m *Manager) CurrentTab() *Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTabLocked()
}

func (m *Manager) currentTabLocked() *Tab {
	if !m.running {
		return nil
	}
	if m.current.Alive() {
		return m.current
	}
	// Tracked tab closed under us; fall back to the newest live tab.
	m.pruneTabsLocked()
	if n := len(m.tabs); n > 0 {
		m.current = m.tabs[n-1]
		return m.current
	}
	return nil
}

func (m *Manager) pruneTabsLocked() {
	live := m.tabs[:0]
	for _, t := range m.tabs {
		if t.Alive() {
			live = append(live, t)
		}
	}
	m.tabs = live
}

// Status returns a best-effort snapshot. The current tab is snapshotted
// under the lock and probed after releasing it, so a slow probe never blocks
// Init or Close. It never fails: probe errors degrade to an approximate tab
// count rather than propagating.
func (m *Manager) Status() Status {
	m.mu.Lock()
	running := m.running
	tab := m.currentTabLocked()
	m.mu.Unlock()
	return probeStatus(running, tab)
}

func probeStatus(running bool, tab *Tab) Status {
	if !running {
		return Status{Running: false}
	}

	st := Status{Running: true, TabCount: 1}

	if tab == nil {
		st.TabCountApprox = true
		st.ProbeErr = "no live tab"
		return st
	}

	probeCtx, cancel := context.WithTimeout(tab.ctx, probeTimeout)
	defer cancel()

	var url, title string
	if err := chromedp.Run(probeCtx, chromedp.Location(&url), chromedp.Title(&title)); err != nil {
		st.TabCountApprox = true
		st.ProbeErr = err.Error()
		return st
	}
	st.URL = url
	st.Title = title

	infos, err := chromedp.Targets(tab.ctx)
	if err != nil {
		st.TabCountApprox = true
		st.ProbeErr = err.Error()
		return st
	}
	st.TabCount = countPages(infos)
	return st
}

func countPages(infos []*target.Info) int {
	n := 0
	for _, info := range infos {
		if info.Type == "page" {
			n++
		}
	}
	return n
}

// TabInfo describes one open tab for switch_to_tab listings.
type TabInfo struct {
	Index   int    `json:"index"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Current bool   `json:"is_current"`
}

// ListTabs enumerates open page targets in devtools order.
func (m *Manager) ListTabs() ([]TabInfo, error) {
	m.mu.Lock()
	tab := m.currentTabLocked()
	m.mu.Unlock()
	if tab == nil {
		return nil, fmt.Errorf("no active tab")
	}

	infos, err := chromedp.Targets(tab.ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate tabs: %w", err)
	}

	var out []TabInfo
	for _, info := range infos {
		if info.Type != "page" {
			continue
		}
		out = append(out, TabInfo{
			Index:   len(out),
			URL:     info.URL,
			Title:   info.Title,
			Current: info.TargetID == tab.id,
		})
	}
	return out, nil
}

// NewTab opens a new tab, navigates it to url (about:blank when empty) and
// makes it current.
func (m *Manager) NewTab(url string) (*Tab, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil, fmt.Errorf("browser not running")
	}
	if url == "" {
		url = "about:blank"
	}

	ctx, cancel := chromedp.NewContext(m.browserCtx)
	tab := &Tab{ctx: ctx, cancel: cancel}
	if err := tab.Run(DefaultActionTimeout, chromedp.Navigate(url)); err != nil {
		cancel()
		return nil, fmt.Errorf("open tab: %w", err)
	}
	if c := chromedp.FromContext(ctx); c != nil && c.Target != nil {
		tab.id = c.Target.TargetID
	}

	m.tabs = append(m.tabs, tab)
	m.current = tab
	return tab, nil
}

// SwitchTabByIndex makes the page target at index current.
func (m *Manager) SwitchTabByIndex(index int) (TabInfo, error) {
	infos, err := m.pageTargets()
	if err != nil {
		return TabInfo{}, err
	}
	if index < 0 || index >= len(infos) {
		return TabInfo{}, fmt.Errorf("tab index %d out of range (%d tabs)", index, len(infos))
	}
	return m.attach(infos[index], index)
}

// SwitchTabByURL switches to the first tab whose URL contains the fragment.
func (m *Manager) SwitchTabByURL(fragment string) (TabInfo, error) {
	infos, err := m.pageTargets()
	if err != nil {
		return TabInfo{}, err
	}
	for i, info := range infos {
		if strings.Contains(info.URL, fragment) {
			return m.attach(info, i)
		}
	}
	return TabInfo{}, fmt.Errorf("no tab matching url: %s", fragment)
}

// SwitchTabByTitle switches to the first tab whose title contains the pattern.
func (m *Manager) SwitchTabByTitle(pattern string) (TabInfo, error) {
	infos, err := m.pageTargets()
	if err != nil {
		return TabInfo{}, err
	}
	for i, info := range infos {
		if strings.Contains(info.Title, pattern) {
			return m.attach(info, i)
		}
	}
	return TabInfo{}, fmt.Errorf("no tab matching title: %s", pattern)
}

// CloseTab closes the page target at index, or the current tab when index is
// negative. When the closed tab was current, the most recently opened live
// tab becomes current.
func (m *Manager) CloseTab(index int) error {
	m.mu.Lock()
	tab := m.currentTabLocked()
	m.mu.Unlock()
	if tab == nil {
		return fmt.Errorf("no active tab")
	}

	var victim target.ID
	if index < 0 {
		victim = tab.id
	} else {
		infos, err := m.pageTargets()
		if err != nil {
			return err
		}
		if index >= len(infos) {
			return fmt.Errorf("tab index %d out of range (%d tabs)", index, len(infos))
		}
		victim = infos[index].TargetID
	}

	closeCtx, cancel := context.WithTimeout(tab.ctx, probeTimeout)
	defer cancel()
	if err := chromedp.Run(closeCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return target.CloseTarget(victim).Do(ctx)
	})); err != nil {
		return fmt.Errorf("close tab: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropTabLocked(victim)
	m.currentTabLocked() // re-resolve to most recent
	return nil
}

// dropTabLocked removes the tab for a closed target from tracking. Child tab
// contexts are cancelled; the anchor tab has no cancel func and its context
// (the browser context) must stay alive, so removal is by target ID rather
// than by context liveness.
func (m *Manager) dropTabLocked(victim target.ID) {
	for _, t := range m.tabs {
		if t.id == victim && t.cancel != nil {
			t.cancel()
		}
	}
	live := m.tabs[:0]
	for _, t := range m.tabs {
		if t.id != victim && t.Alive() {
			live = append(live, t)
		}
	}
	m.tabs = live
	if m.current != nil && m.current.id == victim {
		m.current = nil
	}
}

func (m *Manager) pageTargets() ([]*target.Info, error) {
	m.mu.Lock()
	tab := m.currentTabLocked()
	m.mu.Unlock()
	if tab == nil {
		return nil, fmt.Errorf("no active tab")
	}
	infos, err := chromedp.Targets(tab.ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate tabs: %w", err)
	}
	pages := infos[:0]
	for _, info := range infos {
		if info.Type == "page" {
			pages = append(pages, info)
		}
	}
	return pages, nil
}

func (m *Manager) attach(info *target.Info, index int) (TabInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Reuse a tracked tab when we already hold a context for this target.
	for _, t := range m.tabs {
		if t.id == info.TargetID && t.Alive() {
			m.current = t
			return TabInfo{Index: index, URL: info.URL, Title: info.Title, Current: true}, nil
		}
	}

	if m.browserCtx == nil {
		return TabInfo{}, fmt.Errorf("browser not running")
	}
	ctx, cancel := chromedp.NewContext(m.browserCtx, chromedp.WithTargetID(info.TargetID))
	tab := &Tab{ctx: ctx, cancel: cancel, id: info.TargetID}
	m.tabs = append(m.tabs, tab)
	m.current = tab
	return TabInfo{Index: index, URL: info.URL, Title: info.Title, Current: true}, nil
}
