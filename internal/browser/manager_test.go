package browser

import (
	"context"
	"sync"
	"testing"

	"github.com/chromedp/cdproto/target"

	"github.com/pagehand/pagehand/internal/config"
)

func newTestManager() *Manager {
	return NewManager(config.BrowserConfig{
		Headless:     true,
		WindowWidth:  1280,
		WindowHeight: 800,
	})
}

func TestStatusBeforeInit(t *testing.T) {
	m := newTestManager()

	st := m.Status()
	if st.Running {
		t.Error("fresh manager must report not running")
	}
	if st.URL != "" || st.TabCount != 0 {
		t.Errorf("not-running status must be empty, got %+v", st)
	}
}

func TestCloseWithoutInit(t *testing.T) {
	m := newTestManager()
	if err := m.Close(); err != nil {
		t.Errorf("closing a never-started browser: %v", err)
	}
	// And again: close is idempotent.
	if err := m.Close(); err != nil {
		t.Errorf("double close: %v", err)
	}
}

func TestCurrentTabWithoutInit(t *testing.T) {
	m := newTestManager()
	if tab := m.CurrentTab(); tab != nil {
		t.Error("no session, no tab")
	}
}

func TestTabOperationsWithoutSession(t *testing.T) {
	m := newTestManager()

	if _, err := m.ListTabs(); err == nil {
		t.Error("ListTabs without a session must fail")
	}
	if _, err := m.NewTab(""); err == nil {
		t.Error("NewTab without a session must fail")
	}
	if err := m.CloseTab(-1); err == nil {
		t.Error("CloseTab without a session must fail")
	}
	if _, err := m.SwitchTabByIndex(0); err == nil {
		t.Error("SwitchTabByIndex without a session must fail")
	}
}

func TestDefaultLaunchOptionsFromConfig(t *testing.T) {
	m := newTestManager()

	opts := m.DefaultLaunchOptions()
	if !opts.Headless {
		t.Error("headless default lost")
	}
	if opts.WindowWidth != 1280 || opts.WindowHeight != 800 {
		t.Errorf("window size = %dx%d", opts.WindowWidth, opts.WindowHeight)
	}
}

// Status and Close racing each other must never panic or deadlock, whatever
// the session state.
func TestConcurrentStatusAndClose(t *testing.T) {
	m := newTestManager()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.Status()
				m.Running()
				m.CurrentTab()
				_ = m.Close()
			}
		}()
	}
	wg.Wait()

	if m.Running() {
		t.Error("manager running after close storm")
	}
}

// trackedTabs builds a manager with an anchor tab (no cancel func, its
// context belongs to the browser) plus two child tabs, mirroring the state
// after two NewTab calls.
func trackedTabs(t *testing.T) (m *Manager, anchor, b, c *Tab) {
	t.Helper()

	bCtx, bCancel := context.WithCancel(context.Background())
	t.Cleanup(bCancel)
	cCtx, cCancel := context.WithCancel(context.Background())
	t.Cleanup(cCancel)

	anchor = &Tab{ctx: context.Background(), id: target.ID("anchor")}
	b = &Tab{ctx: bCtx, cancel: bCancel, id: target.ID("b")}
	c = &Tab{ctx: cCtx, cancel: cCancel, id: target.ID("c")}

	m = newTestManager()
	m.running = true
	m.tabs = []*Tab{anchor, b, c}
	m.current = anchor
	return m, anchor, b, c
}

// Closing the first tab must only drop it from tracking. Its context is the
// browser context; cancelling it would take every other tab down with it.
func TestDropAnchorTabKeepsOthersAlive(t *testing.T) {
	m, anchor, b, c := trackedTabs(t)

	m.mu.Lock()
	m.dropTabLocked(anchor.id)
	cur := m.currentTabLocked()
	m.mu.Unlock()

	if !b.Alive() || !c.Alive() {
		t.Fatal("dropping the first tab cancelled the remaining tabs")
	}
	if cur != c {
		t.Errorf("current tab = %v, want most recently opened", cur)
	}
	for _, tab := range m.tabs {
		if tab.id == anchor.id {
			t.Error("dropped tab still tracked")
		}
	}
}

func TestDropChildTabCancelsOnlyIt(t *testing.T) {
	m, _, b, c := trackedTabs(t)
	m.current = b

	m.mu.Lock()
	m.dropTabLocked(b.id)
	cur := m.currentTabLocked()
	m.mu.Unlock()

	if b.ctx.Err() == nil {
		t.Error("dropped child tab context not cancelled")
	}
	if !c.Alive() {
		t.Error("sibling tab cancelled")
	}
	if cur != c {
		t.Errorf("current tab = %v, want the surviving tab", cur)
	}
}

func TestProbeStatusDegradation(t *testing.T) {
	if st := probeStatus(false, nil); st.Running {
		t.Error("not-running session must report running=false")
	}

	st := probeStatus(true, nil)
	if !st.Running {
		t.Error("running session must report running=true even with no tab")
	}
	if !st.TabCountApprox || st.TabCount != 1 || st.ProbeErr == "" {
		t.Errorf("tabless status must degrade to an approximate count, got %+v", st)
	}
}

// Run must give up promptly on a dead tab context instead of waiting out the
// timeout; NewTab relies on this to bound its initial navigation.
func TestTabRunDeadContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tab := &Tab{ctx: ctx}

	if err := tab.Run(0); err == nil {
		t.Error("running actions on a cancelled tab must fail")
	}
	if tab.Alive() {
		t.Error("cancelled tab reported alive")
	}
}

func TestTabAliveNil(t *testing.T) {
	var tab *Tab
	if tab.Alive() {
		t.Error("nil tab cannot be alive")
	}
	if err := tab.Run(0); err == nil {
		t.Error("running actions on a nil tab must fail")
	}
}
