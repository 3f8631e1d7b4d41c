package browser

import (
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// ScrollPhase is the state of the convergence loop.
type ScrollPhase int

const (
	// PhaseScrolling means another scroll+measure cycle is due.
	PhaseScrolling ScrollPhase = iota
	// PhaseConverged means two consecutive measurements were equal.
	PhaseConverged
	// PhaseExhausted means the iteration cap was hit without convergence.
	PhaseExhausted
)

func (p ScrollPhase) String() string {
	switch p {
	case PhaseConverged:
		return "converged"
	case PhaseExhausted:
		return "max_scrolls_reached"
	default:
		return "scrolling"
	}
}

// ScrollOptions tune the infinite-scroll loop.
type ScrollOptions struct {
	// MaxScrolls caps the number of scroll iterations. Default 10.
	MaxScrolls int
	// Pause is the wait after each scroll before measuring. Default 2s.
	Pause time.Duration
	// CheckSelector, when set, measures the count of matching elements.
	// Empty measures the page scroll height instead.
	CheckSelector Selector
}

// ScrollOutcome reports how the loop ended.
type ScrollOutcome struct {
	Phase       ScrollPhase
	ScrollCount int
	// FinalCount is the last element count (selector mode).
	FinalCount int
	// FinalHeight is the last page height (height mode).
	FinalHeight int
}

// measurer returns one measurement per cycle: element count or page height.
type measurer func() (int, error)

func (t *Tab) countMeasurer(sel Selector) measurer {
	script := locateJS(sel, 0)
	return func() (int, error) {
		var raw struct {
			Count int `json:"count"`
		}
		err := t.Run(probeTimeout, chromedp.Evaluate(script, &raw))
		return raw.Count, err
	}
}

func (t *Tab) heightMeasurer() measurer {
	return func() (int, error) {
		var height int
		err := t.Run(probeTimeout, chromedp.Evaluate("document.body.scrollHeight", &height))
		return height, err
	}
}

// ScrollToConvergence repeatedly scrolls the tab to its bottom until the
// measurement stops changing or MaxScrolls iterations have run. The last
// measurement is seeded at zero, so a page that truly has no content
// converges on its second identical zero measurement.
func (t *Tab) ScrollToConvergence(opts ScrollOptions) (ScrollOutcome, error) {
	if t == nil {
		return ScrollOutcome{}, fmt.Errorf("no active tab")
	}
	if opts.Pause <= 0 {
		opts.Pause = 2 * time.Second
	}

	byCount := opts.CheckSelector.Query != ""
	var measure measurer
	if byCount {
		measure = t.countMeasurer(opts.CheckSelector)
	} else {
		measure = t.heightMeasurer()
	}
	scroll := func() error { return t.Scroll("bottom", 0, opts.Pause) }

	return converge(opts, scroll, measure, byCount)
}

// converge runs the scroll/measure loop over pluggable steps, so the
// stopping rules hold for any scroll mechanism and measurement source.
func converge(opts ScrollOptions, scroll func() error, measure measurer, byCount bool) (ScrollOutcome, error) {
	if opts.MaxScrolls <= 0 {
		opts.MaxScrolls = 10
	}

	outcome := ScrollOutcome{Phase: PhaseScrolling}
	lastMeasure := 0

	for i := 0; i < opts.MaxScrolls; i++ {
		if err := scroll(); err != nil {
			return outcome, err
		}
		outcome.ScrollCount++

		m, err := measure()
		if err != nil {
			return outcome, err
		}
		if byCount {
			outcome.FinalCount = m
		} else {
			outcome.FinalHeight = m
		}

		if m == lastMeasure {
			outcome.Phase = PhaseConverged
			return outcome, nil
		}
		lastMeasure = m
	}

	outcome.Phase = PhaseExhausted
	return outcome, nil
}
