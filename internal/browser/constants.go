// Package browser owns the managed Chromium process: one live browser, one
// current tab, and the primitives every operation builds on (element location,
// page actions, scroll convergence).
package browser

import "time"

const (
	// DefaultActionTimeout bounds a single browser action.
	DefaultActionTimeout = 30 * time.Second

	// DefaultLocateTimeout bounds element polling when the caller gives none.
	DefaultLocateTimeout = 10 * time.Second

	// DefaultWaitTimeout is the default bound for wait_for_element.
	DefaultWaitTimeout = 30 * time.Second

	// MaxReportedElements caps how many element descriptions a multi-locate
	// returns. The true match count is always reported alongside.
	MaxReportedElements = 10

	// locatePollInterval is the pause between poll attempts while locating.
	locatePollInterval = 200 * time.Millisecond

	// probeTimeout bounds best-effort status probes (url, title, tab count).
	probeTimeout = 2 * time.Second

	// PageScrollPixels and HalfScrollPixels translate the "page"/"half"
	// scroll amounts to pixels.
	PageScrollPixels = 1000
	HalfScrollPixels = 500
)
