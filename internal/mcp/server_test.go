package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagehand/pagehand/internal/browser"
	"github.com/pagehand/pagehand/internal/config"
	"github.com/pagehand/pagehand/internal/tools"
)

func TestNewServerRegistersAllTools(t *testing.T) {
	registry := tools.NewRegistry()
	registry.RegisterDefaults(browser.NewManager(config.BrowserConfig{}))

	// Every registry schema must survive the JSON round-trip into the
	// protocol tool definition; a bad one is skipped and would shrink the
	// exposed surface.
	s := NewServer(registry, "test")
	require.NotNil(t, s)
	assert.NotNil(t, s.Handler())
}
