package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeRemovesScriptsAndAds(t *testing.T) {
	in := `<div>
		<script>alert(1)</script>
		<style>.x{}</style>
		<div class="ad-banner">buy now</div>
		<div id="advertisement-top">ads</div>
		<div class="social-share-bar">share</div>
		<p>keep me</p>
	</div>`

	out, err := Sanitize(in, true)
	require.NoError(t, err)

	assert.Contains(t, out, "keep me")
	assert.NotContains(t, out, "alert(1)")
	assert.NotContains(t, out, "buy now")
	assert.NotContains(t, out, "ads")
	assert.NotContains(t, out, "share")
}

func TestSanitizeKeepsAdsWhenDisabled(t *testing.T) {
	in := `<div><div class="ad-banner">promo</div><p>body</p></div>`

	out, err := Sanitize(in, false)
	require.NoError(t, err)

	assert.Contains(t, out, "promo")
	assert.Contains(t, out, "body")
}

func TestSanitizeIdempotent(t *testing.T) {
	in := `<div><script>x()</script><div class="sidebar">nav</div><p>text</p></div>`

	once, err := Sanitize(in, true)
	require.NoError(t, err)
	twice, err := Sanitize(once, true)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestExtractMainPrefersSemanticContainer(t *testing.T) {
	in := `<html><body>
		<nav>menu</nav>
		<div class="content">secondary</div>
		<main><p>primary article</p></main>
		<footer>foot</footer>
	</body></html>`

	out := ExtractMain(in)

	assert.Contains(t, out, "primary article")
	assert.NotContains(t, out, "secondary")
	assert.NotContains(t, out, "menu")
}

func TestExtractMainPriorityOrder(t *testing.T) {
	// No <main>; article outranks .content.
	in := `<html><body>
		<div class="content">listing</div>
		<article>the story</article>
	</body></html>`

	out := ExtractMain(in)

	assert.Contains(t, out, "the story")
	assert.NotContains(t, out, "listing")
}

func TestExtractMainFallsBackToBody(t *testing.T) {
	in := `<html><body><div><p>plain page</p></div></body></html>`

	out := ExtractMain(in)
	assert.Contains(t, out, "plain page")
	// The fallback returns the body element itself, same as the priority
	// selectors return their matched element.
	assert.Contains(t, out, "<body")
}

func TestExtractMainUnparseableInputReturned(t *testing.T) {
	// goquery parses almost anything; bare text just falls through whole.
	out := ExtractMain("just text, no markup")
	assert.Contains(t, out, "just text")
}
