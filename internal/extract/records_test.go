package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productList = `<div>
	<div class="card">
		<h3 class="title">Widget</h3>
		<span class="price">9.99</span>
		<a class="more" href="/w">details</a>
		<img class="photo" src="/w.png">
	</div>
	<div class="card">
		<h3 class="title">Gadget</h3>
		<span class="price">19.99</span>
		<a class="more" href="/g">details</a>
		<img class="photo" src="/g.png">
	</div>
</div>`

func TestSmartExtractFieldKinds(t *testing.T) {
	records, err := SmartExtract(productList, ".card", map[string]string{
		"name":  ".title",
		"price": ".price",
		"link":  ".more",
		"image": ".photo",
	}, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Widget", first["name"])
	assert.Equal(t, "9.99", first["price"])
	assert.Equal(t, "/w.png", first["image"])
	assert.Equal(t, map[string]string{"text": "details", "href": "/w"}, first["link"])

	assert.Equal(t, "Gadget", records[1]["name"])
}

func TestSmartExtractUnmatchedFieldIsNil(t *testing.T) {
	// Three containers, a field selector matching nothing in any of them:
	// still three records, each with the field explicitly nil.
	in := `<div>
		<div class="row">a</div>
		<div class="row">b</div>
		<div class="row">c</div>
	</div>`

	records, err := SmartExtract(in, ".row", map[string]string{"missing": ".nope"}, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, rec := range records {
		val, present := rec["missing"]
		assert.True(t, present)
		assert.Nil(t, val)
	}
}

func TestSmartExtractLimit(t *testing.T) {
	records, err := SmartExtract(productList, ".card", map[string]string{"name": ".title"}, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Widget", records[0]["name"])
}

func TestSmartExtractRequiresArguments(t *testing.T) {
	_, err := SmartExtract(productList, "", map[string]string{"x": ".y"}, 0)
	assert.Error(t, err)

	_, err = SmartExtract(productList, ".card", nil, 0)
	assert.Error(t, err)
}

// A container selector that matches nothing is a caller mistake; it must
// surface as an error rather than silently yielding zero records.
func TestSmartExtractNoContainers(t *testing.T) {
	records, err := SmartExtract(productList, ".absent", map[string]string{"x": ".y"}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".absent")
	assert.Nil(t, records)
}
