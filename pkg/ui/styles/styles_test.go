package styles_test

import (
	"testing"

	"github.com/arthur-debert/autopage/pkg/ui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedStyles(t *testing.T) {
	for _, name := range []string{"Error", "Success", "Warning", "Muted", "Bold", "Page", "Path", "Item"} {
		assert.True(t, styles.Has(name), "style %s", name)
	}
	assert.True(t, styles.GetStyle("Error").GetBold())
}

func TestUnknownStyleIsPlain(t *testing.T) {
	assert.False(t, styles.Has("Nope"))
	assert.Equal(t, "text", styles.Render("Nope", "text"))
}

func TestLoadFromData(t *testing.T) {
	t.Cleanup(func() { _ = styles.LoadDefaults() })

	require.NoError(t, styles.LoadFromData([]byte(`
colors:
  c:
    light: "#000000"
    dark: "#ffffff"
styles:
  Custom:
    italic: true
    foreground: c
`)))
	assert.True(t, styles.Has("Custom"))
	assert.True(t, styles.GetStyle("Custom").GetItalic())
	assert.False(t, styles.Has("Error"))

	assert.Error(t, styles.LoadFromData([]byte("styles: [")))
}
