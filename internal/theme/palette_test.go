package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"blue", "dark", "green", "light", "purple"}, Names())
}

func TestLookup(t *testing.T) {
	light, ok := Lookup("light")
	require.True(t, ok)
	assert.Equal(t, lipgloss.Color("#2196F3"), light.Primary)
	assert.Equal(t, lipgloss.Color("#FFFFFF"), light.Background)

	dark, ok := Lookup("dark")
	require.True(t, ok)
	assert.Equal(t, lipgloss.Color("#212121"), dark.Background)
	assert.Equal(t, lipgloss.Color("#FFFFFF"), dark.OnSurface)

	_, ok = Lookup("neon")
	assert.False(t, ok)
	assert.False(t, Exists("Light"), "names are case sensitive")
}

func TestEveryPaletteIsComplete(t *testing.T) {
	for _, name := range Names() {
		p, _ := Lookup(name)
		for _, c := range []lipgloss.Color{p.Primary, p.Background, p.Surface, p.OnPrimary, p.OnBackground, p.OnSurface} {
			assert.NotEmpty(t, string(c), "theme %s", name)
		}
	}
}
