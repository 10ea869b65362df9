// Package theme holds the fixed palette table. Themes cannot be added at
// runtime.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

var (
	blue      = lipgloss.Color("#2196F3")
	blue50    = lipgloss.Color("#E3F2FD")
	blue100   = lipgloss.Color("#BBDEFB")
	blue700   = lipgloss.Color("#1976D2")
	white     = lipgloss.Color("#FFFFFF")
	black     = lipgloss.Color("#000000")
	grey100   = lipgloss.Color("#F5F5F5")
	grey900   = lipgloss.Color("#212121")
	purple    = lipgloss.Color("#9C27B0")
	purple50  = lipgloss.Color("#F3E5F5")
	purple100 = lipgloss.Color("#E1BEE7")
	green     = lipgloss.Color("#4CAF50")
	green50   = lipgloss.Color("#E8F5E9")
	green100  = lipgloss.Color("#C8E6C9")
)

// Palette is a set of named colors for one theme.
type Palette struct {
	Primary      lipgloss.Color `json:"primary"`
	Background   lipgloss.Color `json:"background"`
	Surface      lipgloss.Color `json:"surface"`
	OnPrimary    lipgloss.Color `json:"onPrimary"`
	OnBackground lipgloss.Color `json:"onBackground"`
	OnSurface    lipgloss.Color `json:"onSurface"`
}

var palettes = map[string]Palette{
	"light": {
		Primary: blue, Background: white, Surface: grey100,
		OnPrimary: white, OnBackground: black, OnSurface: black,
	},
	"dark": {
		Primary: blue700, Background: grey900, Surface: black,
		OnPrimary: white, OnBackground: white, OnSurface: white,
	},
	"purple": {
		Primary: purple, Background: purple50, Surface: purple100,
		OnPrimary: white, OnBackground: black, OnSurface: black,
	},
	"blue": {
		Primary: blue, Background: blue50, Surface: blue100,
		OnPrimary: white, OnBackground: black, OnSurface: black,
	},
	"green": {
		Primary: green, Background: green50, Surface: green100,
		OnPrimary: white, OnBackground: black, OnSurface: black,
	},
}

func Lookup(name string) (Palette, bool) {
	p, ok := palettes[name]
	return p, ok
}

func Exists(name string) bool {
	_, ok := palettes[name]
	return ok
}

// Names returns the theme names in sorted order.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Style returns a lipgloss style using the palette's primary color on its
// background, for terminal rendering.
func (p Palette) Style() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(p.Primary).
		Background(p.Background).
		Bold(true)
}
