package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pomodoro/tracker/internal/errors"
	"pomodoro/tracker/internal/model"
)

func TestNewFallsBack(t *testing.T) {
	c := New(model.DefaultTags(), "Gardening", "neon")

	assert.Equal(t, model.DefaultTheme, c.Theme())
	assert.Equal(t, "Work", c.CurrentTag())

	empty := New(nil, "", "")
	assert.Equal(t, "", empty.CurrentTag())
	assert.Empty(t, empty.Tags())
}

func TestAddTag(t *testing.T) {
	c := New(model.DefaultTags(), model.DefaultCurrentTag, model.DefaultTheme)

	_, err := c.AddTag(" ", "RED")
	require.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = c.AddTag("Work", "")
	require.NoError(t, err, "duplicates are allowed")

	tags := c.Tags()
	require.Len(t, tags, 4)
	assert.Equal(t, model.Tag{Name: "Work"}, tags[3])
}

func TestAddTagSelectsFirstTag(t *testing.T) {
	c := New(nil, "", model.DefaultTheme)

	_, err := c.AddTag("Reading", "ORANGE")
	require.NoError(t, err)

	assert.Equal(t, "Reading", c.CurrentTag())
}

func TestSetCurrentTag(t *testing.T) {
	c := New(model.DefaultTags(), model.DefaultCurrentTag, model.DefaultTheme)

	require.NoError(t, c.SetCurrentTag("Study"))
	assert.Equal(t, "Study", c.CurrentTag())

	err := c.SetCurrentTag("Chores")
	require.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	assert.Equal(t, "Study", c.CurrentTag())
}

func TestSetTheme(t *testing.T) {
	c := New(model.DefaultTags(), model.DefaultCurrentTag, model.DefaultTheme)

	require.NoError(t, c.SetTheme("dark"))
	assert.Equal(t, "dark", c.Theme())

	err := c.SetTheme("sepia")
	require.ErrorIs(t, err, apperrors.ErrUnknownTheme)
	assert.Equal(t, "dark", c.Theme())
}

func TestParseImport(t *testing.T) {
	src := `
tags:
  - name: Reading
    color: ORANGE
shopItems:
  - name: Nap
    cost: 80
    description: Twenty minutes
  - name: Walk
    cost: 0
    description: Around the block
`
	imp, err := ParseImport(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []model.Tag{{Name: "Reading", Color: "ORANGE"}}, imp.Tags)
	require.Len(t, imp.ShopItems, 2)
	assert.Equal(t, 80, imp.ShopItems[0].Cost)
}

func TestParseImportReportsFirstInvalidEntry(t *testing.T) {
	src := `
shopItems:
  - name: Nap
    cost: 80
    description: Twenty minutes
  - name: Debt
    cost: -10
    description: Not allowed
  - name: ""
    cost: 5
    description: Also invalid
`
	_, err := ParseImport(strings.NewReader(src))
	require.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Message, "shopItems[1]")
	assert.Equal(t, map[string]interface{}{"list": "shopItems", "index": 1}, appErr.Details)
}

func TestParseImportRejectsUnknownFields(t *testing.T) {
	_, err := ParseImport(strings.NewReader("themes:\n  - neon\n"))
	require.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestParseImportEmpty(t *testing.T) {
	imp, err := ParseImport(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, imp.Tags)
	assert.Empty(t, imp.ShopItems)
}
