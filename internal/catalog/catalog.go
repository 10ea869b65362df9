// Package catalog keeps the tag list, the current tag selection and the
// theme selection.
package catalog

import (
	"fmt"
	"strings"

	apperrors "pomodoro/tracker/internal/errors"
	"pomodoro/tracker/internal/model"
	"pomodoro/tracker/internal/theme"
)

// Catalog is not safe for concurrent use.
type Catalog struct {
	tags       []model.Tag
	currentTag string
	theme      string
}

// New restores a catalog. An unknown theme falls back to the default and
// a current tag that names no tag falls back to the first tag.
func New(tags []model.Tag, currentTag, themeName string) *Catalog {
	c := &Catalog{
		tags:       append([]model.Tag(nil), tags...),
		currentTag: currentTag,
		theme:      themeName,
	}
	if !theme.Exists(c.theme) {
		c.theme = model.DefaultTheme
	}
	if !c.hasTag(c.currentTag) {
		c.currentTag = ""
		if len(c.tags) > 0 {
			c.currentTag = c.tags[0].Name
		}
	}
	return c
}

func (c *Catalog) Tags() []model.Tag {
	return append([]model.Tag(nil), c.tags...)
}

func (c *Catalog) CurrentTag() string {
	return c.currentTag
}

func (c *Catalog) Theme() string {
	return c.theme
}

// AddTag appends a tag. Duplicate names are allowed.
func (c *Catalog) AddTag(name, color string) (model.Tag, error) {
	tag := model.Tag{Name: name, Color: color}
	if err := ValidateTag(tag); err != nil {
		return model.Tag{}, err
	}
	c.tags = append(c.tags, tag)
	if c.currentTag == "" {
		c.currentTag = tag.Name
	}
	return tag, nil
}

func (c *Catalog) SetCurrentTag(name string) error {
	if !c.hasTag(name) {
		return apperrors.InvalidArgument(fmt.Sprintf("no tag named %q", name))
	}
	c.currentTag = name
	return nil
}

func (c *Catalog) SetTheme(name string) error {
	if !theme.Exists(name) {
		return apperrors.UnknownTheme(name)
	}
	c.theme = name
	return nil
}

func (c *Catalog) hasTag(name string) bool {
	if name == "" {
		return false
	}
	for _, t := range c.tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

func ValidateTag(tag model.Tag) error {
	if strings.TrimSpace(tag.Name) == "" {
		return apperrors.InvalidArgument("tag name is required")
	}
	return nil
}
