package catalog

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	apperrors "pomodoro/tracker/internal/errors"
	"pomodoro/tracker/internal/model"
	"pomodoro/tracker/internal/rewards"
)

// Import is the content of a catalog file:
//
//	tags:
//	  - name: Reading
//	    color: ORANGE
//	shopItems:
//	  - name: Nap
//	    cost: 80
//	    description: Twenty minutes
type Import struct {
	Tags      []model.Tag      `yaml:"tags" json:"tags"`
	ShopItems []model.ShopItem `yaml:"shopItems" json:"shopItems"`
}

// ParseImport decodes and validates a catalog file. Validation stops at the
// first invalid entry; the returned error names its position.
func ParseImport(r io.Reader) (Import, error) {
	var imp Import
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&imp); err != nil {
		if err == io.EOF {
			return Import{}, nil
		}
		return Import{}, apperrors.InvalidArgument(fmt.Sprintf("decode catalog file: %v", err))
	}
	if err := imp.Validate(); err != nil {
		return Import{}, err
	}
	return imp, nil
}

func (imp Import) Validate() error {
	for i, tag := range imp.Tags {
		if err := ValidateTag(tag); err != nil {
			return positioned("tags", i, err)
		}
	}
	for i, item := range imp.ShopItems {
		if err := rewards.ValidateItem(item); err != nil {
			return positioned("shopItems", i, err)
		}
	}
	return nil
}

func positioned(list string, index int, err error) error {
	msg := err.Error()
	if appErr, ok := apperrors.As(err); ok {
		msg = appErr.Message
	}
	out := apperrors.InvalidArgument(fmt.Sprintf("%s[%d]: %s", list, index, msg))
	out.Details = map[string]interface{}{"list": list, "index": index}
	return out
}
