package scene

import (
	"strconv"
	"strings"

	"github.com/matzehuels/anchorage/pkg/anchor"
	"github.com/matzehuels/anchorage/pkg/errors"
)

// ParseRef parses a reference in scene syntax:
//
//	element:axes         one element
//	element:a,b,c        several elements
//	collection:xticks    a collection
//	literal:2.5          a native coordinate
//	none or ""           no anchor
//
// lookup resolves element IDs.
func ParseRef(s string, lookup func(id string) (*Element, bool)) (anchor.Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return anchor.None, nil
	}
	kind, body, ok := strings.Cut(s, ":")
	if !ok {
		return anchor.Ref{}, errors.New(errors.ErrCodeInvalidScene, "reference %q: want kind:value", s)
	}
	switch kind {
	case "element", "elements":
		var elems []anchor.Element
		for _, id := range strings.Split(body, ",") {
			id = strings.TrimSpace(id)
			e, found := lookup(id)
			if !found {
				return anchor.Ref{}, errors.New(errors.ErrCodeNotFound, "reference %q: unknown element %q", s, id)
			}
			elems = append(elems, e)
		}
		return anchor.Elements(elems...), nil
	case "collection":
		if err := errors.ValidateName(body); err != nil {
			return anchor.Ref{}, errors.Wrap(errors.ErrCodeInvalidScene, err, "reference %q", s)
		}
		return anchor.Collection(body), nil
	case "literal":
		v, err := strconv.ParseFloat(strings.TrimSpace(body), 64)
		if err != nil {
			return anchor.Ref{}, errors.Wrap(errors.ErrCodeInvalidScene, err, "reference %q", s)
		}
		return anchor.Literal(v), nil
	}
	return anchor.Ref{}, errors.New(errors.ErrCodeInvalidScene, "reference %q: unknown kind %q", s, kind)
}

// ParseMargin converts a decoded margin value: a number, or a string
// "prop:key" or "prop:key*factor". A nil value is a zero margin.
func ParseMargin(v any) (anchor.Margin, error) {
	switch m := v.(type) {
	case nil:
		return anchor.Constant(0), nil
	case float64:
		return anchor.Constant(m), nil
	case int:
		return anchor.Constant(float64(m)), nil
	case int64:
		return anchor.Constant(float64(m)), nil
	case string:
		return parseMarginString(m)
	}
	return anchor.Margin{}, errors.New(errors.ErrCodeInvalidScene, "margin %v: want a number or prop:key", v)
}

func parseMarginString(s string) (anchor.Margin, error) {
	s = strings.TrimSpace(s)
	key, ok := strings.CutPrefix(s, "prop:")
	if !ok {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return anchor.Margin{}, errors.New(errors.ErrCodeInvalidScene, "margin %q: want a number or prop:key", s)
		}
		return anchor.Constant(v), nil
	}
	factor := 1.0
	if k, f, scaled := strings.Cut(key, "*"); scaled {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return anchor.Margin{}, errors.Wrap(errors.ErrCodeInvalidScene, err, "margin %q", s)
		}
		key, factor = strings.TrimSpace(k), v
	}
	if err := errors.ValidatePropertyKey(key); err != nil {
		return anchor.Margin{}, errors.Wrap(errors.ErrCodeInvalidScene, err, "margin %q", s)
	}
	if factor == 1 {
		return anchor.Property(key), nil
	}
	return anchor.Scaled(key, factor), nil
}
