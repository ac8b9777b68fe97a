package controller

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/autopage/pkg/errors"
)

// Decoder converts a raw property value into its typed form.
type Decoder func(raw any) (any, error)

// PropertyTable maps readable property names to their decoders.
type PropertyTable map[string]Decoder

// RootProperties are readable on the service object.
var RootProperties = PropertyTable{
	"Controllers":  StringList,
	"Pages":        StringList,
	"IconPacks":    StringList,
	"ActiveWindow": Raw,
}

// ControllerProperties are readable on a controller object.
var ControllerProperties = PropertyTable{
	"ActivePageName": String,
}

// Lookup returns the decoder for name, or UNKNOWN_PROPERTY.
func (t PropertyTable) Lookup(name string) (Decoder, error) {
	dec, ok := t[name]
	if !ok {
		return nil, errors.Newf(errors.ErrUnknownProperty, "unknown property %q (known: %s)", name, strings.Join(t.Names(), ", ")).
			WithDetail("property", name)
	}
	return dec, nil
}

// Names lists the known property names, sorted.
func (t PropertyTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StringList accepts []string or a []any holding only strings.
func StringList(raw any) (any, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, typeMismatch("string list", raw)
			}
			out = append(out, s)
		}
		return out, nil
	case nil:
		return []string{}, nil
	}
	return nil, typeMismatch("string list", raw)
}

func String(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, typeMismatch("string", raw)
	}
	return s, nil
}

// Raw passes the value through untouched.
func Raw(raw any) (any, error) {
	return raw, nil
}

func typeMismatch(want string, got any) error {
	return errors.New(errors.ErrTransport, fmt.Sprintf("unexpected property type: want %s, got %T", want, got))
}
