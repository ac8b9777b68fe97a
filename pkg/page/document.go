package page

import (
	"bytes"
	"encoding/json"

	"github.com/arthur-debert/autopage/pkg/color"
	"github.com/arthur-debert/autopage/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Document is a StreamController page. Field names are the service's
// page format and must not change.
type Document struct {
	Settings Settings       `json:"settings" yaml:"settings"`
	Keys     map[string]Key `json:"keys" yaml:"keys"`
}

type Settings struct {
	AutoChange *AutoChange `json:"auto-change,omitempty" yaml:"auto-change,omitempty"`
}

// AutoChange makes the service switch to the page when a window matching
// WMClass or Title gains focus.
type AutoChange struct {
	Enable     bool     `json:"enable" yaml:"enable"`
	StayOnPage bool     `json:"stay-on-page" yaml:"stay-on-page"`
	Decks      []string `json:"decks,omitempty" yaml:"decks,omitempty"`
	WMClass    *string  `json:"wm-class,omitempty" yaml:"wm-class,omitempty"`
	Title      *string  `json:"title,omitempty" yaml:"title,omitempty"`
}

// Key holds the states of one deck key. Generated pages only use state "0".
type Key struct {
	States map[string]State `json:"states" yaml:"states"`
}

type State struct {
	Actions    []Action         `json:"actions" yaml:"actions"`
	Labels     map[string]Label `json:"labels,omitempty" yaml:"labels,omitempty"`
	Background *Background      `json:"background,omitempty" yaml:"background,omitempty"`
	Media      *Media           `json:"media,omitempty" yaml:"media,omitempty"`
}

type Action struct {
	ID       string         `json:"id" yaml:"id"`
	Settings map[string]any `json:"settings" yaml:"settings"`
}

type Label struct {
	Text string `json:"text" yaml:"text"`
}

type Background struct {
	Color color.RGBA `json:"color" yaml:"color,flow"`
}

type Media struct {
	Path string   `json:"path" yaml:"path"`
	Size *float64 `json:"size,omitempty" yaml:"size,omitempty"`
}

// JSON renders the document the way the service expects it, indented by
// four spaces.
func (d *Document) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode page JSON")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// YAML renders the document for human inspection.
func (d *Document) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode page YAML")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode page YAML")
	}
	return buf.Bytes(), nil
}

// ParseJSON reads a page document back, e.g. one passed to add-page.
func ParseJSON(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, errors.ErrParse, "invalid page JSON")
	}
	return &d, nil
}
