package windowmatch

import (
	"fmt"

	"github.com/arthur-debert/autopage/pkg/errors"
)

// WindowEvent is a validated foreground-window notification.
type WindowEvent struct {
	Title string
	Class string
}

func (w WindowEvent) String() string {
	return fmt.Sprintf("%q (%s)", w.Title, w.Class)
}

// DecodeWindowEvent validates a property value carrying (title, class).
// The service sends a two-string struct, which arrives as []any; a string
// slice and a WindowEvent are accepted too.
func DecodeWindowEvent(value any) (WindowEvent, error) {
	switch v := value.(type) {
	case WindowEvent:
		return v, nil
	case []string:
		if len(v) == 2 {
			return WindowEvent{Title: v[0], Class: v[1]}, nil
		}
	case []any:
		if len(v) == 2 {
			title, ok1 := v[0].(string)
			class, ok2 := v[1].(string)
			if ok1 && ok2 {
				return WindowEvent{Title: title, Class: class}, nil
			}
		}
	}
	return WindowEvent{}, errors.Newf(errors.ErrMalformedEvent, "expected (title, class) pair, got %T: %v", value, value)
}
