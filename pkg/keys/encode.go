package keys

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/arthur-debert/autopage/pkg/errors"
)

// Key states as the input backend expects them.
const (
	Release = 0
	Press   = 1
)

// Event is a [keycode, state] pair. It marshals to a two-element JSON array.
type Event [2]int

// Code returns the evdev key code.
func (e Event) Code() int { return e[0] }

// State returns Press or Release.
func (e Event) State() int { return e[1] }

func press(code int) Event   { return Event{code, Press} }
func release(code int) Event { return Event{code, Release} }

// Encode turns a typing shorthand into key events.
//
// The input is split on whitespace. "SPACE" types a space. A token such as
// "Ctrl+Shift+T" is a chord: modifiers are pressed left to right, the last
// key is tapped, then modifiers are released in reverse. Any other token is
// typed character by character, holding Shift where the character needs it.
func Encode(shorthand string) ([]Event, error) {
	var events []Event
	for _, token := range strings.Fields(shorthand) {
		var (
			encoded []Event
			err     error
		)
		switch {
		case token == "SPACE":
			encoded = tap(KeySpace)
		case token != "+" && strings.Contains(token, "+"):
			encoded, err = encodeCombo(token)
		default:
			encoded, err = encodeText(token)
		}
		if err != nil {
			return nil, err
		}
		events = append(events, encoded...)
	}
	return events, nil
}

func tap(code int) []Event {
	return []Event{press(code), release(code)}
}

func encodeCombo(token string) ([]Event, error) {
	var parts []string
	if strings.HasSuffix(token, "++") {
		// "Ctrl++" chords the plus key itself.
		parts = append(strings.Split(strings.TrimSuffix(token, "++"), "+"), "+")
	} else {
		parts = strings.Split(token, "+")
	}

	codes := make([]int, 0, len(parts))
	for _, name := range parts {
		if name == "" {
			return nil, errors.Newf(errors.ErrEncode, "empty key in combo %q", token).
				WithDetail("key", token)
		}
		code, err := KeyCode(name)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	mods, final := codes[:len(codes)-1], codes[len(codes)-1]
	events := make([]Event, 0, 2*len(codes))
	for _, m := range mods {
		events = append(events, press(m))
	}
	events = append(events, tap(final)...)
	for i := len(mods) - 1; i >= 0; i-- {
		events = append(events, release(mods[i]))
	}
	return events, nil
}

func encodeText(text string) ([]Event, error) {
	var events []Event
	for _, r := range text {
		code, shift, ok := charCode(r)
		if !ok {
			return nil, errors.Newf(errors.ErrEncode, "unknown character %q", string(r)).
				WithDetail("char", string(r))
		}
		if shift {
			events = append(events, press(KeyLeftShift))
			events = append(events, tap(code)...)
			events = append(events, release(KeyLeftShift))
			continue
		}
		events = append(events, tap(code)...)
	}
	return events, nil
}

// charCode looks r up in the unified character table.
func charCode(r rune) (code int, shift bool, ok bool) {
	if code, ok = letterCodes[r]; ok {
		return code, false, true
	}
	if unicode.IsUpper(r) {
		if code, ok = letterCodes[unicode.ToLower(r)]; ok {
			return code, true, true
		}
	}
	if code, ok = digitCodes[r]; ok {
		return code, false, true
	}
	if code, ok = punctCodes[r]; ok {
		return code, false, true
	}
	if code, ok = shiftedCodes[r]; ok {
		return code, true, true
	}
	return 0, false, false
}

// KeyCode resolves a key name as used in combos: named keys (modifiers,
// navigation, function and media keys), then single letters in either case,
// digits and punctuation. Shift is never implied here.
func KeyCode(name string) (int, error) {
	if code, ok := namedKeys[name]; ok {
		return code, nil
	}
	if code, ok := foldedNamedKeys[foldName(name)]; ok {
		return code, nil
	}
	if r := []rune(name); len(r) == 1 {
		if code, _, ok := charCode(r[0]); ok {
			return code, nil
		}
	}
	return 0, errors.Newf(errors.ErrEncode, "unknown key name %q", name).
		WithDetail("key", name)
}

func foldName(name string) string {
	return strings.ToLower(name)
}

func fkey(n int) string {
	return fmt.Sprintf("F%d", n)
}
