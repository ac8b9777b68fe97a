package keys

import (
	"encoding/json"
	"testing"

	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Event
	}{
		{
			name:  "single modifier combo",
			input: "Ctrl+C",
			want:  []Event{{29, 1}, {46, 1}, {46, 0}, {29, 0}},
		},
		{
			name:  "modifiers released in reverse",
			input: "Ctrl+Shift+T",
			want:  []Event{{29, 1}, {42, 1}, {20, 1}, {20, 0}, {42, 0}, {29, 0}},
		},
		{
			name:  "lowercase text",
			input: "abc",
			want:  []Event{{30, 1}, {30, 0}, {48, 1}, {48, 0}, {46, 1}, {46, 0}},
		},
		{
			name:  "space token",
			input: "SPACE",
			want:  []Event{{57, 1}, {57, 0}},
		},
		{
			name:  "tokens are concatenated",
			input: "a SPACE b",
			want:  []Event{{30, 1}, {30, 0}, {57, 1}, {57, 0}, {48, 1}, {48, 0}},
		},
		{
			name:  "digits and punctuation",
			input: "1-/",
			want:  []Event{{2, 1}, {2, 0}, {12, 1}, {12, 0}, {53, 1}, {53, 0}},
		},
		{
			name:  "shifted punctuation",
			input: "!",
			want:  []Event{{42, 1}, {2, 1}, {2, 0}, {42, 0}},
		},
		{
			name:  "lone plus is typed",
			input: "+",
			want:  []Event{{42, 1}, {13, 1}, {13, 0}, {42, 0}},
		},
		{
			name:  "named keys are case-insensitive",
			input: "ctrl+alt+Delete",
			want:  []Event{{29, 1}, {56, 1}, {111, 1}, {111, 0}, {56, 0}, {29, 0}},
		},
		{
			name:  "function and media keys",
			input: "Super+F13 Alt+VolumeUp",
			want:  []Event{{125, 1}, {183, 1}, {183, 0}, {125, 0}, {56, 1}, {115, 1}, {115, 0}, {56, 0}},
		},
		{
			name:  "combo with plus key",
			input: "Ctrl++",
			want:  []Event{{29, 1}, {13, 1}, {13, 0}, {29, 0}},
		},
		{
			name:  "empty input",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeUppercaseWrapsShift(t *testing.T) {
	for r := 'A'; r <= 'Z'; r++ {
		got, err := Encode(string(r))
		require.NoError(t, err)
		require.Len(t, got, 4, string(r))

		lower, err := Encode(string(r + ('a' - 'A')))
		require.NoError(t, err)

		assert.Equal(t, Event{KeyLeftShift, Press}, got[0])
		assert.Equal(t, lower, got[1:3])
		assert.Equal(t, Event{KeyLeftShift, Release}, got[3])
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		detail string
		value  string
	}{
		{"unknown character", "héllo", "char", "é"},
		{"unknown key in combo", "Ctrl+Hyper", "key", "Hyper"},
		{"empty segment", "Ctrl++Shift", "key", "Ctrl++Shift"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.input)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrEncode))
			assert.Equal(t, tt.value, errors.GetErrorDetails(err)[tt.detail])
		})
	}
}

func TestKeyCode(t *testing.T) {
	tests := map[string]int{
		"Ctrl": 29, "Control": 29, "Shift": 42, "Alt": 56,
		"Enter": 28, "Return": 28, "Esc": 1, "Tab": 15,
		"Home": 102, "End": 107, "PageUp": 104, "PageDown": 109,
		"Up": 103, "Down": 108, "Left": 105, "Right": 106,
		"F1": 59, "F10": 68, "F11": 87, "F12": 88, "F24": 194,
		"Meta": 125, "PrintScreen": 99, "Copy": 133, "Paste": 135, "Cut": 137,
		"Mute": 113, "Play": 164, "Stop": 166, "Previous": 165, "Next": 163,
		"Grave": 41, "a": 30, "Z": 44, "0": 11, "9": 10,
	}
	for name, want := range tests {
		got, err := KeyCode(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestEventJSON(t *testing.T) {
	events, err := Encode("Ctrl+C")
	require.NoError(t, err)

	data, err := json.Marshal(events)
	require.NoError(t, err)
	assert.JSONEq(t, `[[29,1],[46,1],[46,0],[29,0]]`, string(data))
}
