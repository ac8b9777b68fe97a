package keys

// Linux evdev key codes (linux/input-event-codes.h). The hotkey action
// replays these as raw input events, so the numbers must not drift.
const (
	KeyEsc        = 1
	KeyMinus      = 12
	KeyEqual      = 13
	KeyBackspace  = 14
	KeyTab        = 15
	KeyLeftBrace  = 26
	KeyRightBrace = 27
	KeyEnter      = 28
	KeyLeftCtrl   = 29
	KeySemicolon  = 39
	KeyApostrophe = 40
	KeyGrave      = 41
	KeyLeftShift  = 42
	KeyBackslash  = 43
	KeyComma      = 51
	KeyDot        = 52
	KeySlash      = 53
	KeyLeftAlt    = 56
	KeySpace      = 57
	KeyCapsLock   = 58
	KeyScrollLock = 70
	KeyF11        = 87
	KeyF12        = 88
	KeySysRq      = 99
	KeyHome       = 102
	KeyUp         = 103
	KeyPageUp     = 104
	KeyLeft       = 105
	KeyRight      = 106
	KeyEnd        = 107
	KeyDown       = 108
	KeyPageDown   = 109
	KeyInsert     = 110
	KeyDelete     = 111
	KeyMute       = 113
	KeyVolumeDown = 114
	KeyVolumeUp   = 115
	KeyPause      = 119
	KeyLeftMeta   = 125
	KeyCopy       = 133
	KeyPaste      = 135
	KeyCut        = 137
	KeyNextSong   = 163
	KeyPlayPause  = 164
	KeyPrevSong   = 165
	KeyStopCD     = 166
)

var letterCodes = map[rune]int{
	'a': 30, 'b': 48, 'c': 46, 'd': 32, 'e': 18, 'f': 33, 'g': 34,
	'h': 35, 'i': 23, 'j': 36, 'k': 37, 'l': 38, 'm': 50, 'n': 49,
	'o': 24, 'p': 25, 'q': 16, 'r': 19, 's': 31, 't': 20, 'u': 22,
	'v': 47, 'w': 17, 'x': 45, 'y': 21, 'z': 44,
}

var digitCodes = map[rune]int{
	'1': 2, '2': 3, '3': 4, '4': 5, '5': 6,
	'6': 7, '7': 8, '8': 9, '9': 10, '0': 11,
}

var punctCodes = map[rune]int{
	'-': KeyMinus, '=': KeyEqual, '[': KeyLeftBrace, ']': KeyRightBrace,
	';': KeySemicolon, '\'': KeyApostrophe, '`': KeyGrave, '\\': KeyBackslash,
	',': KeyComma, '.': KeyDot, '/': KeySlash,
}

// shiftedCodes are characters typed with Shift held on a US layout.
var shiftedCodes = map[rune]int{
	'!': 2, '@': 3, '#': 4, '$': 5, '%': 6, '^': 7, '&': 8, '*': 9, '(': 10, ')': 11,
	'_': KeyMinus, '+': KeyEqual, '{': KeyLeftBrace, '}': KeyRightBrace,
	':': KeySemicolon, '"': KeyApostrophe, '~': KeyGrave, '|': KeyBackslash,
	'<': KeyComma, '>': KeyDot, '?': KeySlash,
}

// namedKeys maps key names usable in combos. Lookups fall back to a
// case-insensitive match, so "ctrl" and "CTRL" work too.
var namedKeys = map[string]int{
	"Ctrl": KeyLeftCtrl, "Control": KeyLeftCtrl,
	"Shift": KeyLeftShift,
	"Alt":   KeyLeftAlt,
	"Super": KeyLeftMeta, "Meta": KeyLeftMeta,

	"SPACE": KeySpace, "Space": KeySpace,
	"Enter": KeyEnter, "Return": KeyEnter,
	"Tab":       KeyTab,
	"Backspace": KeyBackspace,
	"Escape":    KeyEsc, "Esc": KeyEsc,
	"Delete":   KeyDelete,
	"Insert":   KeyInsert,
	"Home":     KeyHome,
	"End":      KeyEnd,
	"PageUp":   KeyPageUp,
	"PageDown": KeyPageDown,
	"Up":       KeyUp,
	"Down":     KeyDown,
	"Left":     KeyLeft,
	"Right":    KeyRight,

	"CapsLock":    KeyCapsLock,
	"PrintScreen": KeySysRq,
	"ScrollLock":  KeyScrollLock,
	"Pause":       KeyPause,

	"Copy":  KeyCopy,
	"Paste": KeyPaste,
	"Cut":   KeyCut,

	"Mute":       KeyMute,
	"VolumeDown": KeyVolumeDown,
	"VolumeUp":   KeyVolumeUp,
	"Play":       KeyPlayPause,
	"Stop":       KeyStopCD,
	"Previous":   KeyPrevSong,
	"Next":       KeyNextSong,

	"Grave": KeyGrave, "`": KeyGrave,

	"F11": KeyF11, "F12": KeyF12,
}

var foldedNamedKeys map[string]int

func init() {
	// F1-F10 are contiguous from 59, F13-F24 from 183.
	for i := 1; i <= 10; i++ {
		namedKeys[fkey(i)] = 58 + i
	}
	for i := 13; i <= 24; i++ {
		namedKeys[fkey(i)] = 170 + i
	}

	foldedNamedKeys = make(map[string]int, len(namedKeys))
	for name, code := range namedKeys {
		foldedNamedKeys[foldName(name)] = code
	}
}
