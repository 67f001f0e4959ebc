package gen

import (
	"regexp"
	"strings"
	"unicode"

	"rmkit/internal/model"
)

// keyNames maps QMK short names to RMK key code names.
var keyNames = map[string]string{
	"ENT": "Enter", "ENTER": "Enter",
	"ESC": "Escape", "ESCAPE": "Escape",
	"BSPC": "Backspace", "BSPACE": "Backspace",
	"SPC": "Space", "SPACE": "Space",
	"TAB":  "Tab",
	"MINS": "Minus", "MINUS": "Minus",
	"EQL": "Equal", "EQUAL": "Equal",
	"LBRC": "LeftBracket", "LBRACKET": "LeftBracket",
	"RBRC": "RightBracket", "RBRACKET": "RightBracket",
	"BSLS": "Backslash", "BSLASH": "Backslash",
	"SCLN": "Semicolon", "SCOLON": "Semicolon",
	"QUOT": "Quote", "QUOTE": "Quote",
	"GRV": "Grave", "GRAVE": "Grave",
	"COMM": "Comma", "COMMA": "Comma",
	"DOT":  "Dot",
	"SLSH": "Slash", "SLASH": "Slash",
	"CAPS": "CapsLock", "CAPSLOCK": "CapsLock",
	"LCTL": "LCtrl", "LCTRL": "LCtrl",
	"LSFT": "LShift", "LSHIFT": "LShift",
	"LALT": "LAlt",
	"LGUI": "LGui",
	"RCTL": "RCtrl", "RCTRL": "RCtrl",
	"RSFT": "RShift", "RSHIFT": "RShift",
	"RALT": "RAlt",
	"RGUI": "RGui",
	"DEL":  "Delete", "DELETE": "Delete",
	"INS": "Insert", "INSERT": "Insert",
	"PGUP": "PageUp",
	"PGDN": "PageDown", "PGDOWN": "PageDown",
	"HOME": "Home",
	"END":  "End",
	"LEFT": "Left",
	"RGHT": "Right", "RIGHT": "Right",
	"UP":   "Up",
	"DOWN": "Down",
	"PSCR": "PrintScreen",
	"SLCK": "ScrollLock", "SCRL": "ScrollLock",
	"PAUS": "Pause", "PAUSE": "Pause",
	"APP":  "Application",
	"VOLU": "AudioVolUp", "VOLD": "AudioVolDown", "MUTE": "AudioMute",
	"MPLY": "MediaPlayPause", "MNXT": "MediaNextTrack", "MPRV": "MediaPrevTrack",
}

var (
	layerCallRE = regexp.MustCompile(`^(MO|TG|TO|DF|OSL|TT)\((\d+)\)$`)
	layerTapRE  = regexp.MustCompile(`^LT\((\d+),\s*(KC_\w+)\)$`)
)

// keyName converts a KC_ keycode to an RMK KeyCode variant name, or ""
// when code is not a basic keycode.
func keyName(code string) string {
	name, ok := strings.CutPrefix(code, "KC_")
	if !ok || name == "" {
		return ""
	}

	if mapped, ok := keyNames[name]; ok {
		return mapped
	}

	switch {
	case len(name) == 1 && unicode.IsDigit(rune(name[0])):
		return "Kc" + name
	case len(name) == 1:
		return strings.ToUpper(name)
	case name[0] == 'F' && isDigits(name[1:]):
		return name
	}

	return camel(name)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

// camel turns "AUDIO_VOL_UP" into "AudioVolUp".
func camel(s string) string {
	var sb strings.Builder

	for _, part := range strings.Split(strings.ToLower(s), "_") {
		if part == "" {
			continue
		}

		sb.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}

	return sb.String()
}

func isNone(code string) bool {
	switch code {
	case "", model.KeyNone, "XXXXXXX", "KC_NONE":
		return true
	}

	return false
}

func isTransparent(code string) bool {
	switch code {
	case model.KeyTransparent, "KC_TRANSPARENT", "_______":
		return true
	}

	return false
}

// rustAction renders a keycode as an RMK keymap macro for keymap.rs.
// Codes without an RMK equivalent, raw numeric codes included, become
// a!(No).
func rustAction(code string) string {
	code = strings.TrimSpace(code)

	switch {
	case isNone(code):
		return "a!(No)"
	case isTransparent(code):
		return "a!(Transparent)"
	}

	if m := layerCallRE.FindStringSubmatch(code); m != nil {
		return strings.ToLower(m[1]) + "!(" + m[2] + ")"
	}

	if m := layerTapRE.FindStringSubmatch(code); m != nil {
		if name := keyName(m[2]); name != "" {
			return "lt!(" + m[1] + ", " + name + ")"
		}
	}

	if name := keyName(code); name != "" {
		return "k!(" + name + ")"
	}

	return "a!(No)"
}

// tomlAction renders a keycode in keyboard.toml keymap syntax.
func tomlAction(code string) string {
	code = strings.TrimSpace(code)

	switch {
	case isNone(code):
		return "No"
	case isTransparent(code):
		return "_"
	}

	if m := layerCallRE.FindStringSubmatch(code); m != nil {
		return m[1] + "(" + m[2] + ")"
	}

	if m := layerTapRE.FindStringSubmatch(code); m != nil {
		if name := keyName(m[2]); name != "" {
			return "LT(" + m[1] + ", " + name + ")"
		}
	}

	if name := keyName(code); name != "" {
		return name
	}

	return "No"
}
