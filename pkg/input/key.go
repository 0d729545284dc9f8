package input

import "fmt"

const ctrlMask = 0x1f

// ControlChar is a Ctrl+<letter> byte, 0x01 (Ctrl+A) through 0x1a (Ctrl+Z).
type ControlChar byte

// CtrlKey returns the byte a terminal sends for Ctrl+k.
func CtrlKey(k byte) byte {
	return k & ctrlMask
}

// DecodeControl reports whether b is a Ctrl+<letter> byte.
func DecodeControl(b byte) (ControlChar, bool) {
	if CtrlKey(b) != b {
		return 0, false
	}
	letter := b | 0x60
	if letter < 'a' || letter > 'z' {
		return 0, false
	}
	return ControlChar(b), true
}

// Letter returns the lowercase letter held with Ctrl.
func (c ControlChar) Letter() byte {
	return byte(c) | 0x60
}

func (c ControlChar) String() string {
	return fmt.Sprintf("Ctrl+%c", c.Letter()-'a'+'A')
}

func CharEquals(b byte, code int) bool {
	return int(b) == code
}
