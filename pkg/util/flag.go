package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taoky/rawtty/pkg/input"
)

// KeyFlag is a single input byte given as "q", "ctrl+q", "C-q", "^Q" or a
// numeric code such as "17" or "0x11".
type KeyFlag byte

func (k KeyFlag) String() string {
	if c, ok := input.DecodeControl(byte(k)); ok {
		return "ctrl+" + string(rune(c.Letter()))
	}
	if k >= 0x20 && k < 0x7f {
		return string(rune(k))
	}
	return fmt.Sprintf("%#x", byte(k))
}

func (k *KeyFlag) Set(value string) error {
	lower := strings.ToLower(value)
	for _, prefix := range []string{"ctrl+", "ctrl-", "c-", "^"} {
		if rest, ok := strings.CutPrefix(lower, prefix); ok && len(rest) == 1 {
			if rest[0] < 'a' || rest[0] > 'z' {
				return fmt.Errorf("invalid control key %q", value)
			}
			*k = KeyFlag(input.CtrlKey(rest[0]))
			return nil
		}
	}
	if len(value) == 1 {
		*k = KeyFlag(value[0])
		return nil
	}

	code, err := strconv.ParseUint(value, 0, 8)
	if err != nil {
		return fmt.Errorf("invalid key %q", value)
	}
	*k = KeyFlag(code)
	return nil
}

func (k KeyFlag) Type() string {
	return "key"
}
