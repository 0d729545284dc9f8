// Raw flag set modified from https://github.com/golang/term/blob/5b15d269ba1f54e8da86c8aa5574253aea0c2198/term_unix.go#L22
// It keeps a 0/1 VMIN/VTIME pair so reads time out instead of blocking.
// BSD-3-Clause License
package tty

import (
	"golang.org/x/sys/unix"
)

const (
	// RawMinBytes and RawTimeout are the VMIN and VTIME values of a raw config.
	// VTIME is counted in deciseconds.
	RawMinBytes = 0
	RawTimeout  = 1
)

// Config is a snapshot of the terminal driver configuration.
type Config struct {
	termios unix.Termios
}

func NewConfig(termios unix.Termios) Config {
	return Config{termios: termios}
}

func (c Config) Termios() unix.Termios {
	return c.termios
}

// Raw derives the raw mode configuration from c. c itself is not modified.
func (c Config) Raw() Config {
	raw := c.termios
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag &^= unix.CSIZE
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cc[unix.VMIN] = RawMinBytes
	raw.Cc[unix.VTIME] = RawTimeout
	return Config{termios: raw}
}

func (c Config) Echo() bool { return c.termios.Lflag&unix.ECHO != 0 }
func (c Config) Canonical() bool { return c.termios.Lflag&unix.ICANON != 0 }
func (c Config) Signals() bool { return c.termios.Lflag&unix.ISIG != 0 }
func (c Config) Extended() bool { return c.termios.Lflag&unix.IEXTEN != 0 }

func (c Config) CharSize8() bool {
	return c.termios.Cflag&unix.CSIZE == unix.CS8
}

// MinBytes is the VMIN entry: bytes a read waits for before returning.
func (c Config) MinBytes() int {
	return int(c.termios.Cc[unix.VMIN])
}

// TimeoutDeciseconds is the VTIME entry.
func (c Config) TimeoutDeciseconds() int {
	return int(c.termios.Cc[unix.VTIME])
}

type Flag struct {
	Field string `json:"field"`
	Name  string `json:"name"`
	Set   bool   `json:"set"`
}

type flagDef struct {
	field string
	name  string
	mask  uint64
}

// Only the flags touched by Raw are listed.
var flagDefs = []flagDef{
	{"iflag", "BRKINT", unix.BRKINT},
	{"iflag", "ICRNL", unix.ICRNL},
	{"iflag", "INPCK", unix.INPCK},
	{"iflag", "ISTRIP", unix.ISTRIP},
	{"iflag", "IXON", unix.IXON},
	{"oflag", "OPOST", unix.OPOST},
	{"cflag", "CS8", unix.CS8},
	{"lflag", "ECHO", unix.ECHO},
	{"lflag", "ICANON", unix.ICANON},
	{"lflag", "IEXTEN", unix.IEXTEN},
	{"lflag", "ISIG", unix.ISIG},
}

func (c Config) field(name string) uint64 {
	switch name {
	case "iflag":
		return uint64(c.termios.Iflag)
	case "oflag":
		return uint64(c.termios.Oflag)
	case "cflag":
		return uint64(c.termios.Cflag)
	case "lflag":
		return uint64(c.termios.Lflag)
	}
	return 0
}

// Flags reports the state of every flag the raw transition touches.
func (c Config) Flags() []Flag {
	flags := make([]Flag, 0, len(flagDefs))
	for _, d := range flagDefs {
		v := c.field(d.field)
		set := v&d.mask != 0
		if d.name == "CS8" {
			set = v&uint64(unix.CSIZE) == d.mask
		}
		flags = append(flags, Flag{Field: d.field, Name: d.name, Set: set})
	}
	return flags
}
