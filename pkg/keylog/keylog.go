package keylog

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/pflag"

	"github.com/taoky/rawtty/pkg/input"
	"github.com/taoky/rawtty/pkg/tty"
	"github.com/taoky/rawtty/pkg/util"
)

// OPOST is off in raw mode, so every line ends with an explicit CR.
const newline = "\r\n"

type Config struct {
	Quit      util.KeyFlag
	Spinner   bool
	JSON      bool
	LogOutput string
}

func (c *Config) InstallFlags(flags *pflag.FlagSet) {
	flags.VarP(&c.Quit, "quit", "q", "Key that ends the session (e.g. ctrl+q, x, 0x1b)")
	flags.BoolVar(&c.Spinner, "spinner", c.Spinner, "Show a spinner while waiting for input")
	flags.BoolVarP(&c.JSON, "json", "j", c.JSON, "Print one JSON object per key")
	flags.StringVarP(&c.LogOutput, "outlog", "o", c.LogOutput, "Log key events to file")
}

func DefaultConfig() Config {
	return Config{
		Quit: util.KeyFlag(input.CtrlKey('q')),
	}
}

type Event struct {
	Code    byte   `json:"code"`
	Hex     string `json:"hex"`
	Char    string `json:"char,omitempty"`
	Control string `json:"control,omitempty"`
	Time    string `json:"time"`
}

func NewEvent(b byte, t time.Time) Event {
	e := Event{
		Code: b,
		Hex:  fmt.Sprintf("0x%02x", b),
		Time: t.Format(time.RFC3339Nano),
	}
	if c, ok := input.DecodeControl(b); ok {
		e.Control = c.String()
	} else if b >= 0x20 && b < 0x7f {
		e.Char = string(rune(b))
	}
	return e
}

type Stats struct {
	Bytes uint64
	Idle  uint64
}

type Session struct {
	Config Config

	reader  *input.Reader
	out     io.Writer
	spinner *progressbar.ProgressBar
	logger  *log.Logger
	ctrlFmt *color.Color
	logFile io.Closer
	stats   Stats
}

func New(c Config, ctrl *tty.Controller, out io.Writer) (*Session, error) {
	s := &Session{
		Config:  c,
		reader:  input.NewReader(ctrl),
		out:     out,
		logger:  log.New(io.Discard, "", log.LstdFlags),
		ctrlFmt: color.New(color.FgCyan),
	}
	if c.LogOutput != "" {
		f, err := os.OpenFile(c.LogOutput, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file error: %w", err)
		}
		s.logger.SetOutput(f)
		s.logFile = f
	}
	if c.Spinner && !c.JSON {
		s.spinner = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetDescription("waiting for input"),
			progressbar.OptionClearOnFinish(),
		)
	}
	return s, nil
}

// Logger is shared with the tty controller so both log to --outlog.
func (s *Session) Logger() *log.Logger {
	return s.logger
}

func (s *Session) Close() error {
	if s.logFile == nil {
		return nil
	}
	return s.logFile.Close()
}

func (s *Session) Stats() Stats {
	return s.stats
}

// Run echoes every byte until the quit key arrives.
func (s *Session) Run() error {
	for {
		b, ok, err := s.reader.Poll()
		if err != nil {
			return err
		}
		if !ok {
			s.stats.Idle++
			if s.spinner != nil {
				s.spinner.Add(1)
			}
			continue
		}
		s.stats.Bytes++
		if s.spinner != nil {
			s.spinner.Clear()
		}
		if err := s.emit(b); err != nil {
			return err
		}
		if input.CharEquals(b, int(s.Config.Quit)) {
			if s.spinner != nil {
				s.spinner.Finish()
			}
			return nil
		}
	}
}

func (s *Session) emit(b byte) error {
	e := NewEvent(b, time.Now())
	s.logger.Printf("key %s %s%s", e.Hex, e.Char, e.Control)
	if s.Config.JSON {
		// Encode ends with a bare LF.
		buf, err := json.Marshal(e)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(s.out, string(buf)+newline)
		return err
	}

	var err error
	switch {
	case e.Control != "":
		_, err = fmt.Fprintf(s.out, "%d (%s)%s", b, s.ctrlFmt.Sprint(e.Control), newline)
	case e.Char != "":
		_, err = fmt.Fprintf(s.out, "%d ('%s')%s", b, e.Char, newline)
	default:
		_, err = fmt.Fprintf(s.out, "%d%s", b, newline)
	}
	return err
}

// Summary is the line printed after the session ends.
func (s *Session) Summary() string {
	return fmt.Sprintf("read %s bytes, %s idle polls",
		humanize.Comma(int64(s.stats.Bytes)), humanize.Comma(int64(s.stats.Idle)))
}
