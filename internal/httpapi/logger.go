package httpapi

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// StdLogger wraps the standard log package to implement Logger interface.
// On a terminal, lines reporting an ERROR are printed in red.
type StdLogger struct {
	colorize bool
	errColor *color.Color
}

func NewStdLogger() *StdLogger {
	l := &StdLogger{
		colorize: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
		errColor: color.New(color.FgRed),
	}
	if l.colorize {
		// color decides from stdout; log writes to stderr.
		l.errColor.EnableColor()
	}
	return l
}

func (l *StdLogger) Printf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if l.colorize && strings.Contains(msg, "ERROR") {
		msg = l.errColor.Sprint(msg)
	}
	log.Print(msg)
}
