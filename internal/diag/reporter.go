package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter is the minimal contract passes use to emit diagnostics and status
// messages without coupling to storage or formatting.
type Reporter interface {
	Report(d Diagnostic)
}

// Info is a shortcut for an informational status message.
func Info(r Reporter, code Code, format string, args ...any) {
	if r == nil {
		return
	}
	r.Report(Diagnostic{Severity: SevInfo, Code: code, Message: fmt.Sprintf(format, args...)})
}

// Warning is a shortcut for a warning attached to a function.
func Warning(r Reporter, code Code, function, format string, args ...any) {
	if r == nil {
		return
	}
	r.Report(Diagnostic{
		Severity: SevWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Function: function,
	})
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// BagReporter stores diagnostics in a Bag.
type BagReporter struct {
	Bag *Bag
}

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// WriterReporter renders diagnostics to a writer, optionally colorized, one
// line per diagnostic.
type WriterReporter struct {
	W      io.Writer
	Color  bool
	MinSev Severity
}

var (
	sevInfoColor    = color.New(color.FgCyan)
	sevWarningColor = color.New(color.FgYellow, color.Bold)
	sevErrorColor   = color.New(color.FgRed, color.Bold)
)

func (r WriterReporter) Report(d Diagnostic) {
	if r.W == nil || d.Severity < r.MinSev {
		return
	}
	line := d.String()
	if r.Color {
		switch d.Severity {
		case SevInfo:
			line = sevInfoColor.Sprint(line)
		case SevWarning:
			line = sevWarningColor.Sprint(line)
		case SevError:
			line = sevErrorColor.Sprint(line)
		}
	}
	fmt.Fprintln(r.W, line)
}

// MultiReporter fans out to several reporters.
type MultiReporter []Reporter

func (m MultiReporter) Report(d Diagnostic) {
	for _, r := range m {
		if r != nil {
			r.Report(d)
		}
	}
}
