package diag

import "fmt"

// Diagnostic is one finding produced by an analysis pass. There is no source
// text in a decompilation job, so findings are located by function name and,
// when known, machine address.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string

	// Function is the name of the function being analyzed, "" for
	// whole-program findings.
	Function string

	Addr    uint64
	HasAddr bool
}

func (d Diagnostic) String() string {
	where := ""
	switch {
	case d.Function != "" && d.HasAddr:
		where = fmt.Sprintf(" [%s @ %#x]", d.Function, d.Addr)
	case d.Function != "":
		where = fmt.Sprintf(" [%s]", d.Function)
	case d.HasAddr:
		where = fmt.Sprintf(" [@ %#x]", d.Addr)
	}
	return fmt.Sprintf("%s %s: %s%s", d.Severity, d.Code, d.Message, where)
}
