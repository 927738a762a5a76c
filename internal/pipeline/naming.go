package pipeline

import (
	"fmt"
	"strings"

	"drift/internal/ir"
	"drift/internal/mangling"
)

// pickFunctionName assigns a deterministic name to a function:
//
//   - a symbol at the entry address wins, sanitized into an identifier, with
//     the original name kept as a comment when sanitation changed it and the
//     demangled form kept when it looks like a function signature;
//   - an entry address without a symbol yields func_<hex address>;
//   - a function without an entry address gets a name unique to its handle,
//     with no stability guarantee across runs.
func (m *Master) pickFunctionName(c *Context, f *ir.Function) {
	addr, ok := f.EntryAddr(c.Program)
	if !ok {
		f.Name = fmt.Sprintf("func_noentry_%x", f.ID)
		return
	}

	name := c.Image.NameAt(addr)
	if name == "" {
		f.Name = fmt.Sprintf("func_%x", addr)
		return
	}

	clean := mangling.CleanName(name)
	f.Name = clean
	if name != clean {
		f.Comment = append(f.Comment, name)
	}
	if demangled := c.Image.Demangler().Demangle(name); strings.Contains(demangled, "(") {
		// What we demangled really has something to do with a function.
		f.Comment = append(f.Comment, demangled)
	}
}
