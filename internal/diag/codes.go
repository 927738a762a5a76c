package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Pipeline.
	PipeInfo       Code = 1000
	PipePassFailed Code = 1001
	PipeCancelled  Code = 1002
	PipeBadProgram Code = 1003

	// Liveness.
	LiveInfo                 Code = 2000
	LiveUnsupportedStatement Code = 2001
	LiveUnsupportedTerm      Code = 2002

	// Tree generation and checking.
	TreeInfo             Code = 3000
	TreeForeignStatement Code = 3001
	TreeForeignTerm      Code = 3002

	// Program file loading.
	ProgInfo      Code = 4000
	ProgBadSchema Code = 4001
)

func (c Code) String() string {
	return fmt.Sprintf("DRIFT%04d", uint16(c))
}
