package ir

import (
	"errors"
	"fmt"
)

// Validate checks arena and reference invariants of a program and its
// functions. A violation means the lifter or partitioner handed the analysis
// layers a malformed program; the pipeline treats it as fatal.
func Validate(p *Program, fns *Functions) error {
	if p == nil {
		return errors.New("nil program")
	}
	var errs []error
	for sid := StmtID(0); int(sid) < p.NumStmts(); sid++ {
		if err := validateStmt(p, sid); err != nil {
			errs = append(errs, fmt.Errorf("statement %d: %w", sid, err))
		}
	}
	for tid := TermID(0); int(tid) < p.NumTerms(); tid++ {
		if err := validateTerm(p, tid); err != nil {
			errs = append(errs, fmt.Errorf("term %d: %w", tid, err))
		}
	}
	if fns != nil {
		for _, f := range fns.Funcs {
			if err := validateFunc(p, f); err != nil {
				errs = append(errs, fmt.Errorf("function %q: %w", f.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

func validateFunc(p *Program, f *Function) error {
	if f == nil {
		return nil
	}
	var errs []error
	if f.Entry != NoBlockID && !p.ValidBlock(f.Entry) {
		errs = append(errs, fmt.Errorf("entry block %d out of range", f.Entry))
	}
	for _, bid := range f.Blocks {
		if !p.ValidBlock(bid) {
			errs = append(errs, fmt.Errorf("block %d out of range", bid))
			continue
		}
		for _, sid := range p.Block(bid).Stmts {
			if !p.ValidStmt(sid) {
				errs = append(errs, fmt.Errorf("block %d: statement %d out of range", bid, sid))
			}
		}
	}
	return errors.Join(errs...)
}

func validateStmt(p *Program, sid StmtID) error {
	s := p.Stmt(sid)
	var errs []error
	ref := func(what string, id TermID) {
		if id != NoTermID && !p.ValidTerm(id) {
			errs = append(errs, fmt.Errorf("%s term %d out of range", what, id))
		}
	}
	switch s.Kind {
	case StmtComment, StmtInlineCode, StmtReturn:
	case StmtAssignment:
		ref("left", s.Assign.Left)
		ref("right", s.Assign.Right)
		if p.ValidTerm(s.Assign.Left) && !p.Term(s.Assign.Left).Access.IsWrite() {
			errs = append(errs, errors.New("assignment destination is not a write term"))
		}
		if p.ValidTerm(s.Assign.Right) && !p.Term(s.Assign.Right).Access.IsRead() {
			errs = append(errs, errors.New("assignment source is not a read term"))
		}
	case StmtKill:
		ref("killed", s.Kill.Term)
	case StmtJump:
		ref("condition", s.Jump.Cond)
		ref("then address", s.Jump.Then.Addr)
		ref("else address", s.Jump.Else.Addr)
		if !s.Jump.Then.IsValid() {
			errs = append(errs, errors.New("jump without a then target"))
		}
		if s.Jump.Then.Block != NoBlockID && !p.ValidBlock(s.Jump.Then.Block) {
			errs = append(errs, fmt.Errorf("then block %d out of range", s.Jump.Then.Block))
		}
		if s.Jump.Else.Block != NoBlockID && !p.ValidBlock(s.Jump.Else.Block) {
			errs = append(errs, fmt.Errorf("else block %d out of range", s.Jump.Else.Block))
		}
	case StmtCall:
		ref("target", s.Call.Target)
		if s.Call.Target == NoTermID {
			errs = append(errs, errors.New("call without a target"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown statement kind %d", s.Kind))
	}
	return errors.Join(errs...)
}

func validateTerm(p *Program, tid TermID) error {
	t := p.Term(tid)
	var errs []error
	ref := func(what string, id TermID) {
		if id != NoTermID && !p.ValidTerm(id) {
			errs = append(errs, fmt.Errorf("%s term %d out of range", what, id))
		}
	}
	ref("source", t.Source)
	switch t.Kind {
	case TermIntConst, TermIntrinsic, TermUndefined, TermMemoryLocationAccess:
	case TermDereference:
		ref("address", t.Deref.Addr)
		if t.Deref.Addr == NoTermID {
			errs = append(errs, errors.New("dereference without an address"))
		}
	case TermUnaryOperator:
		ref("operand", t.Unary.Operand)
	case TermBinaryOperator:
		ref("left", t.Binary.Left)
		ref("right", t.Binary.Right)
	case TermChoice:
		ref("preferred", t.Choice.Preferred)
		ref("default", t.Choice.Dflt)
	default:
		errs = append(errs, fmt.Errorf("unknown term kind %d", t.Kind))
	}
	return errors.Join(errs...)
}
