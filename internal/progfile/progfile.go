// Package progfile reads and writes lifted programs on disk. The format is a
// schema-versioned msgpack payload carrying the image metadata, the symbol
// table, and the IR arenas; handles survive a round trip unchanged because
// arena order is preserved. Persistence of intermediate artifacts is the
// host's concern — the analysis core itself defines no on-disk format.
package progfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"drift/internal/arch"
	"drift/internal/image"
	"drift/internal/ir"
)

// Current schema version - increment when the payload format changes.
const schemaVersion uint16 = 1

// ErrSchema reports a payload written by an incompatible drift version.
var ErrSchema = errors.New("unsupported program file schema")

type symbolRec struct {
	Addr uint64 `msgpack:"a"`
	Name string `msgpack:"n"`
}

type termRec struct {
	Kind   uint8 `msgpack:"k"`
	Access uint8 `msgpack:"ac"`
	Source int32 `msgpack:"src"`

	Value     uint64 `msgpack:"v"`
	Size      uint32 `msgpack:"sz"`
	Intrinsic uint8  `msgpack:"in"`
	Domain    int32  `msgpack:"d"`
	Offset    uint64 `msgpack:"o"`
	LocSize   uint32 `msgpack:"ls"`
	Op        uint8  `msgpack:"op"`
	Left      int32  `msgpack:"l"`
	Right     int32  `msgpack:"r"`
}

type stmtRec struct {
	Kind    uint8  `msgpack:"k"`
	Addr    uint64 `msgpack:"a"`
	HasAddr bool   `msgpack:"ha"`

	Text      string `msgpack:"t"`
	Left      int32  `msgpack:"l"`
	Right     int32  `msgpack:"r"`
	Cond      int32  `msgpack:"c"`
	ThenAddr  int32  `msgpack:"ta"`
	ThenBlock int32  `msgpack:"tb"`
	ElseAddr  int32  `msgpack:"ea"`
	ElseBlock int32  `msgpack:"eb"`
	Target    int32  `msgpack:"tg"`
}

type blockRec struct {
	Addr    uint64  `msgpack:"a"`
	HasAddr bool    `msgpack:"ha"`
	Stmts   []int32 `msgpack:"s"`
}

type funcRec struct {
	Name   string  `msgpack:"n"`
	Entry  int32   `msgpack:"e"`
	Blocks []int32 `msgpack:"b"`
}

type payload struct {
	Schema  uint16      `msgpack:"schema"`
	Image   string      `msgpack:"image"`
	Arch    string      `msgpack:"arch"`
	Bitness uint32      `msgpack:"bitness"`
	Symbols []symbolRec `msgpack:"symbols"`
	Terms   []termRec   `msgpack:"terms"`
	Stmts   []stmtRec   `msgpack:"stmts"`
	Blocks  []blockRec  `msgpack:"blocks"`
	Funcs   []funcRec   `msgpack:"funcs"`
}

// Bundle is everything a program file carries.
type Bundle struct {
	Image     *image.Image
	Program   *ir.Program
	Functions *ir.Functions
}

// Encode writes a bundle to w.
func Encode(w io.Writer, b *Bundle) error {
	pl, err := toPayload(b)
	if err != nil {
		return err
	}
	return msgpack.NewEncoder(w).Encode(pl)
}

// Decode reads a bundle from r and validates the reconstructed program.
func Decode(r io.Reader) (*Bundle, error) {
	var pl payload
	if err := msgpack.NewDecoder(r).Decode(&pl); err != nil {
		return nil, err
	}
	if pl.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, pl.Schema, schemaVersion)
	}
	return fromPayload(&pl)
}

// Save writes a bundle to path atomically.
func Save(path string, b *Bundle) error {
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := Encode(f, b); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Load reads a bundle from path.
func Load(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func toPayload(b *Bundle) (*payload, error) {
	for _, n := range []int{b.Program.NumTerms(), b.Program.NumStmts(), b.Program.NumBlocks()} {
		if _, err := safecast.Conv[int32](n); err != nil {
			return nil, fmt.Errorf("program too large for file format: %w", err)
		}
	}
	pl := &payload{
		Schema: schemaVersion,
	}
	if b.Image != nil {
		pl.Image = b.Image.Name()
		pl.Arch = b.Image.Arch().Name()
		pl.Bitness = b.Image.Arch().Bitness()
		for _, s := range b.Image.Symbols() {
			pl.Symbols = append(pl.Symbols, symbolRec{Addr: s.Addr, Name: s.Name})
		}
	}
	p := b.Program
	for id := ir.TermID(0); int(id) < p.NumTerms(); id++ {
		pl.Terms = append(pl.Terms, encodeTerm(p.Term(id)))
	}
	for id := ir.StmtID(0); int(id) < p.NumStmts(); id++ {
		pl.Stmts = append(pl.Stmts, encodeStmt(p.Stmt(id)))
	}
	for id := ir.BlockID(0); int(id) < p.NumBlocks(); id++ {
		blk := p.Block(id)
		rec := blockRec{Addr: blk.Addr, HasAddr: blk.HasAddr}
		for _, sid := range blk.Stmts {
			rec.Stmts = append(rec.Stmts, int32(sid))
		}
		pl.Blocks = append(pl.Blocks, rec)
	}
	if b.Functions != nil {
		for _, f := range b.Functions.Funcs {
			rec := funcRec{Name: f.Name, Entry: int32(f.Entry)}
			for _, bid := range f.Blocks {
				rec.Blocks = append(rec.Blocks, int32(bid))
			}
			pl.Funcs = append(pl.Funcs, rec)
		}
	}
	return pl, nil
}

func encodeTerm(t *ir.Term) termRec {
	rec := termRec{
		Kind:   uint8(t.Kind),
		Access: uint8(t.Access),
		Source: int32(t.Source),
	}
	switch t.Kind {
	case ir.TermIntConst:
		rec.Value = t.IntConst.Value
		rec.Size = t.IntConst.Size
	case ir.TermIntrinsic:
		rec.Intrinsic = uint8(t.Intrinsic.Intrinsic)
		rec.Size = t.Intrinsic.Size
	case ir.TermMemoryLocationAccess:
		rec.Domain = int32(t.MemAccess.Loc.Domain)
		rec.Offset = t.MemAccess.Loc.Offset
		rec.LocSize = t.MemAccess.Loc.Size
	case ir.TermDereference:
		rec.Left = int32(t.Deref.Addr)
		rec.Size = t.Deref.Size
	case ir.TermUnaryOperator:
		rec.Op = uint8(t.Unary.Op)
		rec.Left = int32(t.Unary.Operand)
		rec.Size = t.Unary.Size
	case ir.TermBinaryOperator:
		rec.Op = uint8(t.Binary.Op)
		rec.Left = int32(t.Binary.Left)
		rec.Right = int32(t.Binary.Right)
		rec.Size = t.Binary.Size
	case ir.TermChoice:
		rec.Left = int32(t.Choice.Preferred)
		rec.Right = int32(t.Choice.Dflt)
	}
	return rec
}

func encodeStmt(s *ir.Statement) stmtRec {
	rec := stmtRec{
		Kind:    uint8(s.Kind),
		Addr:    s.Addr,
		HasAddr: s.HasAddr,
	}
	switch s.Kind {
	case ir.StmtComment:
		rec.Text = s.Comment.Text
	case ir.StmtInlineCode:
		rec.Text = s.Inline.Text
	case ir.StmtAssignment:
		rec.Left = int32(s.Assign.Left)
		rec.Right = int32(s.Assign.Right)
	case ir.StmtKill:
		rec.Left = int32(s.Kill.Term)
	case ir.StmtJump:
		rec.Cond = int32(s.Jump.Cond)
		rec.ThenAddr = int32(s.Jump.Then.Addr)
		rec.ThenBlock = int32(s.Jump.Then.Block)
		rec.ElseAddr = int32(s.Jump.Else.Addr)
		rec.ElseBlock = int32(s.Jump.Else.Block)
	case ir.StmtCall:
		rec.Target = int32(s.Call.Target)
	}
	return rec
}

func fromPayload(pl *payload) (*Bundle, error) {
	a := arch.New(pl.Arch, pl.Bitness)
	img := image.New(pl.Image, a)
	for _, s := range pl.Symbols {
		img.AddSymbol(s.Addr, s.Name)
	}

	p := ir.NewProgram()
	for i := range pl.Terms {
		p.NewTerm(decodeTerm(&pl.Terms[i]))
	}
	for i := range pl.Stmts {
		p.NewStmt(decodeStmt(&pl.Stmts[i]))
	}
	for i := range pl.Blocks {
		rec := &pl.Blocks[i]
		bid := p.NewBlock(rec.Addr, rec.HasAddr)
		for _, sid := range rec.Stmts {
			p.AppendStmt(bid, ir.StmtID(sid))
		}
	}

	fns := &ir.Functions{}
	for i := range pl.Funcs {
		rec := &pl.Funcs[i]
		f := &ir.Function{Name: rec.Name, Entry: ir.BlockID(rec.Entry)}
		for _, bid := range rec.Blocks {
			f.Blocks = append(f.Blocks, ir.BlockID(bid))
		}
		fns.Add(f)
	}

	if err := ir.Validate(p, fns); err != nil {
		return nil, fmt.Errorf("corrupt program file: %w", err)
	}
	return &Bundle{Image: img, Program: p, Functions: fns}, nil
}

func decodeTerm(rec *termRec) ir.Term {
	t := ir.Term{
		Kind:   ir.TermKind(rec.Kind),
		Access: ir.Access(rec.Access),
		Source: ir.TermID(rec.Source),
	}
	switch t.Kind {
	case ir.TermIntConst:
		t.IntConst = ir.IntConstTerm{Value: rec.Value, Size: rec.Size}
	case ir.TermIntrinsic:
		t.Intrinsic = ir.IntrinsicTerm{Intrinsic: ir.IntrinsicKind(rec.Intrinsic), Size: rec.Size}
	case ir.TermMemoryLocationAccess:
		t.MemAccess = ir.MemoryLocationAccessTerm{Loc: ir.MemoryLocation{
			Domain: ir.Domain(rec.Domain),
			Offset: rec.Offset,
			Size:   rec.LocSize,
		}}
	case ir.TermDereference:
		t.Deref = ir.DereferenceTerm{Addr: ir.TermID(rec.Left), Size: rec.Size}
	case ir.TermUnaryOperator:
		t.Unary = ir.UnaryOperatorTerm{Op: ir.UnaryOp(rec.Op), Operand: ir.TermID(rec.Left), Size: rec.Size}
	case ir.TermBinaryOperator:
		t.Binary = ir.BinaryOperatorTerm{
			Op:    ir.BinaryOp(rec.Op),
			Left:  ir.TermID(rec.Left),
			Right: ir.TermID(rec.Right),
			Size:  rec.Size,
		}
	case ir.TermChoice:
		t.Choice = ir.ChoiceTerm{Preferred: ir.TermID(rec.Left), Dflt: ir.TermID(rec.Right)}
	}
	return t
}

func decodeStmt(rec *stmtRec) ir.Statement {
	s := ir.Statement{
		Kind:    ir.StmtKind(rec.Kind),
		Addr:    rec.Addr,
		HasAddr: rec.HasAddr,
	}
	switch s.Kind {
	case ir.StmtComment:
		s.Comment = ir.CommentStmt{Text: rec.Text}
	case ir.StmtInlineCode:
		s.Inline = ir.InlineCodeStmt{Text: rec.Text}
	case ir.StmtAssignment:
		s.Assign = ir.AssignmentStmt{Left: ir.TermID(rec.Left), Right: ir.TermID(rec.Right)}
	case ir.StmtKill:
		s.Kill = ir.KillStmt{Term: ir.TermID(rec.Left)}
	case ir.StmtJump:
		s.Jump = ir.JumpStmt{
			Cond: ir.TermID(rec.Cond),
			Then: ir.JumpTarget{Addr: ir.TermID(rec.ThenAddr), Block: ir.BlockID(rec.ThenBlock)},
			Else: ir.JumpTarget{Addr: ir.TermID(rec.ElseAddr), Block: ir.BlockID(rec.ElseBlock)},
		}
	case ir.StmtCall:
		s.Call = ir.CallStmt{Target: ir.TermID(rec.Target)}
	}
	return s
}

// Stat summarizes a program file for display.
type Stat struct {
	Image     string
	Arch      string
	Bitness   uint32
	Symbols   int
	Terms     int
	Stmts     int
	Blocks    int
	Functions int
}

// StatOf summarizes a bundle.
func StatOf(b *Bundle) Stat {
	st := Stat{
		Terms:  b.Program.NumTerms(),
		Stmts:  b.Program.NumStmts(),
		Blocks: b.Program.NumBlocks(),
	}
	if b.Image != nil {
		st.Image = b.Image.Name()
		st.Arch = b.Image.Arch().Name()
		st.Bitness = b.Image.Arch().Bitness()
		st.Symbols = len(b.Image.Symbols())
	}
	if b.Functions != nil {
		st.Functions = b.Functions.Len()
	}
	return st
}
