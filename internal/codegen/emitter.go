package codegen

import (
	"bufio"
	"fmt"
	"io"
)

// Register names for the 32-bit big-endian RISC target (spec.md §4.I).
const (
	RegACC  = "$a0"
	RegSELF = "$s0"
	RegSP   = "$sp"
	RegFP   = "$fp"
	RegRA   = "$ra"
	RegT1   = "$t1"
	RegT2   = "$t2"
	RegA1   = "$a1"
	RegZero = "$zero"
)

// WordSize is 4 bytes, per spec.md §6.
const WordSize = 4

// DefaultObjFields is the 3-word object header (tag, size, disp table
// pointer); attribute slots start immediately after it (spec.md §4.G).
const DefaultObjFields = 3

const (
	protObjSuffix  = "_protObj"
	dispTabSuffix  = "_dispTab"
	initSuffix     = "_init"
	labelPrefix    = "label"
)

// Emitter writes textual assembly instructions in the teacher-style
// `emit_*` vocabulary, one opcode per line (spec.md §4.I, grounded on the
// reference compiler's cgen.cc emit_* helpers).
type Emitter struct {
	w        *bufio.Writer
	labelSeq int
}

// NewEmitter wraps w for buffered assembly emission.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: bufio.NewWriter(w)}
}

// Flush flushes the underlying writer; callers must call this once done.
func (e *Emitter) Flush() error { return e.w.Flush() }

func (e *Emitter) line(format string, args ...interface{}) {
	fmt.Fprintf(e.w, format, args...)
	e.w.WriteByte('\n')
}

// NewLabel returns a fresh monotonically increasing label id (spec.md §5
// "a monotonic label counter").
func (e *Emitter) NewLabel() int {
	e.labelSeq++
	return e.labelSeq
}

// --- directives ---

func (e *Emitter) Text()            { e.line("\t.text") }
func (e *Emitter) Data()            { e.line("\t.data") }
func (e *Emitter) Globl(sym string) { e.line("\t.globl\t%s", sym) }
func (e *Emitter) Align(n int)      { e.line("\t.align\t%d", n) }
func (e *Emitter) WordLit(v int)    { e.line("\t.word\t%d", v) }
func (e *Emitter) WordSym(sym string) { e.line("\t.word\t%s", sym) }
func (e *Emitter) Ascii(s string)   { e.line("\t.ascii\t%q", s) }
func (e *Emitter) Byte(v int)       { e.line("\t.byte\t%d", v) }

// LabelDef emits `labelNN:` for a numeric label.
func (e *Emitter) LabelDef(l int) { fmt.Fprintf(e.w, "%s%d:\n", labelPrefix, l) }

// SymbolDef emits `name:` for a named symbol (class tables, protObjs, inits).
func (e *Emitter) SymbolDef(name string) { fmt.Fprintf(e.w, "%s:\n", name) }

// --- data/memory ---

func (e *Emitter) Load(dest string, offset int, src string) {
	e.line("\tlw\t%s %d(%s)", dest, offset*WordSize, src)
}
func (e *Emitter) Store(src string, offset int, dest string) {
	e.line("\tsw\t%s %d(%s)", src, offset*WordSize, dest)
}
func (e *Emitter) LoadImm(dest string, val int) { e.line("\tli\t%s %d", dest, val) }
func (e *Emitter) LoadAddress(dest, label string) {
	e.line("\tla\t%s %s", dest, label)
}
func (e *Emitter) Move(dest, src string) { e.line("\tmove\t%s %s", dest, src) }

// FetchInt / StoreInt read/write an Int/Bool box's boxed value slot
// (DEFAULT_OBJFIELDS offset, spec.md §6 object layout).
func (e *Emitter) FetchInt(dest, src string) { e.Load(dest, DefaultObjFields, src) }
func (e *Emitter) StoreInt(src, dest string) { e.Store(src, DefaultObjFields, dest) }

// --- arithmetic ---

func (e *Emitter) Add(dest, s1, s2 string)  { e.line("\tadd\t%s %s %s", dest, s1, s2) }
func (e *Emitter) Addiu(dest, s1 string, imm int) {
	e.line("\taddiu\t%s %s %d", dest, s1, imm)
}
func (e *Emitter) Sub(dest, s1, s2 string) { e.line("\tsub\t%s %s %s", dest, s1, s2) }
func (e *Emitter) Mul(dest, s1, s2 string) { e.line("\tmul\t%s %s %s", dest, s1, s2) }
func (e *Emitter) Div(dest, s1, s2 string) { e.line("\tdiv\t%s %s %s", dest, s1, s2) }
func (e *Emitter) Neg(dest, src string)    { e.line("\tneg\t%s %s", dest, src) }

// --- control flow ---

func (e *Emitter) Jalr(reg string)       { e.line("\tjalr\t%s", reg) }
func (e *Emitter) Jal(label string)      { e.line("\tjal\t%s", label) }
func (e *Emitter) Return()               { e.line("\tjr\t%s", RegRA) }
func (e *Emitter) Beqz(src string, l int) { e.line("\tbeqz\t%s %s%d", src, labelPrefix, l) }
func (e *Emitter) Beq(s1, s2 string, l int) {
	e.line("\tbeq\t%s %s %s%d", s1, s2, labelPrefix, l)
}
func (e *Emitter) Bne(s1, s2 string, l int) {
	e.line("\tbne\t%s %s %s%d", s1, s2, labelPrefix, l)
}
func (e *Emitter) Blt(s1, s2 string, l int) {
	e.line("\tblt\t%s %s %s%d", s1, s2, labelPrefix, l)
}
func (e *Emitter) Bleq(s1, s2 string, l int) {
	e.line("\tble\t%s %s %s%d", s1, s2, labelPrefix, l)
}
func (e *Emitter) Blti(src string, imm, l int) {
	e.line("\tblt\t%s %d %s%d", src, imm, labelPrefix, l)
}
func (e *Emitter) Bgti(src string, imm, l int) {
	e.line("\tbgt\t%s %d %s%d", src, imm, labelPrefix, l)
}
func (e *Emitter) Sll(dest, src string, n int) { e.line("\tsll\t%s %s %d", dest, src, n) }
func (e *Emitter) Branch(l int)                { e.line("\tb\t%s%d", labelPrefix, l) }

// --- stack discipline ---

// Push stores reg at 0(SP) then decrements SP by one word (spec.md §4.I
// frame contract); callers are responsible for tracking frame_height.
func (e *Emitter) Push(reg string) {
	e.Store(reg, 0, RegSP)
	e.Addiu(RegSP, RegSP, -WordSize)
}

// Prologue stores FP/SELF/RA, installs the new FP, and moves the receiver
// (passed in ACC) into SELF (spec.md §4.I).
func (e *Emitter) Prologue() {
	e.Addiu(RegSP, RegSP, -WordSize*3)
	e.Store(RegFP, 3, RegSP)
	e.Store(RegSELF, 2, RegSP)
	e.Store(RegRA, 1, RegSP)
	e.Addiu(RegFP, RegSP, WordSize*4)
	e.Move(RegSELF, RegACC)
}

// Epilogue restores FP/SELF/RA and pops the frame plus argCount argument
// words (spec.md §4.I).
func (e *Emitter) Epilogue(argCount int) {
	e.Load(RegFP, 3, RegSP)
	e.Load(RegSELF, 2, RegSP)
	e.Load(RegRA, 1, RegSP)
	e.Addiu(RegSP, RegSP, 12+WordSize*argCount)
	e.Return()
}

// --- GC ---

// GCAssign invokes the generational write barrier after a pointer store
// into reg at offset, when the generational collector is selected
// (spec.md §4.H, §6 `_GenGC_Assign`).
func (e *Emitter) GCAssign(reg string, offset int) {
	e.Addiu(RegA1, reg, offset*WordSize)
	e.Jal("_GenGC_Assign")
}

// --- name helpers ---

func ProtObjLabel(class string) string { return class + protObjSuffix }
func DispTabLabel(class string) string { return class + dispTabSuffix }
func InitLabel(class string) string    { return class + initSuffix }
func MethodLabel(class, method string) string { return class + "." + method }
