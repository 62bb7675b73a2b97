// Package psinterpreter implements the small stack machine used to
// decode the PostScript-flavoured DICT structures found in Compact
// Font Format (CFF) font programs, as described by 5176.CFF.pdf
// section 4 "DICT Data".
//
// The design (a byte-code interpreter pushing operands onto a fixed
// size stack and dispatching named operators to a pluggable context)
// is adapted from the CFF DICT/Type 2 charstring interpreter in
// golang.org/x/image/font/sfnt.
package psinterpreter

import (
	"errors"
	"fmt"
)

// PsContext identifies which DICT grammar a Machine is currently
// interpreting. Top DICT and Private DICT share the same byte
// encoding; only their operator tables differ, which is why Context
// is carried by the Apply callback rather than by Machine itself.
type PsContext uint8

const (
	TopDict PsContext = iota
	PrivateDict
)

func (c PsContext) String() string {
	switch c {
	case TopDict:
		return "Top DICT"
	case PrivateDict:
		return "Private DICT"
	default:
		return "unknown DICT"
	}
}

// PsOperator identifies one DICT operator. Operators in the range
// 0-21 are one byte; operator 12 is an escape byte introducing a
// second byte, in which case IsEscaped is true and Operator holds
// that second byte.
type PsOperator struct {
	Operator  byte
	IsEscaped bool
}

func (op PsOperator) String() string {
	if op.IsEscaped {
		return fmt.Sprintf("12 %d", op.Operator)
	}
	return fmt.Sprintf("%d", op.Operator)
}

// maxStackSize follows 5176.CFF.pdf section 4, which bounds a DICT
// operand list to 48 entries.
const maxStackSize = 48

// PsStack is the operand stack built while a DICT is being walked.
type PsStack struct {
	Vals [maxStackSize]int32
	Top  int32
}

func (s *PsStack) push(v int32) error {
	if int(s.Top) >= len(s.Vals) {
		return errors.New("invalid DICT data: operand stack overflow")
	}
	s.Vals[s.Top] = v
	s.Top++
	return nil
}

// PopN discards the n topmost operands. A negative n (the "array" and
// "delta" operand kinds of 5176.CFF.pdf Table 6) discards the whole
// stack, since those operators consume every operand pushed so far.
func (s *PsStack) PopN(n int32) error {
	if n < 0 {
		s.Top = 0
		return nil
	}
	if n > s.Top {
		return fmt.Errorf("invalid DICT data: want %d operands, have %d", n, s.Top)
	}
	s.Top -= n
	return nil
}

// Context is implemented by the receiver of a DICT walk: it tells the
// Machine which operator table applies and reacts to every operator
// encountered.
type Context interface {
	Context() PsContext
	Apply(op PsOperator, state *Machine) error
}

// Machine interprets a single CFF DICT, as produced by the Top DICT
// INDEX or a Private DICT.
type Machine struct {
	ArgStack PsStack
}

// Run walks buf, a single DICT, pushing its operands onto m.ArgStack
// and dispatching every operator to ctx.Apply. globalSubrs and
// localSubrs are accepted for symmetry with charstring interpreters
// that share this Machine type, but are unused when decoding a DICT.
func (m *Machine) Run(buf []byte, globalSubrs, localSubrs [][]byte, ctx Context) error {
	m.ArgStack.Top = 0
	for i := 0; i < len(buf); {
		b0 := buf[i]
		switch {
		case b0 <= 21:
			op := PsOperator{Operator: b0}
			i++
			if b0 == 12 {
				if i >= len(buf) {
					return errors.New("invalid DICT data: truncated escape operator")
				}
				op.IsEscaped = true
				op.Operator = buf[i]
				i++
			}
			if err := ctx.Apply(op, m); err != nil {
				return err
			}
		case b0 == 28:
			if i+3 > len(buf) {
				return errors.New("invalid DICT data: truncated 16-bit integer")
			}
			v := int32(int16(uint16(buf[i+1])<<8 | uint16(buf[i+2])))
			if err := m.ArgStack.push(v); err != nil {
				return err
			}
			i += 3
		case b0 == 29:
			if i+5 > len(buf) {
				return errors.New("invalid DICT data: truncated 32-bit integer")
			}
			v := int32(uint32(buf[i+1])<<24 | uint32(buf[i+2])<<16 | uint32(buf[i+3])<<8 | uint32(buf[i+4]))
			if err := m.ArgStack.push(v); err != nil {
				return err
			}
			i += 5
		case b0 == 30:
			// Real number, nibble encoded and terminated by a 0xf nibble
			// (5176.CFF.pdf Table 5). The fields this package's callers
			// read are all integers, so the value itself is discarded;
			// we still need to advance past it and keep the stack shape.
			i++
			for i < len(buf) {
				b := buf[i]
				i++
				if b&0x0f == 0x0f || b>>4 == 0x0f {
					break
				}
			}
			if err := m.ArgStack.push(0); err != nil {
				return err
			}
		case b0 >= 32 && b0 <= 246:
			if err := m.ArgStack.push(int32(b0) - 139); err != nil {
				return err
			}
			i++
		case b0 >= 247 && b0 <= 250:
			if i+2 > len(buf) {
				return errors.New("invalid DICT data: truncated integer")
			}
			v := (int32(b0)-247)*256 + int32(buf[i+1]) + 108
			if err := m.ArgStack.push(v); err != nil {
				return err
			}
			i += 2
		case b0 >= 251 && b0 <= 254:
			if i+2 > len(buf) {
				return errors.New("invalid DICT data: truncated integer")
			}
			v := -(int32(b0)-251)*256 - int32(buf[i+1]) - 108
			if err := m.ArgStack.push(v); err != nil {
				return err
			}
			i += 2
		default:
			return fmt.Errorf("invalid DICT data: reserved byte %d", b0)
		}
	}
	return nil
}
