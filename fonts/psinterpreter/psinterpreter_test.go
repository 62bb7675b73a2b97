package psinterpreter

import "testing"

// recorder is a minimal Context that just remembers every operator it sees,
// along with the stack snapshot at the time of the call.
type recorder struct {
	ctx   PsContext
	ops   []PsOperator
	stack []int32
}

func (r *recorder) Context() PsContext { return r.ctx }

func (r *recorder) Apply(op PsOperator, state *Machine) error {
	r.ops = append(r.ops, op)
	got := make([]int32, state.ArgStack.Top)
	copy(got, state.ArgStack.Vals[:state.ArgStack.Top])
	r.stack = append(r.stack, got...)
	return state.ArgStack.PopN(state.ArgStack.Top)
}

func TestRunSingleByteOperand(t *testing.T) {
	// 100 encoded as a single byte (100 + 139 = 239), followed by operator 17
	// (CharStrings).
	buf := []byte{239, 17}
	var m Machine
	r := &recorder{ctx: TopDict}
	if err := m.Run(buf, nil, nil, r); err != nil {
		t.Fatal(err)
	}
	if len(r.ops) != 1 || r.ops[0].Operator != 17 || r.ops[0].IsEscaped {
		t.Fatalf("unexpected operators: %v", r.ops)
	}
	if len(r.stack) != 1 || r.stack[0] != 100 {
		t.Fatalf("unexpected operand: %v", r.stack)
	}
}

func TestRunEscapedOperator(t *testing.T) {
	// 2 (CharstringType) encoded as a single byte, followed by the escaped
	// operator 12 6.
	buf := []byte{2 + 139, 12, 6}
	var m Machine
	r := &recorder{ctx: TopDict}
	if err := m.Run(buf, nil, nil, r); err != nil {
		t.Fatal(err)
	}
	if len(r.ops) != 1 || !r.ops[0].IsEscaped || r.ops[0].Operator != 6 {
		t.Fatalf("unexpected operators: %v", r.ops)
	}
}

func TestRunTwoByteAndFiveByteIntegers(t *testing.T) {
	// 1000 as a two-byte int (28-code), -108 as the smallest two-byte form,
	// and 70000 as a five-byte int (29-code), then operator 18 (Private).
	buf := []byte{
		28, 0x03, 0xe8, // 1000
		251, 0, // -108
		29, 0x00, 0x01, 0x11, 0x70, // 70000
		18,
	}
	var m Machine
	r := &recorder{ctx: TopDict}
	if err := m.Run(buf, nil, nil, r); err != nil {
		t.Fatal(err)
	}
	want := []int32{1000, -108, 70000}
	if len(r.stack) != len(want) {
		t.Fatalf("got %v, want %v", r.stack, want)
	}
	for i, v := range want {
		if r.stack[i] != v {
			t.Fatalf("got %v, want %v", r.stack, want)
		}
	}
}

func TestPopNNegativeClearsStack(t *testing.T) {
	var s PsStack
	s.push(1)
	s.push(2)
	s.push(3)
	if err := s.PopN(-1); err != nil {
		t.Fatal(err)
	}
	if s.Top != 0 {
		t.Fatalf("expected empty stack, got Top=%d", s.Top)
	}
}

func TestPopNUnderflowErrors(t *testing.T) {
	var s PsStack
	s.push(1)
	if err := s.PopN(2); err == nil {
		t.Fatal("expected underflow error")
	}
}

func TestRunReservedByteErrors(t *testing.T) {
	var m Machine
	r := &recorder{ctx: TopDict}
	if err := m.Run([]byte{31}, nil, nil, r); err == nil {
		t.Fatal("expected error on reserved byte")
	}
}
