package cpu

import (
	"testing"

	"github.com/gotransputer/transputer/emu/memory"
)

func newTestCPU(t *testing.T) *CPU {
	t.Helper()
	mem := memory.New(64 * 1024)
	return New(mem, 0x80000000, nil)
}

// Scenario 1: hello push. bytes [0x42, 0xD0] (LDC 2; STL 0), WPtr =
// 0x1000, leaves mem.read_word(0x1000) == 2.
func TestScenarioHelloPush(t *testing.T) {
	c := newTestCPU(t)
	c.WPtr = 0x1000
	prog := []byte{0x42, 0xD0}
	for i, b := range prog {
		if err := c.Mem.WriteByte(uint32(i), b); err != nil {
			t.Fatalf("WriteByte: %v", err)
		}
	}
	for range prog {
		if err := c.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	v, err := c.Mem.ReadWord(0x1000)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if v != 2 {
		t.Errorf("mem[0x1000] = %d, want 2", v)
	}
}

// Scenario 2: prefixed constant. [0x24, 0x23, 0x42, 0xD0] leaves
// mem.read_word(0x1000) == 0x432.
func TestScenarioPrefixedConstant(t *testing.T) {
	c := newTestCPU(t)
	c.WPtr = 0x1000
	prog := []byte{0x24, 0x23, 0x42, 0xD0}
	for i, b := range prog {
		if err := c.Mem.WriteByte(uint32(i), b); err != nil {
			t.Fatalf("WriteByte: %v", err)
		}
	}
	for range prog {
		if err := c.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	v, err := c.Mem.ReadWord(0x1000)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if v != 0x432 {
		t.Errorf("mem[0x1000] = %#x, want 0x432", v)
	}
}

// Scenario 3: add with overflow. A=0x7FFFFFFF, B=1, C=9, OPR 0x05 (ADD)
// yields A=-0x80000000 (wrapped), B=9, Error set.
func TestScenarioAddOverflow(t *testing.T) {
	c := newTestCPU(t)
	c.A, c.B, c.C = 0x7FFFFFFF, 1, 9
	if err := c.dispatchIndirect(0x05); err != nil {
		t.Fatalf("dispatchIndirect(ADD): %v", err)
	}
	if c.A != -0x80000000 {
		t.Errorf("A = %#x, want -0x80000000", c.A)
	}
	if c.B != 9 {
		t.Errorf("B = %d, want 9", c.B)
	}
	if !c.Error {
		t.Error("Error flag not set on overflow")
	}
}

// Scenario 4: and with stack slide. A=0b011111, B=0b101010, C=15, then
// PFIX 4; OPR 0xB yields A=0b001010, B=15.
func TestScenarioAndStackSlide(t *testing.T) {
	c := newTestCPU(t)
	c.A, c.B, c.C = 0b011111, 0b101010, 15
	c.Prefix(4)
	e := c.Effective(0xB)
	if err := c.dispatchIndirect(e); err != nil {
		t.Fatalf("dispatchIndirect(AND): %v", err)
	}
	if c.A != 0b001010 {
		t.Errorf("A = %#b, want 0b001010", c.A)
	}
	if c.B != 15 {
		t.Errorf("B = %d, want 15", c.B)
	}
}

// Scenario 5: conditional jump not taken, then taken.
func TestScenarioConditionalJump(t *testing.T) {
	c := newTestCPU(t)
	c.WPtr = 0x2000
	prog := []byte{
		0x41,       // LDC 1
		0xC1,       // EQC 1
		0xA4,       // CJ 4
		0x42,       // LDC 2
		0xC1,       // EQC 1
		0xA4,       // CJ 4
	}
	for i, b := range prog {
		if err := c.Mem.WriteByte(uint32(i), b); err != nil {
			t.Fatalf("WriteByte: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	if c.IPtr != 3 {
		t.Errorf("after first CJ, IPtr = %d, want 3 (not taken)", c.IPtr)
	}
	for i := 0; i < 3; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	if c.IPtr <= 3+5 {
		t.Errorf("after second CJ, IPtr = %d, want > 8 (taken)", c.IPtr)
	}
}

// Scenario 6: bit reverse word. A=0x12345678; PFIX 7; OPR 7 yields
// A=0x1E6A2C48.
func TestScenarioBitReverseWord(t *testing.T) {
	c := newTestCPU(t)
	c.A = 0x12345678
	c.Prefix(7)
	e := c.Effective(7)
	if err := c.dispatchIndirect(e); err != nil {
		t.Fatalf("dispatchIndirect(BITREVWORD): %v", err)
	}
	if uint32(c.A) != 0x1E6A2C48 {
		t.Errorf("A = %#x, want 0x1e6a2c48", uint32(c.A))
	}
}

func TestCallThenRetRoundTrips(t *testing.T) {
	c := newTestCPU(t)
	c.WPtr = 0x4000
	c.A, c.B, c.C = 11, 22, 33
	c.IPtr = 0x100
	if err := opCALL(c, 0x10); err != nil {
		t.Fatalf("CALL: %v", err)
	}
	if c.WPtr != 0x4000-16 {
		t.Fatalf("WPtr after CALL = %#x, want %#x", c.WPtr, 0x4000-16)
	}
	if c.IPtr != 0x110 {
		t.Fatalf("IPtr after CALL = %#x, want 0x110", c.IPtr)
	}
	c.A, c.B, c.C = 0, 0, 0 // simulate work done inside the call
	if err := opRET(c); err != nil {
		t.Fatalf("RET: %v", err)
	}
	if c.WPtr != 0x4000 {
		t.Errorf("WPtr after RET = %#x, want 0x4000", c.WPtr)
	}
	if c.IPtr != 0x100 {
		t.Errorf("IPtr after RET = %#x, want 0x100", c.IPtr)
	}
	if c.A != 11 || c.B != 22 || c.C != 33 {
		t.Errorf("registers after RET = %d,%d,%d, want 11,22,33", c.A, c.B, c.C)
	}
}

func TestReservedOpcodeSetsErrorAndHalts(t *testing.T) {
	c := newTestCPU(t)
	if err := c.dispatchIndirect(0xE0); err == nil {
		t.Fatal("expected ErrUnimplemented for ALT")
	}
	if !c.Error {
		t.Error("Error flag not set for reserved opcode")
	}
	if !c.Halted {
		t.Error("reserved opcode did not halt with HaltOnError set")
	}
}

func TestUnknownIndirectOpcodeIsFatal(t *testing.T) {
	c := newTestCPU(t)
	err := c.dispatchIndirect(0x99)
	if err == nil {
		t.Fatal("expected error for unknown indirect opcode")
	}
	if !c.Error || !c.Halted {
		t.Error("unknown opcode should set Error and Halted")
	}
}

func TestStepOnHaltedReturnsErrHalted(t *testing.T) {
	c := newTestCPU(t)
	c.Halted = true
	if err := c.Step(); err != ErrHalted {
		t.Errorf("Step on halted CPU = %v, want ErrHalted", err)
	}
}

func TestInspectorAPI(t *testing.T) {
	c := newTestCPU(t)
	c.IPtr = 0x123
	c.WPtr = 0x456
	c.A, c.B, c.C = 1, 2, 3
	if c.ProgramCounter() != 0x123 {
		t.Errorf("ProgramCounter() = %#x, want 0x123", c.ProgramCounter())
	}
	if c.WorkspacePointer() != 0x456 {
		t.Errorf("WorkspacePointer() = %#x, want 0x456", c.WorkspacePointer())
	}
	if c.Reg(0) != 1 || c.Reg(1) != 2 || c.Reg(2) != 3 {
		t.Errorf("Reg(0..2) = %d,%d,%d, want 1,2,3", c.Reg(0), c.Reg(1), c.Reg(2))
	}
	if c.State() != RunActive {
		t.Errorf("State() = %v, want RunActive", c.State())
	}
	c.Halted = true
	if c.State() != RunHalted {
		t.Errorf("State() = %v, want RunHalted", c.State())
	}
}
