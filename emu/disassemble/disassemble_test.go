package disassemble

import (
	"testing"

	"github.com/gotransputer/transputer/emu/opcode"
)

func TestDecodeSplitsNibbles(t *testing.T) {
	op, nib := Decode(0xD0)
	if op != 0xD || nib != 0 {
		t.Errorf("Decode(0xD0) = %d,%d, want 13,0", op, nib)
	}
}

func TestDisassembleHelloPush(t *testing.T) {
	lines := Disassemble([]byte{0x42, 0xD0})
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Mnemonic != "LDC" || lines[0].Operand != "0x2" {
		t.Errorf("line 0 = %s %s, want LDC 0x2", lines[0].Mnemonic, lines[0].Operand)
	}
	if lines[1].Mnemonic != "STL" || lines[1].Operand != "0x0" {
		t.Errorf("line 1 = %s %s, want STL 0x0", lines[1].Mnemonic, lines[1].Operand)
	}
}

// §8: PFIX 4; PFIX 3; LDC 2 folds into one LDC line with operand 0x432.
func TestDisassembleFoldsPrefixRun(t *testing.T) {
	lines := Disassemble([]byte{0x24, 0x23, 0x42})
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].Mnemonic != "LDC" || lines[0].Operand != "0x432" {
		t.Errorf("line 0 = %s %s, want LDC 0x432", lines[0].Mnemonic, lines[0].Operand)
	}
	if lines[0].Addr != 0 {
		t.Errorf("Addr = %d, want 0 (the run's first byte)", lines[0].Addr)
	}
	if len(lines[0].Bytes) != 3 {
		t.Errorf("Bytes = %#v, want all 3 bytes of the run", lines[0].Bytes)
	}
}

func TestDisassembleIndirectMnemonic(t *testing.T) {
	lines := Disassemble([]byte{0xF5}) // ADD = 0x05
	if len(lines) != 1 || lines[0].Mnemonic != "ADD" || lines[0].HasOp {
		t.Errorf("line = %+v, want bare ADD", lines[0])
	}
}

func TestDisassembleSecondAddressAdvancesByRunLength(t *testing.T) {
	lines := Disassemble([]byte{0x24, 0x23, 0x42, 0xD0}) // LDC 0x432; STL 0
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[1].Addr != 3 {
		t.Errorf("second line Addr = %d, want 3", lines[1].Addr)
	}
}

func TestDisassemblePrefixedIndirectShowsName(t *testing.T) {
	// BITREVWORD lives at 0x77, which needs PFIX 7 first.
	lines := Disassemble([]byte{0x27, 0xF7})
	if len(lines) != 1 || lines[0].Mnemonic != "BITREVWORD" {
		t.Errorf("line = %+v, want BITREVWORD", lines[0])
	}
}

func TestMnemonicHelper(t *testing.T) {
	if got := Mnemonic(opcode.LDC, 5); got != "LDC 0x5" {
		t.Errorf("Mnemonic(LDC,5) = %q, want %q", got, "LDC 0x5")
	}
}
