package assemble

import "testing"

func assembleOK(t *testing.T, source string) *Program {
	t.Helper()
	p, err := Assemble(source)
	if err != nil {
		t.Fatalf("Assemble(%q): %v", source, err)
	}
	return p
}

func checkBytes(t *testing.T, got []byte, want ...byte) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d bytes %#v, want %#v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

// Scenario 1: hello push.
func TestAssembleHelloPush(t *testing.T) {
	p := assembleOK(t, "LDC 2\nSTL 0\n")
	checkBytes(t, p.Bytes, 0x42, 0xD0)
}

// §8: assembling LDC 0x432 produces exactly PFIX 4, PFIX 3, LDC 2.
func TestAssemblePrefixedConstant(t *testing.T) {
	p := assembleOK(t, "LDC 0x432\n")
	checkBytes(t, p.Bytes, 0x24, 0x23, 0x42)
}

func TestAssembleNegativeOperand(t *testing.T) {
	p := assembleOK(t, "LDC -1\n")
	checkBytes(t, p.Bytes, 0x60, 0x4F)
}

// A secondary mnemonic needs no operand token of its own; its numeric
// value is the operand, prefixed as needed.
func TestAssembleSecondaryMnemonic(t *testing.T) {
	p := assembleOK(t, "ADD\n")
	checkBytes(t, p.Bytes, 0xF5)
}

func TestAssembleSecondaryMnemonicNeedingPrefix(t *testing.T) {
	p := assembleOK(t, "BITREVWORD\n")
	checkBytes(t, p.Bytes, 0x27, 0xF7)
}

func TestAssembleBackwardLabel(t *testing.T) {
	p := assembleOK(t, "loop: ADD\nJ loop\n")
	// ADD is one byte at address 0; J needs two bytes to reach a
	// negative displacement (NFIX then J), so it starts at address 1
	// and ends at address 3 — displacement back to loop is -3.
	if p.Labels["loop"] != 0 {
		t.Errorf("loop = %d, want 0", p.Labels["loop"])
	}
	checkBytes(t, p.Bytes, 0xF5, 0x60, 0x0D)
}

func TestAssembleForwardLabel(t *testing.T) {
	p := assembleOK(t, "J skip\nADD\nskip: ADD\n")
	if p.Labels["skip"] != 2 {
		t.Errorf("skip = %d, want 2", p.Labels["skip"])
	}
	// J's own instruction is 1 byte (displacement 1 fits in a nibble);
	// IPtr after J is 1, target is 2, so e = 1.
	checkBytes(t, p.Bytes, 0x01, 0xF5, 0xF5)
}

func TestAssembleLabelAsAbsoluteConstant(t *testing.T) {
	p := assembleOK(t, "here: LDC here\n")
	if p.Labels["here"] != 0 {
		t.Errorf("here = %d, want 0", p.Labels["here"])
	}
	checkBytes(t, p.Bytes, 0x40)
}

func TestAssembleCommentsAndBlankLines(t *testing.T) {
	p := assembleOK(t, "; a comment\n\nLDC 2 ; trailing comment\nSTL 0\n")
	checkBytes(t, p.Bytes, 0x42, 0xD0)
}

func TestAssembleUndefinedOpcode(t *testing.T) {
	if _, err := Assemble("BOGUS 1\n"); err == nil {
		t.Fatal("expected error for undefined opcode")
	}
}

func TestAssembleMissingOperand(t *testing.T) {
	if _, err := Assemble("LDC\n"); err == nil {
		t.Fatal("expected error for missing operand")
	}
}

func TestAssembleUnexpectedOperand(t *testing.T) {
	if _, err := Assemble("ADD 1\n"); err == nil {
		t.Fatal("expected error: secondary mnemonics take no operand")
	}
}

func TestAssembleDuplicateLabel(t *testing.T) {
	if _, err := Assemble("a: ADD\na: ADD\n"); err == nil {
		t.Fatal("expected error for duplicate label")
	}
}

func TestAssembleUndefinedLabel(t *testing.T) {
	if _, err := Assemble("J nowhere\n"); err == nil {
		t.Fatal("expected error for undefined label")
	}
}

func TestAssembleOperandOutOfRange(t *testing.T) {
	if _, err := Assemble("LDC 0x100000000\n"); err == nil {
		t.Fatal("expected error for out-of-range operand")
	}
}

func TestAssembleExtraTokens(t *testing.T) {
	if _, err := Assemble("LDC 2 3\n"); err == nil {
		t.Fatal("expected error for extra tokens after operand")
	}
}
