package memory

import (
	"errors"
	"testing"
)

func TestWordRoundTrip(t *testing.T) {
	m := New(4096)
	if err := m.WriteWord(0x100, -1); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	v, err := m.ReadWord(0x100)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if v != -1 {
		t.Errorf("got %d, want -1", v)
	}
}

func TestWordMisaligned(t *testing.T) {
	m := New(4096)
	if _, err := m.ReadWord(0x101); !errors.Is(err, ErrMisaligned) {
		t.Errorf("ReadWord(0x101) error = %v, want ErrMisaligned", err)
	}
	if err := m.WriteWord(0x103, 1); !errors.Is(err, ErrMisaligned) {
		t.Errorf("WriteWord(0x103) error = %v, want ErrMisaligned", err)
	}
}

func TestByteUnrestricted(t *testing.T) {
	m := New(16)
	for addr := uint32(0); addr < 16; addr++ {
		if err := m.WriteByte(addr, byte(addr)); err != nil {
			t.Fatalf("WriteByte(%d): %v", addr, err)
		}
	}
	for addr := uint32(0); addr < 16; addr++ {
		v, err := m.ReadByte(addr)
		if err != nil {
			t.Fatalf("ReadByte(%d): %v", addr, err)
		}
		if v != byte(addr) {
			t.Errorf("ReadByte(%d) = %d, want %d", addr, v, addr)
		}
	}
}

func TestOutOfRange(t *testing.T) {
	m := New(16)
	if _, err := m.ReadWord(16); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ReadWord(16) error = %v, want ErrOutOfRange", err)
	}
	if _, err := m.ReadByte(16); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ReadByte(16) error = %v, want ErrOutOfRange", err)
	}
}

func TestWordHook(t *testing.T) {
	m := New(16)
	var reg int32
	m.HookWord(0x1000, WordHook{
		Read:  func() int32 { return reg },
		Write: func(v int32) { reg = v },
	})
	if err := m.WriteWord(0x1000, 42); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	if reg != 42 {
		t.Errorf("hook write not observed, reg = %d", reg)
	}
	v, err := m.ReadWord(0x1000)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if v != 42 {
		t.Errorf("hook read = %d, want 42", v)
	}
}

func TestByteHookTerminal(t *testing.T) {
	m := New(16)
	var out []byte
	m.HookByte(0x10000, ByteHook{Write: func(b byte) { out = append(out, b) }})
	if err := m.WriteByte(0x10000, 'h'); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	if err := m.WriteByte(0x10000, 'i'); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	if string(out) != "hi" {
		t.Errorf("terminal output = %q, want %q", out, "hi")
	}
}

func TestReadOnlyView(t *testing.T) {
	m := New(16)
	if err := m.WriteWord(0, 1234); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	ro := m.ReadOnly()
	v, err := ro.ReadWord(0)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if v != 1234 {
		t.Errorf("ReadOnly.ReadWord = %d, want 1234", v)
	}
	// ReadOnly is a value type: copying it is cheap and safe.
	clone := ro
	if v, _ := clone.ReadWord(0); v != 1234 {
		t.Errorf("clone.ReadWord = %d, want 1234", v)
	}
}
