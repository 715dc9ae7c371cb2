package cpu

import "testing"

func TestPrefixAccumulatesNibbles(t *testing.T) {
	var s cpuState
	s.Prefix(4)
	s.Prefix(3)
	e := s.Effective(2)
	if e != 0x432 {
		t.Errorf("PFIX 4; PFIX 3; effective(2) = %#x, want 0x432", e)
	}
}

func TestNegPrefixComplement(t *testing.T) {
	var s cpuState
	s.NegPrefix(0)
	e := s.Effective(0)
	if e != -16 {
		t.Errorf("NFIX 0; effective(0) = %d, want -16", e)
	}
}

func TestNegPrefixGeneral(t *testing.T) {
	var s cpuState
	s.NegPrefix(3)
	e := s.Effective(7)
	want := (int32(^int32(3)) << 4) + 7
	if e != want {
		t.Errorf("NFIX 3; effective(7) = %#x, want %#x", e, want)
	}
}

func TestPfixThenOpEquivalence(t *testing.T) {
	var s1, s2 cpuState
	s1.Prefix(4)
	e1 := s1.Effective(3)

	e2 := s2.Effective(int32((4 << 4) + 3))
	if e1 != e2 {
		t.Errorf("PFIX 4; op 3 = %#x, want equivalent to op %#x = %#x", e1, (4<<4)+3, e2)
	}
}
