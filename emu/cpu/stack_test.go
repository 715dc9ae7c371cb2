package cpu

import "testing"

func TestPushShiftsAndDropsC(t *testing.T) {
	var s cpuState
	s.A, s.B, s.C = 1, 2, 3
	s.Push(9)
	if s.A != 9 || s.B != 1 || s.C != 2 {
		t.Errorf("after push: A=%d B=%d C=%d, want 9,1,2", s.A, s.B, s.C)
	}
}

func TestPopPreservesC(t *testing.T) {
	var s cpuState
	s.A, s.B, s.C = 1, 2, 3
	v := s.Pop()
	if v != 1 {
		t.Errorf("Pop() = %d, want 1", v)
	}
	if s.A != 2 || s.B != 3 || s.C != 3 {
		t.Errorf("after pop: A=%d B=%d C=%d, want 2,3,3 (C preserved)", s.A, s.B, s.C)
	}
}

func TestSwapLeavesCAlone(t *testing.T) {
	var s cpuState
	s.A, s.B, s.C = 1, 2, 3
	s.Swap()
	if s.A != 2 || s.B != 1 || s.C != 3 {
		t.Errorf("after swap: A=%d B=%d C=%d, want 2,1,3", s.A, s.B, s.C)
	}
}

func TestGetSet(t *testing.T) {
	var s cpuState
	s.Set(0, 10)
	s.Set(1, 20)
	s.Set(2, 30)
	if s.Get(0) != 10 || s.Get(1) != 20 || s.Get(2) != 30 {
		t.Errorf("Get after Set: %d %d %d, want 10,20,30", s.Get(0), s.Get(1), s.Get(2))
	}
}

func TestGetSetOutOfRangePanics(t *testing.T) {
	var s cpuState
	defer func() {
		if recover() == nil {
			t.Error("Get(3) did not panic")
		}
	}()
	s.Get(3)
}
