package scheduler

import (
	"testing"
)

// fakeMem is a tiny word-addressable store sufficient for the
// scheduler's own tests, independent of emu/memory.
type fakeMem struct {
	words map[uint32]int32
}

func newFakeMem() *fakeMem { return &fakeMem{words: make(map[uint32]int32)} }

func (m *fakeMem) ReadWord(addr uint32) (int32, error) {
	return m.words[addr], nil
}

func (m *fakeMem) WriteWord(addr uint32, v int32) error {
	m.words[addr] = v
	return nil
}

func newTestScheduler() (*Scheduler, *fakeMem) {
	mem := newFakeMem()
	s := New(mem, DefaultRegBase, nil)
	return s, mem
}

func TestEmptyQueueBothNotProcess(t *testing.T) {
	s, _ := newTestScheduler()
	if !s.Empty(High) || !s.Empty(Low) {
		t.Fatal("new scheduler queues should be empty")
	}
	if s.Front(High) != NotProcess || s.Back(High) != NotProcess {
		t.Errorf("front/back = %#x/%#x, want NotProcess", s.Front(High), s.Back(High))
	}
}

func TestEnqueueDequeueFIFO(t *testing.T) {
	s, _ := newTestScheduler()
	s.Enqueue(Low, 0x1000)
	s.Enqueue(Low, 0x2000)
	s.Enqueue(Low, 0x3000)

	for _, want := range []int32{0x1000, 0x2000, 0x3000} {
		got, ok := s.Dequeue(Low)
		if !ok || got != want {
			t.Fatalf("Dequeue = %#x, %v, want %#x, true", got, ok, want)
		}
	}
	if !s.Empty(Low) {
		t.Error("queue should be empty after draining all entries")
	}
}

func TestDispatchPrefersHigh(t *testing.T) {
	s, _ := newTestScheduler()
	s.Enqueue(Low, 0x1000)
	s.Enqueue(High, 0x2000)

	addr, pri, ok := s.Dispatch()
	if !ok || addr != 0x2000 || pri != High {
		t.Fatalf("Dispatch = %#x, %v, %v, want 0x2000, High, true", addr, pri, ok)
	}
	addr, pri, ok = s.Dispatch()
	if !ok || addr != 0x1000 || pri != Low {
		t.Fatalf("Dispatch = %#x, %v, %v, want 0x1000, Low, true", addr, pri, ok)
	}
	if _, _, ok = s.Dispatch(); ok {
		t.Error("Dispatch on empty queues should fail")
	}
}

func TestDescheduleSavesIPtr(t *testing.T) {
	s, _ := newTestScheduler()
	s.Deschedule(0x1000, 0xABCD, Low)
	if got := s.SavedIPtr(0x1000); got != 0xABCD {
		t.Errorf("SavedIPtr = %#x, want 0xABCD", got)
	}
	addr, ok := s.Dequeue(Low)
	if !ok || addr != 0x1000 {
		t.Errorf("descheduled process not found on its queue: %#x, %v", addr, ok)
	}
}

func TestScheduleEnqueuesWhenNoPreemptionNeeded(t *testing.T) {
	s, _ := newTestScheduler()
	cur := &Snapshot{WPtr: 0x5000, Priority: High}
	s.Schedule(cur, 0x1000) // descriptor's low bit 0 => High, same priority class
	addr, pri, ok := s.Dispatch()
	if !ok || addr != 0x1000 || pri != High {
		t.Fatalf("expected plain enqueue, got %#x %v %v", addr, pri, ok)
	}
}

func TestSchedulePreemptsLowForHigh(t *testing.T) {
	s, mem := newTestScheduler()
	mem.words[uint32(0x2000+slotIPtr)] = 0x9999 // target's saved entry point

	cur := &Snapshot{WPtr: 0x5000, IPtr: 0x1234, A: 1, B: 2, C: 3, Priority: Low}
	s.Schedule(cur, 0x2000) // bit0 clear => High priority target

	if cur.Priority != High || cur.WPtr != 0x2000 || cur.IPtr != 0x9999 {
		t.Fatalf("preemption did not switch live state: %+v", cur)
	}
	if !s.CacheOccupied() {
		t.Fatal("cache should hold the preempted low-priority state")
	}

	restored := &Snapshot{}
	if !s.RestoreCache(restored) {
		t.Fatal("RestoreCache reported empty cache")
	}
	if restored.WPtr != 0x5000 || restored.IPtr != 0x1234 || restored.A != 1 || restored.Priority != Low {
		t.Errorf("restored snapshot = %+v, want WPtr=0x5000 IPtr=0x1234 A=1 Low", restored)
	}
	if s.CacheOccupied() {
		t.Error("cache should be empty after RestoreCache")
	}
}

func TestTimerInsertSortedByWakeTime(t *testing.T) {
	s, _ := newTestScheduler()
	s.TimerInsert(Low, 0x1000, 30)
	s.TimerInsert(Low, 0x2000, 10)
	s.TimerInsert(Low, 0x3000, 20)

	order := []int32{}
	for p := s.TimerHead(Low); p != NotProcess; p = s.readWord(p + slotTLink) {
		order = append(order, p)
	}
	want := []int32{0x2000, 0x3000, 0x1000}
	if len(order) != len(want) {
		t.Fatalf("timer chain length = %d, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("timer chain[%d] = %#x, want %#x", i, order[i], want[i])
		}
	}
}

func TestTickWakesDueProcesses(t *testing.T) {
	s, _ := newTestScheduler()
	s.TimerInsert(Low, 0x1000, 5)
	s.TimerInsert(Low, 0x2000, 15)

	s.Tick(10) // clock -> 10, only 0x1000 is due

	addr, ok := s.Dequeue(Low)
	if !ok || addr != 0x1000 {
		t.Fatalf("Dequeue after tick = %#x, %v, want 0x1000, true", addr, ok)
	}
	if _, ok = s.Dequeue(Low); ok {
		t.Error("process waking at 15 should not be ready yet at clock 10")
	}
	if s.Clock(Low) != 10 {
		t.Errorf("Clock(Low) = %d, want 10", s.Clock(Low))
	}

	s.Tick(10) // clock -> 20, 0x2000 now due
	addr, ok = s.Dequeue(Low)
	if !ok || addr != 0x2000 {
		t.Fatalf("Dequeue after second tick = %#x, %v, want 0x2000, true", addr, ok)
	}
}

func TestCacheAddrMatchesFixedDefault(t *testing.T) {
	s, _ := newTestScheduler()
	if s.CacheAddr() != 0x8000002C {
		t.Errorf("CacheAddr() = %#x, want 0x8000002c", s.CacheAddr())
	}
}
