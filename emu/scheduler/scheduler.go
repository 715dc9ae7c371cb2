/*
 * transputer - Priority queues, descheduling and preemption, component F.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package scheduler implements the workspace-linked-list process model:
// two priority queues, the descheduling protocol, high-priority
// preemption of a running low-priority process, and the timer queue.
// Queue and link state lives in emulated memory (the workspace negative
// slots and the memory-mapped register block), the same way the real
// hardware scheduler has no registers of its own beyond a handful of
// pointers; this package is the logic that walks that memory.
package scheduler

import (
	"fmt"
	"log/slog"
)

// NotProcess is the sentinel for "no workspace here": the most-negative
// 32-bit two's complement value.
const NotProcess int32 = -0x80000000

// Priority is a process's scheduling priority. The zero value is High,
// matching the workspace-descriptor encoding (bit 0 clear).
type Priority int32

const (
	High Priority = 0
	Low  Priority = 1
)

func (p Priority) String() string {
	if p == Low {
		return "low"
	}
	return "high"
}

// Workspace slot offsets the scheduler reaches into directly. They are
// defined only here; emu/cpu reaches these slots through the Scheduler
// API (SaveIPtr, SavedIPtr, TimerInsert), never by address.
const (
	slotIPtr  = -4
	slotLink  = -8
	slotTLink = -16
	slotTime  = -20
)

// wordMem is the subset of *memory.Memory the scheduler needs. Declared
// locally instead of importing emu/memory's concrete type so scheduler
// has no compile-time dependency on the memory package's internals,
// only the word-access shape it actually uses.
type wordMem interface {
	ReadWord(addr uint32) (int32, error)
	WriteWord(addr uint32, v int32) error
}

// DefaultRegBase is used when a machine does not override it. The
// register-cache slot's fixed address (0x8000_002C, per spec.md §3) is
// exactly DefaultRegBase+0x2C, which is why machines leave RegBase at
// its default unless they have a specific reason to relocate the
// register block.
const DefaultRegBase uint32 = 0x80000000

const cacheOffset = 0x2C

// cache layout, six consecutive words starting at RegBase+cacheOffset:
// descriptor, IPtr, A, B, C, status.
const (
	cacheDesc = 0 * 4
	cacheIPtr = 1 * 4
	cacheA    = 2 * 4
	cacheB    = 3 * 4
	cacheC    = 4 * 4
	cacheStat = 5 * 4
)

// Snapshot is the live register set the scheduler needs to read and
// write during preemption and restore. It mirrors the fields of the
// CPU's processor state without scheduler importing the cpu package.
type Snapshot struct {
	WPtr, IPtr, A, B, C, Status int32
	Priority                    Priority
}

// Scheduler owns the priority queues, the timer queues, and the
// register cache used by preemption. Queue link data lives in the
// memory it is given; Scheduler itself holds only the front/back/clock/
// timer-head register values and the cache slot address.
type Scheduler struct {
	mem     wordMem
	regBase uint32
	logger  *slog.Logger

	clock     [2]int32
	front     [2]int32
	back      [2]int32
	timerHead [2]int32
}

// New constructs a Scheduler bound to mem, with both queues and both
// timer lists empty.
func New(mem wordMem, regBase uint32, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{mem: mem, regBase: regBase, logger: logger}
	s.front[High], s.front[Low] = NotProcess, NotProcess
	s.back[High], s.back[Low] = NotProcess, NotProcess
	s.timerHead[High], s.timerHead[Low] = NotProcess, NotProcess
	return s
}

// RegBase returns the base address the memory-mapped scheduler
// registers are relocated from.
func (s *Scheduler) RegBase() uint32 { return s.regBase }

// CacheAddr returns the absolute address of the register save/restore
// cache, RegBase+0x2C.
func (s *Scheduler) CacheAddr() uint32 { return s.regBase + cacheOffset }

func (s *Scheduler) writeWord(addr int32, v int32) {
	if err := s.mem.WriteWord(uint32(addr), v); err != nil {
		s.logger.Error("scheduler: word write failed", "addr", addr, "err", err)
	}
}

func (s *Scheduler) readWord(addr int32) int32 {
	v, err := s.mem.ReadWord(uint32(addr))
	if err != nil {
		s.logger.Error("scheduler: word read failed", "addr", addr, "err", err)
		return NotProcess
	}
	return v
}

// Front returns the front-of-queue pointer for a priority.
func (s *Scheduler) Front(pri Priority) int32 { return s.front[pri] }

// Back returns the back-of-queue pointer for a priority.
func (s *Scheduler) Back(pri Priority) int32 { return s.back[pri] }

// SetFront overwrites the front-of-queue pointer, used by STLF/STHF.
func (s *Scheduler) SetFront(pri Priority, addr int32) { s.front[pri] = addr }

// SetBack overwrites the back-of-queue pointer, used by STLB/STHB.
func (s *Scheduler) SetBack(pri Priority, addr int32) { s.back[pri] = addr }

// Empty reports whether a priority's ready queue has no processes.
func (s *Scheduler) Empty(pri Priority) bool { return s.front[pri] == NotProcess }

// Enqueue appends addr to the tail of pri's ready queue.
func (s *Scheduler) Enqueue(pri Priority, addr int32) {
	s.writeWord(addr+slotLink, NotProcess)
	if s.Empty(pri) {
		s.front[pri] = addr
	} else {
		s.writeWord(s.back[pri]+slotLink, addr)
	}
	s.back[pri] = addr
	s.logger.Debug("scheduler: enqueue", "priority", pri, "workspace", fmt.Sprintf("%#x", addr))
}

// Dequeue removes and returns the head of pri's ready queue. ok is false
// if the queue was empty.
func (s *Scheduler) Dequeue(pri Priority) (addr int32, ok bool) {
	front := s.front[pri]
	if front == NotProcess {
		return NotProcess, false
	}
	next := s.readWord(front + slotLink)
	s.front[pri] = next
	if next == NotProcess {
		s.back[pri] = NotProcess
	}
	return front, true
}

// Dispatch picks the next runnable process, high priority first.
func (s *Scheduler) Dispatch() (addr int32, pri Priority, ok bool) {
	if addr, ok = s.Dequeue(High); ok {
		return addr, High, true
	}
	if addr, ok = s.Dequeue(Low); ok {
		return addr, Low, true
	}
	return NotProcess, High, false
}

// Deschedule saves iptr at the process's W-4 slot and appends it to its
// own priority's ready queue. Used by J/LEND at low priority and by
// STOPP at any priority.
func (s *Scheduler) Deschedule(wptr, iptr int32, pri Priority) {
	s.writeWord(wptr+slotIPtr, iptr)
	s.Enqueue(pri, wptr)
	s.logger.Debug("scheduler: deschedule", "priority", pri, "workspace", fmt.Sprintf("%#x", wptr))
}

// SavedIPtr reads back the instruction pointer a descheduled process
// left at its W-4 slot.
func (s *Scheduler) SavedIPtr(wptr int32) int32 {
	return s.readWord(wptr + slotIPtr)
}

// SaveIPtr writes a process's instruction pointer to its W-4 slot
// without enqueueing it anywhere. TIN uses this when a process goes
// onto the timer queue instead of the ready queue.
func (s *Scheduler) SaveIPtr(wptr, iptr int32) {
	s.writeWord(wptr+slotIPtr, iptr)
}

// Schedule implements RUNP (STARTP always stays at the caller's
// priority and calls Enqueue directly): given a workspace descriptor (pointer
// with the priority packed into bit 0) and the currently running
// process's live state, either enqueues the target normally or, if a
// low-priority process must make way for newly-ready high-priority
// work, preempts it.
//
// A single enqueue-plus-one-shot-preemption-predicate replaces the
// would-be pair of near duplicate high/low code paths, per spec.md
// §9's note on the scheduler interrupt path.
func (s *Scheduler) Schedule(cur *Snapshot, wdesc int32) {
	addr := wdesc &^ 3
	pri := Priority(wdesc & 1)
	if cur.Priority == Low && pri == High {
		s.preempt(cur, addr)
		return
	}
	s.Enqueue(pri, addr)
}

// preempt saves cur's full register set to the cache slot and switches
// cur in place to the new high-priority workspace.
func (s *Scheduler) preempt(cur *Snapshot, newWPtr int32) {
	desc := cur.WPtr | int32(cur.Priority)
	base := int32(s.CacheAddr())
	s.writeWord(base+cacheDesc, desc)
	s.writeWord(base+cacheIPtr, cur.IPtr)
	s.writeWord(base+cacheA, cur.A)
	s.writeWord(base+cacheB, cur.B)
	s.writeWord(base+cacheC, cur.C)
	s.writeWord(base+cacheStat, cur.Status)

	cur.Priority = High
	cur.WPtr = newWPtr
	cur.IPtr = s.SavedIPtr(newWPtr)
	cur.A, cur.B, cur.C = 0, 0, 0
	s.logger.Debug("scheduler: preempt", "saved", fmt.Sprintf("%#x", desc), "new", fmt.Sprintf("%#x", newWPtr))
}

// CacheOccupied reports whether the register cache currently holds a
// preempted process (its descriptor slot is not NotProcess).
func (s *Scheduler) CacheOccupied() bool {
	base := int32(s.CacheAddr())
	return s.readWord(base+cacheDesc) != NotProcess
}

// RestoreCache reloads a preempted process's full register set from the
// cache into cur, and marks the cache empty. It reports false if the
// cache held nothing.
//
// The spec leaves open exactly when a preempted low-priority process
// resumes; this implementation restores it only once both ready queues
// are empty (see CPU.scheduleNext), modeling "high-priority always
// draining before low-priority resumes" (spec.md §5) as applying to the
// preempted process too, not just to freshly-enqueued ones.
func (s *Scheduler) RestoreCache(cur *Snapshot) bool {
	base := int32(s.CacheAddr())
	desc := s.readWord(base + cacheDesc)
	if desc == NotProcess {
		return false
	}
	cur.WPtr = desc &^ 3
	cur.Priority = Priority(desc & 1)
	cur.IPtr = s.readWord(base + cacheIPtr)
	cur.A = s.readWord(base + cacheA)
	cur.B = s.readWord(base + cacheB)
	cur.C = s.readWord(base + cacheC)
	cur.Status = s.readWord(base + cacheStat)
	s.writeWord(base+cacheDesc, NotProcess)
	s.logger.Debug("scheduler: restore", "workspace", fmt.Sprintf("%#x", cur.WPtr))
	return true
}
