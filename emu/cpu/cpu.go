/*
 * transputer - Core fetch-decode-execute loop and inspector API.
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

// Package cpu implements the Transputer-style instruction decoder and
// execution engine: the evaluation stack, the operand/prefix
// accumulator, the sixteen direct opcodes, and the indirect (operate)
// family dispatched through OPR. It drives an emu/scheduler.Scheduler
// for process descheduling and preemption and reads/writes an
// emu/memory.Memory for every addressed operation.
package cpu

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gotransputer/transputer/emu/memory"
	"github.com/gotransputer/transputer/emu/opcode"
	"github.com/gotransputer/transputer/emu/scheduler"
)

const terminalAddr uint32 = 0x00010000

type directFunc func(cpu *CPU, nib int32) error

// CPU is the live Transputer processor: registers, the memory it
// addresses, the scheduler it drives, and the decode tables built once
// at construction.
type CPU struct {
	cpuState

	Mem      *memory.Memory
	Sched    *scheduler.Scheduler
	Logger   *slog.Logger
	Terminal io.Writer

	direct [16]directFunc
}

// New builds a CPU over mem, with a scheduler rooted at regBase. A nil
// logger defaults to slog.Default(); a nil terminal writer silently
// discards bytes written to the terminal-out port.
func New(mem *memory.Memory, regBase uint32, logger *slog.Logger) *CPU {
	if logger == nil {
		logger = slog.Default()
	}
	c := &CPU{
		Mem:    mem,
		Sched:  scheduler.New(mem, regBase, logger),
		Logger: logger,
	}
	c.HaltOnError = true
	c.buildDirectTable()
	c.wireRegisters(regBase)
	return c
}

// wireRegisters installs the memory-mapped scheduler register window
// spec.md §3 describes, and the terminal-out byte port. Instruction
// handlers talk to the Scheduler API directly; these hooks exist so an
// external inspector, or a debug poke through ordinary memory writes,
// observes and can steer the same state.
func (c *CPU) wireRegisters(regBase uint32) {
	pri := [2]scheduler.Priority{scheduler.High, scheduler.Low}
	clockAddr := [2]uint32{regBase + 0x04, regBase + 0x00} // high, low
	frontAddr := [2]uint32{regBase + 0x08, regBase + 0x0C}
	backAddr := [2]uint32{regBase + 0x10, regBase + 0x14}
	timerAddr := [2]uint32{regBase + 0x18, regBase + 0x1C}

	for i := range pri {
		p := pri[i]
		c.Mem.HookWord(clockAddr[i], memory.WordHook{
			Read:  func() int32 { return c.Sched.Clock(p) },
			Write: func(v int32) { c.Sched.SetClock(p, v) },
		})
		c.Mem.HookWord(frontAddr[i], memory.WordHook{
			Read:  func() int32 { return c.Sched.Front(p) },
			Write: func(v int32) { c.Sched.SetFront(p, v) },
		})
		c.Mem.HookWord(backAddr[i], memory.WordHook{
			Read:  func() int32 { return c.Sched.Back(p) },
			Write: func(v int32) { c.Sched.SetBack(p, v) },
		})
		c.Mem.HookWord(timerAddr[i], memory.WordHook{
			Read: func() int32 { return c.Sched.TimerHead(p) },
			// Not settable: the timer list's sort invariant is
			// maintained only through TimerInsert.
		})
	}

	// The six-word register cache used by preemption is backed here, so
	// saves and restores work wherever RegBase sits relative to memory.
	// An empty cache holds NotProcess in its descriptor slot.
	cache := [6]int32{NotProcess}
	for i := range cache {
		slot := &cache[i]
		c.Mem.HookWord(c.Sched.CacheAddr()+uint32(i*4), memory.WordHook{
			Read:  func() int32 { return *slot },
			Write: func(v int32) { *slot = v },
		})
	}

	c.Mem.HookByte(terminalAddr, memory.ByteHook{
		Write: func(b byte) {
			if c.Terminal != nil {
				_, _ = c.Terminal.Write([]byte{b})
			}
		},
	})
}

func (c *CPU) snapshot() *scheduler.Snapshot {
	return &scheduler.Snapshot{
		WPtr: c.WPtr, IPtr: c.IPtr, A: c.A, B: c.B, C: c.C,
		Priority: c.Priority, Status: c.statusWord(),
	}
}

func (c *CPU) loadSnapshot(s *scheduler.Snapshot) {
	c.WPtr, c.IPtr, c.A, c.B, c.C = s.WPtr, s.IPtr, s.A, s.B, s.C
	c.Priority = s.Priority
	c.loadStatusWord(s.Status)
}

// statusWord packs the boolean flags the register cache preserves
// across a preemption, per spec.md §4.F's "status word".
func (c *CPU) statusWord() int32 {
	var w int32
	if c.Error {
		w |= 1
	}
	if c.HaltOnError {
		w |= 2
	}
	return w
}

func (c *CPU) loadStatusWord(w int32) {
	c.Error = w&1 != 0
	c.HaltOnError = w&2 != 0
}

func (c *CPU) writeWord(addr int32, v int32) error {
	return c.Mem.WriteWord(uint32(addr), v)
}

func (c *CPU) readWord(addr int32) (int32, error) {
	return c.Mem.ReadWord(uint32(addr))
}

// Step executes exactly one instruction byte at IPtr. It returns a
// non-nil error only for host-visible failures (spec.md §7.2); guest
// faults are reported through the sticky Error flag, inspectable with
// Flag("Error").
func (c *CPU) Step() error {
	if c.Halted {
		return ErrHalted
	}
	b, err := c.Mem.ReadByte(uint32(c.IPtr))
	if err != nil {
		c.Halted = true
		return err
	}
	c.IPtr++

	op := int32(b>>4) & 0xF
	nib := int32(b & 0xF)

	if err := c.direct[op](c, nib); err != nil {
		c.Halted = true
		return err
	}

	// Centralized operand-register clear: every non-prefix op must
	// leave Oreg at zero (spec.md §9).
	if op != opcode.PFIX && op != opcode.NFIX {
		c.Oreg = 0
	}

	if c.GoToSNP {
		c.GoToSNP = false
		c.Sched.Deschedule(c.WPtr, c.IPtr, c.Priority)
		c.idle = !c.scheduleNext()
	}
	return nil
}

// scheduleNext loads the next runnable process into the live registers.
// If both ready queues are empty it falls back to a process the
// scheduler preempted earlier (see scheduler.Scheduler.RestoreCache);
// if that is empty too the processor goes Idle.
func (c *CPU) scheduleNext() bool {
	if addr, pri, ok := c.Sched.Dispatch(); ok {
		c.WPtr = addr
		c.Priority = pri
		c.IPtr = c.Sched.SavedIPtr(addr)
		return true
	}
	snap := c.snapshot()
	if c.Sched.RestoreCache(snap) {
		c.loadSnapshot(snap)
		return true
	}
	return false
}

// requestDeschedule marks the running process to be appended to its
// ready queue once the current instruction finishes. Used by J/LEND at
// low priority and by STOPP at any priority; see Step's GoToSNP handling.
func (c *CPU) requestDeschedule() {
	c.GoToSNP = true
}

// descheduleToTimer saves IPtr and moves the running process onto its
// priority's timer queue to wake at wake, then immediately picks the
// next runnable process. Used by TIN; distinct from requestDeschedule
// because the process leaves via the timer queue, not the ready queue.
func (c *CPU) descheduleToTimer(wake int32) {
	c.Sched.SaveIPtr(c.WPtr, c.IPtr)
	c.Sched.TimerInsert(c.Priority, c.WPtr, wake)
	c.idle = !c.scheduleNext()
}

// Tick advances the scheduler's clock registers by units and wakes any
// due timer-queue entries. The tick source is external per spec.md
// §4.F; Step never calls this itself.
func (c *CPU) Tick(units int32) {
	c.Sched.Tick(units)
}

// RunState is the processor's externally-observable run state.
type RunState int

const (
	RunActive RunState = iota
	RunIdle
	RunHalted
)

func (r RunState) String() string {
	switch r {
	case RunActive:
		return "active"
	case RunIdle:
		return "idle"
	case RunHalted:
		return "halted"
	default:
		return fmt.Sprintf("RunState(%d)", int(r))
	}
}

// --- Inspector API (spec.md §6), read-only and safe to call between
// Step() calls from an external viewer. ---

// ProgramCounter returns the current instruction pointer.
func (c *CPU) ProgramCounter() int32 { return c.IPtr }

// WorkspacePointer returns the current workspace pointer.
func (c *CPU) WorkspacePointer() int32 { return c.WPtr }

// Reg returns evaluation stack slot i (0/1/2 -> A/B/C).
func (c *CPU) Reg(i int) int32 { return c.Get(i) }

// Flag reports a named boolean flag: "Error" or "HaltOnError".
func (c *CPU) Flag(name string) bool {
	switch name {
	case "Error":
		return c.Error
	case "HaltOnError":
		return c.HaltOnError
	default:
		return false
	}
}

// State reports the processor's run state.
func (c *CPU) State() RunState {
	switch {
	case c.Halted:
		return RunHalted
	case c.idle:
		return RunIdle
	default:
		return RunActive
	}
}

// Memory returns a read-only view of the CPU's memory, safe to clone
// and hand to an external inspector such as cmd/tui.
func (c *CPU) Memory() memory.ReadOnly { return c.Mem.ReadOnly() }
