/*
 * transputer - Processor and process state definitions.
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

package cpu

import "github.com/gotransputer/transputer/emu/scheduler"

// NotProcess is the sentinel meaning "no workspace here". It is the
// most-negative 32-bit two's complement value.
const NotProcess int32 = scheduler.NotProcess

// slotJoin is the +4 offset of the join counter ENDP descends (at A+4)
// and of LEND's loop counter (at B+4). The negative
// offsets (IPtr, link, timer link/time) are scheduler-internal and live
// in emu/scheduler instead; cpu reaches them only through Scheduler's
// API, never by address.
const slotJoin = 4

// cpuState is the live processor register set, spec.md §3's "Processor
// state". Kept as a distinct, unexported type (mirroring the teacher's
// own `cpuState` in emu/cpu/cpudefs.go) so CPU can both embed it, for
// field promotion, and declare inspector methods like State() without a
// name collision against an embedded field called "State".
type cpuState struct {
	A, B, C     int32 // evaluation stack, component B
	IPtr        int32 // instruction pointer
	WPtr        int32 // workspace pointer
	Oreg        int32 // operand/prefix accumulator, component C
	Priority    scheduler.Priority
	Error       bool // sticky guest error flag
	HaltOnError bool // whether entering Error also halts the process
	GoToSNP     bool // request-to-deschedule, set by J/LEND/STOPP
	Halted      bool
	idle        bool // no runnable process; set when scheduleNext finds nothing
}

// setError sets the sticky Error flag and, per spec.md §7, halts the
// process if HaltOnError is in effect.
func (s *cpuState) setError() {
	s.Error = true
	if s.HaltOnError {
		s.Halted = true
	}
}
