/*
 * transputer - Indirect ops that create, end, or talk to the scheduler.
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

import (
	"github.com/gotransputer/transputer/emu/opcode"
	"github.com/gotransputer/transputer/emu/scheduler"
)

func init() {
	register(opcode.STARTP, opSTARTP)
	register(opcode.ENDP, opENDP)
	register(opcode.RUNP, opRUNP)
	register(opcode.STOPP, opSTOPP)
	register(opcode.TIN, opTIN)
	register(opcode.LDTIMER, opLDTIMER)
	register(opcode.LDPRI, opLDPRI)
	register(opcode.SETERR, opSETERR)
	register(opcode.CLRHALTERR, opCLRHALTERR)
	register(opcode.TESTERR, opTESTERR)
	register(opcode.STLB, opSTLB)
	register(opcode.STHF, opSTHF)
	register(opcode.STLF, opSTLF)
	register(opcode.STHB, opSTHB)
	register(opcode.SAVEL, opSAVEL)
	register(opcode.SAVEH, opSAVEH)
}

// STARTP: schedule a new process at workspace A with entry IPtr + B, at
// the caller's own priority — never a cross-priority call, so no
// preemption check is needed here (see scheduler.Scheduler.Schedule for
// the RUNP path, where the target's priority can differ).
func opSTARTP(c *CPU) error {
	newWPtr := c.A
	entry := c.IPtr + c.B
	c.Sched.SaveIPtr(newWPtr, entry)
	c.Sched.Enqueue(c.Priority, newWPtr)
	return nil
}

// ENDP: decrement the join counter at [A+4]. If processes are still
// outstanding, store the decremented count and continue with whatever
// the scheduler picks next; if this was the last arrival, resume
// directly at workspace A.
func opENDP(c *CPU) error {
	target := c.A
	cnt, err := c.readWord(target + slotJoin)
	if err != nil {
		return err
	}
	cnt--
	if cnt > 0 {
		if err := c.writeWord(target+slotJoin, cnt); err != nil {
			return err
		}
		c.idle = !c.scheduleNext()
		return nil
	}
	c.WPtr = target
	c.IPtr = c.Sched.SavedIPtr(target)
	return nil
}

// RUNP: schedule workspace descriptor A, which may belong to either
// priority; a low-priority runner handing off to a high-priority
// descriptor triggers preemption.
func opRUNP(c *CPU) error {
	snap := c.snapshot()
	c.Sched.Schedule(snap, c.A)
	c.loadSnapshot(snap)
	return nil
}

// STOPP: save IPtr at W-4 and request a deschedule, the same mechanics
// J uses, unconditional on priority.
func opSTOPP(c *CPU) error {
	c.requestDeschedule()
	return nil
}

// TIN: time-input. If A is still in the future relative to the current
// priority's clock, deschedule onto the timer queue to wake at A;
// otherwise this is a no-op and execution continues immediately.
func opTIN(c *CPU) error {
	if c.A > c.Sched.Clock(c.Priority) {
		c.descheduleToTimer(c.A)
	}
	return nil
}

// LDTIMER: push the current priority's clock.
func opLDTIMER(c *CPU) error {
	c.Push(c.Sched.Clock(c.Priority))
	return nil
}

// LDPRI: push the current priority (1 for low, 0 for high).
func opLDPRI(c *CPU) error {
	c.Push(int32(c.Priority))
	return nil
}

// SETERR: set the sticky Error flag.
func opSETERR(c *CPU) error {
	c.setError()
	return nil
}

// CLRHALTERR: clear HaltOnError, so future Errors no longer halt.
func opCLRHALTERR(c *CPU) error {
	c.HaltOnError = false
	return nil
}

// TESTERR: push Error (as 1/0), then clear it.
func opTESTERR(c *CPU) error {
	if c.Error {
		c.Push(1)
	} else {
		c.Push(0)
	}
	c.Error = false
	return nil
}

// STLB/STHF/STLF/STHB: overwrite a priority's front or back queue
// pointer with A. Named for (S)et (L)ow/(H)igh (B)ack/(F)ront.
func opSTLB(c *CPU) error {
	c.Sched.SetBack(scheduler.Low, c.A)
	return nil
}

func opSTHF(c *CPU) error {
	c.Sched.SetFront(scheduler.High, c.A)
	return nil
}

func opSTLF(c *CPU) error {
	c.Sched.SetFront(scheduler.Low, c.A)
	return nil
}

func opSTHB(c *CPU) error {
	c.Sched.SetBack(scheduler.High, c.A)
	return nil
}

// SAVEL/SAVEH: store the front/back pointers of the low/high queue at
// [A] and [A+4].
func opSAVEL(c *CPU) error {
	if err := c.writeWord(c.A, c.Sched.Front(scheduler.Low)); err != nil {
		return err
	}
	return c.writeWord(c.A+4, c.Sched.Back(scheduler.Low))
}

func opSAVEH(c *CPU) error {
	if err := c.writeWord(c.A, c.Sched.Front(scheduler.High)); err != nil {
		return err
	}
	return c.writeWord(c.A+4, c.Sched.Back(scheduler.High))
}
