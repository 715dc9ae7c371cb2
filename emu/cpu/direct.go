/*
 * transputer - Direct-opcode engine, component D.
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

// buildDirectTable installs the sixteen direct-opcode handlers, keyed
// by the high nibble of the instruction byte. A flat array indexed by
// opcode is the table-extensibility design spec.md §9 calls out, the
// same shape the teacher's emu/cpu opcode table and
// user-none/go-chip-m68k's per-category instruction tables both use.
func (c *CPU) buildDirectTable() {
	c.direct = [16]directFunc{
		opcode.J:     opJ,
		opcode.LDLP:  opLDLP,
		opcode.PFIX:  opPFIX,
		opcode.LDNL:  opLDNL,
		opcode.LDC:   opLDC,
		opcode.LDNLP: opLDNLP,
		opcode.NFIX:  opNFIX,
		opcode.LDL:   opLDL,
		opcode.ADC:   opADC,
		opcode.CALL:  opCALL,
		opcode.CJ:    opCJ,
		opcode.AJW:   opAJW,
		opcode.EQC:   opEQC,
		opcode.STL:   opSTL,
		opcode.STNL:  opSTNL,
		opcode.OPR:   opOPR,
	}
}

// J: IPtr += e; a low-priority process requests a deschedule. High
// priority processes are never descheduled by J alone (spec.md §4.D).
func opJ(c *CPU, nib int32) error {
	e := c.Effective(nib)
	c.IPtr += e
	if c.Priority == scheduler.Low {
		c.requestDeschedule()
	}
	return nil
}

// LDLP: push WPtr + (e << 2).
func opLDLP(c *CPU, nib int32) error {
	c.Push(c.WPtr + (c.Effective(nib) << 2))
	return nil
}

// PFIX folds nib into Oreg and must not clear it.
func opPFIX(c *CPU, nib int32) error {
	c.Prefix(nib)
	return nil
}

// LDNL: A <- mem.read_word(A + (e << 2)).
func opLDNL(c *CPU, nib int32) error {
	e := c.Effective(nib)
	v, err := c.readWord(c.A + (e << 2))
	if err != nil {
		return err
	}
	c.A = v
	return nil
}

// LDC: push e.
func opLDC(c *CPU, nib int32) error {
	c.Push(c.Effective(nib))
	return nil
}

// LDNLP: A <- A + (e << 2).
func opLDNLP(c *CPU, nib int32) error {
	c.A += c.Effective(nib) << 2
	return nil
}

// NFIX folds nib into Oreg's complement form and must not clear it.
func opNFIX(c *CPU, nib int32) error {
	c.NegPrefix(nib)
	return nil
}

// LDL: push mem.read_word(WPtr + (e << 2)).
func opLDL(c *CPU, nib int32) error {
	e := c.Effective(nib)
	v, err := c.readWord(c.WPtr + (e << 2))
	if err != nil {
		return err
	}
	c.Push(v)
	return nil
}

// ADC: A <- A + e, with wraparound and a sticky Error on signed
// overflow.
func opADC(c *CPU, nib int32) error {
	e := c.Effective(nib)
	sum, overflow := addOverflow(c.A, e)
	c.A = sum
	if overflow {
		c.setError()
	}
	return nil
}

// CALL: push the 4-word frame {C,B,A,IPtr} into [WPtr-4..WPtr-16] (the
// 16-byte form; spec.md §9 resolves the 12-vs-16 byte ambiguity in
// favor of the form matching RET's WPtr += 16), WPtr -= 16, IPtr += e.
func opCALL(c *CPU, nib int32) error {
	e := c.Effective(nib)
	ret := c.IPtr
	if err := c.writeWord(c.WPtr-4, c.C); err != nil {
		return err
	}
	if err := c.writeWord(c.WPtr-8, c.B); err != nil {
		return err
	}
	if err := c.writeWord(c.WPtr-12, c.A); err != nil {
		return err
	}
	if err := c.writeWord(c.WPtr-16, ret); err != nil {
		return err
	}
	c.WPtr -= 16
	c.IPtr = ret + e
	return nil
}

// CJ: if A==0, IPtr += e; else pop the condition (spec.md §9 fixes
// "pop when the condition is false" as authoritative).
func opCJ(c *CPU, nib int32) error {
	e := c.Effective(nib)
	if c.A == 0 {
		c.IPtr += e
	} else {
		c.Pop()
	}
	return nil
}

// AJW: WPtr += (e << 2). The live WPtr register never carries a packed
// priority bit in this implementation — only workspace descriptors used
// by STARTP/RUNP/GAJW do — so there is nothing to preserve here; AJW on
// a word-aligned pointer keeps it word-aligned.
func opAJW(c *CPU, nib int32) error {
	c.WPtr += c.Effective(nib) << 2
	return nil
}

// EQC: push (A == e) ? 1 : 0.
func opEQC(c *CPU, nib int32) error {
	e := c.Effective(nib)
	if c.A == e {
		c.Push(1)
	} else {
		c.Push(0)
	}
	return nil
}

// STL: mem.write_word(WPtr + (e << 2), A). No pop.
func opSTL(c *CPU, nib int32) error {
	e := c.Effective(nib)
	return c.writeWord(c.WPtr+(e<<2), c.A)
}

// STNL: mem.write_word(A + (e << 2), B), then pop A.
func opSTNL(c *CPU, nib int32) error {
	e := c.Effective(nib)
	addr := c.A + (e << 2)
	if err := c.writeWord(addr, c.B); err != nil {
		return err
	}
	c.Pop()
	return nil
}

// OPR: dispatch the indirect op selected by the accumulated operand.
func opOPR(c *CPU, nib int32) error {
	e := c.Effective(nib)
	return c.dispatchIndirect(e)
}

// addOverflow adds two int32s and reports whether the signed result
// overflowed, matching spec.md §3's "32-bit arithmetic with explicit
// wrap-on-overflow and a sticky Error flag".
func addOverflow(a, b int32) (sum int32, overflow bool) {
	sum = a + b
	overflow = (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0)
	return sum, overflow
}

// subOverflow subtracts b from a and reports signed overflow.
func subOverflow(a, b int32) (diff int32, overflow bool) {
	diff = a - b
	overflow = (a >= 0 && b < 0 && diff < 0) || (a < 0 && b >= 0 && diff >= 0)
	return diff, overflow
}
