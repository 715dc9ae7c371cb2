/*
 * transputer - Indirect control-flow ops: call/return and loop epilogue.
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
	register(opcode.GCALL, opGCALL)
	register(opcode.RET, opRET)
	register(opcode.LEND, opLEND)
	register(opcode.LDPI, opLDPI)
}

// GCALL: exchange A and IPtr.
func opGCALL(c *CPU) error {
	c.A, c.IPtr = c.IPtr, c.A
	return nil
}

// RET: pop the 4-word CALL frame: IPtr <- mem[W], A,B,C <- mem[W+4,8,12],
// WPtr += 16. The frame layout is the mirror image of opCALL's.
func opRET(c *CPU) error {
	w := c.WPtr
	iptr, err := c.readWord(w)
	if err != nil {
		return err
	}
	a, err := c.readWord(w + 4)
	if err != nil {
		return err
	}
	b, err := c.readWord(w + 8)
	if err != nil {
		return err
	}
	cc, err := c.readWord(w + 12)
	if err != nil {
		return err
	}
	c.WPtr += 16
	c.IPtr, c.A, c.B, c.C = iptr, a, b, cc
	return nil
}

// LEND: loop epilogue. Decrement the counter at B+4; if it is still
// nonzero, store it back, jump IPtr -= A, and, at low priority, request
// a deschedule the same way J does.
func opLEND(c *CPU) error {
	cnt, err := c.readWord(c.B + slotJoin)
	if err != nil {
		return err
	}
	cnt--
	if cnt == 0 {
		return nil
	}
	if err := c.writeWord(c.B+slotJoin, cnt); err != nil {
		return err
	}
	c.IPtr -= c.A
	if c.Priority == scheduler.Low {
		c.requestDeschedule()
	}
	return nil
}

// LDPI: A <- A + IPtr, computing a PC-relative address.
func opLDPI(c *CPU) error {
	c.A += c.IPtr
	return nil
}
