/*
 * transputer - Indirect arithmetic and bounds-check ops.
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

import "github.com/gotransputer/transputer/emu/opcode"

func init() {
	register(opcode.ADD, opADD)
	register(opcode.SUB, opSUB)
	register(opcode.DIFF, opDIFF)
	register(opcode.PROD, opPROD)
	register(opcode.MUL, opMUL)
	register(opcode.SUM, opSUM)
	register(opcode.DIV, opDIV)
	register(opcode.REM, opREM)
	register(opcode.LADD, opLADD)
	register(opcode.GT, opGT)
	register(opcode.CSUB0, opCSUB0)
	register(opcode.CSNGL, opCSNGL)
	register(opcode.CCNT1, opCCNT1)
	register(opcode.XDBLE, opXDBLE)
	register(opcode.NORM, opNORM)
	register(opcode.MINT, opMINT)
}

// ADD: A <- A + B, Error on signed overflow; pop moves C into B.
func opADD(c *CPU) error {
	sum, overflow := addOverflow(c.A, c.B)
	c.A = sum
	c.dropOperand()
	if overflow {
		c.setError()
	}
	return nil
}

// SUB: A <- B - A, Error on signed overflow.
func opSUB(c *CPU) error {
	diff, overflow := subOverflow(c.B, c.A)
	c.A = diff
	if overflow {
		c.setError()
	}
	return nil
}

// DIFF: A <- B - A; pop moves C into B. Unlike SUB, DIFF never faults.
func opDIFF(c *CPU) error {
	c.A = c.B - c.A
	c.dropOperand()
	return nil
}

// PROD: A <- A * B, wrapping.
func opPROD(c *CPU) error {
	c.A *= c.B
	return nil
}

// MUL: A <- A * B, wrapping. Distinct opcode from PROD, same effect.
func opMUL(c *CPU) error {
	c.A *= c.B
	return nil
}

// SUM: A <- A + B, wrapping, never faults.
func opSUM(c *CPU) error {
	c.A += c.B
	return nil
}

// DIV: A <- B / A; Error on divide-by-zero or on MinInt32 / -1.
func opDIV(c *CPU) error {
	if c.A == 0 || (c.B == minInt32 && c.A == -1) {
		c.setError()
		c.A = 0
		return nil
	}
	c.A = c.B / c.A
	return nil
}

// REM: A <- B % A; Error on divide-by-zero.
func opREM(c *CPU) error {
	if c.A == 0 {
		c.setError()
		c.A = 0
		return nil
	}
	c.A = c.B % c.A
	return nil
}

// LADD: three-operand add with carry in C&1; Error on overflow.
func opLADD(c *CPU) error {
	sum, overflow := addOverflow(c.A, c.B)
	sum2, overflow2 := addOverflow(sum, c.C&1)
	c.A = sum2
	if overflow || overflow2 {
		c.setError()
	}
	return nil
}

// GT: push (B > A) ? 1 : 0.
func opGT(c *CPU) error {
	if c.B > c.A {
		c.Push(1)
	} else {
		c.Push(0)
	}
	return nil
}

// CSUB0: unsigned bounds check; Error if B >= A (unsigned); A <- B.
func opCSUB0(c *CPU) error {
	if uint32(c.B) >= uint32(c.A) {
		c.setError()
	}
	c.A = c.B
	return nil
}

// CSNGL: check that the double (B:A) fits in a single word (B is the
// sign extension of A); Error otherwise. Drops the now-redundant high
// word the way the other two-operand-consuming ops drop C into B.
func opCSNGL(c *CPU) error {
	wantHigh := int32(0)
	if c.A < 0 {
		wantHigh = -1
	}
	if c.B != wantHigh {
		c.setError()
	}
	c.dropOperand()
	return nil
}

// CCNT1: check count-from-one; Error if B==0 or B>A (unsigned).
func opCCNT1(c *CPU) error {
	if c.B == 0 || uint32(c.B) > uint32(c.A) {
		c.setError()
	}
	return nil
}

// XDBLE: sign-extend A to a double (B:A); B <- A>>31 (arithmetic).
func opXDBLE(c *CPU) error {
	c.B = c.A >> 31
	return nil
}

// NORM: left-shift the double (B:A) until the top bit of B is 1 or 64
// shifts have occurred. Result: A <- normalized low word, B <- normalized
// high word, C <- shift count performed.
func opNORM(c *CPU) error {
	hi, lo := uint32(c.B), uint32(c.A)
	var shifts int32
	for shifts < 64 && hi&0x80000000 == 0 {
		hi = (hi << 1) | (lo >> 31)
		lo <<= 1
		shifts++
	}
	c.A = int32(lo)
	c.B = int32(hi)
	c.C = shifts
	return nil
}

// MINT: push the most-negative 32-bit value.
func opMINT(c *CPU) error {
	c.Push(minInt32)
	return nil
}

const minInt32 = -0x80000000
