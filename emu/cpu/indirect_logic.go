/*
 * transputer - Indirect bitwise, shift, and bit-counting ops.
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
	"math/bits"

	"github.com/gotransputer/transputer/emu/opcode"
)

func init() {
	register(opcode.NOT, opNOT)
	register(opcode.XOR, opXOR)
	register(opcode.AND, opAND)
	register(opcode.OR, opOR)
	register(opcode.SHL, opSHL)
	register(opcode.SHR, opSHR)
	register(opcode.BCNT, opBCNT)
	register(opcode.BITCNT, opBITCNT)
	register(opcode.BITREVWORD, opBITREVWORD)
	register(opcode.BITREVNBITS, opBITREVNBITS)
}

// NOT: A <- ^A.
func opNOT(c *CPU) error {
	c.A = ^c.A
	return nil
}

// XOR: A <- A ^ B.
func opXOR(c *CPU) error {
	c.A ^= c.B
	return nil
}

// AND: A <- A & B; pop moves C into B, matching §8 scenario 4 ("PFIX 4;
// OPR 0xB yields A, B" — the stack slides after the AND).
func opAND(c *CPU) error {
	c.A &= c.B
	c.dropOperand()
	return nil
}

// OR: A <- A | B.
func opOR(c *CPU) error {
	c.A |= c.B
	return nil
}

// SHL: A <- B << A.
func opSHL(c *CPU) error {
	c.A = c.B << uint32(c.A)
	return nil
}

// SHR: A <- B >> A, logical (unsigned) shift.
func opSHR(c *CPU) error {
	c.A = int32(uint32(c.B) >> uint32(c.A))
	return nil
}

// BCNT: A <- A << 2, converting a word count into a byte count.
func opBCNT(c *CPU) error {
	c.A <<= 2
	return nil
}

// BITCNT: A <- B + popcount(A).
func opBITCNT(c *CPU) error {
	c.A = c.B + int32(bits.OnesCount32(uint32(c.A)))
	return nil
}

// BITREVWORD: reverse all 32 bits of A.
func opBITREVWORD(c *CPU) error {
	c.A = int32(bits.Reverse32(uint32(c.A)))
	return nil
}

// BITREVNBITS: reverse the low A bits of B, result in A.
func opBITREVNBITS(c *CPU) error {
	n := c.A
	if n <= 0 {
		c.A = 0
		return nil
	}
	if n > 32 {
		n = 32
	}
	reversed := bits.Reverse32(uint32(c.B)) >> (32 - uint32(n))
	c.A = int32(reversed)
	return nil
}
