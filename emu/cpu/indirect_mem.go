/*
 * transputer - Indirect ops that address memory or move data between
 * words and bytes.
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
	register(opcode.LB, opLB)
	register(opcode.SB, opSB)
	register(opcode.BSUB, opBSUB)
	register(opcode.BSUB2, opBSUB)
	register(opcode.WSUB, opWSUB)
	register(opcode.MOVE, opMOVE)
	register(opcode.GAJW, opGAJW)
	register(opcode.XWORD, opXWORD)
	register(opcode.WCNT, opWCNT)
	register(opcode.RESETCH, opRESETCH)
}

// dropOperand discards one binary operand the way the table's "pop
// moves C into B" phrasing describes: only B takes the old C, A (which
// already holds the result) and C are untouched.
func (s *cpuState) dropOperand() {
	s.B = s.C
}

// LB: A <- mem.read_byte(A).
func opLB(c *CPU) error {
	v, err := c.Mem.ReadByte(uint32(c.A))
	if err != nil {
		return err
	}
	c.A = int32(v)
	return nil
}

// SB: mem.write_byte(A, B & 0xFF).
func opSB(c *CPU) error {
	return c.Mem.WriteByte(uint32(c.A), byte(c.B))
}

// BSUB: A <- A + B; pop moves C into B. 0xF2 is the alias spec.md §4.E
// calls out, reachable with an extra leading PFIX nibble.
func opBSUB(c *CPU) error {
	c.A += c.B
	c.dropOperand()
	return nil
}

// WSUB: A <- A + (B << 2), a word-array subscript.
func opWSUB(c *CPU) error {
	c.A += c.B << 2
	return nil
}

// MOVE: copy A bytes from address C to address B.
func opMOVE(c *CPU) error {
	n := c.A
	for i := int32(0); i < n; i++ {
		b, err := c.Mem.ReadByte(uint32(c.C + i))
		if err != nil {
			return err
		}
		if err := c.Mem.WriteByte(uint32(c.B+i), b); err != nil {
			return err
		}
	}
	return nil
}

// GAJW: exchange A and WPtr. A must already be word-aligned.
func opGAJW(c *CPU) error {
	if c.A&3 != 0 {
		return ErrMisalignedWorkspace
	}
	c.A, c.WPtr = c.WPtr, c.A
	return nil
}

// XWORD: sign-extend B to an A-bit word, result in A.
func opXWORD(c *CPU) error {
	width := c.A
	if width <= 0 || width >= 32 {
		c.A = c.B
		return nil
	}
	shift := 32 - width
	c.A = (c.B << shift) >> shift
	return nil
}

// WCNT: split A into a word offset (A>>2) and a byte-within-word
// remainder (A&3).
func opWCNT(c *CPU) error {
	v := c.A
	c.B = v & 3
	c.A = v >> 2
	return nil
}

// RESETCH: read the channel word at A, write NotProcess there, and
// return the old value in A.
func opRESETCH(c *CPU) error {
	old, err := c.readWord(c.A)
	if err != nil {
		return err
	}
	if err := c.writeWord(c.A, NotProcess); err != nil {
		return err
	}
	c.A = old
	return nil
}
