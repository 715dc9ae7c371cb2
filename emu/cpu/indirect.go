/*
 * transputer - Indirect (operate) engine dispatch table, component E.
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
	"fmt"

	"github.com/gotransputer/transputer/emu/opcode"
)

type indirectFunc func(c *CPU) error

// indirectTable is keyed by the full accumulated operand after OPR.
// Each category file (indirect_stack.go, indirect_arith.go, ...)
// contributes its own slice of entries through an init func, the way
// user-none/go-chip-m68k splits its opcode table registration across
// per-category ops_*.go files.
var indirectTable = map[int32]indirectFunc{}

func register(e int, fn indirectFunc) {
	if _, exists := indirectTable[int32(e)]; exists {
		panic(fmt.Sprintf("cpu: indirect opcode %#x registered twice", e))
	}
	indirectTable[int32(e)] = fn
}

// dispatchIndirect runs the handler selected by e, or reports a fatal
// per-process error for an opcode with no registered handler at all.
func (c *CPU) dispatchIndirect(e int32) error {
	fn, ok := indirectTable[e]
	if !ok {
		c.setError()
		c.Halted = true
		return fmt.Errorf("%w: %#x", ErrUnknownOpcode, e)
	}
	return fn(c)
}

// opReserved is shared by the ALT/TALT/DIST/ENB/CRC family: they decode
// (so the disassembler can name them) but refuse to execute.
func opReserved(c *CPU) error {
	c.setError()
	return ErrUnimplemented
}

func init() {
	for e := opcode.ALT; e <= opcode.CRCBYTE; e++ {
		register(e, opReserved)
	}
}
