/*
 * transputer - Hex-byte to mnemonic disassembler.
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

// Package disassemble splits an instruction byte stream back into
// mnemonics for display, folding PFIX/NFIX runs into a single effective
// operand the way the CPU's operand accumulator does.
package disassemble

import (
	"fmt"

	"github.com/gotransputer/transputer/emu/opcode"
)

// Line is one decoded instruction: the address of its first byte, the
// raw bytes it spans (including any PFIX/NFIX prefix run), and the
// rendered mnemonic/operand text.
type Line struct {
	Addr     int32
	Bytes    []byte
	Mnemonic string
	Operand  string
	HasOp    bool
}

// Decode splits a single instruction byte into (op, nibble).
func Decode(b byte) (op, nib int) {
	return int(b >> 4), int(b & 0xF)
}

// Disassemble walks data from the start, folding prefix runs and
// emitting one Line per direct (or OPR-dispatched indirect) instruction.
// It stops at the end of data even mid-prefix-run, emitting no partial
// Line for a truncated instruction.
func Disassemble(data []byte) []Line {
	var lines []Line
	addr := int32(0)
	oreg := int32(0)
	start := int32(0)
	startIdx := 0
	for i := 0; i < len(data); i++ {
		op, nib := Decode(data[i])
		switch op {
		case opcode.PFIX:
			if i == startIdx {
				start = addr
			}
			oreg = (oreg + int32(nib)) << 4
			addr++
			continue
		case opcode.NFIX:
			if i == startIdx {
				start = addr
			}
			oreg = ^(oreg + int32(nib)) << 4
			addr++
			continue
		}
		if i == startIdx {
			start = addr
		}
		e := oreg + int32(nib)
		line := Line{Addr: start, Bytes: append([]byte(nil), data[startIdx:i+1]...)}
		if op == opcode.OPR {
			name, ok := opcode.IndirectNames[int(e)]
			if !ok {
				line.Mnemonic = fmt.Sprintf("DB %#x", e)
			} else {
				line.Mnemonic = name
			}
		} else {
			line.Mnemonic = opcode.DirectNames[op]
			line.Operand = formatOperand(e)
			line.HasOp = true
		}
		lines = append(lines, line)
		oreg = 0
		addr++
		startIdx = i + 1
	}
	return lines
}

func formatOperand(e int32) string {
	if e < 0 {
		return fmt.Sprintf("-%#x", -e)
	}
	return fmt.Sprintf("%#x", e)
}

// Mnemonic returns the short display name for a direct opcode and the
// effective operand `e` that follows a completed prefix run, the same
// pairing spec.md §4.E and §6 call the "short-name lookup for display".
func Mnemonic(directOp int, e int32) string {
	if directOp == opcode.OPR {
		if name, ok := opcode.IndirectNames[int(e)]; ok {
			return name
		}
		return fmt.Sprintf("DB %#x", e)
	}
	return fmt.Sprintf("%s %s", opcode.DirectNames[directOp], formatOperand(e))
}
