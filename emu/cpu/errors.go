/*
 * transputer - Host-visible failure sentinels.
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

import "errors"

// Host-visible failures, per spec.md §7.2: these stop the offending
// process and are reported through Step()'s error return, distinct from
// the sticky guest Error flag set by arithmetic/bounds faults.
var (
	// ErrUnknownOpcode is returned when OPR selects an operand with no
	// registered indirect handler at all.
	ErrUnknownOpcode = errors.New("cpu: unknown indirect opcode")

	// ErrUnimplemented is returned by the reserved ALT/TALT/DIST/ENB/CRC
	// family: they decode and are disassemblable, they just refuse to
	// execute.
	ErrUnimplemented = errors.New("cpu: instruction reserved, not implemented")

	// ErrHalted is returned by Step when called on an already-halted
	// processor.
	ErrHalted = errors.New("cpu: processor halted")

	// ErrMisalignedWorkspace is returned by GAJW when A is not a
	// word-aligned address.
	ErrMisalignedWorkspace = errors.New("cpu: GAJW target not word-aligned")
)
