/*
 * transputer - Operand accumulator and prefix engine, component C.
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

// Prefix folds a PFIX nibble into Oreg: O <- (O + n) << 4. It does not
// clear Oreg; that happens centrally in the dispatch loop for every
// direct op except PFIX and NFIX themselves.
func (s *cpuState) Prefix(nib int32) {
	s.Oreg = (s.Oreg + nib) << 4
}

// NegPrefix folds an NFIX nibble into Oreg: O <- ~(O + n) << 4.
func (s *cpuState) NegPrefix(nib int32) {
	s.Oreg = ^(s.Oreg + nib) << 4
}

// Effective computes the operand a non-prefix op should act on, without
// clearing Oreg. The dispatch loop clears Oreg after the op runs, per
// spec.md §9's note to centralize the clear and avoid an omission bug.
func (s *cpuState) Effective(nib int32) int32 {
	return s.Oreg + nib
}
