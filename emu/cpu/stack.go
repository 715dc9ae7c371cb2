/*
 * transputer - Fixed depth-3 evaluation stack, component B.
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

// Push shifts a new value onto the stack: A<-v, B<-old A, C<-old B. The
// old C is discarded.
func (s *cpuState) Push(v int32) {
	s.C = s.B
	s.B = s.A
	s.A = v
}

// Pop removes and returns A, shifting B into A and C into B. C is left
// unchanged: the machine preserves C on pop, unlike a textbook
// three-register stack. Callers that need C cleared do so explicitly.
func (s *cpuState) Pop() int32 {
	v := s.A
	s.A = s.B
	s.B = s.C
	return v
}

// Swap exchanges A and B only; C is untouched.
func (s *cpuState) Swap() {
	s.A, s.B = s.B, s.A
}

// Get reads stack slot i (0/1/2 -> A/B/C).
func (s *cpuState) Get(i int) int32 {
	switch i {
	case 0:
		return s.A
	case 1:
		return s.B
	case 2:
		return s.C
	default:
		panic("cpu: stack index out of range")
	}
}

// Set writes stack slot i (0/1/2 -> A/B/C).
func (s *cpuState) Set(i int, v int32) {
	switch i {
	case 0:
		s.A = v
	case 1:
		s.B = v
	case 2:
		s.C = v
	default:
		panic("cpu: stack index out of range")
	}
}
