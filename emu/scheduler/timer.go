/*
 * transputer - Timer queue and host-driven clock tick.
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

package scheduler

// Clock returns the current clock value for a priority.
func (s *Scheduler) Clock(pri Priority) int32 { return s.clock[pri] }

// SetClock overwrites a priority's clock register. Exposed for the
// memory-mapped clock register's write side; instruction handlers never
// call it, they only read via Clock.
func (s *Scheduler) SetClock(pri Priority, v int32) { s.clock[pri] = v }

// TimerHead returns the head of a priority's sorted wake-time list.
func (s *Scheduler) TimerHead(pri Priority) int32 { return s.timerHead[pri] }

// TimerInsert inserts wptr into pri's timer queue, sorted by ascending
// wake time, and records wake at the process's W-20 slot.
func (s *Scheduler) TimerInsert(pri Priority, wptr, wake int32) {
	s.writeWord(wptr+slotTime, wake)

	head := s.timerHead[pri]
	if head == NotProcess || wake < s.readWord(head+slotTime) {
		s.writeWord(wptr+slotTLink, head)
		s.timerHead[pri] = wptr
		return
	}
	prev := head
	for {
		next := s.readWord(prev + slotTLink)
		if next == NotProcess || wake < s.readWord(next+slotTime) {
			break
		}
		prev = next
	}
	next := s.readWord(prev + slotTLink)
	s.writeWord(wptr+slotTLink, next)
	s.writeWord(prev+slotTLink, wptr)
}

// Tick advances both priorities' clocks by units and moves any process
// whose wake time has arrived from its timer queue onto its ready
// queue. This is the host-driven protocol spec.md §4.F describes: "a
// host-driven clock tick is expected to walk the list head while time
// >= head.time, dequeue the head, and reschedule it."
func (s *Scheduler) Tick(units int32) {
	for _, pri := range [2]Priority{High, Low} {
		s.clock[pri] += units
		s.drainDue(pri)
	}
}

func (s *Scheduler) drainDue(pri Priority) {
	now := s.clock[pri]
	for {
		head := s.timerHead[pri]
		if head == NotProcess {
			return
		}
		if s.readWord(head+slotTime) > now {
			return
		}
		s.timerHead[pri] = s.readWord(head + slotTLink)
		s.Enqueue(pri, head)
		s.logger.Debug("scheduler: timer wake", "priority", pri, "workspace", head, "clock", now)
	}
}
