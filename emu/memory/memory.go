/*
 * transputer - Word and byte addressable linear memory.
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

// Package memory implements the linear byte-addressable store shared by the
// CPU and any read-only inspectors attached to it.
package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// DefaultSize is the capacity used when a machine is not configured
// otherwise.
const DefaultSize = 256 * 1024 * 1024

// ErrMisaligned is returned by word accesses whose address is not a
// multiple of 4.
var ErrMisaligned = errors.New("memory: misaligned word access")

// ErrOutOfRange is returned when an address falls outside the configured
// capacity.
var ErrOutOfRange = errors.New("memory: address out of range")

// WordHook intercepts word-sized accesses to a single address, used for
// memory-mapped scheduler registers.
type WordHook struct {
	Read  func() int32
	Write func(int32)
}

// ByteHook intercepts byte-sized accesses to a single address, used for
// the terminal-out port.
type ByteHook struct {
	Read  func() byte
	Write func(byte)
}

// Memory is the linear store backing a machine. The zero value is not
// usable; construct one with New.
type Memory struct {
	data      []byte
	wordHooks map[uint32]WordHook
	byteHooks map[uint32]ByteHook
}

// New allocates a Memory of the given capacity in bytes.
func New(size uint32) *Memory {
	return &Memory{
		data:      make([]byte, size),
		wordHooks: make(map[uint32]WordHook),
		byteHooks: make(map[uint32]ByteHook),
	}
}

// Size returns the memory's capacity in bytes.
func (m *Memory) Size() uint32 {
	return uint32(len(m.data))
}

// HookWord installs a side-effecting handler for word accesses at addr,
// overriding the backing array. Used to map scheduler queue/clock
// registers into the address space.
func (m *Memory) HookWord(addr uint32, h WordHook) {
	m.wordHooks[addr] = h
}

// HookByte installs a side-effecting handler for byte accesses at addr.
// Used to map the terminal-out port.
func (m *Memory) HookByte(addr uint32, h ByteHook) {
	m.byteHooks[addr] = h
}

func (m *Memory) checkRange(addr, width uint32) error {
	if uint64(addr)+uint64(width) > uint64(len(m.data)) {
		return fmt.Errorf("%w: %#x", ErrOutOfRange, addr)
	}
	return nil
}

// ReadWord reads a little-endian 32-bit word. addr must be a multiple of
// 4.
func (m *Memory) ReadWord(addr uint32) (int32, error) {
	if hook, ok := m.wordHooks[addr]; ok {
		if hook.Read == nil {
			return 0, nil
		}
		return hook.Read(), nil
	}
	if addr&3 != 0 {
		return 0, fmt.Errorf("%w: %#x", ErrMisaligned, addr)
	}
	if err := m.checkRange(addr, 4); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(m.data[addr : addr+4])), nil
}

// WriteWord writes a little-endian 32-bit word. addr must be a multiple
// of 4.
func (m *Memory) WriteWord(addr uint32, v int32) error {
	if hook, ok := m.wordHooks[addr]; ok {
		if hook.Write != nil {
			hook.Write(v)
		}
		return nil
	}
	if addr&3 != 0 {
		return fmt.Errorf("%w: %#x", ErrMisaligned, addr)
	}
	if err := m.checkRange(addr, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[addr:addr+4], uint32(v))
	return nil
}

// ReadByte reads a single byte. Byte accesses are not alignment
// restricted.
func (m *Memory) ReadByte(addr uint32) (byte, error) {
	if hook, ok := m.byteHooks[addr]; ok {
		if hook.Read == nil {
			return 0, nil
		}
		return hook.Read(), nil
	}
	if err := m.checkRange(addr, 1); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

// WriteByte writes a single byte. A byte hook (e.g. the terminal port)
// may redirect the write without touching the backing array.
func (m *Memory) WriteByte(addr uint32, v byte) error {
	if hook, ok := m.byteHooks[addr]; ok {
		if hook.Write != nil {
			hook.Write(v)
		}
		return nil
	}
	if err := m.checkRange(addr, 1); err != nil {
		return err
	}
	m.data[addr] = v
	return nil
}

// ReadOnly returns a cheap, cloneable read-only view of m for external
// inspectors (the terminal viewer, the REPL). Hooked addresses still read
// through their handler, so register panes stay live.
func (m *Memory) ReadOnly() ReadOnly {
	return ReadOnly{m: m}
}

// ReadOnly is a read-only handle onto a Memory. It carries no mutable
// state of its own, so copying a ReadOnly value is always safe.
type ReadOnly struct {
	m *Memory
}

// ReadWord reads a word through the underlying Memory.
func (r ReadOnly) ReadWord(addr uint32) (int32, error) { return r.m.ReadWord(addr) }

// ReadByte reads a byte through the underlying Memory.
func (r ReadOnly) ReadByte(addr uint32) (byte, error) { return r.m.ReadByte(addr) }

// Size returns the underlying Memory's capacity.
func (r ReadOnly) Size() uint32 { return r.m.Size() }
