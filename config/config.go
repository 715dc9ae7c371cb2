/*
 * transputer - Configuration file parser
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

// Package config parses the machine's startup configuration file: memory
// size, register base, error policy, entry point and the program to load.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Machine is the parsed result of a configuration file, ready to hand to
// a CPU constructor.
type Machine struct {
	MemorySize  uint32 // bytes
	RegBase     uint32
	HaltOnError bool
	Entry       int32
	LoadPath    string
}

// Default returns the configuration used when no file overrides it.
func Default() Machine {
	return Machine{
		MemorySize:  256 * 1024 * 1024,
		RegBase:     0x80000000,
		HaltOnError: true,
		Entry:       0,
	}
}

var lineNumber int

// Load reads a configuration file, applying directives over the default
// Machine.
func Load(name string) (Machine, error) {
	m := Default()
	file, err := os.Open(name)
	if err != nil {
		return m, err
	}
	defer file.Close()

	lineNumber = 0
	reader := bufio.NewReader(file)
	for {
		raw, err := reader.ReadString('\n')
		lineNumber++
		if len(raw) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return m, err
		}
		if parseErr := (&optionLine{line: raw}).apply(&m); parseErr != nil {
			return m, parseErr
		}
		if err != nil && errors.Is(err, io.EOF) {
			break
		}
	}
	return m, nil
}

// optionLine is a single-line tokenizer cursor, one directive per line.
type optionLine struct {
	line string
	pos  int
}

func (l *optionLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *optionLine) isEOL() bool {
	if l.pos >= len(l.line) {
		return true
	}
	return l.line[l.pos] == '#'
}

func (l *optionLine) getToken() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) && !unicode.IsSpace(rune(l.line[l.pos])) && l.line[l.pos] != '#' {
		l.pos++
	}
	return l.line[start:l.pos]
}

func (l *optionLine) apply(m *Machine) error {
	directive := l.getToken()
	if directive == "" {
		return nil
	}
	arg := l.getToken()
	if arg == "" {
		return fmt.Errorf("config: line %d: %s requires an argument", lineNumber, directive)
	}
	l.skipSpace()
	if !l.isEOL() {
		return fmt.Errorf("config: line %d: extra data after %s", lineNumber, directive)
	}

	switch strings.ToLower(directive) {
	case "memory":
		size, err := parseSize(arg)
		if err != nil {
			return fmt.Errorf("config: line %d: %w", lineNumber, err)
		}
		m.MemorySize = size
	case "regbase":
		v, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 32)
		if err != nil {
			return fmt.Errorf("config: line %d: bad regbase %q: %w", lineNumber, arg, err)
		}
		m.RegBase = uint32(v)
	case "haltonerror":
		switch strings.ToLower(arg) {
		case "true":
			m.HaltOnError = true
		case "false":
			m.HaltOnError = false
		default:
			return fmt.Errorf("config: line %d: haltonerror wants true or false, got %q", lineNumber, arg)
		}
	case "entry":
		v, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 32)
		if err != nil {
			return fmt.Errorf("config: line %d: bad entry %q: %w", lineNumber, arg, err)
		}
		m.Entry = int32(v)
	case "load":
		m.LoadPath = arg
	default:
		return fmt.Errorf("config: line %d: unknown directive %q", lineNumber, directive)
	}
	return nil
}

// parseSize parses a decimal byte count with an optional K or M suffix.
func parseSize(s string) (uint32, error) {
	mult := uint64(1)
	switch {
	case strings.HasSuffix(s, "K") || strings.HasSuffix(s, "k"):
		mult = 1024
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "M") || strings.HasSuffix(s, "m"):
		mult = 1024 * 1024
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad size %q: %w", s, err)
	}
	total := n * mult
	if total > 0xFFFFFFFF {
		return 0, fmt.Errorf("size %q exceeds 32-bit address space", s)
	}
	return uint32(total), nil
}
