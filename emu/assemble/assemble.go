/*
 * transputer - Line-oriented two-pass assembler.
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

// Package assemble turns textual mnemonics into the byte stream the
// direct/indirect opcode engine consumes, synthesizing PFIX/NFIX prefix
// chains for operands outside [0,15] the way spec.md's §4.G describes.
package assemble

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gotransputer/transputer/emu/opcode"
)

// Program is the result of a successful assembly.
type Program struct {
	Bytes  []byte
	Labels map[string]int32
}

type node struct {
	lineNo     int
	labels     []string
	mnemonic   string
	operand    string
	hasOperand bool
	isDirect   bool
	directOp   int
	indirectOp int
	size       int32
}

// Assemble translates source into a Program, or returns the first error
// encountered: undefined opcode, operand arity mismatch, duplicate or
// unresolved label, or an operand outside the 32-bit signed range.
func Assemble(source string) (*Program, error) {
	nodes, seen, err := parseSource(source)
	if err != nil {
		return nil, err
	}
	if err := checkLabelReferences(nodes, seen); err != nil {
		return nil, err
	}

	addrs, labelAddr, err := relax(nodes)
	if err != nil {
		return nil, err
	}

	var out []byte
	for i, n := range nodes {
		if n.mnemonic == "" {
			continue
		}
		value, err := resolveValue(&n, labelAddr, addrs[i])
		if err != nil {
			return nil, err
		}
		op := byte(n.directOp)
		if !n.isDirect {
			op = byte(opcode.OPR)
			value = int32(n.indirectOp)
		}
		out = append(out, encodeOperand(op, value)...)
	}
	return &Program{Bytes: out, Labels: labelAddr}, nil
}

func parseSource(source string) ([]node, map[string]bool, error) {
	var nodes []node
	seen := map[string]bool{}
	for i, raw := range strings.Split(source, "\n") {
		lineNo := i + 1
		labels, mnemonic, operand, hasOperand, err := parseLine(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		for _, l := range labels {
			if seen[l] {
				return nil, nil, fmt.Errorf("line %d: duplicate label %q", lineNo, l)
			}
			seen[l] = true
		}
		if mnemonic == "" && len(labels) == 0 {
			continue
		}
		n := node{lineNo: lineNo, labels: labels, mnemonic: mnemonic, operand: operand, hasOperand: hasOperand, size: 1}
		if mnemonic != "" {
			upper := strings.ToUpper(mnemonic)
			if dop, ok := opcode.DirectByName[upper]; ok {
				if !hasOperand {
					return nil, nil, fmt.Errorf("line %d: %s requires an operand", lineNo, mnemonic)
				}
				n.isDirect = true
				n.directOp = dop
			} else if iop, ok := opcode.IndirectByName[upper]; ok {
				if hasOperand {
					return nil, nil, fmt.Errorf("line %d: %s takes no operand", lineNo, mnemonic)
				}
				n.indirectOp = iop
			} else {
				return nil, nil, fmt.Errorf("line %d: undefined opcode %q", lineNo, mnemonic)
			}
		}
		nodes = append(nodes, n)
	}
	return nodes, seen, nil
}

// checkLabelReferences rejects any operand that is neither a numeric
// literal nor a label defined somewhere in the program, before the
// relaxation loop runs.
func checkLabelReferences(nodes []node, seen map[string]bool) error {
	for _, n := range nodes {
		if !n.hasOperand {
			continue
		}
		if _, isNum, err := parseIntLiteral(n.operand); err != nil {
			return fmt.Errorf("line %d: %w", n.lineNo, err)
		} else if isNum {
			continue
		}
		if !seen[n.operand] {
			return fmt.Errorf("line %d: undefined label %q", n.lineNo, n.operand)
		}
	}
	return nil
}

// relax resolves label addresses and each instruction's prefix-chain
// length by fixed-point iteration: a forward jump's displacement depends
// on the size of every instruction between it and its target, and those
// sizes can themselves depend on other forward jumps. Sizes only grow
// from their 1-byte starting guess, so this converges in a handful of
// rounds for any realistic program.
func relax(nodes []node) ([]int32, map[string]int32, error) {
	const maxIter = 64
	addrs := make([]int32, len(nodes))
	labelAddr := map[string]int32{}
	for iter := 0; iter < maxIter; iter++ {
		addr := int32(0)
		for i, n := range nodes {
			addrs[i] = addr
			for _, l := range n.labels {
				labelAddr[l] = addr
			}
			addr += n.size
		}
		changed := false
		for i := range nodes {
			n := &nodes[i]
			if n.mnemonic == "" {
				continue
			}
			var value int32
			var err error
			if n.isDirect {
				value, err = resolveValue(n, labelAddr, addrs[i])
			} else {
				value = int32(n.indirectOp)
			}
			if err != nil {
				return nil, nil, err
			}
			newSize := int32(prefixLen(value))
			if newSize != n.size {
				n.size = newSize
				changed = true
			}
		}
		if !changed {
			return addrs, labelAddr, nil
		}
	}
	return nil, nil, fmt.Errorf("assemble: operand sizes did not converge after %d passes", maxIter)
}

// resolveValue computes the operand value a direct instruction's
// effective operand should encode. Label operands on J/CALL/CJ resolve
// to the displacement from the end of this instruction, matching those
// ops' `IPtr += e` semantics; every other mnemonic treats a label as the
// absolute address of that position.
func resolveValue(n *node, labelAddr map[string]int32, selfAddr int32) (int32, error) {
	if !n.hasOperand {
		return 0, nil
	}
	if num, isNum, err := parseIntLiteral(n.operand); err != nil {
		return 0, err
	} else if isNum {
		if num < math.MinInt32 || num > math.MaxInt32 {
			return 0, fmt.Errorf("line %d: operand %q out of 32-bit range", n.lineNo, n.operand)
		}
		return int32(num), nil
	}
	target, ok := labelAddr[n.operand]
	if !ok {
		return 0, fmt.Errorf("line %d: unresolved label %q", n.lineNo, n.operand)
	}
	if isRelative(n.directOp) {
		return target - (selfAddr + n.size), nil
	}
	return target, nil
}

func isRelative(directOp int) bool {
	return directOp == opcode.J || directOp == opcode.CALL || directOp == opcode.CJ
}

// prefixLen returns the number of bytes encodeOperand would emit for v.
// Its branches mirror encodeOperand's exactly, so the two can never
// disagree on an instruction's length.
func prefixLen(v int32) int {
	switch {
	case v >= 0 && v < 16:
		return 1
	case v >= 16:
		return 1 + prefixLen(v>>4)
	default:
		return 1 + prefixLen((^v)>>4)
	}
}

// encodeOperand synthesizes the PFIX/NFIX chain for v terminated by a
// single byte of op, per spec.md §4.G: an operand in [0,16) needs no
// prefix; v>=16 recurses on v>>4 under PFIX; v<0 recurses on (^v)>>4
// under NFIX. This is the exact inverse of the CPU's Prefix/NegPrefix/
// Effective decode in emu/cpu/operand.go.
func encodeOperand(op byte, v int32) []byte {
	switch {
	case v >= 0 && v < 16:
		return []byte{(op << 4) | byte(v&0xF)}
	case v >= 16:
		return append(encodeOperand(byte(opcode.PFIX), v>>4), (op<<4)|byte(v&0xF))
	default:
		return append(encodeOperand(byte(opcode.NFIX), (^v)>>4), (op<<4)|byte(v&0xF))
	}
}

// parseLine splits one source line into its label definitions, mnemonic
// and optional operand. A `;` starts a comment that runs to end of line.
func parseLine(raw string) (labels []string, mnemonic, operand string, hasOperand bool, err error) {
	if idx := strings.IndexByte(raw, ';'); idx >= 0 {
		raw = raw[:idx]
	}
	fields := strings.Fields(raw)
	i := 0
	for i < len(fields) && strings.HasSuffix(fields[i], ":") {
		name := strings.TrimSuffix(fields[i], ":")
		if name == "" {
			return nil, "", "", false, fmt.Errorf("empty label")
		}
		labels = append(labels, name)
		i++
	}
	if i >= len(fields) {
		return labels, "", "", false, nil
	}
	mnemonic = fields[i]
	i++
	if i < len(fields) {
		operand = fields[i]
		hasOperand = true
		i++
	}
	if i != len(fields) {
		return nil, "", "", false, fmt.Errorf("extra data after %s", mnemonic)
	}
	return labels, mnemonic, operand, hasOperand, nil
}

// parseIntLiteral recognizes decimal and 0x-prefixed hex integers, with
// an optional leading '-'. Anything else is treated as a label name
// (isNum == false, err == nil).
func parseIntLiteral(tok string) (value int64, isNum bool, err error) {
	neg := false
	body := tok
	if strings.HasPrefix(body, "-") {
		neg = true
		body = body[1:]
	}
	if body == "" {
		return 0, false, nil
	}
	var v int64
	switch {
	case strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X"):
		v, err = strconv.ParseInt(body[2:], 16, 64)
		if err != nil {
			return 0, false, fmt.Errorf("bad hex literal %q: %w", tok, err)
		}
	case body[0] >= '0' && body[0] <= '9':
		v, err = strconv.ParseInt(body, 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("bad integer literal %q: %w", tok, err)
		}
	default:
		return 0, false, nil
	}
	if neg {
		v = -v
	}
	return v, true, nil
}
