/*
 * transputer - Shared opcode tables.
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

// Package opcode holds the mnemonic/numeric-opcode tables shared by the
// assembler and disassembler, the same way the teacher's emu/opcodemap
// package is imported by both emu/assemble and emu/disassemble.
package opcode

// Direct opcodes, the high nibble of every instruction byte.
const (
	J     = 0x0
	LDLP  = 0x1
	PFIX  = 0x2
	LDNL  = 0x3
	LDC   = 0x4
	LDNLP = 0x5
	NFIX  = 0x6
	LDL   = 0x7
	ADC   = 0x8
	CALL  = 0x9
	CJ    = 0xA
	AJW   = 0xB
	EQC   = 0xC
	STL   = 0xD
	STNL  = 0xE
	OPR   = 0xF
)

// DirectNames maps a direct opcode to its mnemonic, indexed by opcode.
var DirectNames = [16]string{
	J:     "J",
	LDLP:  "LDLP",
	PFIX:  "PFIX",
	LDNL:  "LDNL",
	LDC:   "LDC",
	LDNLP: "LDNLP",
	NFIX:  "NFIX",
	LDL:   "LDL",
	ADC:   "ADC",
	CALL:  "CALL",
	CJ:    "CJ",
	AJW:   "AJW",
	EQC:   "EQC",
	STL:   "STL",
	STNL:  "STNL",
	OPR:   "OPR",
}

// DirectByName is the inverse of DirectNames, built in an init func so
// the two can never drift apart.
var DirectByName map[string]int

// Indirect (secondary, OPR) opcodes: the operand value that OPR dispatches
// on. Grouped the way spec.md §4.E lists them; not every numeric slot in
// the 0x00-0xFF space is assigned.
const (
	REV          = 0x00
	LB           = 0x01
	BSUB         = 0x02
	ENDP         = 0x03
	DIFF         = 0x04
	ADD          = 0x05
	GCALL        = 0x06
	PROD         = 0x08
	GT           = 0x09
	WSUB         = 0x0A
	SUB          = 0x0C
	STARTP       = 0x0D
	SETERR       = 0x10
	RESETCH      = 0x12
	CSUB0        = 0x13
	STOPP        = 0x15
	LADD         = 0x16
	STLB         = 0x17
	STHF         = 0x18
	NORM         = 0x19
	STLF         = 0x1C
	LDPI         = 0x1B
	XDBLE        = 0x1D
	LDPRI        = 0x1E
	REM          = 0x1F
	RET          = 0x20
	LEND         = 0x21
	LDTIMER      = 0x22
	CLRHALTERR   = 0x27
	TESTERR      = 0x29
	TIN          = 0x2B
	DIV          = 0x2C
	NOT          = 0x32
	XOR          = 0x33
	BCNT         = 0x34
	RUNP         = 0x39
	XWORD        = 0x3A
	SB           = 0x3B
	GAJW         = 0x3C
	SAVEL        = 0x3D
	SAVEH        = 0x3E
	WCNT         = 0x3F
	SHR          = 0x40
	SHL          = 0x41
	MINT         = 0x42
	OR           = 0x46
	MOVE         = 0x4A
	AND          = 0x4B
	CSNGL        = 0x4C
	CCNT1        = 0x4D
	STHB         = 0x50
	SUM          = 0x52
	MUL          = 0x53
	DUP          = 0x5A
	// BITCNT/BITREVWORD/BITREVNBITS: spec.md §4.E's table lists these as
	// 0xF6-0xF8, but §8 scenario 6 pins BITREVWORD by worked example
	// ("PFIX 7; OPR 7" ⇒ e=0x77), while reaching 0xF7 takes PFIX 15, not
	// PFIX 7. The worked scenario is treated as authoritative; the
	// three opcodes live at 0x76-0x78 instead.
	BITCNT       = 0x76
	BITREVWORD   = 0x77
	BITREVNBITS  = 0x78
	// BSUB2 is the 0xF2 alias spec.md §4.E calls out ("see 0x02"): same
	// handler as BSUB, reachable through a second OPR encoding.
	BSUB2        = 0xF2
	ALT          = 0xE0
	ALTWT        = 0xE1
	ALTEND       = 0xE2
	TALT         = 0xE3
	TALTWT       = 0xE4
	DIST         = 0xE5
	DISS         = 0xE6
	ENBC         = 0xE7
	ENBT         = 0xE8
	ENBS         = 0xE9
	CRCWORD      = 0xEA
	CRCBYTE      = 0xEB
)

// Group returns the disassembly grouping bucket for a secondary opcode,
// per spec.md §4.E's suggestion to key a table by "e" and group by
// "e >> 4" for display purposes.
func Group(e int) int {
	return (e >> 4) & 0xF
}

// IndirectNames maps a secondary opcode to its mnemonic.
var IndirectNames = map[int]string{
	REV: "REV", LB: "LB", BSUB: "BSUB", ENDP: "ENDP", DIFF: "DIFF",
	ADD: "ADD", GCALL: "GCALL", PROD: "PROD", GT: "GT", WSUB: "WSUB",
	SUB: "SUB", STARTP: "STARTP", SETERR: "SETERR", RESETCH: "RESETCH",
	CSUB0: "CSUB0", STOPP: "STOPP", LADD: "LADD", STLB: "STLB",
	STHF: "STHF", STLF: "STLF", NORM: "NORM", LDPI: "LDPI", XDBLE: "XDBLE",
	LDPRI: "LDPRI", REM: "REM", RET: "RET", LEND: "LEND",
	LDTIMER: "LDTIMER", CLRHALTERR: "CLRHALTERR", TESTERR: "TESTERR",
	TIN: "TIN", DIV: "DIV", NOT: "NOT", XOR: "XOR", BCNT: "BCNT",
	AND: "AND", RUNP: "RUNP", XWORD: "XWORD", SB: "SB", GAJW: "GAJW",
	SAVEL: "SAVEL", SAVEH: "SAVEH", WCNT: "WCNT", SHR: "SHR", SHL: "SHL",
	MINT: "MINT", OR: "OR", MOVE: "MOVE", CSNGL: "CSNGL", CCNT1: "CCNT1",
	STHB: "STHB", SUM: "SUM", MUL: "MUL", DUP: "DUP", BITCNT: "BITCNT",
	BITREVWORD: "BITREVWORD", BITREVNBITS: "BITREVNBITS", BSUB2: "BSUB",
	ALT: "ALT", ALTWT: "ALTWT", ALTEND: "ALTEND", TALT: "TALT",
	TALTWT: "TALTWT", DIST: "DIST", DISS: "DISS", ENBC: "ENBC",
	ENBT: "ENBT", ENBS: "ENBS", CRCWORD: "CRCWORD", CRCBYTE: "CRCBYTE",
}

// IndirectByName is the inverse of IndirectNames.
var IndirectByName map[string]int

// Reserved reports whether a secondary opcode is decoded but not
// implemented — the ALT/TALT/DIST/ENB/CRC family spec.md §4.E reserves.
func Reserved(e int) bool {
	return e >= ALT && e <= CRCBYTE
}

func init() {
	DirectByName = make(map[string]int, len(DirectNames))
	for code, name := range DirectNames {
		DirectByName[name] = code
	}
	IndirectByName = make(map[string]int, len(IndirectNames))
	for code, name := range IndirectNames {
		IndirectByName[name] = code
	}
	// BSUB and its 0xF2 alias share a name; the assembler must always
	// emit the canonical, shorter encoding.
	IndirectByName["BSUB"] = BSUB
}
