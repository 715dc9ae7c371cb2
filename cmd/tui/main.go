/*
 * transputer - Read-only terminal inspector.
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

// cmd/tui is the external viewer spec.md §6/§9 calls out as a collaborator
// that only ever reads a running machine's Inspector API between Step()
// calls; it never reaches into the CPU's internals directly.
package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gotransputer/transputer/config"
	"github.com/gotransputer/transputer/emu/cpu"
	"github.com/gotransputer/transputer/emu/memory"
	"github.com/gotransputer/transputer/util/hex"
	getopt "github.com/pborman/getopt/v2"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	haltStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type model struct {
	c    *cpu.CPU
	rows uint32
	err  error
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "s":
		if m.c.State() == cpu.RunHalted {
			return m, nil
		}
		if err := m.c.Step(); err != nil {
			m.err = err
			return m, nil
		}
		m.c.Tick(1)
	}
	return m, nil
}

func (m model) registerPane() string {
	return boxStyle.Render(fmt.Sprintf(
		"%s\nA   %s\nB   %s\nC   %s\nIPtr %s\nWPtr %s\nstate %s",
		labelStyle.Render("registers"),
		hex.Word(m.c.Reg(0)), hex.Word(m.c.Reg(1)), hex.Word(m.c.Reg(2)),
		hex.Word(m.c.ProgramCounter()), hex.Word(m.c.WorkspacePointer()),
		m.c.State()))
}

func (m model) flagPane() string {
	err := "clear"
	if m.c.Flag("Error") {
		err = haltStyle.Render("set")
	}
	return boxStyle.Render(fmt.Sprintf(
		"%s\nError       %s\nHaltOnError %v",
		labelStyle.Render("flags"), err, m.c.Flag("HaltOnError")))
}

// memoryPane shows a fixed window of memory words starting at IPtr,
// rounded down to the row width, so the current instruction is always
// visible on the first line.
func (m model) memoryPane() string {
	mem := m.c.Memory()
	rowWords := uint32(4)
	base := uint32(m.c.ProgramCounter()) &^ (rowWords*4 - 1)
	var b strings.Builder
	for r := uint32(0); r < m.rows; r++ {
		addr := base + r*rowWords*4
		if addr+rowWords*4 > mem.Size() {
			break
		}
		fmt.Fprintf(&b, "%s  ", hex.Word(int32(addr)))
		words := make([]uint32, 0, rowWords)
		for w := uint32(0); w < rowWords; w++ {
			v, err := mem.ReadWord(addr + w*4)
			if err != nil {
				m.err = err
				break
			}
			words = append(words, uint32(v))
		}
		hex.FormatWord(&b, words)
		b.WriteByte('\n')
	}
	return boxStyle.Render(labelStyle.Render("memory") + "\n" + strings.TrimRight(b.String(), "\n"))
}

func (m model) View() string {
	top := lipgloss.JoinHorizontal(lipgloss.Top, m.registerPane(), m.flagPane())
	body := lipgloss.JoinVertical(lipgloss.Left, top, m.memoryPane())
	if m.err != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, haltStyle.Render(m.err.Error()))
	}
	return body + "\n(space/s: step, q: quit)\n"
}

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLoad := getopt.StringLong("load", 'd', "", "Raw object file to load at address 0")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	cfg := config.Default()
	if *optConfig != "" {
		loaded, err := config.Load(*optConfig)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *optLoad != "" {
		cfg.LoadPath = *optLoad
	}

	mem := memory.New(cfg.MemorySize)
	c := cpu.New(mem, cfg.RegBase, nil)
	c.HaltOnError = cfg.HaltOnError
	c.IPtr = cfg.Entry

	if cfg.LoadPath != "" {
		data, err := os.ReadFile(cfg.LoadPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for i, by := range data {
			if err := mem.WriteByte(uint32(i), by); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
	}

	if _, err := tea.NewProgram(model{c: c, rows: 8}).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
