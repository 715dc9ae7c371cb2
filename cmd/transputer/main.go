/*
 * transputer - Interactive stepper and batch runner.
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

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	getopt "github.com/pborman/getopt/v2"
	"github.com/peterh/liner"

	"github.com/gotransputer/transputer/config"
	"github.com/gotransputer/transputer/emu/assemble"
	"github.com/gotransputer/transputer/emu/cpu"
	"github.com/gotransputer/transputer/emu/memory"
	"github.com/gotransputer/transputer/util/hex"
	"github.com/gotransputer/transputer/util/logger"
)

var log *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optLoad := getopt.StringLong("load", 'd', "", "Program to load: .asm source or raw object bytes")
	optDebug := getopt.BoolLong("debug", 'g', "Mirror log output to stderr")
	optRun := getopt.BoolLong("run", 'r', "Run to completion instead of entering the stepper")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	level := new(slog.LevelVar)
	level.Set(slog.LevelDebug)
	log = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: level}, optDebug))
	slog.SetDefault(log)

	cfg := config.Default()
	if *optConfig != "" {
		loaded, err := config.Load(*optConfig)
		if err != nil {
			log.Error(err.Error())
			os.Exit(1)
		}
		cfg = loaded
	}
	if *optLoad != "" {
		cfg.LoadPath = *optLoad
	}

	mem := memory.New(cfg.MemorySize)
	c := cpu.New(mem, cfg.RegBase, log)
	c.HaltOnError = cfg.HaltOnError
	c.IPtr = cfg.Entry
	c.Terminal = os.Stdout

	if cfg.LoadPath != "" {
		if err := loadProgram(mem, cfg.LoadPath); err != nil {
			log.Error(err.Error())
			os.Exit(1)
		}
	}

	log.Info("transputer started", "memory", cfg.MemorySize, "regbase", hex.Word(int32(cfg.RegBase)))

	if *optRun {
		runToCompletion(c)
		return
	}
	repl(c)
}

// loadProgram assembles a .asm source file, or loads raw object bytes for
// any other extension, starting at address 0.
func loadProgram(mem *memory.Memory, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if strings.HasSuffix(path, ".asm") {
		p, err := assemble.Assemble(string(data))
		if err != nil {
			return fmt.Errorf("assemble %s: %w", path, err)
		}
		data = p.Bytes
	}
	for i, b := range data {
		if err := mem.WriteByte(uint32(i), b); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func runToCompletion(c *cpu.CPU) {
	for {
		err := c.Step()
		if err != nil {
			if !errors.Is(err, cpu.ErrHalted) {
				log.Error(err.Error())
			}
			break
		}
		c.Tick(1)
		if c.State() != cpu.RunActive {
			break
		}
	}
	fmt.Printf("IPtr=%s state=%s\n", hex.Word(c.ProgramCounter()), c.State())
}

// replCmd is one stepper command: a name, the shortest unambiguous
// abbreviation length, and the handler it dispatches to.
type replCmd struct {
	Name    string
	Min     int
	Process func(c *cpu.CPU, args []string) (bool, error)
}

var cmdList = []replCmd{
	{Name: "step", Min: 1, Process: cmdStep},
	{Name: "run", Min: 1, Process: cmdRun},
	{Name: "regs", Min: 1, Process: cmdRegs},
	{Name: "mem", Min: 1, Process: cmdMem},
	{Name: "load", Min: 1, Process: cmdLoad},
	{Name: "dump", Min: 1, Process: cmdDump},
	{Name: "quit", Min: 1, Process: cmdQuit},
}

func findCmd(name string) (*replCmd, error) {
	name = strings.ToLower(name)
	for i := range cmdList {
		c := &cmdList[i]
		if len(name) >= c.Min && strings.HasPrefix(c.Name, name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown command %q", name)
}

func repl(c *cpu.CPU) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(in string) []string {
		var out []string
		for _, cm := range cmdList {
			if strings.HasPrefix(cm.Name, strings.ToLower(in)) {
				out = append(out, cm.Name)
			}
		}
		return out
	})

	for {
		input, err := line.Prompt("transputer> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			log.Error("error reading line: " + err.Error())
			return
		}
		line.AppendHistory(input)

		fields := strings.Fields(input)
		if len(fields) == 0 {
			continue
		}
		cm, err := findCmd(fields[0])
		if err != nil {
			fmt.Println("Error: " + err.Error())
			continue
		}
		quit, err := cm.Process(c, fields[1:])
		if err != nil {
			fmt.Println("Error: " + err.Error())
		}
		if quit {
			return
		}
	}
}

func cmdStep(c *cpu.CPU, args []string) (bool, error) {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("step: %w", err)
		}
		n = v
	}
	for i := 0; i < n; i++ {
		if err := c.Step(); err != nil {
			return false, err
		}
		c.Tick(1)
		if c.State() != cpu.RunActive {
			break
		}
	}
	return cmdRegs(c, nil)
}

func cmdRun(c *cpu.CPU, _ []string) (bool, error) {
	runToCompletion(c)
	return false, nil
}

func cmdRegs(c *cpu.CPU, _ []string) (bool, error) {
	fmt.Printf("A=%s B=%s C=%s IPtr=%s WPtr=%s Error=%v state=%s\n",
		hex.Word(c.Reg(0)), hex.Word(c.Reg(1)), hex.Word(c.Reg(2)),
		hex.Word(c.ProgramCounter()), hex.Word(c.WorkspacePointer()),
		c.Flag("Error"), c.State())
	return false, nil
}

func cmdMem(c *cpu.CPU, args []string) (bool, error) {
	if len(args) == 0 {
		return false, errors.New("mem: requires an address")
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return false, err
	}
	count := 1
	if len(args) > 1 {
		count, err = strconv.Atoi(args[1])
		if err != nil {
			return false, fmt.Errorf("mem: %w", err)
		}
	}
	ro := c.Memory()
	words := make([]uint32, 0, count)
	for i := 0; i < count; i++ {
		v, err := ro.ReadWord(addr + uint32(i*4))
		if err != nil {
			return false, err
		}
		words = append(words, uint32(v))
	}
	var b strings.Builder
	hex.FormatWord(&b, words)
	fmt.Println(strings.TrimSpace(b.String()))
	return false, nil
}

func cmdLoad(c *cpu.CPU, args []string) (bool, error) {
	if len(args) == 0 {
		return false, errors.New("load: requires a path")
	}
	if err := loadProgram(c.Mem, args[0]); err != nil {
		return false, err
	}
	fmt.Println("loaded " + args[0])
	return false, nil
}

func cmdDump(c *cpu.CPU, _ []string) (bool, error) {
	spew.Dump(c)
	return false, nil
}

func cmdQuit(*cpu.CPU, []string) (bool, error) {
	return true, nil
}

func parseAddr(tok string) (uint32, error) {
	base := 10
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		tok = tok[2:]
		base = 16
	}
	v, err := strconv.ParseUint(tok, base, 32)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", tok, err)
	}
	return uint32(v), nil
}
