/*
Gudgeonc compiles a gudgeon rule file into a runnable lexer.

It reads a TOML or YAML rule file describing a set of regex rules, builds
the derivative-based DFA, lowers it to the IR the gudgeon runtime executes,
and either disassembles that IR, runs it over a sample input, or stores it
in a compiled-lexer cache for reuse.

Usage:

	gudgeonc [flags] RULEFILE

The flags are:

	-v, --version
		Give the current version of gudgeon and then exit.

	-dump FORMAT
		Print a disassembly of the compiled IR instead of running it. FORMAT
		is "text" (default) or "dot" for a Graphviz automaton graph.

	-input FILE
		Run the compiled lexer over FILE (or stdin, if FILE is "-") and print
		the resulting (start, end, action) triples.

	-cache FILE
		Use FILE as a compiled-lexer cache database, skipping DFA
		construction when the rule file is unchanged.

	-watch
		Recompile whenever RULEFILE changes on disk, printing ambiguity
		errors to stderr without exiting.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/gudgeon/internal/version"
	"github.com/dekarrin/rosed"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitCompileError indicates the rule file failed to compile.
	ExitCompileError

	// ExitUsageError indicates the command line arguments were invalid.
	ExitUsageError

	// ExitRuntimeError indicates a failure while running the compiled lexer.
	ExitRuntimeError
)

const disassemblyWidth = 100

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "gives the version info")
	flagDump    *string = pflag.String("dump", "", "print a disassembly of the compiled IR (\"text\" or \"dot\") instead of running it")
	flagInput   *string = pflag.String("input", "", "run the compiled lexer over FILE (or \"-\" for stdin)")
	flagCache   *string = pflag.String("cache", "", "compiled-lexer cache database path")
	flagWatch   *bool   = pflag.Bool("watch", false, "recompile whenever the rule file changes")
)

func main() {
	defer func() { os.Exit(returnCode) }()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "USAGE: gudgeonc [flags] RULEFILE")
		returnCode = ExitUsageError
		return
	}
	ruleFile := pflag.Arg(0)

	if *flagWatch {
		runWatch(ruleFile)
		return
	}

	if err := compileOnce(ruleFile); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitCompileError
	}
}

func runWatch(ruleFile string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: starting watcher: %s\n", err.Error())
		returnCode = ExitCompileError
		return
	}
	defer watcher.Close()

	if err := watcher.Add(ruleFile); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: watching %s: %s\n", ruleFile, err.Error())
		returnCode = ExitCompileError
		return
	}

	if err := compileOnce(ruleFile); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := compileOnce(ruleFile); err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: watcher: %s\n", err.Error())
		}
	}
}

func compileOnce(ruleFile string) error {
	rs, errIdx, ops, err := loadAndCompile(ruleFile, *flagCache)
	if err != nil {
		return err
	}

	switch *flagDump {
	case "text":
		fmt.Print(disassembleText(formatOps(ops)))
		return nil
	case "dot":
		return disassembleDot(rs)
	}

	if *flagInput != "" {
		return runInput(ops, rs.Rules[errIdx].Action, *flagInput)
	}

	fmt.Print(disassembleText(formatOps(ops)))
	return nil
}

func disassembleText(code []textOp) string {
	var b []byte
	for i, op := range code {
		b = append(b, []byte(fmt.Sprintf("%4d: %s\n", i, op))...)
	}
	return rosed.Edit(string(b)).Wrap(disassemblyWidth).String()
}
