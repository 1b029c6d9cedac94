/*
Gudgeonrepl is an interactive tokenizing REPL over a compiled gudgeon rule
set.

It reads a TOML or YAML rule file, compiles it, and then reads lines of
input one at a time, printing the (start, end, action) spans produced by
lexing each line.

Usage:

	gudgeonrepl [flags] RULEFILE

The flags are:

	-v, --version
		Give the current version of gudgeon and then exit.

	-d, --direct
		Force reading directly from stdin instead of going through GNU
		readline where possible.

Once a session has started, each line is tokenized and its spans printed.
The command ":rewind N" replays tokenization of the current line from byte
offset N without restarting the session. The command ":quit" ends the
session.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/gudgeon"
	"github.com/dekarrin/gudgeon/internal/version"
	"github.com/dekarrin/gudgeon/rulefile"
	"github.com/chzyer/readline"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue compiling the rule file.
	ExitInitError

	// ExitReadError indicates an unsuccessful program execution due to an
	// issue reading from the input source.
	ExitReadError
)

var (
	returnCode  int   = ExitSuccess
	flagVersion *bool = pflag.BoolP("version", "v", false, "gives the version info")
	forceDirect *bool = pflag.BoolP("direct", "d", false, "force reading directly from stdin instead of going through GNU readline where possible")
)

func main() {
	defer func() { os.Exit(returnCode) }()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "USAGE: gudgeonrepl [flags] RULEFILE")
		returnCode = ExitInitError
		return
	}

	rs, errIdx, err := compileRuleFile(pflag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	reader, err := newLineReader(*forceDirect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer reader.Close()

	if err := runLoop(reader, rs, rs.Rules[errIdx].Action); err != nil && err != io.EOF {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitReadError
	}
}

func compileRuleFile(path string) (*gudgeon.RuleSet[string], int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, -1, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := rulefile.Load(path, data)
	if err != nil {
		return nil, -1, err
	}
	return gudgeon.FromDocument(doc)
}

// lineReader abstracts the two input sources a session can use, the same
// direct/readline split cmd/tqi's DirectCommandReader/InteractiveCommandReader
// pair makes.
type lineReader interface {
	ReadLine() (string, error)
	Close() error
}

type directReader struct{ r *bufio.Reader }

func (d directReader) ReadLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (d directReader) Close() error { return nil }

type interactiveReader struct{ rl *readline.Instance }

func (i interactiveReader) ReadLine() (string, error) {
	line, err := i.rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (i interactiveReader) Close() error { return i.rl.Close() }

func newLineReader(direct bool) (lineReader, error) {
	if direct {
		return directReader{r: bufio.NewReader(os.Stdin)}, nil
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "> "})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return interactiveReader{rl: rl}, nil
}

func runLoop(reader lineReader, rs *gudgeon.RuleSet[string], errorAction string) error {
	ops, err := rs.BuildIR()
	if err != nil {
		return err
	}

	var lex *gudgeon.Lexer[string]
	var lastLine string

	for {
		line, err := reader.ReadLine()
		if err != nil {
			return err
		}
		if line == ":quit" {
			return nil
		}

		if rest, ok := strings.CutPrefix(line, ":rewind "); ok {
			if lex == nil {
				fmt.Println("no active line to rewind")
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil {
				fmt.Printf("bad offset: %s\n", err.Error())
				continue
			}
			lex.Rewind(n)
			printSpans(lex)
			continue
		}

		lastLine = line
		lex = gudgeon.NewLexer(ops, lastLine, errorAction)
		printSpans(lex)
	}
}

func printSpans(lex *gudgeon.Lexer[string]) {
	for {
		sp, ok := lex.Next()
		if !ok {
			return
		}
		fmt.Printf("%d..%d\t%s\n", sp.Start, sp.End, sp.Value)
	}
}
