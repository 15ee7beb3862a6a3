// gopdemo is a small interactive driver for the gop package: it registers
// a handful of literal targets from the specification's end-to-end
// scenarios and lets an operator inject bit faults into them and watch
// Check react.
//
// Usage:
//
//	gopdemo check                 Run the built-in scenario checks once
//	gopdemo scenario <file>       Run fault injections from a HuJSON file
//	gopdemo repl                  Interactive fault-injection shell
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		printUsage(errOut)
		return 2
	}

	sub := args[1]
	rest := args[2:]

	switch sub {
	case "check":
		return runCheck(out)
	case "scenario":
		return runScenarioCmd(rest, out, errOut)
	case "repl":
		return runRepl(rest, out, errOut)
	case "-h", "--help", "help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "gopdemo: unknown command %q\n", sub)
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: gopdemo <check|scenario|repl> [flags]")
}

func runScenarioCmd(args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)
	fs.SetOutput(errOut)
	journal := fs.StringP("journal", "j", "", "append a json audit line per corrected/lock fault to `file`")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: gopdemo scenario [-j file] <scenario-file>")
		return 2
	}

	closeAudit := installAudit(*journal, errOut)
	defer closeAudit()

	results, err := runScenarioFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "gopdemo: %v\n", err)
		return 1
	}

	ok := true
	for _, r := range results {
		fmt.Fprintf(out, "%-20s %-10s verdict=%-12s %s\n", r.Target, r.Field, r.Verdict, r.Note)
		if !r.Passed {
			ok = false
		}
	}
	if !ok {
		return 1
	}
	return 0
}

func runCheck(out io.Writer) int {
	for _, r := range builtinScenarios() {
		fmt.Fprintf(out, "%-20s %-10s verdict=%-12s %s\n", r.Target, r.Field, r.Verdict, r.Note)
	}
	return 0
}

func runRepl(args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(errOut)
	journal := fs.StringP("journal", "j", "", "append a json audit line per corrected/lock fault to `file`")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	closeAudit := installAudit(*journal, errOut)
	defer closeAudit()

	r := &repl{out: out}
	if err := r.run(); err != nil {
		fmt.Fprintf(errOut, "gopdemo: %v\n", err)
		return 1
	}
	return 0
}

func knownTarget(name string) bool {
	for _, n := range targetNames {
		if n == strings.ToLower(name) {
			return true
		}
	}
	return false
}
