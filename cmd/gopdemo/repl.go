package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/cborchert/gop/gop"
)

// repl is the interactive fault-injection shell, grounded on cmd/sloty's
// liner-based REPL: a completer-backed Prompt loop over a fixed verb table,
// with history persisted to a dotfile in the user's home directory.
type repl struct {
	out   io.Writer
	liner *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gopdemo_history")
}

func (r *repl) run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintln(r.out, "gopdemo - interactive fault injection shell")
	fmt.Fprintln(r.out, "targets:", strings.Join(targetNames, ", "))
	fmt.Fprintln(r.out, "type 'help' for available commands.")
	fmt.Fprintln(r.out)

	for {
		line, err := r.liner.Prompt("gopdemo> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Fprintln(r.out, "\nBye!")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			r.saveHistory()
			return nil
		case "help", "?":
			r.printHelp()
		case "list", "ls":
			fmt.Fprintln(r.out, strings.Join(targetNames, "\n"))
		case "show":
			r.cmdShow(args)
		case "flip":
			r.cmdFlip(args)
		case "check":
			r.cmdCheck(args)
		case "gen", "generate":
			r.cmdGenerate(args)
		default:
			fmt.Fprintf(r.out, "unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()
	return nil
}

func (r *repl) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, `commands:
  list                        list available targets
  show <target>                print a target's current field values
  flip <target> <bit>          XOR a bit into the target's live bytes, bypassing BeginMutate/Generate
  check <target>                run Check and print the verdict
  gen <target>                  run BeginMutate+Generate to resynchronize
  help                          show this help
  exit / quit / q               leave the shell`)
}

func (r *repl) cmdShow(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: show <target>")
		return
	}
	switch strings.ToLower(args[0]) {
	case "rectangle":
		fmt.Fprintf(r.out, "rectangle{width=%d height=%d}\n", demoRect.Value().width, demoRect.Value().height)
	case "square":
		fmt.Fprintf(r.out, "square{width=%d}\n", demoSquare.Value().width)
	case "circle-instances":
		fmt.Fprintf(r.out, "circleInstances{instances=%d}\n", circleInstances.Value().instances)
	default:
		fmt.Fprintf(r.out, "unknown target: %s\n", args[0])
	}
}

func (r *repl) cmdFlip(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(r.out, "usage: flip <target> <bit>")
		return
	}
	bit, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(r.out, "invalid bit: %v\n", err)
		return
	}
	switch strings.ToLower(args[0]) {
	case "rectangle":
		demoRect.Value().height ^= int32(1) << uint(bit%32)
	case "square":
		demoSquare.Value().width ^= int32(1) << uint(bit%32)
	case "circle-instances":
		circleInstances.Value().instances ^= int32(1) << uint(bit%32)
	default:
		fmt.Fprintf(r.out, "unknown target: %s\n", args[0])
		return
	}
	fmt.Fprintln(r.out, "flipped; run 'check' to see the reaction")
}

func (r *repl) cmdCheck(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: check <target>")
		return
	}
	var v gop.Verdict
	switch strings.ToLower(args[0]) {
	case "rectangle":
		v = demoRect.Check()
	case "square":
		v = demoSquare.Check()
	case "circle-instances":
		v = circleInstances.Check()
	default:
		fmt.Fprintf(r.out, "unknown target: %s\n", args[0])
		return
	}
	fmt.Fprintf(r.out, "verdict: %s\n", v)
}

func (r *repl) cmdGenerate(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: gen <target>")
		return
	}
	switch strings.ToLower(args[0]) {
	case "rectangle":
		demoRect.BeginMutate()
		demoRect.Generate()
	case "square":
		demoSquare.BeginMutate()
		demoSquare.Generate()
	case "circle-instances":
		circleInstances.BeginMutate()
		circleInstances.Generate()
	default:
		fmt.Fprintf(r.out, "unknown target: %s\n", args[0])
		return
	}
	fmt.Fprintln(r.out, "regenerated")
}

func (r *repl) completer(line string) []string {
	var out []string
	for _, c := range []string{"list", "show", "flip", "check", "gen", "help", "exit"} {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}
