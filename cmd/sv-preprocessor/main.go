// sv-preprocessor is a preprocessing utility for Verilog and
// SystemVerilog sources, organized as a registry of subcommands.
//
// Exit codes: 0 on success, 1 on runtime error, 2 on subcommand
// registration error.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mtikekar/verible/internal/preprocessor"
)

type subcommandFunc func(args []string, ins io.Reader, outs, errs io.Writer) error

type subcommandEntry struct {
	main  subcommandFunc
	usage string
}

type subcommandRegistry struct {
	commands map[string]subcommandEntry
}

func (r *subcommandRegistry) register(name string, entry subcommandEntry) error {
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command %q is already registered", name)
	}
	if r.commands == nil {
		r.commands = make(map[string]subcommandEntry)
	}
	r.commands[name] = entry
	return nil
}

func (r *subcommandRegistry) listCommands() string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return "  " + strings.Join(names, "\n  ")
}

func stripComments(args []string, ins io.Reader, outs, errs io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing file argument; use '-' for stdin")
	}
	sourceFile := args[0]

	var contents []byte
	var err error
	if sourceFile == "-" {
		contents, err = io.ReadAll(ins)
	} else {
		contents, err = os.ReadFile(sourceFile)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", sourceFile, err)
	}

	replacement := byte(' ')
	switch len(args) {
	case 1:
	case 2:
		switch len(args[1]) {
		case 0:
			replacement = 0
		case 1:
			replacement = args[1][0]
		default:
			return fmt.Errorf("replacement must be a single character")
		}
	default:
		return fmt.Errorf("too many arguments")
	}

	_, err = io.WriteString(outs, preprocessor.StripComments(string(contents), replacement))
	return err
}

const stripCommentsUsage = `strip-comments file [replacement-char]

Inputs:
  'file' is a Verilog or SystemVerilog source file.
  Use '-' to read from stdin.

  'replacement-char' is a character to replace comments with.
  If not given, or given as a single space character, the comment contents
  and delimiters are replaced with spaces.
  If an empty string, the comment contents and delimiters are deleted.
  Newlines are not deleted.
  If a single character, the comment contents are replaced with the
  character.

Output: (stdout)
  Contents of original file with // and /**/ comments removed.
`

func main() {
	var commands subcommandRegistry
	if err := commands.register("strip-comments", subcommandEntry{
		main:  stripComments,
		usage: stripCommentsUsage,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	usage := fmt.Sprintf("usage: %s command args...\navailable commands:\n%s",
		os.Args[0], commands.listCommands())

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	entry, ok := commands.commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s\n", os.Args[1], usage)
		os.Exit(1)
	}

	if err := entry.main(os.Args[2:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, entry.usage)
		os.Exit(1)
	}
}
