// Package replshell implements an interactive liner-backed shell for ad hoc
// insert/search/stat commands against a trie.Engine.
package replshell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/kampersanda/bonsaigo/pkg/trie"
)

// Shell is an interactive command loop over a trie.Engine.
type Shell struct {
	engine trie.Engine
	out    io.Writer
	liner  *liner.State
}

// New builds a shell that queries engine, writing output to out.
func New(engine trie.Engine, out io.Writer) *Shell {
	return &Shell{engine: engine, out: out}
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bonsai_history")
}

// Run starts the REPL loop, reading from the terminal until the user exits
// or EOF is reached.
func (s *Shell) Run() error {
	s.liner = liner.NewLiner()
	defer s.liner.Close()

	s.liner.SetCtrlCAborts(true)
	s.liner.SetCompleter(s.completer)

	if f, err := os.Open(historyFile()); err == nil {
		s.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintln(s.out, "bonsai query shell. Type 'help' for commands.")

	for {
		line, err := s.liner.Prompt("bonsai> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Fprintln(s.out, "\nbye")
				break
			}
			return fmt.Errorf("replshell: read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.liner.AppendHistory(line)
		if stop := s.dispatch(line); stop {
			break
		}
	}

	s.saveHistory()
	return nil
}

func (s *Shell) saveHistory() {
	path := historyFile()
	if path == "" {
		return
	}
	if f, err := os.Create(path); err == nil {
		s.liner.WriteHistory(f)
		f.Close()
	}
}

func (s *Shell) completer(line string) []string {
	commands := []string{"insert", "search", "stat", "help", "exit", "quit"}

	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	return out
}

// dispatch runs one command line and reports whether the shell should stop.
func (s *Shell) dispatch(line string) bool {
	parts := strings.SplitN(line, " ", 2)
	cmd := strings.ToLower(parts[0])

	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "exit", "quit", "q":
		fmt.Fprintln(s.out, "bye")
		return true

	case "help", "?":
		s.printHelp()

	case "insert":
		s.cmdInsert(arg)

	case "search":
		s.cmdSearch(arg)

	case "stat":
		if err := s.engine.ShowStat(s.out); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}

	default:
		fmt.Fprintf(s.out, "unknown command: %s (type 'help')\n", cmd)
	}

	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "  insert <key>   Insert key (NUL terminator appended automatically)")
	fmt.Fprintln(s.out, "  search <key>   Report whether key is present")
	fmt.Fprintln(s.out, "  stat           Print engine diagnostics")
	fmt.Fprintln(s.out, "  help           Show this help")
	fmt.Fprintln(s.out, "  exit / quit    Leave the shell")
}

func (s *Shell) cmdInsert(arg string) {
	if arg == "" {
		fmt.Fprintln(s.out, "usage: insert <key>")
		return
	}

	ok, err := s.engine.Insert(append([]byte(arg), 0))
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}

	if ok {
		fmt.Fprintf(s.out, "inserted %q\n", arg)
	} else {
		fmt.Fprintf(s.out, "%q already present\n", arg)
	}
}

func (s *Shell) cmdSearch(arg string) {
	if arg == "" {
		fmt.Fprintln(s.out, "usage: search <key>")
		return
	}

	found, err := s.engine.Search(append([]byte(arg), 0))
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}

	fmt.Fprintf(s.out, "%v\n", found)
}
