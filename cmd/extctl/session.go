package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chazu/extensible/ext"
	"github.com/chazu/extensible/snapshot"
)

// session holds the host the CLI is working on. :fork replaces it with a
// fork and keeps the previous hosts so :pop can return to them.
type session struct {
	host  *ext.Object
	saved []*ext.Object
	out   io.Writer
}

func newSession(host *ext.Object, out io.Writer) *session {
	return &session{host: host, out: out}
}

// call parses "op arg..." and invokes op. If the operation takes one more
// parameter than was given, a callback printing the results is appended.
func (s *session) call(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := fields[0]
	d := s.host.Descriptor(name)
	if d == nil {
		return fmt.Errorf("%w: %q", ext.ErrUnknownOperation, name)
	}

	args := make([]ext.Value, 0, len(fields))
	for _, f := range fields[1:] {
		args = append(args, parseValue(f))
	}
	if len(args) == d.Arity()-1 {
		args = append(args, ext.Callback(s.printResults))
	}
	return s.host.Call(name, args...)
}

func (s *session) printResults(results ...ext.Value) {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = formatValue(r)
	}
	fmt.Fprintf(s.out, "=> %s\n", strings.Join(parts, " "))
}

// command runs a ':' command and reports whether the REPL should exit.
func (s *session) command(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case ":quit", ":q":
		return true

	case ":help", ":h":
		fmt.Fprintln(s.out, "Commands:")
		fmt.Fprintln(s.out, "  op arg...   Call an operation")
		fmt.Fprintln(s.out, "  :ops        List operations")
		fmt.Fprintln(s.out, "  :layers     List layers, outermost last")
		fmt.Fprintln(s.out, "  :fork       Work on a fork of the current host")
		fmt.Fprintln(s.out, "  :pop        Return to the host before the last :fork")
		fmt.Fprintln(s.out, "  :info       Show host id, parent and generation")
		fmt.Fprintln(s.out, "  :quit       Exit")

	case ":ops":
		for d := range s.host.Descriptors() {
			line := fmt.Sprintf("  %s(%s)", d.Name, strings.Join(d.Params(), ", "))
			if depth := d.Depth(); depth > 0 {
				line += fmt.Sprintf("  gen %d, %d upgrade(s)", d.Generation(), depth)
			}
			fmt.Fprintln(s.out, line)
		}

	case ":layers":
		snap := snapshot.Take(s.host)
		if len(snap.Layers) == 0 {
			fmt.Fprintln(s.out, "  (no layers)")
		}
		for i, l := range snap.Layers {
			fmt.Fprintf(s.out, "  %d. %s  gen %d  [%s]\n", i+1, l.Name, l.Generation, strings.Join(l.Implements, ", "))
		}

	case ":fork":
		s.saved = append(s.saved, s.host)
		s.host = s.host.Fork()
		fmt.Fprintf(s.out, "forked %s\n", s.host.ID())

	case ":pop":
		if len(s.saved) == 0 {
			fmt.Fprintln(s.out, "no saved host")
			break
		}
		s.host = s.saved[len(s.saved)-1]
		s.saved = s.saved[:len(s.saved)-1]
		fmt.Fprintf(s.out, "back to %s\n", s.host.ID())

	case ":info":
		fmt.Fprintf(s.out, "  id:         %s\n", s.host.ID())
		if p := s.host.Parent(); p != nil {
			fmt.Fprintf(s.out, "  parent:     %s\n", p.ID())
		}
		fmt.Fprintf(s.out, "  generation: %d\n", s.host.Generation())

	default:
		fmt.Fprintf(s.out, "unknown command %s. Type :help for commands.\n", fields[0])
	}
	return false
}

// parseValue reads an integer, then a float, falling back to the raw string.
func parseValue(s string) ext.Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return strings.Trim(s, `"`)
}

func formatValue(v ext.Value) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	default:
		return fmt.Sprint(x)
	}
}
