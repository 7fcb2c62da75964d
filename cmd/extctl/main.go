// extctl builds an extensible host from an extensible.toml manifest and lets
// you inspect it, call its operations and fork it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/extensible/ext"
	"github.com/chazu/extensible/lib/layers"
	"github.com/chazu/extensible/manifest"
	"github.com/chazu/extensible/snapshot"
)

func main() {
	verbosity := flag.Int("v", 0, "Log verbosity (overrides the manifest)")
	dir := flag.String("m", "", "Directory to search for extensible.toml (default: current directory)")
	describe := flag.Bool("describe", false, "Print a JSON description of the host")
	cborOut := flag.String("cbor", "", "Write a CBOR snapshot of the host to this file")
	callLine := flag.String("call", "", "Call an operation, e.g. 'compute 2 3'")
	interactive := flag.Bool("i", false, "Start interactive REPL")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: extctl [options]\n\n")
		fmt.Fprintf(os.Stderr, "Builds a host from extensible.toml and runs the requested actions.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  extctl -describe             # Print operations and layers\n")
		fmt.Fprintf(os.Stderr, "  extctl -call 'compute 2 3'   # Call an operation\n")
		fmt.Fprintf(os.Stderr, "  extctl -m ./hosts/demo -i    # Start REPL on another manifest\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  EXTENSIBLE_MANIFEST, EXTENSIBLE_HOST_NAME, EXTENSIBLE_VERBOSITY\n")
	}
	flag.Parse()

	env, err := manifest.ParseEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	searchDir := *dir
	if searchDir == "" {
		searchDir = env.Manifest
	}
	if searchDir == "" {
		searchDir = "."
	}

	m, err := manifest.FindAndLoad(searchDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		fmt.Fprintf(os.Stderr, "Error: no %s found from %s\n", manifest.FileName, searchDir)
		os.Exit(1)
	}
	m.ApplyEnv(env)

	level := m.Host.Verbosity
	if flagSet("v") {
		level = *verbosity
	}
	commonlog.Configure(level, nil)

	host, err := m.Build(layers.Builtins())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building host %s: %v\n", m.Host.Name, err)
		os.Exit(1)
	}

	s := newSession(host, os.Stdout)

	if *describe {
		if err := snapshot.WriteJSON(os.Stdout, snapshot.Take(host)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *cborOut != "" {
		if err := writeCBOR(*cborOut, host); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *callLine != "" {
		if err := s.call(*callLine); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *interactive {
		runREPL(s)
	}
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func writeCBOR(path string, host *ext.Object) error {
	data, err := snapshot.Marshal(snapshot.Take(host))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
