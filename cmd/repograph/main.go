package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tidemark-dev/repograph/internal/graph"
)

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	switch args[0] {
	case "scan":
		return runScan(args[1:])
	case "diff":
		return runDiff(args[1:])
	case "load":
		return runLoad(args[1:])
	case "serve":
		return runServe(args[1:])
	case "version":
		fmt.Println(version)
		return nil
	case "-h", "--help", "help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `repograph - deterministic code graph extraction

Usage:
  repograph scan  [flags]   scan a repository and emit its graph
  repograph diff  [flags]   diff a fresh scan against a baseline snapshot
  repograph load  [flags]   load a batch snapshot into a KuzuDB graph
  repograph serve [flags]   expose the graph tools over MCP
  repograph version         print version and exit

Run "repograph <command> -h" for command flags.
`)
}

// newLogger builds the process logger. Verbose enables debug records.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newParser is the production parser factory used by scan-driven commands.
func newParser() graph.Parser {
	return graph.NewTreeSitterParser()
}

// parseLanguages converts CLI language names, rejecting unknown ones.
func parseLanguages(names []string) ([]graph.Language, error) {
	var langs []graph.Language
	for _, n := range names {
		l := graph.Language(n)
		found := false
		for _, s := range graph.SupportedLanguages {
			if l == s {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unsupported language: %s", n)
		}
		langs = append(langs, l)
	}
	return langs, nil
}
