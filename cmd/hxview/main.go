package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/pthm/hxview"
	"github.com/pthm/hxview/lib/generator"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "generate":
		if err := runGenerate(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "clean":
		if err := runClean(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("hxview version %s\n", hxview.Version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hxview - HTML components for Go

Usage:
  hxview <command> [arguments]

Commands:
  generate [packages]   Write dependency manifests (*_hx.go) for components
  clean [packages]      Remove generated files (*_hx.go)
  version               Print version
  help                  Show this help

Options for generate and clean:
  --dry-run             Show what would be written or removed

Examples:
  hxview generate ./...                 Generate for all packages
  hxview generate ./views/layout        Generate for specific package
  hxview generate --dry-run ./...       Preview generation
  hxview clean ./...                    Remove all generated files`)
}

func parseArgs(name string, args []string) (generator.Options, []string, error) {
	var opts generator.Options

	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.BoolVar(&opts.DryRun, "dry-run", false, "show what would change without writing files")
	if err := flagSet.Parse(args); err != nil {
		return opts, nil, err
	}

	patterns := flagSet.Args()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	return opts, patterns, nil
}

func runGenerate(args []string) error {
	opts, patterns, err := parseArgs("generate", args)
	if err != nil {
		return err
	}
	return generator.New(opts).Generate(patterns...)
}

func runClean(args []string) error {
	opts, patterns, err := parseArgs("clean", args)
	if err != nil {
		return err
	}
	return generator.New(opts).Clean(patterns...)
}
