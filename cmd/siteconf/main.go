package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/eringen/siteconf"
)

// version is set at build time via ldflags.
var version = "dev"

var logger = siteconf.NewLogger(os.Stderr, true, zerolog.InfoLevel)

type command struct {
	run   func(args []string) error
	usage string
}

var commands = map[string]command{
	"new":       {runNew, "new <dir>"},
	"validate":  {runValidate, "validate <file>..."},
	"show":      {runShow, "show [-format yaml|json|python] <file>"},
	"export":    {runExport, "export [-force] <file>"},
	"import":    {runImport, "import [-db path] [-note text] <file>"},
	"revisions": {runRevisions, "revisions [-db path]"},
	"diff":      {runDiff, "diff [-db path] <a> <b>"},
	"serve":     {runServe, "serve"},
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch name := os.Args[1]; name {
	case "version":
		fmt.Printf("siteconf %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		cmd, ok := commands[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
			printUsage()
			os.Exit(1)
		}
		if err := cmd.run(os.Args[2:]); err != nil {
			if err != errUsage {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "Usage: siteconf %s\n", cmd.usage)
			}
			os.Exit(1)
		}
	}
}

func printUsage() {
	fmt.Println(`siteconf - manage the settings of a static-site generator

Usage:
  siteconf <command> [arguments]

Commands:
  new <dir>              Create a site skeleton with a starter siteconf.yaml
  validate <file>...     Check config files (YAML or pelicanconf.py)
  show <file>            Print a config as YAML, JSON or Python
  export <file>          Write the generator's pelicanconf.py to stdout
  import <file>          Store a config as a new revision
  revisions              List stored revisions
  diff <a> <b>           Compare two configs (files or revision numbers)
  serve                  Run the inspection and admin server
  version                Print the siteconf version
  help                   Show this help message

Environment:
  SITECONF_DB            Revision database (default data/siteconf.db)
  SITECONF_<SETTING>     Override AUTHOR, SITENAME, SITEURL, TIMEZONE,
                         DEFAULT_LANG or THEME when loading a file
  ADMIN_PASSWORD, ADMIN_SESSION_SECRET, ADDR, COOKIE_SECURE  (serve)

Examples:
  siteconf validate pelicanconf.py
  SITECONF_SITEURL=https://example.org siteconf export siteconf.yaml > publishconf.py
  siteconf diff 3 4`)
}
