package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/rich-dobbs-13440/astutus-sub000/internal/cli"
	"github.com/rich-dobbs-13440/astutus-sub000/internal/version"
)

// Writes astutus.1 and one page per subcommand into the directory given as
// the only argument, or the root page to stdout without one.
func main() {
	rootCmd := cli.NewRootCmd(cli.Env{})

	header := &doc.GenManHeader{
		Title:   "ASTUTUS",
		Section: "1",
		Source:  "astutus " + version.Get().Version,
		Manual:  "astutus manual",
	}

	var err error
	if len(os.Args) > 1 {
		err = doc.GenManTree(rootCmd, header, os.Args[1])
	} else {
		err = doc.GenMan(rootCmd, header, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
