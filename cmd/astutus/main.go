package main

import (
	"os"

	"github.com/rich-dobbs-13440/astutus-sub000/internal/cli"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/output"
)

func main() {
	rootCmd := cli.NewRootCmd(cli.Env{})
	if err := rootCmd.Execute(); err != nil {
		_ = output.New(output.FormatAuto, os.Stderr).Error(err)
		os.Exit(1)
	}
}
