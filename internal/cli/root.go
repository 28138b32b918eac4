// Package cli holds the cobra command tree of the astutus binary.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rich-dobbs-13440/astutus-sub000/internal/version"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/logging"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/output"
)

// NewRootCmd creates and returns the root command
func NewRootCmd(env Env) *cobra.Command {
	env = env.withDefaults()
	initTemplateFormatting()

	var (
		verbosity int
		format    output.Format
		logCloser io.Closer
	)

	rootCmd := &cobra.Command{
		Use:     "astutus",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Get().Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logCloser = logging.Setup(logging.Options{
				Verbosity: verbosity,
				LogFile:   env.Paths.LogFilePath(),
				Console:   env.Err,
			})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				_ = logCloser.Close()
			}
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	rootCmd.SetOut(env.Out)
	rootCmd.SetErr(env.Err)

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().Var(&format, "format", MsgFlagFormat)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return output.FormatNames(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddGroup(&cobra.Group{ID: "devices", Title: "DEVICES:"})
	rootCmd.AddGroup(&cobra.Group{ID: "tables", Title: "TABLES:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newClassifyCmd(env))
	rootCmd.AddCommand(newLabelCmd(env))
	rootCmd.AddCommand(newTreeCmd(env))
	rootCmd.AddCommand(newSelectorCmd(env))
	rootCmd.AddCommand(newAliasCmd(env))
	rootCmd.AddCommand(newRulesCmd(env))
	rootCmd.AddCommand(newConfigCmd(env))
	rootCmd.AddCommand(newCacheCmd(env))
	rootCmd.AddCommand(newVersionCmd(env))
	rootCmd.AddCommand(newCompletionCmd(env))

	return rootCmd
}

// run opens the engine and a printer for the --format flag, then calls fn
func run(cmd *cobra.Command, env Env, fn func(ctx context.Context, a *app, p *output.Printer) error) error {
	p := newPrinter(cmd, env)

	a, err := openApp(env)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(cmd.Context(), a, p)
}

func newPrinter(cmd *cobra.Command, env Env) *output.Printer {
	format := output.FormatAuto
	if flag := cmd.Flag("format"); flag != nil {
		if f, ok := flag.Value.(*output.Format); ok {
			format = *f
		}
	}
	return output.New(format, env.Out)
}

// devicePath resolves arg against the sysfs root unless it is absolute
func (a *app) devicePath(arg string) string {
	if arg == "" {
		return a.settings.Sysfs.Root
	}
	if filepath.IsAbs(arg) {
		return filepath.Clean(arg)
	}
	return filepath.Join(a.settings.Sysfs.Root, arg)
}

func newVersionCmd(env Env) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Long:    MsgVersionLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			fmt.Fprintf(env.Out, MsgVersionFormat, info.Version)
			if info.Commit != "" {
				fmt.Fprintf(env.Out, MsgCommitFormat, info.Commit)
			}
			if info.Date != "" {
				fmt.Fprintf(env.Out, MsgBuiltFormat, info.Date)
			}
		},
	}
}

func newCompletionCmd(env Env) *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(env.Out, true)
			case "zsh":
				return root.GenZshCompletion(env.Out)
			case "fish":
				return root.GenFishCompletion(env.Out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(env.Out)
			}
		},
	}
}
