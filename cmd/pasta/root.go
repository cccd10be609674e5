package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	exitOK       = 0
	exitDiff     = 1
	exitInternal = 2
)

var verboseFlag bool

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pasta",
		Short: "Format-preserving Python refactoring",
		Long: `Pasta parses Python source into a syntax tree annotated with the exact
spelling of every construct, applies structural edits, and regenerates
source that is byte-identical everywhere the tree was not touched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := zerolog.WarnLevel
			if verboseFlag {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()
		},
	}
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newSplitImportCmd())
	cmd.AddCommand(newRefsCmd())
	return cmd
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if code, ok := err.(exitError); ok {
			return int(code)
		}
		log.Error().Err(err).Msg("command failed")
		return exitInternal
	}
	return exitOK
}

// exitError carries a non-zero exit code through cobra without logging it as
// an internal failure.
type exitError int

func (e exitError) Error() string { return "exit" }
