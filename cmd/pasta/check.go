package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dominichamon/pasta"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Verify that files survive a parse/annotate/generate round trip",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				src, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				out, err := pasta.RoundTrip(cmd.Context(), src)
				if err != nil {
					log.Error().Str("file", path).Err(err).Msg("round trip failed")
					failed++
					continue
				}
				if out != string(src) {
					log.Error().Str("file", path).
						Int("want_bytes", len(src)).
						Int("got_bytes", len(out)).
						Msg("round trip output differs from input")
					failed++
					continue
				}
				log.Debug().Str("file", path).Msg("round trip ok")
				fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", path)
			}
			if failed > 0 {
				return exitError(exitDiff)
			}
			return nil
		},
	}
	return cmd
}
