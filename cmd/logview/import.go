package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mandalnilabja/logview/internal/ingest"
	"github.com/mandalnilabja/logview/internal/tokenizer"
)

func newImportCmd(a *cli) *cobra.Command {
	var noTokens bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import content logs from a JSON Lines file (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var counter tokenizer.Counter
			if !noTokens {
				counter = tokenizer.New()
			}
			res, err := ingest.New(store, counter, a.logger).Import(cmd.Context(), in)
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %s, skipped %s, failed %s\n",
				humanize.Comma(int64(res.Inserted)),
				humanize.Comma(int64(res.Skipped)),
				humanize.Comma(int64(res.Failed)))
			return err
		},
	}
	cmd.Flags().BoolVar(&noTokens, "no-tokens", false, "do not backfill missing token counts")
	addDBFlag(cmd, a)
	return cmd
}
