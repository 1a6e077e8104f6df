package main

import (
	"github.com/spf13/cobra"

	"github.com/mandalnilabja/logview/internal/tui"
)

func newViewCmd(a *cli) *cobra.Command {
	var flags *queryFlags
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse content logs in a full-screen viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}
			q, err := flags.query(cmd, a.defaultQuery(), loc)
			if err != nil {
				return err
			}

			level, _ := a.cfg.SlogLevel()
			logger, closer, err := openLogFile(level)
			if err != nil {
				return err
			}
			defer closer.Close()

			v := tui.New(tui.Options{
				Fetcher:  a.client(logger),
				Query:    q,
				Printer:  a.printer(),
				Location: loc,
				Quota:    a.quotaFormat(),
				Logger:   logger,
			})
			return v.Run(cmd.Context())
		},
	}
	flags = addQueryFlags(cmd)
	return cmd
}
