package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newPruneCmd(a *cli) *cobra.Command {
	var before string
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete content logs created before a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}
			t, err := parseTimeFlag(before, loc)
			if err != nil {
				return fmt.Errorf("--before: %w", err)
			}
			if t.IsZero() {
				return errors.New("--before is required")
			}

			env, err := a.client(a.logger).DeleteContentLogs(cmd.Context(), t.Unix())
			if err != nil {
				return err
			}
			if !env.Success {
				return errors.New(env.Message)
			}
			var deleted int64
			if len(env.Data) > 0 {
				if err := json.Unmarshal(env.Data, &deleted); err != nil {
					return fmt.Errorf("parse delete result: %w", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s logs\n", humanize.Comma(deleted))
			return nil
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "cutoff time, YYYY-MM-DD or YYYY-MM-DD HH:MM:SS")
	return cmd
}
