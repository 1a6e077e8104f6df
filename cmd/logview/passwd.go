package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPasswdCmd(a *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Set or change the admin password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := setPassword(store, newPasswordReader(os.Stdin, cmd.OutOrStdout())); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Admin password saved.")
			return nil
		},
	}
	addDBFlag(cmd, a)
	return cmd
}
