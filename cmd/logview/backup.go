package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mandalnilabja/logview/internal/backup"
	"github.com/mandalnilabja/logview/internal/storage"
)

func newBackupCmd(a *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Commit the channel table to the backup repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := a.syncer(store).Backup(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case res.Committed:
				fmt.Fprintf(out, "backed up %d channels in %s\n", res.Channels, shortHash(res.Commit))
			default:
				fmt.Fprintf(out, "%d channels unchanged\n", res.Channels)
			}
			if res.Pushed {
				fmt.Fprintf(out, "pushed to %s\n", a.cfg.BackupRemote)
			}
			return nil
		},
	}
	addBackupFlags(cmd, a)
	return cmd
}

func newRestoreCmd(a *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore channels from the backup repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := a.syncer(store).Restore(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d channels\n", res.Channels)
			return nil
		},
	}
	addBackupFlags(cmd, a)
	return cmd
}

func (a *cli) syncer(store storage.Storage) *backup.Syncer {
	return backup.New(store, backup.Options{
		Dir:    a.cfg.BackupDir,
		Remote: a.cfg.BackupRemote,
		Token:  a.cfg.BackupToken,
	}, a.logger)
}

// addBackupFlags adds --db, --dir and --remote.
func addBackupFlags(cmd *cobra.Command, a *cli) {
	var dir, remote string
	cmd.Flags().StringVar(&dir, "dir", "", "backup working copy (default from config)")
	cmd.Flags().StringVar(&remote, "remote", "", "git remote URL to push to and pull from")
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed("dir") {
			a.cfg.BackupDir = dir
		}
		if cmd.Flags().Changed("remote") {
			a.cfg.BackupRemote = remote
		}
		return nil
	}
	addDBFlag(cmd, a)
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
