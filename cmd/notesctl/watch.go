package main

import (
	"fmt"
	"os/signal"
	"syscall"

	notesBox "github.com/2beens/notesbox/internal/notes_box"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "List the notes again every time the file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			store, err := opts.fileStore()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := cmd.OutOrStdout()
			if err := listNotes(ctx, store, w, output); err != nil {
				return err
			}

			return notesBox.WatchFile(ctx, store.Path(), func() {
				fmt.Fprintln(w, "---")
				if err := listNotes(ctx, store, w, output); err != nil {
					log.Errorf("list notes after change: %s", err)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format [table | json | yaml]")

	return cmd
}
