package main

import (
	"os"

	notesBox "github.com/2beens/notesbox/internal/notes_box"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	notesFile string
	verbose   bool
}

// newRootCmd builds the notesctl command tree, working directly on a notes file
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "notesctl",
		Short: "Inspect and edit a notes file from the terminal",
		Long: `notesctl reads and writes the same JSON notes file the notes service uses.
New notes go through the same title validation as the web form.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(os.Stderr)
			log.SetLevel(log.WarnLevel)
			if opts.verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.notesFile, "file", "f", "./notes.json", "path of the notes JSON file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(
		newListCmd(opts),
		newAddCmd(opts),
		newWatchCmd(opts),
	)

	return rootCmd
}

func (o *rootOptions) fileStore() (*notesBox.FileStore, error) {
	return notesBox.NewFileStore(o.notesFile)
}
