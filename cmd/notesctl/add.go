package main

import (
	"errors"
	"fmt"
	"strings"

	notesBox "github.com/2beens/notesbox/internal/notes_box"

	"github.com/spf13/cobra"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	var (
		title  string
		fields []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note to the file",
		Long: `Add a note with the given title and extra fields.
The title must be at least 5 characters long once trimmed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			submitted, err := parseFields(fields)
			if err != nil {
				return err
			}
			submitted["title"] = title

			store, err := opts.fileStore()
			if err != nil {
				return err
			}

			submitter := notesBox.NewSubmitter(store, notesBox.SubmitterOpts{Serialize: true})
			result, err := submitter.Submit(cmd.Context(), submitted)

			var validationErr *notesBox.ValidationError
			if errors.As(err, &validationErr) {
				return errors.New(validationErr.Message)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "note added: %s\n", result.Note.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "note title")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "extra note field as key=value, repeatable")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// parseFields turns key=value pairs into note fields, the last value wins for repeated keys
func parseFields(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs)+1)
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", pair)
		}
		fields[key] = value
	}
	return fields, nil
}
