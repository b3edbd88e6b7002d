package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	notesBox "github.com/2beens/notesbox/internal/notes_box"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all notes in the file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			store, err := opts.fileStore()
			if err != nil {
				return err
			}

			return listNotes(cmd.Context(), store, cmd.OutOrStdout(), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format [table | json | yaml]")

	return cmd
}

func validateOutput(output string) error {
	switch output {
	case outputTable, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format: %q", output)
	}
}

func listNotes(ctx context.Context, store notesBox.Store, w io.Writer, output string) error {
	notes, err := store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("get notes: %w", err)
	}

	return writeNotes(w, output, notes)
}

func writeNotes(w io.Writer, output string, notes []notesBox.Note) error {
	switch output {
	case outputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(notes)
	case outputYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(notesYAML(notes)); err != nil {
			return err
		}
		return encoder.Close()
	default:
		if len(notes) == 0 {
			_, err := fmt.Fprintln(w, notesBox.NotFoundMessage)
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tID\tTITLE\tFIELDS")
		for i, n := range notes {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, n.ID, n.Title, len(n.Extra))
		}
		return tw.Flush()
	}
}

// notesYAML keeps the JSON field order in YAML output: id, title, then extra fields by key
func notesYAML(notes []notesBox.Note) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, n := range notes {
		mapping := &yaml.Node{Kind: yaml.MappingNode}
		addPair := func(key, value string) {
			mapping.Content = append(mapping.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
			)
		}

		addPair("id", n.ID)
		addPair("title", n.Title)

		keys := make([]string, 0, len(n.Extra))
		for k := range n.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			addPair(k, n.Extra[k])
		}

		seq.Content = append(seq.Content, mapping)
	}
	return seq
}
