package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/source"
	"github.com/reoring/bsonskema/value"
)

func newInspectCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file...]",
		Short: "Print the path and kind of every value in the given documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := root.logger(cmd)
			out := cmd.OutOrStdout()
			for _, name := range args {
				docs, err := readDocuments(cmd.InOrStdin(), name, source.ReadOptions{})
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				log.Debug("read documents", "file", name, "count", len(docs))
				for i, doc := range docs {
					fmt.Fprintf(out, "%s#%d\n", name, i+1)
					walk(out, "", doc)
				}
			}
			return nil
		},
	}
}

func walk(out io.Writer, path string, v value.Value) {
	shown := path
	if shown == "" {
		shown = "<root>"
	}
	fmt.Fprintf(out, "  %s: %s\n", shown, v.Kind())
	switch t := v.(type) {
	case value.Array:
		for i, e := range t {
			walk(out, bsonskema.IndexPath(path, i), e)
		}
	case *value.Document:
		for _, e := range t.Elements() {
			walk(out, bsonskema.JoinPath(path, e.Key), e.Value)
		}
	}
}
