package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/schemafile"
)

func newOptionsCmd(root *rootFlags) *cobra.Command {
	var schemaPath, typeName string
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print the static options (required, index) of a record type by path",
		Long: `Prints every path of --type carrying a required or index option. A type
used by several fields is listed under each of them; a type that refers back to
one of its enclosing types stops at that reference.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadType(cmd, root, schemaPath, typeName)
			if err != nil {
				return err
			}
			required := bsonskema.ByPath(bsonskema.Required, bsonskema.StaticOptions[schemafile.Record](s, bsonskema.Required))
			index := bsonskema.ByPath(bsonskema.Index, bsonskema.StaticOptions[schemafile.Record](s, bsonskema.Index))

			paths := map[string]struct{}{}
			for p := range required {
				paths[p] = struct{}{}
			}
			for p := range index {
				paths[p] = struct{}{}
			}
			sorted := make([]string, 0, len(paths))
			for p := range paths {
				sorted = append(sorted, p)
			}
			sort.Strings(sorted)

			out := cmd.OutOrStdout()
			for _, p := range sorted {
				line := p
				if len(required[p]) > 0 && required[p][0] {
					line += " required"
				}
				for _, h := range index[p] {
					if h.Unique {
						line += " index(unique)"
					} else {
						line += " index"
					}
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "definition file (YAML)")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "record type")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
