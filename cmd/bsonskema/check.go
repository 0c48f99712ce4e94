package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/dsl"
	"github.com/reoring/bsonskema/schemafile"
	"github.com/reoring/bsonskema/source"
	"github.com/reoring/bsonskema/value"
)

type checkFlags struct {
	schema    string
	typeName  string
	encode    bool
	canonical bool
	dupKeys   string
}

func newCheckCmd(root *rootFlags) *cobra.Command {
	flags := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Decode documents through a record type and report issues",
		Long: `Reads each file (JSON, JSON Lines or multi-document YAML; "-" for stdin),
decodes every document through --type and runs its validation options.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, root, flags, args)
		},
	}
	cmd.Flags().StringVarP(&flags.schema, "schema", "s", "", "definition file (YAML)")
	cmd.Flags().StringVarP(&flags.typeName, "type", "t", "", "record type to decode")
	cmd.Flags().BoolVar(&flags.encode, "encode", false, "print each valid document re-encoded through the type")
	cmd.Flags().BoolVar(&flags.canonical, "canonical", false, "with --encode, write canonical Extended JSON")
	cmd.Flags().StringVar(&flags.dupKeys, "duplicate-keys", "warn", "JSON objects repeating a key: last, warn or error")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func runCheck(cmd *cobra.Command, root *rootFlags, flags *checkFlags, files []string) error {
	log := root.logger(cmd)
	s, err := loadType(cmd, root, flags.schema, flags.typeName)
	if err != nil {
		return err
	}
	opt, err := readOptions(flags.dupKeys)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	var total, failed int
	for _, name := range files {
		opt.Warn = func(path string) { log.Warn("duplicate key", "file", name, "path", path) }
		docs, err := readDocuments(cmd.InOrStdin(), name, opt)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		log.Debug("read documents", "file", name, "count", len(docs))
		for i, doc := range docs {
			total++
			where := fmt.Sprintf("%s#%d", name, i+1)
			if err := checkOne(out, s, flags, where, doc); err != nil {
				failed++
				printIssues(out, where, err)
			}
		}
	}
	log.Debug("check finished", "documents", total, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, total)
	}
	fmt.Fprintf(out, "%d documents ok\n", total)
	return nil
}

func checkOne(out io.Writer, s *dsl.ObjectSchema[schemafile.Record], flags *checkFlags, where string, doc value.Value) error {
	rec, err := s.Decode(doc)
	if err != nil {
		return err
	}
	if err := bsonskema.CheckInstance[schemafile.Record](s, rec); err != nil {
		return err
	}
	if !flags.encode {
		return nil
	}
	enc, err := s.Encode(rec)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: ", where)
	return source.WriteJSON(out, enc, source.Options{Canonical: flags.canonical})
}

func printIssues(out io.Writer, where string, err error) {
	iss, ok := bsonskema.AsIssues(err)
	if !ok {
		fmt.Fprintf(out, "%s: %v\n", where, err)
		return
	}
	for _, it := range iss {
		path := it.Path
		if path == "" {
			path = "<root>"
		}
		line := fmt.Sprintf("%s: %s: %s: %s", where, path, it.Code, it.Message)
		if it.Hint != "" {
			line += " (" + it.Hint + ")"
		}
		fmt.Fprintln(out, line)
	}
}

func loadType(cmd *cobra.Command, root *rootFlags, schemaPath, typeName string) (*dsl.ObjectSchema[schemafile.Record], error) {
	log := root.logger(cmd)
	reg, diag, err := schemafile.Load(schemaPath)
	if err != nil {
		return nil, err
	}
	if diag != nil {
		for _, w := range diag.Warnings() {
			log.Warn("definition file", "warning", w)
		}
	}
	s, ok := reg.Schema(typeName)
	if !ok {
		return nil, fmt.Errorf("type %q not found in %s (have %s)", typeName, schemaPath, strings.Join(reg.Names(), ", "))
	}
	log.Debug("loaded type", "type", typeName, "fields", s.FieldNames())
	return s, nil
}

func readOptions(dupKeys string) (source.ReadOptions, error) {
	switch dupKeys {
	case "last":
		return source.ReadOptions{OnDuplicateKey: source.DupLastWins}, nil
	case "warn":
		return source.ReadOptions{OnDuplicateKey: source.DupWarn}, nil
	case "error":
		return source.ReadOptions{OnDuplicateKey: source.DupError}, nil
	}
	return source.ReadOptions{}, fmt.Errorf("--duplicate-keys: unknown policy %q", dupKeys)
}

// readDocuments reads all documents of a file, choosing YAML by extension.
func readDocuments(stdin io.Reader, name string, opt source.ReadOptions) ([]value.Value, error) {
	var r io.Reader = stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return source.ReadYAML(r)
	}
	var docs []value.Value
	err := source.ReadJSONStreamWith(r, opt, func(v value.Value) error {
		docs = append(docs, v)
		return nil
	})
	return docs, err
}
