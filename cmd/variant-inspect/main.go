// Command variant-inspect reads newline-delimited JSON documents from
// stdin, inserts each into a variant.ObjectColumn, and prints the
// resulting subcolumn keys, common types, and cardinality estimates.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/keenki/doris/pkg/variant"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var finalize bool

	cmd := &cobra.Command{
		Use:   "variant-inspect",
		Short: "Insert newline-delimited JSON documents into an object column and report its shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.InOrStdin(), cmd.OutOrStdout(), finalize)
		},
	}
	cmd.Flags().BoolVar(&finalize, "finalize", true, "finalize the column before reporting (collapses each subcolumn to one dense part)")
	return cmd
}

func run(in io.Reader, out io.Writer, finalize bool) error {
	logger := log.NewLogfmtLogger(out)
	reg := prometheus.NewRegistry()
	metrics := variant.NewMetrics(reg)

	col := variant.NewObjectColumn(
		variant.WithColumnLogger(logger),
		variant.WithColumnMetrics(metrics),
	)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var raw map[string]any
		if err := json.Unmarshal(line, &raw); err != nil {
			return fmt.Errorf("line %d: decoding JSON: %w", lineNo, err)
		}

		doc, err := decodeObject(raw)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := col.TryInsert(doc); err != nil {
			return fmt.Errorf("line %d: inserting row: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if finalize {
		col.Finalize()
	}

	fmt.Fprintf(out, "rows: %d\n", col.Size())
	for _, p := range col.Keys() {
		sub := col.GetSubcolumn(p)
		fmt.Fprintf(out, "  %s\t%s\tcardinality~%d\n", p.String(), sub.LeastCommonType(), sub.Stats().Cardinality())
	}
	return nil
}

// decodeObject converts a generic encoding/json decode result into a
// variant.Field tree, treating the top level as an object per
// variant.ObjectColumn.TryInsert's contract.
func decodeObject(raw map[string]any) (variant.Field, error) {
	entries := make([]variant.ObjectEntry, 0, len(raw))
	for k, v := range raw {
		f, err := decodeAny(v)
		if err != nil {
			return variant.Field{}, err
		}
		entries = append(entries, variant.ObjectEntry{Segment: k, Value: f})
	}
	return variant.ObjectField(entries), nil
}

func decodeAny(v any) (variant.Field, error) {
	switch t := v.(type) {
	case nil:
		return variant.NullField(), nil
	case bool:
		return variant.ScalarField(variant.BoolValue(t)), nil
	case float64:
		if t == float64(int64(t)) {
			return variant.ScalarField(variant.Int64Value(int64(t))), nil
		}
		return variant.ScalarField(variant.Float64Value(t)), nil
	case string:
		return variant.ScalarField(variant.StringValue(t)), nil
	case []any:
		items := make([]variant.Field, 0, len(t))
		for _, elem := range t {
			f, err := decodeAny(elem)
			if err != nil {
				return variant.Field{}, err
			}
			items = append(items, f)
		}
		return variant.ArrayField(items), nil
	case map[string]any:
		return decodeObject(t)
	default:
		return variant.Field{}, fmt.Errorf("unsupported JSON value of type %T", t)
	}
}
