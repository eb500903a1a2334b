package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Gianuzzi/DeepSpyce/pkg/array"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
)

// printHeader writes h as YAML, or indented JSON when asJSON is set.
func printHeader(w io.Writer, h *header.Header, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(h)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(h); err != nil {
		return err
	}
	return enc.Close()
}

// printArray writes the shape of a followed by up to limit records, one
// line per record with a value per channel.
func printArray(w io.Writer, a *array.Array, limit int) {
	fmt.Fprintf(w, "shape: %d channels x %d records (%s, %s order)\n", a.Columns, a.Records, a.Format, a.Order)
	if limit > a.Records || limit < 0 {
		limit = a.Records
	}
	for r := 0; r < limit; r++ {
		fmt.Fprintf(w, "%6d:", r)
		for c := 0; c < a.Columns; c++ {
			fmt.Fprintf(w, " %s", a.Value(c, r))
		}
		fmt.Fprintln(w)
	}
	if limit < a.Records {
		fmt.Fprintf(w, "... %d more records\n", a.Records-limit)
	}
}
