// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package output provides shared CLI rendering helpers: a --output flag,
// JSON/YAML encoding, and aligned tables.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	OutputTable Format = "table"
	OutputJSON  Format = "json"
	OutputYAML  Format = "yaml"
)

// OutputOptions carries the selected output format for a command.
type OutputOptions struct {
	Format string
}

// AddOutputFlags registers the --output/-o flag on cmd.
func (o *OutputOptions) AddOutputFlags(cmd *cobra.Command, def Format) {
	cmd.Flags().StringVarP(&o.Format, "output", "o", string(def), "Output format: table, json, yaml")
}

// Resolve validates the selected format, defaulting to table when unset.
func (o *OutputOptions) Resolve() error {
	if o.Format == "" {
		o.Format = string(OutputTable)
	}
	switch Format(o.Format) {
	case OutputTable, OutputJSON, OutputYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (choose table, json, yaml)", o.Format)
}

// Is reports whether the selected format matches f.
func (o *OutputOptions) Is(f Format) bool {
	return o.Format == string(f)
}

// JSON writes v to stdout as indented JSON.
func JSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v to stdout as YAML.
func YAML(v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

// Table accumulates rows and renders them aligned with tabwriter.
type Table struct {
	w    *tabwriter.Writer
	cols int
}

// NewTable starts a table with the given header row.
func NewTable(headers ...string) *Table {
	t := &Table{
		w:    tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0),
		cols: len(headers),
	}
	t.AddRow(headers...)
	return t
}

// AddRow appends a row. Extra cells are dropped, missing cells padded.
func (t *Table) AddRow(cells ...string) {
	for i := 0; i < t.cols; i++ {
		if i > 0 {
			fmt.Fprint(t.w, "\t")
		}
		if i < len(cells) {
			fmt.Fprint(t.w, cells[i])
		}
	}
	fmt.Fprintln(t.w)
}

// Render flushes the table to stdout.
func (t *Table) Render() {
	t.w.Flush()
}
