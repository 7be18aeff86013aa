package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/bizcharts/internal/dataload"
	"github.com/alexisbeaulieu97/bizcharts/pkg/data"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type inspectOptions struct {
	jsonOutput bool
}

func newInspectCmd(root *rootFlags) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <data-file>",
		Short: "Show the fields and row count of a data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

type inspectField struct {
	Name   string         `json:"name"`
	Type   data.FieldType `json:"type"`
	Sample string         `json:"sample"`
}

type inspectPayload struct {
	Path   string         `json:"path"`
	Rows   int            `json:"rows"`
	Fields []inspectField `json:"fields"`
}

func runInspect(cmd *cobra.Command, path string, opts *inspectOptions) error {
	ctx := cmd.Context()
	src, err := dataload.Load(ctx, path, nil)
	if err != nil {
		return newCommandError("inspect", path, err, "Data files must be .csv, .json (array of objects) or .parquet.")
	}

	count, err := src.Count(ctx)
	if err != nil {
		return err
	}
	first, err := src.Slice(ctx, 0, 1)
	if err != nil {
		return err
	}

	payload := inspectPayload{Path: path, Rows: count}
	for _, f := range src.Fields() {
		sample := ""
		if len(first) > 0 && first[0][f.Name] != nil {
			sample = fmt.Sprint(first[0][f.Name])
		}
		payload.Fields = append(payload.Fields, inspectField{Name: f.Name, Type: f.Type, Sample: sample})
	}

	if opts.jsonOutput {
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("FIELD", "TYPE", "SAMPLE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, f := range payload.Fields {
		t.Row(f.Name, string(f.Type), truncate(f.Sample, 32))
	}

	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render(fmt.Sprintf("%d rows, %d fields", count, len(payload.Fields))))
	return nil
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n-1])) + "…"
}
