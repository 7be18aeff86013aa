package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/bizcharts/pkg/chart"
)

type renderOptions struct {
	ConfigPath string
	OutputPath string
	Format     string
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart document to an image file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfigPath(opts.ConfigPath); err != nil {
				return err
			}
			return runRender(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to chart document")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Output file, - for stdout")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Export format: png, jpeg, svg or pdf")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runRender(cmd *cobra.Command, root *rootFlags, opts renderOptions) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	s, err := openSession(ctx, opts.ConfigPath, root.log)
	if err != nil {
		return err
	}
	defer s.chart.Destroy() //nolint:errcheck

	format := opts.Format
	if format == "" {
		format = s.doc.OutputFormat()
		if opts.OutputPath != "" && opts.OutputPath != "-" && s.doc.Output.Format == "" {
			if ext := strings.TrimPrefix(filepath.Ext(opts.OutputPath), "."); ext != "" {
				format = ext
			}
		}
	}

	out, err := s.chart.Export(ctx, format, chart.ExportOptions{Quality: s.doc.Output.Quality})
	if err != nil {
		return newCommandError("export chart", format, err, "Raster formats (png, jpeg) are always available.")
	}

	target := opts.OutputPath
	if target == "" {
		target = s.doc.OutputPath()
	}
	if target == "" {
		target = "chart." + strings.ToLower(format)
	}

	if target == "-" {
		if _, err := cmd.OutOrStdout().Write(out); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
	} else {
		if dir := filepath.Dir(target); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
		if err := os.WriteFile(target, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
	}

	root.log.WithFields(map[string]any{
		"path":     target,
		"format":   format,
		"bytes":    len(out),
		"chart_id": s.chart.ID(),
	}).Info("chart written")
	return nil
}

func validateConfigPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("chart document is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve document path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("chart document does not exist: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("document path %s is a directory", abs)
	}
	return nil
}
