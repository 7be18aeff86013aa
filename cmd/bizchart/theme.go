package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/bizcharts/internal/config"
	"github.com/alexisbeaulieu97/bizcharts/pkg/diff"
	"github.com/alexisbeaulieu97/bizcharts/pkg/theme"
)

type themeOptions struct {
	preset     string
	configPath string
	diff       bool
}

func newThemeCmd(root *rootFlags) *cobra.Command {
	opts := &themeOptions{}

	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Print a resolved theme as YAML",
		Long: "Print a resolved theme as YAML. With --config the document's preset and\n" +
			"overrides are applied; otherwise --preset selects one of: " + strings.Join(theme.PresetNames(), ", ") + ".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTheme(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.preset, "preset", "default", "Theme preset")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Chart document whose theme to resolve")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "Show only what the document's overrides change (requires --config)")

	return cmd
}

func runTheme(cmd *cobra.Command, opts *themeOptions) error {
	if opts.configPath == "" {
		if opts.diff {
			return fmt.Errorf("--diff requires --config")
		}
		th, err := theme.Preset(opts.preset)
		if err != nil {
			return err
		}
		return encodeTheme(cmd.OutOrStdout(), th)
	}

	doc, err := config.ParseDocument(opts.configPath)
	if err != nil {
		return err
	}
	resolved, err := doc.ResolveTheme()
	if err != nil {
		return err
	}
	if !opts.diff {
		return encodeTheme(cmd.OutOrStdout(), resolved)
	}

	base, err := theme.Preset(doc.Theme.Preset)
	if err != nil {
		return err
	}
	var before, after bytes.Buffer
	if err := encodeTheme(&before, base); err != nil {
		return err
	}
	if err := encodeTheme(&after, resolved); err != nil {
		return err
	}

	label := doc.Theme.Preset
	if label == "" {
		label = "default"
	}
	out := diff.Unified(before.String(), after.String(), "preset "+label, opts.configPath)
	if out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "no overrides")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func encodeTheme(w io.Writer, th theme.Theme) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(th); err != nil {
		return err
	}
	return enc.Close()
}
