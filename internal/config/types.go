// Package config loads chart documents: a YAML file naming a data file, its
// transforms, a theme, render settings, chart options and an output target.
package config

import (
	"path/filepath"

	"github.com/alexisbeaulieu97/bizcharts/pkg/chart"
	"github.com/alexisbeaulieu97/bizcharts/pkg/data"
	"github.com/alexisbeaulieu97/bizcharts/pkg/theme"
)

// Document is a parsed chart document.
type Document struct {
	Version string              `yaml:"version" validate:"required,semver"`
	Type    string              `yaml:"type" validate:"required,chart_type"`
	Data    DataConfig          `yaml:"data"`
	Theme   ThemeConfig         `yaml:"theme,omitempty"`
	Render  chart.RenderOptions `yaml:"render,omitempty"`
	Options chart.LineOptions   `yaml:"options"`
	Output  OutputConfig        `yaml:"output,omitempty"`

	// dir is the directory of the document file; relative paths resolve
	// against it.
	dir string
}

// DataConfig names the data file and how to shape it.
type DataConfig struct {
	Path       string            `yaml:"path" validate:"required,data_path"`
	Fields     []data.Field      `yaml:"fields,omitempty" validate:"omitempty,dive"`
	Transforms []TransformConfig `yaml:"transforms,omitempty" validate:"omitempty,dive"`
}

// TransformConfig declares one pipeline stage.
//
//	filter  keep rows where field <op> value
//	sort    order by field, descending when desc is set
//	limit   keep the first count rows
//	derive  set field to <op> applied over the from fields
type TransformConfig struct {
	Type  string   `yaml:"type" validate:"required,oneof=filter sort limit derive"`
	Field string   `yaml:"field,omitempty" validate:"required_unless=Type limit"`
	Op    string   `yaml:"op,omitempty" validate:"omitempty,oneof=eq ne gt gte lt lte contains sum sub mul div"`
	Value any      `yaml:"value,omitempty"`
	Desc  bool     `yaml:"desc,omitempty"`
	Count int      `yaml:"count,omitempty" validate:"gte=0"`
	From  []string `yaml:"from,omitempty"`
}

// ThemeConfig selects a preset and optional overrides.
type ThemeConfig struct {
	Preset    string         `yaml:"preset,omitempty" validate:"omitempty,theme_preset"`
	Overrides *theme.Partial `yaml:"overrides,omitempty"`
}

// OutputConfig is where `bizchart render` writes.
type OutputConfig struct {
	Path    string  `yaml:"path,omitempty"`
	Format  string  `yaml:"format,omitempty" validate:"omitempty,export_format"`
	Quality float64 `yaml:"quality,omitempty" validate:"gte=0,lte=1"`
}

// DataPath returns the data file path resolved against the document.
func (d *Document) DataPath() string {
	return d.resolve(d.Data.Path)
}

// OutputPath returns the output path resolved against the document, or ""
// when none is configured.
func (d *Document) OutputPath() string {
	if d.Output.Path == "" {
		return ""
	}
	return d.resolve(d.Output.Path)
}

// OutputFormat is the configured export format, otherwise derived from the
// output extension, otherwise png.
func (d *Document) OutputFormat() string {
	if d.Output.Format != "" {
		return d.Output.Format
	}
	if ext := filepath.Ext(d.Output.Path); len(ext) > 1 {
		return ext[1:]
	}
	return "png"
}

func (d *Document) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || d.dir == "" {
		return path
	}
	return filepath.Join(d.dir, path)
}

// ResolveTheme applies the overrides onto the selected preset.
func (d *Document) ResolveTheme() (theme.Theme, error) {
	base, err := theme.Preset(d.Theme.Preset)
	if err != nil {
		return theme.Theme{}, err
	}
	if d.Theme.Overrides == nil {
		return base, nil
	}
	return theme.ResolveFrom(base, *d.Theme.Overrides), nil
}
