package theme

import (
	"sort"
	"strings"

	bzerrors "github.com/alexisbeaulieu97/bizcharts/pkg/errors"
)

var presets = map[string]func() Theme{
	"default": Default,
	"light":   Default,
	"dark":    Dark,
}

// Preset returns a fresh copy of the named preset. Names are matched
// case-insensitively; an empty name selects the default theme.
func Preset(name string) (Theme, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Default(), nil
	}
	build, ok := presets[key]
	if !ok {
		return Theme{}, bzerrors.UnsupportedType("theme preset", name)
	}
	return build(), nil
}

// PresetNames lists the registered preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
