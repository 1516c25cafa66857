// Package assets embeds the built-in gradient presets.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed presets/*.yaml
var presetsFS embed.FS

// Preset returns the YAML source of a built-in preset by name.
func Preset(name string) ([]byte, error) {
	return presetsFS.ReadFile(path.Join("presets", name+".yaml"))
}

// PresetNames lists the built-in presets.
func PresetNames() []string {
	entries, err := fs.ReadDir(presetsFS, "presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
