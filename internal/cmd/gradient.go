package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/gradientbg/assets"
	"github.com/MeKo-Tech/gradientbg/internal/engine"
	"github.com/MeKo-Tech/gradientbg/internal/field"
	"github.com/MeKo-Tech/gradientbg/internal/params"
	"github.com/MeKo-Tech/gradientbg/internal/raster"
)

// addGradientFlags registers the flags every command uses to build a config.
func addGradientFlags(c *cobra.Command) {
	c.Flags().String("preset", "", "JSON or YAML preset file, or builtin:<name>, applied over the config file's gradient section")
	c.Flags().StringArray("set", nil, "Override one option, e.g. --set speed=0.8 --set colors=#000,#fff,#f00,#0f0 (repeatable)")
}

// loadGradientConfig layers the config file's gradient section, --preset and
// --set into one Config. Later layers win per key.
func loadGradientConfig(c *cobra.Command) (params.Config, error) {
	merged := map[string]any{}
	layer := func(raw map[string]any) {
		for k, v := range raw {
			merged[strings.ToLower(k)] = v
		}
	}

	layer(viper.GetStringMap("gradient"))

	preset, err := c.Flags().GetString("preset")
	if err != nil {
		return params.Config{}, err
	}
	if preset != "" {
		raw, err := loadPreset(preset)
		if err != nil {
			return params.Config{}, err
		}
		layer(raw)
	}

	sets, err := c.Flags().GetStringArray("set")
	if err != nil {
		return params.Config{}, err
	}
	for _, s := range sets {
		key, value, err := params.ParseSetFlag(s)
		if err != nil {
			return params.Config{}, fmt.Errorf("invalid --set: %w", err)
		}
		layer(map[string]any{key: value})
	}

	cfg, err := params.DecodeConfig(merged)
	if err != nil {
		logger.Warn("Ignoring invalid gradient options", "error", err)
	}
	return cfg, nil
}

// builtinPrefix selects an embedded preset instead of a file.
const builtinPrefix = "builtin:"

func loadPreset(name string) (map[string]any, error) {
	builtin, ok := strings.CutPrefix(name, builtinPrefix)
	if !ok {
		return params.LoadConfigFile(name)
	}

	data, err := assets.Preset(builtin)
	if err != nil {
		return nil, fmt.Errorf("unknown built-in preset %q (available: %s)", builtin, strings.Join(assets.PresetNames(), ", "))
	}
	return params.ParseConfig(data, "yaml")
}

// describeConfig mounts cfg on a throwaway headless surface and returns the
// live configuration record.
func describeConfig(cfg params.Config) (params.Config, error) {
	const id = "describe"
	host := raster.Host{id: raster.NewImageSurface(2, 2, 1)}

	in, err := engine.MountConfig(host, id, cfg, engine.WithLogger(logger))
	if err != nil {
		return params.Config{}, err
	}
	defer in.Destroy()

	return in.DescribeConfig(), nil
}

// parsePointer parses "x,y" in uv space (0,0 bottom-left).
func parsePointer(s string) (field.Vec2, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return field.Vec2{}, fmt.Errorf("pointer must be x,y, got %q", s)
	}

	var v [2]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return field.Vec2{}, fmt.Errorf("invalid pointer coordinate %q: %w", p, err)
		}
		if f < 0 || f > 1 {
			return field.Vec2{}, fmt.Errorf("pointer coordinate %v outside [0,1]", f)
		}
		v[i] = f
	}
	return field.Vec2{X: v[0], Y: v[1]}, nil
}
