package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// ControlPointConfig is the external form of a control point.
type ControlPointConfig struct {
	X     float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y     float64 `json:"y" yaml:"y" mapstructure:"y"`
	Color string  `json:"color" yaml:"color" mapstructure:"color"`
}

// Config is the mount configuration record. It is what hosts pass in and
// what DescribeConfig hands back; the two round-trip.
type Config struct {
	Mode          string               `json:"mode" yaml:"mode" mapstructure:"mode"`
	Pointer       string               `json:"pointer" yaml:"pointer" mapstructure:"pointer"`
	Colors        []string             `json:"colors" yaml:"colors" mapstructure:"colors"`
	ControlPoints []ControlPointConfig `json:"controlPoints" yaml:"controlPoints" mapstructure:"controlPoints"`
	Noise         float64              `json:"noise" yaml:"noise" mapstructure:"noise"`
	Speed         float64              `json:"speed" yaml:"speed" mapstructure:"speed"`
	MouseStrength float64              `json:"mouseStrength" yaml:"mouseStrength" mapstructure:"mouseStrength"`
	Radius        float64              `json:"radius" yaml:"radius" mapstructure:"radius"`
	LensRadius    float64              `json:"lensRadius" yaml:"lensRadius" mapstructure:"lensRadius"`
	LensPower     float64              `json:"lensPower" yaml:"lensPower" mapstructure:"lensPower"`
	LensRim       float64              `json:"lensRim" yaml:"lensRim" mapstructure:"lensRim"`
	Banding       float64              `json:"banding" yaml:"banding" mapstructure:"banding"`
	Grain         float64              `json:"grain" yaml:"grain" mapstructure:"grain"`
	GrainEnabled  bool                 `json:"grainEnabled" yaml:"grainEnabled" mapstructure:"grainEnabled"`
	GrainMode     string               `json:"grainMode" yaml:"grainMode" mapstructure:"grainMode"`
	Softness      float64              `json:"softness" yaml:"softness" mapstructure:"softness"`
	Liveliness    float64              `json:"liveliness" yaml:"liveliness" mapstructure:"liveliness"`
	Basis         string               `json:"basis" yaml:"basis" mapstructure:"basis"`
	Seed          int64                `json:"seed" yaml:"seed" mapstructure:"seed"`
}

// DefaultConfig returns the defaults for a mode and pointer operator.
// Unknown modes fall back to banded/pressure.
func DefaultConfig(mode Mode, pointer PointerMode) Config {
	mode = parseMode(string(mode))
	pointer = parsePointerMode(string(pointer))

	mouseStrength := 0.85
	if pointer == PointerPush {
		mouseStrength = 0.16
	}

	return Config{
		Mode:          string(mode),
		Pointer:       string(pointer),
		Colors:        append([]string(nil), DefaultColors...),
		ControlPoints: DefaultControlPoints(),
		Noise:         0.48,
		Speed:         0.35,
		MouseStrength: mouseStrength,
		Radius:        0.35,
		LensRadius:    0.28,
		LensPower:     0.45,
		LensRim:       0.35,
		Banding:       1.15,
		Grain:         0.08,
		GrainEnabled:  true,
		GrainMode:     string(GrainStatic),
		Softness:      1.0,
		Liveliness:    0.35,
		Basis:         "value",
		Seed:          1337,
	}
}

// aliases maps alternative key spellings onto Config keys.
var aliases = map[string]string{
	"flowstrength": "noise",
}

// DecodeConfig shallow-merges raw onto the defaults for the mode and pointer
// named in raw. Keys match case-insensitively; unknown keys are ignored.
// A key whose value cannot be decoded keeps its default, and the returned
// error lists every such key; the Config is usable either way.
func DecodeConfig(raw map[string]any) (Config, error) {
	norm := normalizeKeys(raw)

	var mode, pointer string
	if v, ok := norm["mode"].(string); ok {
		mode = v
	}
	if v, ok := norm["pointer"].(string); ok {
		pointer = v
	}
	cfg := DefaultConfig(Mode(mode), PointerMode(pointer))

	return cfg, mergeInto(&cfg, norm)
}

// Merge applies raw on top of an existing Config with the same rules as
// DecodeConfig, keeping cfg's values for keys raw does not name.
func Merge(cfg Config, raw map[string]any) (Config, error) {
	err := mergeInto(&cfg, normalizeKeys(raw))
	return cfg, err
}

// normalizeKeys lowercases keys and folds aliases. When both an alias and
// its canonical key are present the canonical value wins.
func normalizeKeys(raw map[string]any) map[string]any {
	norm := make(map[string]any, len(raw))
	for k, v := range raw {
		key := strings.ToLower(strings.TrimSpace(k))
		if alias, ok := aliases[key]; ok {
			if _, exists := norm[alias]; exists {
				continue
			}
			key = alias
		}
		norm[key] = v
	}
	return norm
}

func mergeInto(cfg *Config, norm map[string]any) error {
	var errs []error
	for key, v := range norm {
		before := *cfg
		// Whole-value replacement for sequences; mapstructure would otherwise
		// decode element-wise onto the defaults.
		switch key {
		case "colors":
			cfg.Colors = nil
		case "controlpoints":
			cfg.ControlPoints = nil
		}
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			TagName:          "mapstructure",
		})
		if err != nil {
			return fmt.Errorf("failed to create config decoder: %w", err)
		}
		if err := dec.Decode(map[string]any{key: v}); err != nil {
			*cfg = before
			errs = append(errs, fmt.Errorf("ignoring %q: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// LoadConfigFile reads a JSON or YAML preset into a raw map suitable for
// DecodeConfig or Merge. The format is chosen by extension (.json, else YAML).
func LoadConfigFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset %s: %w", path, err)
	}
	raw, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse preset %s: %w", path, err)
	}
	return raw, nil
}

// ParseConfig decodes preset bytes. format is "json" (or ".json"); anything
// else is read as YAML, which also accepts JSON.
func ParseConfig(data []byte, format string) (map[string]any, error) {
	raw := map[string]any{}
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

// Encode serializes a Config as JSON (indented) or YAML.
func Encode(cfg Config, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return json.MarshalIndent(cfg, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("unsupported format %q: must be json or yaml", format)
	}
}

// ParseSetFlag parses a "key=value" override. The value is read as YAML, so
// numbers, booleans and flow sequences work; a bare comma list is accepted
// for colors.
func ParseSetFlag(s string) (string, any, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("expected key=value, got %q", s)
	}
	value = strings.TrimSpace(value)

	if strings.EqualFold(key, "colors") && !strings.HasPrefix(value, "[") {
		parts := strings.Split(value, ",")
		colors := make([]any, 0, len(parts))
		for _, p := range parts {
			colors = append(colors, strings.TrimSpace(p))
		}
		return key, colors, nil
	}

	var v any
	if err := yaml.Unmarshal([]byte(value), &v); err != nil || v == nil {
		return key, value, nil
	}
	return key, v, nil
}

func parseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeRadial:
		return ModeRadial
	default:
		return ModeBanded
	}
}

func parsePointerMode(s string) PointerMode {
	switch p := PointerMode(strings.ToLower(strings.TrimSpace(s))); p {
	case PointerNone, PointerPush, PointerLens:
		return p
	default:
		return PointerPressure
	}
}

func parseGrainMode(s string) GrainMode {
	if GrainMode(strings.ToLower(strings.TrimSpace(s))) == GrainAnimated {
		return GrainAnimated
	}
	return GrainStatic
}
