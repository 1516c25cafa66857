// Package snippet renders a gradient configuration as an HTML embed snippet
// and copies text to the terminal clipboard.
package snippet

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MeKo-Tech/gradientbg/internal/params"
)

// Defaults for Options.
const (
	DefaultSelector = "#my-gradient"
	DefaultScript   = "./embed.js"
	DefaultGlobal   = "GradientBG"
)

// Options controls the generated markup.
type Options struct {
	// Selector is the CSS selector passed to mount; "#id" also names the div.
	Selector string
	// Script is the src of the embed runtime.
	Script string
	// Global is the runtime's global object.
	Global string
}

func (o Options) withDefaults() Options {
	if o.Selector = strings.TrimSpace(o.Selector); o.Selector == "" {
		o.Selector = DefaultSelector
	}
	if o.Script == "" {
		o.Script = DefaultScript
	}
	if o.Global == "" {
		o.Global = DefaultGlobal
	}
	return o
}

// Generate returns the embed snippet that mounts cfg on a fresh div.
func Generate(cfg params.Config, opts Options) (string, error) {
	opts = opts.withDefaults()

	selector, err := json.Marshal(opts.Selector)
	if err != nil {
		return "", fmt.Errorf("failed to encode selector: %w", err)
	}
	body, err := json.MarshalIndent(cfg, "  ", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	id := strings.TrimPrefix(opts.Selector, "#")
	lines := []string{
		"<!-- Gradient mount point -->",
		fmt.Sprintf(`<div id="%s"></div>`, htmlAttr(id)),
		"",
		"<!-- Embed runtime (host this file or change the src) -->",
		fmt.Sprintf(`<script src="%s"></script>`, htmlAttr(opts.Script)),
		"",
		"<!-- Mount -->",
		"<script>",
		fmt.Sprintf("  %s.mount(%s, %s);", opts.Global, selector, body),
		"</script>",
	}
	return strings.Join(lines, "\n") + "\n", nil
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func htmlAttr(s string) string {
	return attrEscaper.Replace(s)
}
