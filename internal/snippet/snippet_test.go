package snippet

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/gradientbg/internal/params"
)

func TestGenerate(t *testing.T) {
	cfg := params.DefaultConfig(params.ModeBanded, params.PointerPressure)
	out, err := Generate(cfg, Options{Selector: "#hero"})
	require.NoError(t, err)

	assert.Contains(t, out, `<div id="hero"></div>`)
	assert.Contains(t, out, `<script src="./embed.js"></script>`)
	assert.Contains(t, out, `GradientBG.mount("#hero", {`)

	start := strings.Index(out, "{")
	end := strings.LastIndex(out, "}")
	require.True(t, start > 0 && end > start)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(out[start:end+1]), &raw))
	decoded, err := params.DecodeConfig(raw)
	require.NoError(t, err)
	assert.Equal(t, cfg, decoded)
}

func TestGenerateDefaultsAndEscaping(t *testing.T) {
	out, err := Generate(params.DefaultConfig(params.ModeRadial, params.PointerLens), Options{
		Selector: "  ",
		Script:   `/cdn/embed.js?a=1&b="2"`,
		Global:   "BG",
	})
	require.NoError(t, err)
	assert.Contains(t, out, `<div id="my-gradient"></div>`)
	assert.Contains(t, out, `src="/cdn/embed.js?a=1&amp;b=&quot;2&quot;"`)
	assert.Contains(t, out, `BG.mount("#my-gradient"`)
}

func TestOSC52Copy(t *testing.T) {
	var buf bytes.Buffer
	c := &OSC52{w: &buf, tty: true}

	require.NoError(t, c.Copy("hello"))
	want := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte("hello")) + "\a"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	c.tmux = true
	require.NoError(t, c.Copy("hello"))
	assert.True(t, strings.HasPrefix(buf.String(), "\x1bPtmux;\x1b\x1b]52;c;"))
	assert.True(t, strings.HasSuffix(buf.String(), "\x1b\\"))
}

func TestOSC52Unavailable(t *testing.T) {
	var buf bytes.Buffer

	err := (&OSC52{w: &buf}).Copy("hello")
	assert.ErrorIs(t, err, ErrClipboardUnavailable)
	assert.Zero(t, buf.Len())

	err = (&OSC52{w: &buf, tty: true}).Copy(strings.Repeat("x", MaxOSC52Payload))
	assert.ErrorIs(t, err, ErrClipboardUnavailable)
	assert.Zero(t, buf.Len())

	err = (&OSC52{w: failingWriter{}, tty: true}).Copy("hello")
	assert.ErrorIs(t, err, ErrClipboardUnavailable)
}

func TestCopyMessage(t *testing.T) {
	assert.Equal(t, "Copied snippet to clipboard.", CopyMessage(nil))
	msg := CopyMessage(ErrClipboardUnavailable)
	assert.NotContains(t, msg, "\n")
	assert.Contains(t, msg, "copy the snippet manually")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }
