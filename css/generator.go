// Package css compiles the current style settings into a stylesheet. The
// generator is registered in the container as "css", depending on the
// settings, cache and config services.
package css

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/stylepress/go-stylepress/cache"
	"github.com/stylepress/go-stylepress/config"
	"github.com/stylepress/go-stylepress/settings"
)

var reLengthParts = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)([a-z%]+)$`)

// Generator compiles StyleSettings into CSS text, memoised through the cache
// service under settings.StylesheetCacheKey. The settings store evicts that
// entry on every update, so Compile work only happens when something changed.
type Generator struct {
	settings *settings.Store
	cache    *cache.Store
	handle   string
	minify   bool
}

// NewGenerator is the container factory for the "css" service, declaring
// "settings", "cache" and "config".
func NewGenerator(st *settings.Store, ca *cache.Store, cfg *config.Config) *Generator {
	return &Generator{
		settings: st,
		cache:    ca,
		handle:   cfg.Style.Handle,
		minify:   cfg.Style.Minify,
	}
}

// Stylesheet returns the compiled stylesheet, from cache when possible.
func (g *Generator) Stylesheet() (string, error) {
	v, err := g.cache.Remember(settings.StylesheetCacheKey, func() (any, error) {
		return g.Compile(g.settings.Get())
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Compile renders s into CSS without touching the cache.
func (g *Generator) Compile(s settings.StyleSettings) (string, error) {
	h1, h2, h3, err := headingSizes(s.BaseFontSize, s.HeadingScale)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "/* %s — generated stylesheet */\n", g.handle)

	b.WriteString(":root {\n")
	fmt.Fprintf(&b, "  --%s-primary: %s;\n", g.handle, s.PrimaryColor)
	fmt.Fprintf(&b, "  --%s-secondary: %s;\n", g.handle, s.SecondaryColor)
	fmt.Fprintf(&b, "  --%s-text: %s;\n", g.handle, s.TextColor)
	fmt.Fprintf(&b, "  --%s-link: %s;\n", g.handle, s.LinkColor)
	fmt.Fprintf(&b, "  --%s-background: %s;\n", g.handle, s.BackgroundColor)
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "body {\n  color: var(--%s-text);\n  background-color: var(--%s-background);\n  font-family: %s;\n  font-size: %s;\n}\n\n",
		g.handle, g.handle, s.FontFamily, s.BaseFontSize)

	fmt.Fprintf(&b, "a {\n  color: var(--%s-link);\n}\n\n", g.handle)

	fmt.Fprintf(&b, "h1 { font-size: %s; }\nh2 { font-size: %s; }\nh3 { font-size: %s; }\n\n", h1, h2, h3)

	fmt.Fprintf(&b, ".%s-container {\n  max-width: %s;\n  margin-left: auto;\n  margin-right: auto;\n}\n",
		g.handle, s.ContentWidth)

	if s.CustomCSS != "" {
		b.WriteString("\n/* custom rules */\n")
		b.WriteString(s.CustomCSS)
		b.WriteString("\n")
	}

	out := b.String()
	if g.minify {
		out = minify(out)
	}
	return out, nil
}

// headingSizes derives h1/h2/h3 sizes from the base size and the modular
// scale: h3 = base*scale, h2 = base*scale², h1 = base*scale³.
func headingSizes(base, scale string) (h1, h2, h3 string, err error) {
	m := reLengthParts.FindStringSubmatch(strings.ToLower(strings.TrimSpace(base)))
	if m == nil {
		return "", "", "", errors.Errorf("css: base font size %q is not a length", base)
	}
	size, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return "", "", "", errors.Wrapf(err, "css: base font size %q", base)
	}
	unit := m[2]

	factor, err := strconv.ParseFloat(strings.TrimSpace(scale), 64)
	if err != nil {
		return "", "", "", errors.Wrapf(err, "css: heading scale %q", scale)
	}

	fmtSize := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64) + unit
	}
	h3 = fmtSize(round2(size * factor))
	h2 = fmtSize(round2(size * factor * factor))
	h1 = fmtSize(round2(size * factor * factor * factor))
	return h1, h2, h3, nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

var reMinifySpace = regexp.MustCompile(`\s+`)

// minify collapses whitespace runs; good enough for a settings-driven sheet.
func minify(css string) string {
	css = reMinifySpace.ReplaceAllString(css, " ")
	css = strings.ReplaceAll(css, " { ", "{")
	css = strings.ReplaceAll(css, " } ", "}")
	css = strings.ReplaceAll(css, "; ", ";")
	css = strings.ReplaceAll(css, ": ", ":")
	return strings.TrimSpace(css)
}
