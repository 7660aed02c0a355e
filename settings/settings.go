// Package settings holds the style settings service ("settings" in the
// container). It keeps the current style configuration, validates and
// sanitizes updates, and invalidates the compiled stylesheet on change.
package settings

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/stylepress/go-stylepress/cache"
	"github.com/stylepress/go-stylepress/security"
	"github.com/stylepress/go-stylepress/validation"
)

// StylesheetCacheKey is the cache entry holding the compiled stylesheet.
// The css generator memoises under this key; updates here evict it.
const StylesheetCacheKey = "stylesheet.compiled"

// StyleSettings is the full set of user-tweakable style values.
type StyleSettings struct {
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	TextColor       string `json:"text_color"`
	LinkColor       string `json:"link_color"`
	BackgroundColor string `json:"background_color"`
	FontFamily      string `json:"font_family"`
	BaseFontSize    string `json:"base_font_size"`
	HeadingScale    string `json:"heading_scale"`
	ContentWidth    string `json:"content_width"`
	CustomCSS       string `json:"custom_css"`
}

// Defaults returns the out-of-the-box style settings.
func Defaults() StyleSettings {
	return StyleSettings{
		PrimaryColor:    "#3366ff",
		SecondaryColor:  "#6c757d",
		TextColor:       "#212529",
		LinkColor:       "#3366ff",
		BackgroundColor: "#ffffff",
		FontFamily:      `-apple-system, "Segoe UI", Roboto, sans-serif`,
		BaseFontSize:    "16px",
		HeadingScale:    "1.25",
		ContentWidth:    "1140px",
		CustomCSS:       "",
	}
}

// rules maps input fields to their validation rule strings. Updates are
// partial, so none of the fields is required; a provided value must still be
// well-formed.
var rules = validation.Rules{
	"primary_color":    "nullable|hex_color",
	"secondary_color":  "nullable|hex_color",
	"text_color":       "nullable|hex_color",
	"link_color":       "nullable|hex_color",
	"background_color": "nullable|hex_color",
	"font_family":      "nullable|font_stack|max:200",
	"base_font_size":   "nullable|css_unit:px,em,rem",
	"heading_scale":    "nullable|numeric|gte:1|lte:2",
	"content_width":    "nullable|css_unit:px,%",
	"custom_css":       "nullable|max:20000",
}

// Store is the settings repository. It is constructed by the container with
// the cache and security services as dependencies.
type Store struct {
	mu      sync.RWMutex
	current StyleSettings

	cache *cache.Store
	sec   *security.Sanitizer
}

// NewStore creates a Store seeded with Defaults. This is the factory
// registered in the container, declaring "cache" and "security".
func NewStore(cacheStore *cache.Store, sanitizer *security.Sanitizer) *Store {
	return &Store{
		current: Defaults(),
		cache:   cacheStore,
		sec:     sanitizer,
	}
}

// Get returns the current settings snapshot.
func (s *Store) Get() StyleSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies a partial update: only the provided keys change. Every
// provided value is validated against its rule string and then sanitized.
// On validation failure the bag is returned and nothing is stored. A
// successful update evicts the compiled stylesheet from the cache.
func (s *Store) Update(input map[string]string) (StyleSettings, *validation.Errors, error) {
	provided := make(validation.Rules, len(input))
	for field := range input {
		if rule, ok := rules[field]; ok {
			provided[field] = rule
		}
	}

	v := validation.Make(input, provided)
	if v.Fails() {
		return StyleSettings{}, v.Errors(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	if err := s.apply(&next, input); err != nil {
		return StyleSettings{}, nil, err
	}

	s.current = next
	s.cache.Delete(StylesheetCacheKey)
	return next, nil, nil
}

// apply copies the provided sanitized values onto out. Unknown keys are
// ignored so stray form fields cannot touch the settings.
func (s *Store) apply(out *StyleSettings, input map[string]string) error {
	for field, value := range input {
		if value == "" {
			continue
		}
		var err error
		switch field {
		case "primary_color":
			out.PrimaryColor, err = s.sec.HexColor(value)
		case "secondary_color":
			out.SecondaryColor, err = s.sec.HexColor(value)
		case "text_color":
			out.TextColor, err = s.sec.HexColor(value)
		case "link_color":
			out.LinkColor, err = s.sec.HexColor(value)
		case "background_color":
			out.BackgroundColor, err = s.sec.HexColor(value)
		case "font_family":
			out.FontFamily = s.sec.FontStack(value)
		case "base_font_size":
			out.BaseFontSize, err = s.sec.Length(value)
		case "heading_scale":
			out.HeadingScale = value
		case "content_width":
			out.ContentWidth, err = s.sec.Length(value)
		case "custom_css":
			out.CustomCSS = s.sec.CustomCSS(value)
		}
		if err != nil {
			return errors.Wrapf(err, "settings: sanitizing %s", field)
		}
	}
	return nil
}

// Reset restores Defaults and evicts the compiled stylesheet.
func (s *Store) Reset() StyleSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Defaults()
	s.cache.Delete(StylesheetCacheKey)
	return s.current
}
