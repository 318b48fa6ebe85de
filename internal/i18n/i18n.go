// Package i18n serves the translation bundles the operator UI renders
// with. Bundles are flat YAML maps embedded in the binary, one per language.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is served when no bundle matches the requested code.
const DefaultLanguage = "en"

//go:embed locales/*.yaml
var locales embed.FS

// Bundle is the set of messages for one language.
type Bundle struct {
	Language string            `json:"language"`
	Messages map[string]string `json:"messages"`
}

// T returns the message for key with every {{name}} replaced from vars.
// Unknown keys are returned unchanged.
func (b *Bundle) T(key string, vars map[string]any) string {
	msg, ok := b.Messages[key]
	if !ok {
		slog.Debug("Translation key not found", "key", key, "language", b.Language)

		return key
	}

	for name, value := range vars {
		msg = strings.ReplaceAll(msg, "{{"+name+"}}", fmt.Sprint(value))
	}

	return msg
}

// Catalog holds every loaded bundle.
type Catalog struct {
	bundles map[string]*Bundle
	codes   []string
	matcher language.Matcher
}

// NewCatalog loads every *.yaml file under dir in fsys. A bundle for
// DefaultLanguage is required.
func NewCatalog(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}

	c := &Catalog{bundles: make(map[string]*Bundle)}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}

		messages := make(map[string]string)
		if err := yaml.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", entry.Name(), err)
		}

		code := strings.TrimSuffix(entry.Name(), ".yaml")
		c.bundles[code] = &Bundle{Language: code, Messages: messages}
	}

	if _, ok := c.bundles[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("missing %s bundle", DefaultLanguage)
	}

	c.codes = make([]string, 0, len(c.bundles))
	for code := range c.bundles {
		c.codes = append(c.codes, code)
	}
	slices.Sort(c.codes)
	// the matcher falls back to its first tag
	slices.SortStableFunc(c.codes, func(a, b string) int {
		switch {
		case a == DefaultLanguage:
			return -1
		case b == DefaultLanguage:
			return 1
		default:
			return 0
		}
	})

	tags := make([]language.Tag, 0, len(c.codes))
	for _, code := range c.codes {
		tags = append(tags, language.Make(code))
	}
	c.matcher = language.NewMatcher(tags)

	return c, nil
}

// MustNewCatalog loads the embedded bundles.
func MustNewCatalog() *Catalog {
	c, err := NewCatalog(locales, "locales")
	if err != nil {
		panic(err)
	}

	return c
}

// Load returns the bundle for code, falling back to DefaultLanguage when
// none matches. It never fails.
func (c *Catalog) Load(code string) *Bundle {
	if b, ok := c.bundles[code]; ok {
		return b
	}

	tag, err := language.Parse(code)
	if err == nil {
		_, index, confidence := c.matcher.Match(tag)
		if confidence != language.No {
			return c.bundles[c.codes[index]]
		}
	}

	slog.Debug("No bundle for language, using default", "language", code)

	return c.bundles[DefaultLanguage]
}

// Languages returns the codes with a bundle, default first.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.codes...)
}
