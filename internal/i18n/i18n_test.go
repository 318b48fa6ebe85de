package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_UnknownCodeFallsBackToEnglish(t *testing.T) {
	c := MustNewCatalog()

	for _, code := range []string{"xx", "", "fr", "not a tag"} {
		b := c.Load(code)
		assert.Equal(t, "en", b.Language, code)
	}
}

func TestLoad_MatchesRegionalVariant(t *testing.T) {
	c := MustNewCatalog()

	assert.Equal(t, "hi", c.Load("hi").Language)
	assert.Equal(t, "hi", c.Load("hi-IN").Language)
}

func TestBundle_T(t *testing.T) {
	c := MustNewCatalog()
	en := c.Load("en")

	assert.Equal(t, "Maggi Noodles", en.T("product_maggi", nil))
	assert.Equal(t, "3 new orders waiting", en.T("dashboard_new_orders", map[string]any{"count": 3}))
	assert.Equal(t, "no_such_key", en.T("no_such_key", nil))
	assert.Equal(t, "मैगी नूडल्स", c.Load("hi").T("product_maggi", nil))
}

func TestBundlesShareKeys(t *testing.T) {
	c := MustNewCatalog()
	en := c.Load("en")

	for _, code := range c.Languages() {
		b := c.Load(code)
		for key := range en.Messages {
			assert.Contains(t, b.Messages, key, "%s misses %s", code, key)
		}
	}
}

func TestNewCatalog_RequiresDefault(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/hi.yaml": {Data: []byte("back: वापस\n")},
	}

	_, err := NewCatalog(fsys, "locales")
	assert.Error(t, err)
}

func TestNewCatalog_DefaultFirst(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/ab.yaml": {Data: []byte("back: x\n")},
		"locales/en.yaml": {Data: []byte("back: Back\n")},
	}

	c, err := NewCatalog(fsys, "locales")
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "ab"}, c.Languages())
	assert.Equal(t, "en", c.Load("de").Language)
}
