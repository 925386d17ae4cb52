package siteconf

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jarmacConf is the settings module of a real site using the Flex theme.
const jarmacConf = `#!/usr/bin/env python
# -*- coding: utf-8 -*- #
from __future__ import unicode_literals

AUTHOR = 'Ahmad Jarara'
SITENAME = 'No Odd Cycles'
SITEURL = ''

PATH = 'content'

TIMEZONE = 'EST'

DEFAULT_LANG = 'en'

# Feed generation is usually not desired when developing
FEED_ALL_ATOM = None
CATEGORY_FEED_ATOM = None
TRANSLATION_FEED_ATOM = None
AUTHOR_FEED_ATOM = None
AUTHOR_FEED_RSS = None

# Blogroll
LINKS = (('Source', 'https://github.com/alphor/jarmac.org'),
         ('NixOS', 'http://jarmac.org/category/nix.html'),
         ('linux', 'http://jarmac.org/category/linux.html'),
         ('meta', 'http://jarmac.org/category/meta.html'),
         ('math', 'http://jarmac.org/category/math.html'),)

# Social widget
SOCIAL = (('Github', 'https://github.com/alphor/jarmac.org'),)

DEFAULT_PAGINATION = False

# Uncomment following line if you want document-relative URLs when developing
#RELATIVE_URLS = True

# Begin Flex config
# PLUGIN_PATHS = ['./pelican-plugins']
# PLUGINS = ['i18n_subsites', 'piwik']
THEME='./Flex'
`

const sampleYAML = `
author: Ahmad Jarara
sitename: No Odd Cycles
siteurl: https://jarmac.org
timezone: EST
feeds:
  all_atom: null
  category_atom: false
  translation_atom: true
  author_atom: feeds/{slug}.atom.xml
  author_rss: null
  all_rss: feeds/all.rss.xml
  category_rss: feeds/{slug}.rss.xml
links:
  - [Source, https://github.com/alphor/jarmac.org]
  - label: NixOS
    url: http://jarmac.org/category/nix.html
  - [math, http://jarmac.org/category/math.html]
social:
  - [Github, https://github.com/alphor, /public/icons/github.png]
  - {label: RSS, url: /feeds/all.rss.xml}
default_pagination: false
article_url: posts/{slug}/
article_save_as: posts/{slug}/index.html
theme: ./Flex
disable_url_hash: true
`

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "content", cfg.ContentPath)
	assert.Equal(t, "en", cfg.DefaultLang)
	assert.Equal(t, "{slug}.html", cfg.ArticleURL)
	assert.Equal(t, "{slug}.html", cfg.ArticleSaveAs)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "notmyidea", cfg.Theme)
	assert.False(t, cfg.Pagination.Enabled())
	assert.Equal(t, FeedNull, cfg.Feeds.AllAtom.Kind)
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "Ahmad Jarara", cfg.Author)
	assert.Equal(t, "content", cfg.ContentPath, "omitted path takes the default")
	assert.Equal(t, []Link{
		{"Source", "https://github.com/alphor/jarmac.org"},
		{"NixOS", "http://jarmac.org/category/nix.html"},
		{"math", "http://jarmac.org/category/math.html"},
	}, cfg.Links)
	assert.Equal(t, []SocialLink{
		{"Github", "https://github.com/alphor", "/public/icons/github.png"},
		{"RSS", "/feeds/all.rss.xml", ""},
	}, cfg.Social)

	assert.Equal(t, Feed{Kind: FeedNull}, cfg.Feeds.AllAtom)
	assert.Equal(t, Feed{Kind: FeedOff}, cfg.Feeds.CategoryAtom)
	assert.Equal(t, Feed{Kind: FeedOn}, cfg.Feeds.TranslationAtom)
	assert.Equal(t, FeedAt("feeds/{slug}.atom.xml"), cfg.Feeds.AuthorAtom)
	assert.True(t, cfg.DisableURLHash)
	assert.NoError(t, Validate(cfg))
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("author: x\nsite_name: typo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site_name")
}

func TestParseRejectsBadShapes(t *testing.T) {
	for _, src := range []string{
		"default_pagination: true\n",
		"default_pagination: many\n",
		"feeds:\n  all_atom: 3\n",
		"links:\n  - [only-label]\n",
		"social:\n  - [a, b, c, d]\n",
		"links:\n  - {label: a, url: /a, icon: x.png}\n",
		"social:\n  - {label: a, url: /a, icn: x.png}\n",
	} {
		_, err := Parse([]byte(src))
		assert.Error(t, err, src)
	}
}

func TestParseUnknownLinkKeyNamesField(t *testing.T) {
	_, err := Parse([]byte("social:\n  - label: a\n    url: /a\n    icn: x.png\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "icn")
	assert.Contains(t, err.Error(), "line 4")
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	cfg.Pagination = Paginated(10)

	out, err := Marshal(cfg)
	require.NoError(t, err)
	back, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
	assert.Contains(t, string(out), "all_atom: null")
	assert.Contains(t, string(out), "category_atom: false")
	assert.Contains(t, string(out), "translation_atom: true")
	assert.Contains(t, string(out), "default_pagination: 10")
}

func TestPaginationFalseRoundTrips(t *testing.T) {
	cfg, err := Parse([]byte("default_pagination: false\n"))
	require.NoError(t, err)
	out, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "default_pagination: false")
}

func TestJSONRoundTrip(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"all_atom":null`)
	assert.Contains(t, string(data), `"default_pagination":false`)

	var back SiteConfig
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, cfg, &back)
}

func TestFromPython(t *testing.T) {
	cfg, err := FromPython([]byte(jarmacConf))
	require.NoError(t, err)

	assert.Equal(t, "Ahmad Jarara", cfg.Author)
	assert.Equal(t, "No Odd Cycles", cfg.SiteName)
	assert.Equal(t, "", cfg.SiteURL)
	assert.Equal(t, "EST", cfg.Timezone)
	assert.Equal(t, "./Flex", cfg.Theme)
	assert.False(t, cfg.Pagination.Enabled())
	for _, f := range cfg.Feeds.toggles() {
		assert.Equal(t, FeedNull, f.feed.Kind, f.name)
	}

	labels := make([]string, len(cfg.Links))
	for i, l := range cfg.Links {
		labels[i] = l.Label
	}
	assert.Equal(t, []string{"Source", "NixOS", "linux", "meta", "math"}, labels)
	require.Len(t, cfg.Social, 1)
	assert.Equal(t, "Github", cfg.Social[0].Label)
	assert.Empty(t, cfg.Extra)
	assert.NoError(t, Validate(cfg))
}

func TestFromPythonKeepsExtras(t *testing.T) {
	src := "THEME = 'Flex'\nSITESUBTITLE = 'Notes'\nMAIN_MENU = True\n_helper = 1\nSITESUBTITLE = 'Notes, again'\n"
	cfg, err := FromPython([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []Extra{
		{Name: "SITESUBTITLE", Python: "'Notes, again'"},
		{Name: "MAIN_MENU", Python: "True"},
	}, cfg.Extra)
}

func TestFromPythonTypeErrors(t *testing.T) {
	for _, src := range []string{
		"AUTHOR = 3\n",
		"DEFAULT_PAGINATION = True\n",
		"LINKS = (('only',),)\n",
		"FEED_ALL_ATOM = 1\n",
		"DISABLE_URL_HASH = 'yes'\n",
	} {
		_, err := FromPython([]byte(src))
		assert.Error(t, err, src)
	}
}

func TestPythonRoundTrip(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	// A bare True exports as the generator's default path, so compare a
	// config that uses explicit paths.
	cfg.Feeds.TranslationAtom = FeedAt("feeds/all-{lang}.atom.xml")
	cfg.Pagination = Paginated(5)
	cfg.PluginPaths = []string{"./pelican-plugins"}
	cfg.Plugins = []string{"i18n_subsites", "piwik"}
	cfg.RelativeURLs = true
	cfg.Extra = []Extra{{Name: "SITESUBTITLE", Python: "'Notes'"}}

	var buf bytes.Buffer
	require.NoError(t, WritePython(&buf, cfg))
	back, err := FromPython(buf.Bytes())
	require.NoError(t, err, buf.String())
	assert.Equal(t, cfg, back)
}

// A bare True has no output path of its own, so exporting it writes the
// generator's default path and the re-imported feed carries that path.
func TestPythonRoundTripFeedTrueBecomesDefaultPath(t *testing.T) {
	cfg := validConfig()
	cfg.Feeds.AllAtom = Feed{Kind: FeedOn}
	cfg.Feeds.TranslationAtom = Feed{Kind: FeedOn}

	var buf bytes.Buffer
	require.NoError(t, WritePython(&buf, cfg))
	back, err := FromPython(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, FeedAt("feeds/all.atom.xml"), back.Feeds.AllAtom)
	assert.Equal(t, FeedAt("feeds/all-{lang}.atom.xml"), back.Feeds.TranslationAtom)
	assert.True(t, back.Feeds.AllAtom.Enabled())
	assert.Empty(t, Diff(cfg, back), "the generator sees the same settings")

	cfg.Feeds.AllAtom = back.Feeds.AllAtom
	cfg.Feeds.TranslationAtom = back.Feeds.TranslationAtom
	assert.Equal(t, cfg, back)
}

func TestWritePythonFeedTrue(t *testing.T) {
	cfg := Defaults()
	cfg.Feeds.AllAtom = Feed{Kind: FeedOn}
	var buf bytes.Buffer
	require.NoError(t, WritePython(&buf, cfg))
	assert.Contains(t, buf.String(), "FEED_ALL_ATOM = 'feeds/all.atom.xml'\n")
	assert.Contains(t, buf.String(), "CATEGORY_FEED_ATOM = None\n")
	assert.Contains(t, buf.String(), "DEFAULT_PAGINATION = False\n")
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	py := filepath.Join(dir, "pelicanconf.py")
	require.NoError(t, os.WriteFile(py, []byte(jarmacConf), 0o644))
	yml := filepath.Join(dir, "siteconf.yaml")
	require.NoError(t, os.WriteFile(yml, []byte(sampleYAML), 0o644))

	fromPy, err := Load(py)
	require.NoError(t, err)
	assert.Equal(t, "./Flex", fromPy.Theme)

	fromYAML, err := Load(yml)
	require.NoError(t, err)
	assert.Equal(t, "https://jarmac.org", fromYAML.SiteURL)

	bad := filepath.Join(dir, "bad.py")
	require.NoError(t, os.WriteFile(bad, []byte("AUTHOR = (\n"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.py")
}

func TestApplyEnv(t *testing.T) {
	cfg := Defaults()
	env := map[string]string{
		"SITECONF_SITEURL": "https://jarmac.org",
		"SITECONF_THEME":   "./Flex",
		"SITEURL":          "ignored",
	}
	applied := ApplyEnv(cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, []string{NameSiteURL, NameTheme}, applied)
	assert.Equal(t, "https://jarmac.org", cfg.SiteURL)
	assert.Equal(t, "./Flex", cfg.Theme)
}

func TestArticleLink(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "hello.html", cfg.ArticleLink("hello"))

	cfg.SiteURL = "https://jarmac.org"
	assert.Equal(t, "https://jarmac.org/hello.html", cfg.ArticleLink("hello"))

	cfg.ArticleURL = "posts/{slug}/"
	cfg.ArticleSaveAs = "posts/{slug}/index.html"
	assert.Equal(t, "https://jarmac.org/posts/hello/", cfg.ArticleLink("hello"))
	assert.Equal(t, "posts/hello/index.html", cfg.SaveAsPath("hello"))
}
