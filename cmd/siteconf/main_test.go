package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/siteconf"
)

func TestToTitle(t *testing.T) {
	tests := map[string]string{
		"my-blog":  "My Blog",
		"myblog":   "Myblog",
		"no-odd-c": "No Odd C",
		"":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, toTitle(in), in)
	}
}

func TestWriteScaffoldProducesValidConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-blog")
	err := writeScaffold(dir, scaffoldData{
		SiteName: "My \"Blog\"",
		Author:   "Ahmad Jarara",
		Timezone: "EST",
		Date:     "2026-01-02 15:04",
	})
	require.NoError(t, err)

	for _, name := range []string{"siteconf.yaml", "Makefile", ".gitignore", "content/first-post.md"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	cfg, err := siteconf.Load(filepath.Join(dir, "siteconf.yaml"))
	require.NoError(t, err)
	assert.Equal(t, `My "Blog"`, cfg.SiteName)
	assert.Equal(t, "EST", cfg.Timezone)
	assert.Len(t, cfg.Links, 2)
	assert.NoError(t, siteconf.Validate(cfg))

	post, err := os.ReadFile(filepath.Join(dir, "content/first-post.md"))
	require.NoError(t, err)
	assert.Contains(t, string(post), "2026-01-02 15:04")
}

func TestWriteConfigFormats(t *testing.T) {
	cfg := siteconf.Defaults()
	cfg.Author = "A"
	cfg.SiteName = "S"

	var buf bytes.Buffer
	require.NoError(t, writeConfig(&buf, cfg, "python"))
	assert.Contains(t, buf.String(), "SITENAME = 'S'\n")

	buf.Reset()
	require.NoError(t, writeConfig(&buf, cfg, "json"))
	assert.Contains(t, buf.String(), `"sitename": "S"`)

	buf.Reset()
	require.NoError(t, writeConfig(&buf, cfg, "yaml"))
	back, err := siteconf.Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, siteconf.Diff(cfg, back))

	assert.Error(t, writeConfig(&buf, cfg, "toml"))
}

func TestRunValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "pelicanconf.py")
	require.NoError(t, os.WriteFile(good, []byte("AUTHOR = 'A'\nSITENAME = 'S'\n"), 0o644))
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("author: A\nsitename: S\narticle_url: index.html\n"), 0o644))

	assert.NoError(t, runValidate([]string{good}))
	assert.Error(t, runValidate([]string{good, bad}))
	assert.ErrorIs(t, runValidate(nil), errUsage)
}

func TestRunImportAndDiff(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "siteconf.db")
	conf := filepath.Join(dir, "siteconf.yaml")
	require.NoError(t, os.WriteFile(conf, []byte("author: A\nsitename: S\n"), 0o644))

	require.NoError(t, runImport([]string{"-db", db, "-note", "first", conf}))
	require.NoError(t, runImport([]string{"-db", db, conf}), "unchanged import is not an error")

	store, err := siteconf.NewStore(db)
	require.NoError(t, err)
	revs, err := store.ListRevisions()
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, revs, 1)
	assert.Equal(t, "first", revs[0].Note)

	assert.NoError(t, runDiff([]string{"-db", db, "1", conf}))
	assert.Error(t, runDiff([]string{"-db", db, "2", conf}))
	assert.ErrorIs(t, runDiff([]string{conf}), errUsage)
}
