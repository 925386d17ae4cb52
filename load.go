package siteconf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eringen/siteconf/pyconf"
)

// Defaults returns a config carrying the generator defaults for every
// setting that has one. Identity fields are left empty.
func Defaults() *SiteConfig {
	c := &SiteConfig{}
	c.setDefaults()
	return c
}

func (c *SiteConfig) setDefaults() {
	if c.ContentPath == "" {
		c.ContentPath = "content"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.DefaultLang == "" {
		c.DefaultLang = "en"
	}
	if c.ArticleURL == "" {
		c.ArticleURL = Placeholder + ".html"
	}
	if c.ArticleSaveAs == "" {
		c.ArticleSaveAs = Placeholder + ".html"
	}
	if c.Theme == "" {
		c.Theme = "notmyidea"
	}
}

// Load reads a config file. Files ending in .py are read as a generator
// settings module, anything else as YAML.
func Load(path string) (*SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg *SiteConfig
	if IsPython(path) {
		cfg, err = FromPython(data)
	} else {
		cfg, err = Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// IsPython reports whether path names a Python settings module.
func IsPython(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".py")
}

// Parse decodes a YAML config. Unknown keys are rejected since the
// generator silently ignores misspelled settings.
func Parse(data []byte) (*SiteConfig, error) {
	cfg := &SiteConfig{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg *SiteConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromPython builds a config from a generator settings module. Upper-case
// names the config does not model are kept in Extra, in source order.
func FromPython(src []byte) (*SiteConfig, error) {
	assigns, err := pyconf.Parse(src)
	if err != nil {
		return nil, err
	}
	cfg := &SiteConfig{}
	seen := make(map[string]int)
	for _, a := range assigns {
		if !isSettingName(a.Name) {
			continue
		}
		if modelled(a.Name) {
			if err := cfg.assign(a.Name, a.Value); err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", a.Line, a.Name, err)
			}
			continue
		}
		extra := Extra{Name: a.Name, Python: pyconf.Format(a.Value)}
		if i, ok := seen[a.Name]; ok {
			cfg.Extra[i] = extra
			continue
		}
		seen[a.Name] = len(cfg.Extra)
		cfg.Extra = append(cfg.Extra, extra)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) assign(name string, v pyconf.Value) error {
	var err error
	switch name {
	case NameAuthor:
		c.Author, err = asString(v)
	case NameSiteName:
		c.SiteName, err = asString(v)
	case NameSiteURL:
		c.SiteURL, err = asString(v)
	case NamePath:
		c.ContentPath, err = asString(v)
	case NameTimezone:
		c.Timezone, err = asString(v)
	case NameDefaultLang:
		c.DefaultLang, err = asString(v)
	case NameFeedAllRSS:
		c.Feeds.AllRSS, err = asOptionalString(v)
	case NameCategoryRSS:
		c.Feeds.CategoryRSS, err = asOptionalString(v)
	case NameArticleURL:
		c.ArticleURL, err = asString(v)
	case NameArticleSaveAs:
		c.ArticleSaveAs, err = asString(v)
	case NameTheme:
		c.Theme, err = asString(v)
	case NameRelativeURLs:
		c.RelativeURLs, err = asBool(v)
	case NameDisableURLHash:
		c.DisableURLHash, err = asBool(v)
	case NamePluginPaths:
		c.PluginPaths, err = asStrings(v)
	case NamePlugins:
		c.Plugins, err = asStrings(v)
	case NamePagination:
		c.Pagination, err = asPagination(v)
	case NameLinks:
		c.Links, err = asLinks(v)
	case NameSocial:
		c.Social, err = asSocial(v)
	default:
		for _, f := range c.Feeds.toggles() {
			if f.name == name {
				*f.feed, err = asFeed(v)
				return err
			}
		}
		return fmt.Errorf("unsupported setting")
	}
	return err
}

func asString(v pyconf.Value) (string, error) {
	if v.Kind != pyconf.String {
		return "", fmt.Errorf("expected str, got %s", v.Kind)
	}
	return v.Str, nil
}

func asOptionalString(v pyconf.Value) (string, error) {
	if v.Kind == pyconf.None {
		return "", nil
	}
	return asString(v)
}

func asBool(v pyconf.Value) (bool, error) {
	if v.Kind != pyconf.Bool {
		return false, fmt.Errorf("expected bool, got %s", v.Kind)
	}
	return v.Bool, nil
}

func asStrings(v pyconf.Value) ([]string, error) {
	if !v.IsSequence() {
		return nil, fmt.Errorf("expected list, got %s", v.Kind)
	}
	out := make([]string, 0, len(v.Items))
	for _, item := range v.Items {
		s, err := asString(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func asFeed(v pyconf.Value) (Feed, error) {
	switch v.Kind {
	case pyconf.None:
		return Feed{}, nil
	case pyconf.Bool:
		if v.Bool {
			return Feed{Kind: FeedOn}, nil
		}
		return Feed{Kind: FeedOff}, nil
	case pyconf.String:
		return FeedAt(v.Str), nil
	}
	return Feed{}, fmt.Errorf("expected None, bool or str, got %s", v.Kind)
}

func asPagination(v pyconf.Value) (Pagination, error) {
	switch {
	case v.Kind == pyconf.Bool && !v.Bool, v.Kind == pyconf.None:
		return Pagination{}, nil
	case v.Kind == pyconf.Int:
		return Paginated(int(v.Int)), nil
	}
	return Pagination{}, fmt.Errorf("expected False or int, got %s", pyconf.Format(v))
}

func asTuples(v pyconf.Value, min, max int) ([][]string, error) {
	if !v.IsSequence() {
		return nil, fmt.Errorf("expected tuple of tuples, got %s", v.Kind)
	}
	out := make([][]string, 0, len(v.Items))
	for i, item := range v.Items {
		parts, err := asStrings(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if len(parts) < min || len(parts) > max {
			return nil, fmt.Errorf("item %d: expected %d to %d fields, got %d", i, min, max, len(parts))
		}
		out = append(out, parts)
	}
	return out, nil
}

func asLinks(v pyconf.Value) ([]Link, error) {
	tuples, err := asTuples(v, 2, 2)
	if err != nil {
		return nil, err
	}
	links := make([]Link, len(tuples))
	for i, t := range tuples {
		links[i] = Link{Label: t[0], URL: t[1]}
	}
	return links, nil
}

func asSocial(v pyconf.Value) ([]SocialLink, error) {
	tuples, err := asTuples(v, 2, 3)
	if err != nil {
		return nil, err
	}
	social := make([]SocialLink, len(tuples))
	for i, t := range tuples {
		social[i] = SocialLink{Label: t[0], URL: t[1]}
		if len(t) == 3 {
			social[i].Icon = t[2]
		}
	}
	return social, nil
}

// WritePython writes cfg as a generator settings module.
func WritePython(w io.Writer, cfg *SiteConfig) error {
	header := "#!/usr/bin/env python\n# -*- coding: utf-8 -*- #\nfrom __future__ import unicode_literals\n\n"
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	settings := cfg.Settings()
	assigns := make([]pyconf.Assignment, len(settings))
	for i, s := range settings {
		assigns[i] = pyconf.Assignment{Name: s.Name, Value: s.Value}
	}
	return pyconf.Write(w, assigns)
}

// EnvPrefix prefixes the environment variables read by ApplyEnv.
const EnvPrefix = "SITECONF_"

// ApplyEnv overrides identity settings from SITECONF_<NAME> variables, e.g.
// SITECONF_SITEURL for publish builds. It returns the names it overrode.
func ApplyEnv(cfg *SiteConfig, lookup func(string) (string, bool)) []string {
	fields := []struct {
		name string
		dst  *string
	}{
		{NameAuthor, &cfg.Author},
		{NameSiteName, &cfg.SiteName},
		{NameSiteURL, &cfg.SiteURL},
		{NameTimezone, &cfg.Timezone},
		{NameDefaultLang, &cfg.DefaultLang},
		{NameTheme, &cfg.Theme},
	}
	var applied []string
	for _, f := range fields {
		if v, ok := lookup(EnvPrefix + f.name); ok {
			*f.dst = v
			applied = append(applied, f.name)
		}
	}
	return applied
}
