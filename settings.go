package siteconf

import (
	"fmt"
	"strings"

	"github.com/eringen/siteconf/pyconf"
)

// Setting names read by the site generator. They must match exactly.
const (
	NameAuthor          = "AUTHOR"
	NameSiteName        = "SITENAME"
	NameSiteURL         = "SITEURL"
	NamePath            = "PATH"
	NameTimezone        = "TIMEZONE"
	NameDefaultLang     = "DEFAULT_LANG"
	NameFeedAllAtom     = "FEED_ALL_ATOM"
	NameCategoryAtom    = "CATEGORY_FEED_ATOM"
	NameTranslationAtom = "TRANSLATION_FEED_ATOM"
	NameAuthorAtom      = "AUTHOR_FEED_ATOM"
	NameAuthorRSS       = "AUTHOR_FEED_RSS"
	NameFeedAllRSS      = "FEED_ALL_RSS"
	NameCategoryRSS     = "CATEGORY_FEED_RSS"
	NameLinks           = "LINKS"
	NameSocial          = "SOCIAL"
	NamePagination      = "DEFAULT_PAGINATION"
	NameRelativeURLs    = "RELATIVE_URLS"
	NameArticleURL      = "ARTICLE_URL"
	NameArticleSaveAs   = "ARTICLE_SAVE_AS"
	NamePluginPaths     = "PLUGIN_PATHS"
	NamePlugins         = "PLUGINS"
	NameTheme           = "THEME"
	NameDisableURLHash  = "DISABLE_URL_HASH"
)

// defaultFeedPaths are the generator's output paths for feeds toggled on
// with a bare True.
var defaultFeedPaths = map[string]string{
	NameFeedAllAtom:     "feeds/all.atom.xml",
	NameCategoryAtom:    "feeds/{slug}.atom.xml",
	NameTranslationAtom: "feeds/all-{lang}.atom.xml",
	NameAuthorAtom:      "feeds/{slug}.atom.xml",
	NameAuthorRSS:       "feeds/{slug}.rss.xml",
}

// Setting is one NAME = value pair of the generator's settings module.
type Setting struct {
	Name  string
	Value pyconf.Value
}

// Settings flattens the config into generator settings in module order.
// Optional settings are omitted while unset.
func (c *SiteConfig) Settings() []Setting {
	str := pyconf.Str
	out := []Setting{
		{NameAuthor, str(c.Author)},
		{NameSiteName, str(c.SiteName)},
		{NameSiteURL, str(c.SiteURL)},
		{NamePath, str(c.ContentPath)},
		{NameTimezone, str(c.Timezone)},
		{NameDefaultLang, str(c.DefaultLang)},
	}
	for _, f := range c.Feeds.toggles() {
		out = append(out, Setting{f.name, feedValue(f.name, *f.feed)})
	}
	if c.Feeds.AllRSS != "" {
		out = append(out, Setting{NameFeedAllRSS, str(c.Feeds.AllRSS)})
	}
	if c.Feeds.CategoryRSS != "" {
		out = append(out, Setting{NameCategoryRSS, str(c.Feeds.CategoryRSS)})
	}

	links := make([]pyconf.Value, len(c.Links))
	for i, l := range c.Links {
		links[i] = pyconf.TupleOf(str(l.Label), str(l.URL))
	}
	social := make([]pyconf.Value, len(c.Social))
	for i, s := range c.Social {
		item := pyconf.TupleOf(str(s.Label), str(s.URL))
		if s.Icon != "" {
			item.Items = append(item.Items, str(s.Icon))
		}
		social[i] = item
	}
	pagination := pyconf.False
	if c.Pagination.Enabled() {
		pagination = pyconf.IntValue(int64(c.Pagination.PerPage))
	}
	out = append(out,
		Setting{NameLinks, pyconf.TupleOf(links...)},
		Setting{NameSocial, pyconf.TupleOf(social...)},
		Setting{NamePagination, pagination},
	)
	if c.RelativeURLs {
		out = append(out, Setting{NameRelativeURLs, pyconf.True})
	}
	out = append(out,
		Setting{NameArticleURL, str(c.ArticleURL)},
		Setting{NameArticleSaveAs, str(c.ArticleSaveAs)},
	)
	if len(c.PluginPaths) > 0 {
		out = append(out, Setting{NamePluginPaths, stringList(c.PluginPaths)})
	}
	if len(c.Plugins) > 0 {
		out = append(out, Setting{NamePlugins, stringList(c.Plugins)})
	}
	out = append(out,
		Setting{NameTheme, str(c.Theme)},
		Setting{NameDisableURLHash, pyconf.Value{Kind: pyconf.Bool, Bool: c.DisableURLHash}},
	)
	for _, e := range c.Extra {
		v, err := parseLiteral(e.Python)
		if err != nil {
			v = str(e.Python)
		}
		out = append(out, Setting{e.Name, v})
	}
	return out
}

type namedFeed struct {
	name string
	feed *Feed
}

func (p *FeedPolicy) toggles() []namedFeed {
	return []namedFeed{
		{NameFeedAllAtom, &p.AllAtom},
		{NameCategoryAtom, &p.CategoryAtom},
		{NameTranslationAtom, &p.TranslationAtom},
		{NameAuthorAtom, &p.AuthorAtom},
		{NameAuthorRSS, &p.AuthorRSS},
	}
}

// feedValue renders a toggle the way the generator expects. A bare True
// becomes the generator's default path.
func feedValue(name string, f Feed) pyconf.Value {
	switch f.Kind {
	case FeedOff:
		return pyconf.False
	case FeedOn:
		return pyconf.Str(defaultFeedPaths[name])
	case FeedPath:
		return pyconf.Str(f.Path)
	}
	return pyconf.NoneValue
}

func stringList(items []string) pyconf.Value {
	v := pyconf.Value{Kind: pyconf.List, Items: make([]pyconf.Value, len(items))}
	for i, s := range items {
		v.Items[i] = pyconf.Str(s)
	}
	return v
}

func parseLiteral(src string) (pyconf.Value, error) {
	assigns, err := pyconf.Parse([]byte("X = " + src + "\n"))
	if err != nil {
		return pyconf.Value{}, err
	}
	if len(assigns) != 1 {
		return pyconf.Value{}, fmt.Errorf("not a single literal")
	}
	return assigns[0].Value, nil
}

// modelled reports whether name maps to a SiteConfig field.
func modelled(name string) bool {
	switch name {
	case NameAuthor, NameSiteName, NameSiteURL, NamePath, NameTimezone, NameDefaultLang,
		NameFeedAllAtom, NameCategoryAtom, NameTranslationAtom, NameAuthorAtom, NameAuthorRSS,
		NameFeedAllRSS, NameCategoryRSS, NameLinks, NameSocial, NamePagination, NameRelativeURLs,
		NameArticleURL, NameArticleSaveAs, NamePluginPaths, NamePlugins, NameTheme, NameDisableURLHash:
		return true
	}
	return false
}

// isSettingName reports whether s looks like a generator setting: only
// upper-case letters, digits and underscores.
func isSettingName(s string) bool {
	if s == "" || s == strings.ToLower(s) {
		return false
	}
	for _, r := range s {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
			return false
		}
	}
	return true
}
