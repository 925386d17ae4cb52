package siteconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *SiteConfig {
	cfg := Defaults()
	cfg.Author = "Ahmad Jarara"
	cfg.SiteName = "No Odd Cycles"
	cfg.Timezone = "EST"
	cfg.Theme = "./Flex"
	cfg.Links = []Link{
		{"Source", "https://github.com/alphor/jarmac.org"},
		{"NixOS", "http://jarmac.org/category/nix.html"},
	}
	cfg.Social = []SocialLink{{Label: "Github", URL: "https://github.com/alphor"}}
	return cfg
}

// problemNames returns the setting names Validate complained about.
func problemNames(t *testing.T, cfg *SiteConfig) []string {
	t.Helper()
	var names []string
	for _, fe := range FieldErrors(Validate(cfg)) {
		names = append(names, fe.Name)
	}
	return names
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidateRequiredFields(t *testing.T) {
	cfg := validConfig()
	cfg.Author = ""
	cfg.SiteName = "  "
	cfg.Theme = ""
	cfg.Timezone = ""
	assert.ElementsMatch(t, []string{NameAuthor, NameSiteName, NameTheme, NameTimezone}, problemNames(t, cfg))
}

func TestValidateSiteURL(t *testing.T) {
	tests := []struct {
		url string
		ok  bool
	}{
		{"", true},
		{"https://jarmac.org", true},
		{"http://localhost:8000", true},
		{"https://jarmac.org/", false},
		{"jarmac.org", false},
		{"ftp://jarmac.org", false},
		{"https://", false},
	}
	for _, tt := range tests {
		cfg := validConfig()
		cfg.SiteURL = tt.url
		if tt.ok {
			assert.Empty(t, problemNames(t, cfg), tt.url)
		} else {
			assert.Equal(t, []string{NameSiteURL}, problemNames(t, cfg), tt.url)
		}
	}
}

func TestValidateTimezone(t *testing.T) {
	cfg := validConfig()
	for _, tz := range []string{"EST", "UTC", "Europe/Paris", "America/New_York"} {
		cfg.Timezone = tz
		assert.Empty(t, problemNames(t, cfg), tz)
	}
	cfg.Timezone = "Mars/Olympus_Mons"
	assert.Equal(t, []string{NameTimezone}, problemNames(t, cfg))
}

func TestValidatePlaceholderExactlyOnce(t *testing.T) {
	tests := []struct {
		template string
		ok       bool
	}{
		{"{slug}.html", true},
		{"posts/{slug}/", true},
		{"posts/index.html", false},
		{"{slug}/{slug}.html", false},
		{"{ slug }.html", false},
	}
	for _, tt := range tests {
		cfg := validConfig()
		cfg.ArticleURL = tt.template
		cfg.ArticleSaveAs = tt.template
		names := problemNames(t, cfg)
		if tt.ok {
			assert.Empty(t, names, tt.template)
		} else {
			assert.Equal(t, []string{NameArticleURL, NameArticleSaveAs}, names, tt.template)
		}
	}
}

func TestValidateFeedPaths(t *testing.T) {
	cfg := validConfig()
	cfg.Feeds.AllAtom = FeedAt("feeds/all.atom.xml")
	cfg.Feeds.CategoryAtom = FeedAt("feeds/category.atom.xml")
	cfg.Feeds.TranslationAtom = FeedAt("feeds/all.atom.xml")
	cfg.Feeds.AuthorAtom = Feed{Kind: FeedOn}
	cfg.Feeds.AuthorRSS = Feed{Kind: FeedOff}
	cfg.Feeds.CategoryRSS = "feeds/{slug}/{slug}.rss.xml"
	assert.ElementsMatch(t, []string{NameCategoryAtom, NameTranslationAtom, NameCategoryRSS}, problemNames(t, cfg))
}

func TestValidateLinks(t *testing.T) {
	cfg := validConfig()
	cfg.Links = append(cfg.Links,
		Link{"", "https://example.org"},
		Link{"Source", "https://example.org/dup"},
		Link{"Broken", "http://[::1"},
	)
	cfg.Social = append(cfg.Social, SocialLink{Label: "Mastodon"})
	assert.Equal(t, []string{"LINKS[2]", "LINKS[3]", "LINKS[4]", "SOCIAL[1]"}, problemNames(t, cfg))

	var msgs []string
	for _, fe := range FieldErrors(Validate(cfg)) {
		msgs = append(msgs, fe.Error())
	}
	assert.Contains(t, msgs, `LINKS[3]: duplicate label "Source" (also at index 0)`)
	assert.Contains(t, msgs, "SOCIAL[1]: url is required")
}

func TestValidatePagination(t *testing.T) {
	cfg := validConfig()
	cfg.Pagination = Paginated(-1)
	assert.Equal(t, []string{NamePagination}, problemNames(t, cfg))
	cfg.Pagination = Paginated(10)
	assert.Empty(t, problemNames(t, cfg))
}

func TestValidateExtra(t *testing.T) {
	cfg := validConfig()
	cfg.Extra = []Extra{
		{Name: "SITESUBTITLE", Python: "'Notes'"},
		{Name: "lowercase", Python: "1"},
		{Name: "THEME", Python: "'other'"},
		{Name: "MAIN_MENU", Python: "(unclosed"},
	}
	assert.Equal(t, []string{"lowercase", NameTheme, "MAIN_MENU"}, problemNames(t, cfg))
}

func TestFieldErrorsNil(t *testing.T) {
	assert.Nil(t, FieldErrors(nil))
}
