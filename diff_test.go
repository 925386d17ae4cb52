package siteconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffIdentical(t *testing.T) {
	assert.Empty(t, Diff(validConfig(), validConfig()))
}

func TestDiffChangesInModuleOrder(t *testing.T) {
	a := validConfig()
	b := validConfig()
	b.SiteURL = "https://jarmac.org"
	b.Links = append(b.Links, Link{"math", "http://jarmac.org/category/math.html"})
	b.Theme = "notmyidea"
	b.Feeds.AllRSS = "feeds/all.rss.xml"

	changes := Diff(a, b)
	assert.Equal(t, []Change{
		{Name: NameSiteURL, Kind: Changed, Old: "''", New: "'https://jarmac.org'"},
		{Name: NameFeedAllRSS, Kind: Added, New: "'feeds/all.rss.xml'"},
		{
			Name: NameLinks,
			Kind: Changed,
			Old:  "(('Source', 'https://github.com/alphor/jarmac.org'), ('NixOS', 'http://jarmac.org/category/nix.html'))",
			New:  "(('Source', 'https://github.com/alphor/jarmac.org'), ('NixOS', 'http://jarmac.org/category/nix.html'), ('math', 'http://jarmac.org/category/math.html'))",
		},
		{Name: NameTheme, Kind: Changed, Old: "'./Flex'", New: "'notmyidea'"},
	}, changes)
}

func TestDiffLinkOrderMatters(t *testing.T) {
	a := validConfig()
	b := validConfig()
	b.Links[0], b.Links[1] = b.Links[1], b.Links[0]
	changes := Diff(a, b)
	if assert.Len(t, changes, 1) {
		assert.Equal(t, NameLinks, changes[0].Name)
	}
}

func TestDiffRemoved(t *testing.T) {
	a := validConfig()
	a.Plugins = []string{"piwik"}
	a.Extra = []Extra{{Name: "SITESUBTITLE", Python: "'Notes'"}}
	b := validConfig()

	assert.Equal(t, []Change{
		{Name: NamePlugins, Kind: Removed, Old: "['piwik']"},
		{Name: "SITESUBTITLE", Kind: Removed, Old: "'Notes'"},
	}, Diff(a, b))
}

func TestDiffFromNothing(t *testing.T) {
	cfg := validConfig()
	changes := Diff(nil, cfg)
	settings := cfg.Settings()
	if assert.Len(t, changes, len(settings)) {
		for i, c := range changes {
			assert.Equal(t, Added, c.Kind, c.Name)
			assert.Equal(t, settings[i].Name, c.Name)
			assert.Empty(t, c.Old)
		}
	}
	assert.Contains(t, changes, Change{Name: NameFeedAllAtom, Kind: Added, New: "None"})
	assert.Contains(t, changes, Change{Name: NameDisableURLHash, Kind: Added, New: "False"})
}
