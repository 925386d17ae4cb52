package views

import (
	"encoding/json"
	"strconv"

	"github.com/eringen/siteconf"
	"github.com/eringen/siteconf/pyconf"
)

type settingRow struct {
	Name  string
	Value string
}

// settingRows lists every generator setting with its Python literal.
func settingRows(cfg *siteconf.SiteConfig) []settingRow {
	settings := cfg.Settings()
	rows := make([]settingRow, len(settings))
	for i, s := range settings {
		rows[i] = settingRow{Name: s.Name, Value: pyconf.Format(s.Value)}
	}
	return rows
}

func shortChecksum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block from the site
// identity settings.
func WebsiteJsonLD(cfg *siteconf.SiteConfig) string {
	data := map[string]any{
		"@context":   "https://schema.org",
		"@type":      "WebSite",
		"name":       cfg.SiteName,
		"inLanguage": cfg.DefaultLang,
	}
	if cfg.SiteURL != "" {
		data["url"] = cfg.SiteURL + "/"
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if len(cfg.Social) > 0 {
		sameAs := make([]string, len(cfg.Social))
		for i, s := range cfg.Social {
			sameAs[i] = s.URL
		}
		data["sameAs"] = sameAs
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
