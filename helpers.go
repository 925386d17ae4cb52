package siteconf

import (
	"log"
	"net/url"
	"os"
	"path"
	"strings"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// ArticleLink expands the article URL template for slug and joins it onto
// the site URL. With an empty site URL the result is document-relative.
func (c *SiteConfig) ArticleLink(slug string) string {
	rel := strings.ReplaceAll(c.ArticleURL, Placeholder, url.PathEscape(slug))
	if c.SiteURL == "" {
		return rel
	}
	u, err := url.Parse(c.SiteURL)
	if err != nil {
		return rel
	}
	trailing := strings.HasSuffix(rel, "/")
	u.Path = path.Join("/", u.Path, rel)
	if trailing && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// SaveAsPath expands the article save-as template for slug into the output
// file path the generator writes.
func (c *SiteConfig) SaveAsPath(slug string) string {
	return strings.ReplaceAll(c.ArticleSaveAs, Placeholder, slug)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("siteconf: required environment variable %s is not set", key)
	}
	return v
}
