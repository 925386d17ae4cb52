package siteconf

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"
)

// FieldError describes one invalid setting.
type FieldError struct {
	Name string // generator setting name, e.g. ARTICLE_URL
	Msg  string
}

func (e *FieldError) Error() string {
	return e.Name + ": " + e.Msg
}

// FieldErrors extracts the individual *FieldError values from a Validate error.
func FieldErrors(err error) []*FieldError {
	if err == nil {
		return nil
	}
	var out []*FieldError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, FieldErrors(e)...)
		}
		return out
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		out = append(out, fe)
	}
	return out
}

type validator struct {
	errs []error
}

func (v *validator) add(name, format string, args ...any) {
	v.errs = append(v.errs, &FieldError{Name: name, Msg: fmt.Sprintf(format, args...)})
}

func (v *validator) required(name, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(name, "is required")
	}
}

// template checks that a path template carries token exactly once.
func (v *validator) template(name, value, token string) {
	switch n := strings.Count(value, token); n {
	case 1:
	case 0:
		v.add(name, "must contain %s", token)
	default:
		v.add(name, "must contain %s exactly once, found %d", token, n)
	}
}

// Validate checks the structural properties the generator relies on. The
// returned error joins one *FieldError per problem.
func Validate(cfg *SiteConfig) error {
	v := &validator{}

	v.required(NameAuthor, cfg.Author)
	v.required(NameSiteName, cfg.SiteName)
	v.required(NameDefaultLang, cfg.DefaultLang)
	v.required(NameTheme, cfg.Theme)

	if cfg.SiteURL != "" {
		u, err := url.Parse(cfg.SiteURL)
		switch {
		case err != nil:
			v.add(NameSiteURL, "invalid URL: %v", err)
		case u.Scheme != "http" && u.Scheme != "https" || u.Host == "":
			v.add(NameSiteURL, "must be an absolute http(s) URL or empty")
		case strings.HasSuffix(cfg.SiteURL, "/"):
			v.add(NameSiteURL, "must not end with a slash")
		}
	}

	if cfg.Timezone == "" {
		v.add(NameTimezone, "is required")
	} else if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		v.add(NameTimezone, "unknown timezone %q", cfg.Timezone)
	}

	v.template(NameArticleURL, cfg.ArticleURL, Placeholder)
	v.template(NameArticleSaveAs, cfg.ArticleSaveAs, Placeholder)
	if cfg.Feeds.CategoryRSS != "" {
		v.template(NameCategoryRSS, cfg.Feeds.CategoryRSS, Placeholder)
	}
	for _, f := range cfg.Feeds.toggles() {
		if f.feed.Kind != FeedPath {
			continue
		}
		switch f.name {
		case NameCategoryAtom, NameAuthorAtom, NameAuthorRSS:
			v.template(f.name, f.feed.Path, Placeholder)
		case NameTranslationAtom:
			v.template(f.name, f.feed.Path, "{lang}")
		default:
			v.required(f.name, f.feed.Path)
		}
	}

	labels := make(map[string]int)
	for i, l := range cfg.Links {
		name := fmt.Sprintf("%s[%d]", NameLinks, i)
		v.entry(name, l.Label, l.URL)
		if j, ok := labels[l.Label]; ok && l.Label != "" {
			v.add(name, "duplicate label %q (also at index %d)", l.Label, j)
		} else {
			labels[l.Label] = i
		}
	}
	for i, s := range cfg.Social {
		v.entry(fmt.Sprintf("%s[%d]", NameSocial, i), s.Label, s.URL)
	}

	if cfg.Pagination.PerPage < 0 {
		v.add(NamePagination, "page size must be positive, got %d", cfg.Pagination.PerPage)
	}

	for _, e := range cfg.Extra {
		if !isSettingName(e.Name) {
			v.add(e.Name, "setting names must be upper case")
		} else if modelled(e.Name) {
			v.add(e.Name, "must be set through its own field, not extra")
		}
		if _, err := parseLiteral(e.Python); err != nil {
			v.add(e.Name, "invalid literal: %v", err)
		}
	}

	return errors.Join(v.errs...)
}

func (v *validator) entry(name, label, link string) {
	if strings.TrimSpace(label) == "" {
		v.add(name, "label is required")
	}
	if strings.TrimSpace(link) == "" {
		v.add(name, "url is required")
		return
	}
	if _, err := url.Parse(link); err != nil {
		v.add(name, "invalid url: %v", err)
	}
}
