// Package views provides the default templ components for the siteconf
// server. Pages are html/template definitions wrapped as templ components so
// callers can swap any of them through siteconf.ViewFuncs.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/eringen/siteconf"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"ago":      func(t time.Time) string { return humanize.Time(t) },
	"bytes":    func(n int) string { return humanize.Bytes(uint64(n)) },
	"short":    shortChecksum,
	"iconPath": siteconf.IconPath,
	"jsonld":   func(cfg *siteconf.SiteConfig) template.JS { return template.JS(WebsiteJsonLD(cfg)) },
}).ParseFS(templateFS, "templates/*.html"))

// page renders the named template inside the shared layout.
func page(name, title string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, struct {
			Title string
			Data  any
		}{title, data})
	})
}

// Default returns the full set of default views.
func Default() siteconf.ViewFuncs {
	return siteconf.ViewFuncs{
		Preview:        Preview,
		Empty:          Empty,
		Revisions:      Revisions,
		RevisionDetail: RevisionDetail,
		AdminLogin:     AdminLogin,
		AdminDashboard: AdminDashboard,
		AdminIcons:     AdminIcons,
		NotFound:       NotFound,
		ServerError:    ServerError,
	}
}

// Preview shows the identity, navigation and social links of a revision in
// the order the theme renders them.
func Preview(rev siteconf.Revision) templ.Component {
	cfg := rev.Config
	return page("preview", cfg.SiteName, struct {
		Rev         siteconf.Revision
		Config      *siteconf.SiteConfig
		SampleURL   string
		SampleSaved string
		Settings    []settingRow
	}{
		Rev:         rev,
		Config:      cfg,
		SampleURL:   cfg.ArticleLink("hello-world"),
		SampleSaved: cfg.SaveAsPath("hello-world"),
		Settings:    settingRows(cfg),
	})
}

// Empty is shown before any revision has been saved.
func Empty() templ.Component {
	return page("empty", "No configuration yet", nil)
}

// Revisions lists the history, newest first.
func Revisions(revs []siteconf.Revision) templ.Component {
	return page("revisions", "Revisions", revs)
}

// RevisionDetail shows a revision and what changed from its predecessor.
func RevisionDetail(rev siteconf.Revision, changes []siteconf.Change, hasPrevious bool) templ.Component {
	return page("revision", "Revision "+itoa(rev.ID), struct {
		Rev         siteconf.Revision
		Changes     []siteconf.Change
		HasPrevious bool
	}{rev, changes, hasPrevious})
}

// AdminLogin renders the password form.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return page("login", "Admin", struct {
		ShowError bool
		CSRF      string
	}{showError, csrfToken})
}

// AdminDashboard renders the upload form, the latest revision, and any
// validation problems from the last upload.
func AdminDashboard(latest *siteconf.Revision, msg string, problems []*siteconf.FieldError, csrfToken string) templ.Component {
	return page("dashboard", "Admin", struct {
		Latest   *siteconf.Revision
		Msg      string
		Problems []*siteconf.FieldError
		CSRF     string
	}{latest, msg, problems, csrfToken})
}

// AdminIcons lists uploaded icons with their social-link paths.
func AdminIcons(icons []siteconf.Icon, csrfToken string) templ.Component {
	return page("icons", "Icons", struct {
		Icons []siteconf.Icon
		CSRF  string
	}{icons, csrfToken})
}

func NotFound() templ.Component {
	return page("notfound", "Not found", nil)
}

func ServerError() templ.Component {
	return page("servererror", "Server error", nil)
}
