package siteconf

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (a *App) handleStylesheet(c echo.Context) error {
	css, err := EmbeddedAssets.ReadFile("embedded/siteconf.css")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", css)
}

func (a *App) handlePreview(c echo.Context) error {
	rev, err := a.Cache.Latest()
	if errors.Is(err, ErrNotFound) {
		return Render(c, a.Views.Empty())
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.Preview(rev))
}

// revisionParam resolves the :id route parameter, or the latest revision
// when the route has none.
func (a *App) revisionParam(c echo.Context) (Revision, error) {
	raw := c.Param("id")
	if raw == "" {
		rev, err := a.Cache.Latest()
		if errors.Is(err, ErrNotFound) {
			return Revision{}, echo.NewHTTPError(http.StatusNotFound, "no revisions yet")
		}
		return rev, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return Revision{}, echo.NewHTTPError(http.StatusNotFound)
	}
	rev, err := a.Store.GetRevision(id)
	if errors.Is(err, ErrNotFound) {
		return Revision{}, echo.NewHTTPError(http.StatusNotFound)
	}
	if err != nil {
		return Revision{}, err
	}
	// A saved revision never changes. Ids are handed out in order, so
	// only a found revision may be cached for long.
	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	return rev, nil
}

func (a *App) handleConfigJSON(c echo.Context) error {
	rev, err := a.revisionParam(c)
	if err != nil {
		return err
	}
	return c.JSONPretty(http.StatusOK, rev.Config, "  ")
}

func (a *App) handleConfigYAML(c echo.Context) error {
	rev, err := a.revisionParam(c)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/yaml; charset=utf-8", rev.Body)
}

func (a *App) handleConfigPython(c echo.Context) error {
	rev, err := a.revisionParam(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := WritePython(&buf, rev.Config); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/x-python; charset=utf-8", buf.Bytes())
}

func (a *App) handleRevisions(c echo.Context) error {
	revs, err := a.Store.ListRevisions()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Revisions(revs))
}

func (a *App) handleRevision(c echo.Context) error {
	rev, err := a.revisionParam(c)
	if err != nil {
		return err
	}
	prev, err := a.Store.Previous(rev.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		return Render(c, a.Views.RevisionDetail(rev, Diff(nil, rev.Config), false))
	case err != nil:
		return err
	}
	return Render(c, a.Views.RevisionDetail(rev, Diff(prev.Config, rev.Config), true))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound && acceptsHTML(c) {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// acceptsHTML reports whether the request is for a page rather than one of
// the machine-readable endpoints.
func acceptsHTML(c echo.Context) bool {
	return !hasExtension(c.Request().URL.Path)
}
