package siteconf

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const maxConfigSize = 1 << 20 // 1MB

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, http.StatusOK, c.QueryParam("msg"), nil)
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	a.Log.Warn().Str("ip", ip).Msg("failed admin login")
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminSaveRevision accepts a config either as an uploaded file
// ("config") or pasted into a form field ("body"). The format field, or the
// uploaded file's extension, selects between YAML and a Python settings module.
func (a *App) handleAdminSaveRevision(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	body, python, err := readConfigUpload(c)
	if err != nil {
		return a.renderAdminDashboard(c, http.StatusBadRequest, err.Error(), nil)
	}

	var cfg *SiteConfig
	if python {
		cfg, err = FromPython(body)
	} else {
		cfg, err = Parse(body)
	}
	if err != nil {
		return a.renderAdminDashboard(c, http.StatusUnprocessableEntity, "Could not read config: "+err.Error(), nil)
	}
	if err := Validate(cfg); err != nil {
		return a.renderAdminDashboard(c, http.StatusUnprocessableEntity, "Config is invalid.", FieldErrors(err))
	}

	note := strings.TrimSpace(c.FormValue("note"))
	rev, err := a.Store.SaveRevision(cfg, note)
	if errors.Is(err, ErrUnchanged) {
		return a.renderAdminDashboard(c, http.StatusOK, "unchanged", nil)
	}
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	a.Log.Info().Int64("revision", rev.ID).Str("note", note).Msg("saved revision")
	return a.renderAdminDashboard(c, http.StatusOK, "saved", nil)
}

func readConfigUpload(c echo.Context) (body []byte, python bool, err error) {
	python = c.FormValue("format") == "python"
	if file, ferr := c.FormFile("config"); ferr == nil {
		if file.Size > maxConfigSize {
			return nil, false, errors.New("config file too large (max 1MB)")
		}
		src, err := file.Open()
		if err != nil {
			return nil, false, err
		}
		defer src.Close()
		body, err = io.ReadAll(io.LimitReader(src, maxConfigSize))
		if err != nil {
			return nil, false, err
		}
		return body, python || IsPython(file.Filename), nil
	}
	text := c.FormValue("body")
	if strings.TrimSpace(text) == "" {
		return nil, false, errors.New("no config provided")
	}
	if len(text) > maxConfigSize {
		return nil, false, errors.New("config too large (max 1MB)")
	}
	return []byte(text), python, nil
}

func (a *App) renderAdminDashboard(c echo.Context, code int, msg string, problems []*FieldError) error {
	var latest *Revision
	rev, err := a.Cache.Latest()
	switch {
	case err == nil:
		latest = &rev
	case !errors.Is(err, ErrNotFound):
		return err
	}
	return RenderStatus(c, code, a.Views.AdminDashboard(latest, msg, problems, CsrfToken(c)))
}
