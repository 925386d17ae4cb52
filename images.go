package siteconf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	iconSize      = 64
	maxUploadSize = 2 << 20 // 2MB
	iconsSubdir   = "icons"
)

// IconPath is the URL path under which an uploaded icon is served. Social
// links reference icons by this path.
func IconPath(filename string) string {
	return "/public/" + iconsSubdir + "/" + filename
}

// processIcon decodes an image from src, scales it to fit iconSize while
// keeping its aspect ratio, and encodes it as PNG.
func processIcon(src io.Reader, originalName string) (Icon, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Icon{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return Icon{}, nil, fmt.Errorf("empty image")
	}
	if w > iconSize || h > iconSize {
		if w >= h {
			w, h = iconSize, max(1, h*iconSize/w)
		} else {
			w, h = max(1, w*iconSize/h), iconSize
		}
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Icon{}, nil, fmt.Errorf("encode png: %w", err)
	}

	return Icon{
		Filename:     iconFilename(originalName) + ".png",
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}, buf.Bytes(), nil
}

// iconFilename converts a filename (without extension) to a URL-safe slug.
func iconFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if slug := Slugify(base); slug != "" {
		return slug
	}
	return "icon"
}

// ensureUniqueFilename appends a counter if the filename is taken on disk
// or in the store.
func (a *App) ensureUniqueFilename(icon *Icon) error {
	dir := filepath.Join(a.Config.StaticDir, iconsSubdir)
	base := strings.TrimSuffix(icon.Filename, ".png")
	candidate := icon.Filename
	for counter := 2; ; counter++ {
		_, statErr := os.Stat(filepath.Join(dir, candidate))
		taken, err := a.Store.HasIcon(candidate)
		if err != nil {
			return err
		}
		if statErr != nil && !taken {
			break
		}
		candidate = fmt.Sprintf("%s-%d.png", base, counter)
	}
	icon.Filename = candidate
	return nil
}

func (a *App) handleIconUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	file, err := c.FormFile("icon")
	if err != nil {
		return c.String(http.StatusBadRequest, "No icon file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 2MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	icon, data, err := processIcon(src, file.Filename)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}
	if err := a.ensureUniqueFilename(&icon); err != nil {
		return err
	}

	dir := filepath.Join(a.Config.StaticDir, iconsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create icons dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, icon.Filename), data, 0o644); err != nil {
		return fmt.Errorf("write icon: %w", err)
	}
	if err := a.Store.SaveIcon(icon); err != nil {
		return err
	}
	a.Log.Info().Str("icon", icon.Filename).Int("width", icon.Width).Int("height", icon.Height).Msg("uploaded icon")
	return a.renderIconList(c)
}

func (a *App) handleIconDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	filename := filepath.Base(c.Param("filename"))
	if filename == "" || filename == "." || filename == "/" {
		return c.String(http.StatusBadRequest, "Filename required")
	}

	// The file may already be gone; the metadata row is what matters.
	_ = os.Remove(filepath.Join(a.Config.StaticDir, iconsSubdir, filename))

	if err := a.Store.DeleteIcon(filename); err != nil {
		return err
	}
	return a.renderIconList(c)
}

func (a *App) handleIconList(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.renderIconList(c)
}

func (a *App) renderIconList(c echo.Context) error {
	icons, err := a.Store.ListIcons()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminIcons(icons, CsrfToken(c)))
}
