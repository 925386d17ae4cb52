package siteconf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessIconScalesDown(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{200, 100, 64, 32},
		{100, 400, 16, 64},
		{128, 128, 64, 64},
		{32, 16, 32, 16},
	}
	for _, tt := range tests {
		icon, data, err := processIcon(bytes.NewReader(encodePNG(t, tt.w, tt.h)), "GitHub Mark.PNG")
		require.NoError(t, err)
		assert.Equal(t, tt.wantW, icon.Width)
		assert.Equal(t, tt.wantH, icon.Height)
		assert.Equal(t, "github-mark.png", icon.Filename)
		assert.Equal(t, "GitHub Mark.PNG", icon.OriginalName)
		assert.Equal(t, len(data), icon.Size)

		decoded, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, tt.wantW, decoded.Bounds().Dx())
		assert.Equal(t, tt.wantH, decoded.Bounds().Dy())
	}
}

func TestProcessIconRejectsGarbage(t *testing.T) {
	_, _, err := processIcon(bytes.NewReader([]byte("not an image")), "x.png")
	assert.Error(t, err)
}

func TestIconFilename(t *testing.T) {
	assert.Equal(t, "mastodon", iconFilename("Mastodon.webp"))
	assert.Equal(t, "icon", iconFilename("???.png"))
	assert.Equal(t, "evil", iconFilename("../../evil.gif"))
	assert.Equal(t, "/public/icons/mastodon.png", IconPath("mastodon.png"))
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":   "hello-world",
		"  GitHub  ":    "github",
		"a--b__c":       "a-b-c",
		"trailing!!!":   "trailing",
		"Ünïcode feeds": "n-code-feeds",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}
