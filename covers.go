package neonlog

import (
	"bytes"
	"hash/fnv"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/neonlog/neonlog/router"
)

const (
	coverWidth  = 800
	coverHeight = 420
	jpegQuality = 80
)

// handleCover serves a post's cover image, falling back to a generated
// placeholder when the conventional cover.jpg is absent or empty.
func (a *App) handleCover(c echo.Context) error {
	slug := c.Param("slug")
	if !router.ValidSlug(slug) {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	path := filepath.Join(a.Config.PostsDir, slug, "cover.jpg")
	if fi, err := os.Stat(path); err == nil && fi.Size() > 0 {
		return c.File(path)
	}
	data, err := placeholderCover(slug)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/jpeg", data)
}

// placeholderCover draws a deterministic two-tone gradient for slug and
// encodes it as JPEG. The palette derives from an FNV hash of the slug so a
// post keeps the same placeholder across requests and restarts.
func placeholderCover(slug string) ([]byte, error) {
	h := fnv.New32a()
	h.Write([]byte(slug))
	seed := h.Sum32()

	from := color.RGBA{
		R: uint8(40 + seed%160),
		G: uint8(40 + (seed>>8)%160),
		B: uint8(80 + (seed>>16)%160),
		A: 255,
	}
	to := color.RGBA{
		R: from.B,
		G: from.R,
		B: from.G,
		A: 255,
	}

	// Paint a tiny diagonal gradient and let CatmullRom scaling smooth it
	// out to full size.
	const sw, sh = 16, 8
	small := image.NewRGBA(image.Rect(0, 0, sw, sh))
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			t := float64(x+y) / float64(sw+sh-2)
			small.SetRGBA(x, y, lerpRGBA(from, to, t))
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, coverWidth, coverHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: 255,
	}
}
