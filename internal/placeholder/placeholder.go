// Package placeholder renders stand-in photos for the landing page: a
// vertical gradient in the site palette with a caption on a dark band.
package placeholder

import (
	"fmt"
	"image/color"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Site palette.
var (
	PrimaryColor   = color.RGBA{200, 123, 133, 255} // #C87B85
	SecondaryColor = color.RGBA{245, 233, 233, 255} // #F5E9E9
	DarkColor      = color.RGBA{44, 27, 27, 180}    // #2C1B1B, translucent
)

// JPEGQuality matches what the site ships for photos.
const JPEGQuality = 85

// Image describes one placeholder file.
type Image struct {
	Width, Height int
	Caption       string
	Filename      string
}

// Defaults are the clinic interior shots (landscape) and specialist
// portraits (portrait) referenced by the landing page.
var Defaults = []Image{
	{800, 600, "Интерьер клиники", "clinic1.jpg"},
	{800, 600, "Кабинет косметолога", "clinic2.jpg"},
	{800, 600, "Процедурный кабинет", "clinic3.jpg"},
	{400, 500, "Елена Васильева", "doctor1.jpg"},
	{400, 500, "Виктория Коваленко", "doctor2.jpg"},
	{400, 500, "Ксения Михайлова", "doctor3.jpg"},
	{400, 500, "Ольга Андреева", "doctor4.jpg"},
}

var (
	fontOnce sync.Once
	fontErr  error
	regular  *opentype.Font
)

func face(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		regular, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return opentype.NewFace(regular, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// Render draws img onto a new canvas.
func Render(img Image) (*gg.Context, error) {
	if img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("placeholder %q: invalid size %dx%d", img.Filename, img.Width, img.Height)
	}
	dc := gg.NewContext(img.Width, img.Height)

	grad := gg.NewLinearGradient(0, 0, 0, float64(img.Height))
	grad.AddColorStop(0, SecondaryColor)
	grad.AddColorStop(1, PrimaryColor)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(img.Width), float64(img.Height))
	dc.Fill()

	size := 30.0
	if img.Width > 500 {
		size = 40
	}
	f, err := face(size)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	dc.SetFontFace(f)

	const padding = 20.0
	tw, th := dc.MeasureString(img.Caption)
	cx, cy := float64(img.Width)/2, float64(img.Height)/2
	dc.SetColor(DarkColor)
	dc.DrawRectangle(cx-tw/2-padding, cy-th/2-padding, tw+2*padding, th+2*padding)
	dc.Fill()

	dc.SetColor(color.White)
	dc.DrawStringAnchored(img.Caption, cx, cy, 0.5, 0.35)
	return dc, nil
}

// Encode renders img and writes it to w as JPEG.
func Encode(w io.Writer, img Image) error {
	dc, err := Render(img)
	if err != nil {
		return err
	}
	return jpeg.Encode(w, dc.Image(), &jpeg.Options{Quality: JPEGQuality})
}

// WriteAll renders every image into dir, creating it when missing, and
// returns the written paths.
func WriteAll(dir string, images []Image) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(images))
	for _, img := range images {
		p := filepath.Join(dir, img.Filename)
		if err := writeFile(p, img); err != nil {
			return out, fmt.Errorf("%s: %w", img.Filename, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func writeFile(path string, img Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
