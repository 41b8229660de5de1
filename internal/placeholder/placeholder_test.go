package placeholder

import (
	"bytes"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_GradientAndCaptionBand(t *testing.T) {
	dc, err := Render(Image{Width: 400, Height: 500, Caption: "Ольга Андреева", Filename: "x.jpg"})
	require.NoError(t, err)

	img := dc.Image()
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())

	// Top rows are close to the light colour, bottom rows to the primary one.
	tr, tg, tb, _ := img.At(5, 0).RGBA()
	br, bg, bb, _ := img.At(5, 499).RGBA()
	assert.InDelta(t, float64(SecondaryColor.R), float64(tr>>8), 3)
	assert.InDelta(t, float64(SecondaryColor.G), float64(tg>>8), 3)
	assert.InDelta(t, float64(SecondaryColor.B), float64(tb>>8), 3)
	assert.InDelta(t, float64(PrimaryColor.R), float64(br>>8), 3)
	assert.InDelta(t, float64(PrimaryColor.G), float64(bg>>8), 3)
	assert.InDelta(t, float64(PrimaryColor.B), float64(bb>>8), 3)

	// The caption band darkens the padding left of the text.
	tw, _ := dc.MeasureString("Ольга Андреева")
	cr, _, _, _ := img.At(int(200-tw/2-10), 250).RGBA()
	assert.Less(t, cr>>8, uint32(150))
}

func TestRender_InvalidSize(t *testing.T) {
	_, err := Render(Image{Width: 0, Height: 10, Filename: "bad.jpg"})
	assert.Error(t, err)
}

func TestEncode_JPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Image{Width: 80, Height: 60, Caption: "Клиника"}))

	cfg, err := jpeg.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Width)
	assert.Equal(t, 60, cfg.Height)
}

func TestWriteAll_CreatesDirAndFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	paths, err := WriteAll(dir, Defaults[:2])
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, p := range paths {
		st, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, st.Size(), int64(0))
	}
}

func TestDefaults_MatchCatalogImages(t *testing.T) {
	names := map[string]bool{}
	for _, d := range Defaults {
		names[d.Filename] = true
	}
	for _, want := range []string{"doctor1.jpg", "doctor2.jpg", "doctor3.jpg", "doctor4.jpg"} {
		assert.True(t, names[want], want)
	}
}
