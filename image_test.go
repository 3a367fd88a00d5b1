package sheetbuilder

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func encoded(t *testing.T, encode func(*bytes.Buffer, image.Image) error, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestImageFormatFor(t *testing.T) {
	tests := map[string]ImageFormat{
		"jpeg":    ImageJPEG,
		"JPG":     ImageJPEG,
		"gif":     ImageGIF,
		"png":     ImagePNG,
		"bmp":     ImageDefault,
		"svg+xml": ImageDefault,
		"":        ImageDefault,
	}
	for subtype, want := range tests {
		assert.Equal(t, want, imageFormatFor(subtype), subtype)
	}
	assert.Equal(t, ".jpeg", ImageJPEG.Extension())
	assert.Equal(t, ".gif", ImageGIF.Extension())
	assert.Equal(t, ".png", ImagePNG.Extension())
	assert.Equal(t, ".png", ImageDefault.Extension())
}

func TestExtractImage(t *testing.T) {
	pngData := encoded(t, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) }, 3, 7)
	jpegData := encoded(t, func(b *bytes.Buffer, img image.Image) error { return jpeg.Encode(b, img, nil) }, 8, 4)
	gifData := encoded(t, func(b *bytes.Buffer, img image.Image) error { return gif.Encode(b, img, nil) }, 5, 5)
	bmpData := encoded(t, func(b *bytes.Buffer, img image.Image) error { return bmp.Encode(b, img) }, 6, 2)

	tests := []struct {
		name   string
		src    string
		format ImageFormat
		width  int
		height int
	}{
		{"png", dataURI("image/png", pngData), ImagePNG, 3, 7},
		{"jpeg", dataURI("image/jpeg", jpegData), ImageJPEG, 8, 4},
		{"gif", dataURI("image/gif", gifData), ImageGIF, 5, 5},
		{"bmp re-encoded", dataURI("image/bmp", bmpData), ImageDefault, 6, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stripped, img, err := ExtractImage(`a<img src="` + tt.src + `">b`)
			require.NoError(t, err)
			assert.Equal(t, "ab", stripped)
			require.NotNil(t, img)
			assert.Equal(t, tt.format, img.Format)
			assert.Equal(t, tt.width, img.Width)
			assert.Equal(t, tt.height, img.Height)
		})
	}
}

func TestExtractImage_DefaultStoredAsPNG(t *testing.T) {
	bmpData := encoded(t, func(b *bytes.Buffer, img image.Image) error { return bmp.Encode(b, img) }, 2, 2)
	_, img, err := ExtractImage(`<img src="` + dataURI("image/bmp", bmpData) + `">`)
	require.NoError(t, err)
	require.NotNil(t, img)

	_, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestExtractImage_SVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 8"><rect width="10" height="8" fill="red"/></svg>`)
	_, img, err := ExtractImage(`<img src="` + dataURI("image/svg+xml", svg) + `">`)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, ImageDefault, img.Format)
	assert.Equal(t, 10, img.Width)
	assert.Equal(t, 8, img.Height)
}

func TestExtractImage_NoTag(t *testing.T) {
	stripped, img, err := ExtractImage("just text")
	assert.NoError(t, err)
	assert.Nil(t, img)
	assert.Equal(t, "just text", stripped)
}

func TestExtractImage_UnusableSource(t *testing.T) {
	for _, content := range []string{
		`x<img src="https://example.com/a.png">y`,
		`x<img alt="nothing">y`,
		`x<img src="data:image/png;base64,@@@@">y`,
	} {
		stripped, img, err := ExtractImage(content)
		assert.Error(t, err, content)
		assert.Nil(t, img, content)
		assert.Equal(t, "xy", stripped, content)
	}
}

func TestExtractImage_WrappedPayload(t *testing.T) {
	pngData := encoded(t, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) }, 9, 6)
	payload := base64.StdEncoding.EncodeToString(pngData)
	var wrapped strings.Builder
	for len(payload) > 20 {
		wrapped.WriteString(payload[:20] + "\n")
		payload = payload[20:]
	}
	wrapped.WriteString(payload)

	for _, quote := range []string{`"`, `'`} {
		content := "a<img src=" + quote + "data:image/png;base64," + wrapped.String() + quote + ">b"
		stripped, img, err := ExtractImage(content)
		require.NoError(t, err, quote)
		require.NotNil(t, img, quote)
		assert.Equal(t, "ab", stripped)
		assert.Equal(t, 9, img.Width)
		assert.Equal(t, 6, img.Height)
	}
}

func TestExtractImage_OnlyFirstTag(t *testing.T) {
	pngData := encoded(t, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) }, 1, 1)
	first := `<img src="` + dataURI("image/png", pngData) + `">`
	second := `<img src="https://example.com/b.png">`
	stripped, img, err := ExtractImage(first + "|" + second)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "|"+second, stripped)
}
