package sheetbuilder

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"regexp"
	"strings"

	isSvg "github.com/h2non/go-is-svg"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageFormat is the rendering format of an embedded picture.
type ImageFormat int

const (
	ImageDefault ImageFormat = iota
	ImageJPEG
	ImageGIF
	ImagePNG
)

func (f ImageFormat) String() string {
	switch f {
	case ImageJPEG:
		return "JPEG"
	case ImageGIF:
		return "GIF"
	case ImagePNG:
		return "PNG"
	default:
		return "DEFAULT"
	}
}

// Extension is the file extension used when embedding the picture. Default
// images are stored re-encoded as PNG.
func (f ImageFormat) Extension() string {
	switch f {
	case ImageJPEG:
		return ".jpeg"
	case ImageGIF:
		return ".gif"
	default:
		return ".png"
	}
}

// imageFormatFor maps a data URI mime subtype to a rendering format.
func imageFormatFor(subtype string) ImageFormat {
	switch strings.ToLower(subtype) {
	case "jpg", "jpeg":
		return ImageJPEG
	case "gif":
		return ImageGIF
	case "png":
		return ImagePNG
	default:
		return ImageDefault
	}
}

// Image is a decoded picture ready to be embedded.
type Image struct {
	Data   []byte
	Format ImageFormat
	Width  int // px
	Height int // px
}

var (
	imgTagRe  = regexp.MustCompile(`(?i)<img[^>]+>`)
	imgSrcRe  = regexp.MustCompile(`(?i)<\s*img[^>]*src\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s>]*))`)
	subtypeRe = regexp.MustCompile(`/([^;]*);`)

	errNotDataURI = errors.New("image source is not a base64 data uri")
)

// ExtractImage strips the first <img> tag from content and decodes its data
// URI source. The tag is removed even when its source cannot be used, in
// which case img is nil and err describes why.
func ExtractImage(content string) (stripped string, img *Image, err error) {
	loc := imgTagRe.FindStringIndex(content)
	if loc == nil {
		return content, nil, nil
	}
	tag := content[loc[0]:loc[1]]
	stripped = strings.ReplaceAll(content, tag, "")

	m := imgSrcRe.FindStringSubmatch(tag)
	if m == nil {
		return stripped, nil, errNotDataURI
	}
	// quoted sources run to the closing quote and may hold wrapped base64
	src := m[1] + m[2] + m[3]
	info, payload, ok := strings.Cut(src, ",")
	if !ok {
		return stripped, nil, errNotDataURI
	}
	sub := subtypeRe.FindStringSubmatch(info)
	if sub == nil {
		return stripped, nil, errNotDataURI
	}

	decoded, err := decodeImage(strings.ToLower(sub[1]), payload)
	if err != nil {
		return stripped, nil, err
	}
	return stripped, &decoded, nil
}

func decodeImage(subtype, payload string) (Image, error) {
	data, err := decodeBase64(payload)
	if err != nil {
		return Image{}, fmt.Errorf("decode image payload: %w", err)
	}

	format := imageFormatFor(subtype)
	if format == ImageDefault {
		if strings.HasPrefix(subtype, "svg") || isSvg.Is(data) {
			data, err = rasterizeSVG(data)
		} else {
			data, err = reencodePNG(data)
		}
		if err != nil {
			return Image{}, err
		}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("read %s image: %w", format, err)
	}
	return Image{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.Join(strings.Fields(payload), "")
	if data, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
}

func reencodePNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rasterizeSVG(svgData []byte) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("read svg: %w", err)
	}

	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 {
		w = 64
	}
	if h <= 0 {
		h = 64
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.SetTarget(0, 0, float64(w), float64(h))
	icon.Draw(raster, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type cellKey struct {
	col, row int
}

// pendingImages holds the pictures extracted during one table build.
type pendingImages map[cellKey]Image
