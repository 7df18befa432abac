package uploads

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"
)

const (
	jpegQuality = 85
	// decoding bombs guard
	maxSourcePixels = 50_000_000
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

type ProcessedImage struct {
	Data      []byte
	Thumbnail []byte
	Ext       string
	MimeType  string
	Width     int
	Height    int
	TakenAt   *time.Time
}

// Processor normalizes uploaded images: applies the EXIF orientation, limits
// the width and renders a thumbnail. PNG stays PNG, everything else becomes JPEG.
type Processor struct {
	maxWidth   int
	thumbWidth int
}

func NewProcessor(maxWidth, thumbWidth int) *Processor {
	return &Processor{
		maxWidth:   maxWidth,
		thumbWidth: thumbWidth,
	}
}

func (p *Processor) Process(data []byte) (*ProcessedImage, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedFormat
	}
	if cfg.Width*cfg.Height > maxSourcePixels {
		return nil, fmt.Errorf("image too large: %dx%d", cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s image: %w", format, err)
	}

	result := &ProcessedImage{}
	if format == "jpeg" {
		if x, err := exif.Decode(bytes.NewReader(data)); err == nil {
			img = applyOrientation(img, x)
			if takenAt, err := x.DateTime(); err == nil {
				takenAt = takenAt.UTC()
				result.TakenAt = &takenAt
			}
		}
	}

	if p.maxWidth > 0 && img.Bounds().Dx() > p.maxWidth {
		img = imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)
	}
	result.Width = img.Bounds().Dx()
	result.Height = img.Bounds().Dy()

	outFormat := imaging.JPEG
	result.Ext, result.MimeType = ".jpg", "image/jpeg"
	if format == "png" {
		outFormat = imaging.PNG
		result.Ext, result.MimeType = ".png", "image/png"
	}

	if result.Data, err = encode(img, outFormat); err != nil {
		return nil, err
	}

	thumb := img
	if p.thumbWidth > 0 && img.Bounds().Dx() > p.thumbWidth {
		thumb = imaging.Resize(img, p.thumbWidth, 0, imaging.Lanczos)
	}
	if result.Thumbnail, err = encode(thumb, outFormat); err != nil {
		return nil, err
	}

	return result, nil
}

func encode(img image.Image, format imaging.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func applyOrientation(img image.Image, x *exif.Exif) image.Image {
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}
	return orient(img, orientation)
}

// orient transforms img per the EXIF orientation value (1-8).
func orient(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
