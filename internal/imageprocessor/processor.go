package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// PreviewMaxSide bounds the longest side of a credential preview.
const PreviewMaxSide = 480

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Preview is an encoded, downscaled copy of an uploaded image.
type Preview struct {
	Data        *bytes.Buffer
	ContentType string
	Width       int
	Height      int
}

// Processor renders previews for image credentials.
type Processor struct {
	quality int // JPEG quality (1-100)
	maxSide int
}

func NewProcessor(quality, maxSide int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if maxSide <= 0 {
		maxSide = PreviewMaxSide
	}
	return &Processor{quality: quality, maxSide: maxSide}
}

// IsImage reports whether contentType is a format Preview can decode.
func IsImage(contentType string) bool {
	return contentType == "image/jpeg" || contentType == "image/png"
}

// Preview decodes r and scales it to fit maxSide, keeping the aspect ratio
// and the source encoding. Images already small enough are re-encoded as is.
func (p *Processor) Preview(r io.Reader) (*Preview, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	scaled := p.fit(img)
	bounds := scaled.Bounds()
	out := &Preview{Data: new(bytes.Buffer), Width: bounds.Dx(), Height: bounds.Dy()}

	switch format {
	case "jpeg":
		out.ContentType = "image/jpeg"
		err = jpeg.Encode(out.Data, scaled, &jpeg.Options{Quality: p.quality})
	case "png":
		out.ContentType = "image/png"
		err = png.Encode(out.Data, scaled)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return out, nil
}

func (p *Processor) fit(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= p.maxSide && height <= p.maxSide {
		return img
	}

	newWidth, newHeight := p.maxSide, p.maxSide
	if width > height {
		newHeight = max(1, height*p.maxSide/width)
	} else {
		newWidth = max(1, width*p.maxSide/height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
