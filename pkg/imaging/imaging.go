// Package imaging sniffs uploaded images and downscales oversized ones.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrEmpty           = errors.New("empty image")
)

var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Options bounds the stored image. Zero bounds disable resizing.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// Result is the bytes to store and how to label them.
type Result struct {
	Data        []byte
	ContentType string
	Extension   string
	Width       int
	Height      int
	Resized     bool
}

// Process detects the content type from the bytes and, when the image is
// larger than the bounds, scales it down keeping its aspect ratio. GIFs are
// never resized so animations survive. WebP input is re-encoded as JPEG when
// it has to shrink.
func Process(data []byte, opts Options) (Result, error) {
	if len(data) == 0 {
		return Result{}, ErrEmpty
	}
	mime := mimetype.Detect(data)
	contentType := mime.String()
	ext, ok := allowed[baseType(contentType)]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	contentType = baseType(contentType)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("decode image config: %w", err)
	}
	res := Result{Data: data, ContentType: contentType, Extension: ext, Width: cfg.Width, Height: cfg.Height}

	w, h := fit(cfg.Width, cfg.Height, opts.MaxWidth, opts.MaxHeight)
	if contentType == "image/gif" || (w == cfg.Width && h == cfg.Height) {
		return res, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("decode image: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch contentType {
	case "image/png":
		if err := png.Encode(&buf, dst); err != nil {
			return Result{}, fmt.Errorf("encode png: %w", err)
		}
	default:
		quality := opts.Quality
		if quality <= 0 || quality > 100 {
			quality = jpeg.DefaultQuality
		}
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
			return Result{}, fmt.Errorf("encode jpeg: %w", err)
		}
		res.ContentType = "image/jpeg"
		res.Extension = ".jpg"
	}
	res.Data = buf.Bytes()
	res.Width, res.Height = w, h
	res.Resized = true
	return res, nil
}

// fit scales (w, h) down into (maxW, maxH) preserving the ratio.
func fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && float64(h)*scale > float64(maxH) {
		scale = float64(maxH) / float64(h)
	}
	if scale >= 1 {
		return w, h
	}
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

func baseType(contentType string) string {
	for i := 0; i < len(contentType); i++ {
		if contentType[i] == ';' {
			return contentType[:i]
		}
	}
	return contentType
}
