package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"math"

	// Register the decoders for the source formats the corpus contains.
	_ "image/gif"
	_ "image/png"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/webp"
)

const (
	// cropCacheSize bounds the memoized crop results. Re-fetching source
	// bytes past that is the accepted tradeoff.
	cropCacheSize = 200

	jpegQuality = 85
)

// cropKey identifies one cached crop result: the exact source filename
// and percentage box.
type cropKey struct {
	Filename       string
	X1, Y1, X2, Y2 float64
}

// Cropper extracts rectangular regions from source images, re-encodes
// them as JPEG, and memoizes results by (image, region) key.
type Cropper struct {
	source Provider
	cache  *lru.Cache[cropKey, []byte]
}

// NewCropper creates a crop service over the given image source.
func NewCropper(source Provider) (*Cropper, error) {
	cache, err := lru.New[cropKey, []byte](cropCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating crop cache: %w", err)
	}
	return &Cropper{source: source, cache: cache}, nil
}

// Crop returns the JPEG-encoded region of the image bounded by the four
// percentage coordinates. Coordinates must lie in [0, 100] and describe a
// region of positive size, otherwise a ValidationError is returned. A
// cache hit returns the stored bytes without touching the source.
func (c *Cropper) Crop(ctx context.Context, filename string, x1, y1, x2, y2 float64) ([]byte, error) {
	for _, v := range [4]float64{x1, y1, x2, y2} {
		if math.IsNaN(v) || v < 0 || v > 100 {
			return nil, &ValidationError{Reason: "x1, y1, x2, y2 must be numbers between 0 and 100"}
		}
	}

	key := cropKey{Filename: filename, X1: x1, Y1: y1, X2: x2, Y2: y2}
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	raw, err := c.source.Fetch(ctx, filename)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}

	bounds := img.Bounds()
	width := float64(bounds.Dx())
	height := float64(bounds.Dy())

	left := int(math.Round(x1 / 100 * width))
	top := int(math.Round(y1 / 100 * height))
	cropW := int(math.Round((x2 - x1) / 100 * width))
	cropH := int(math.Round((y2 - y1) / 100 * height))
	if cropW <= 0 || cropH <= 0 {
		return nil, &ValidationError{Reason: "crop region must have positive width and height"}
	}

	rect := image.Rect(
		bounds.Min.X+left,
		bounds.Min.Y+top,
		bounds.Min.X+left+cropW,
		bounds.Min.Y+top+cropH,
	).Intersect(bounds)
	if rect.Empty() {
		return nil, &ValidationError{Reason: "crop region lies outside the image"}
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, subImage(img, rect), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding crop of %s: %w", filename, err)
	}

	encoded := out.Bytes()
	c.cache.Add(key, encoded)
	return encoded, nil
}

// subImage extracts rect from img, sharing pixels when the decoded type
// supports it and copying otherwise.
func subImage(img image.Image, rect image.Rectangle) image.Image {
	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(rect)
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}
