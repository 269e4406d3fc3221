// Package blurhash computes compact perceptual hash strings from image files.
// The hash encodes a low-resolution visual summary usable as a placeholder
// while the full image loads.
package blurhash

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register jpeg decoding
	_ "image/png"  // register png decoding
	"os"

	bh "github.com/buckket/go-blurhash"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register webp decoding; thumbnails are webp
)

// ErrHashFailed is returned on decode or encode failure.
var ErrHashFailed = errors.New("blurhash: hash computation failed")

const (
	// maxDim bounds the downsampled grid; the aspect ratio is preserved
	// within it.
	maxDim = 32
	// xComponents and yComponents are the fixed DCT basis component counts.
	xComponents = 4
	yComponents = 4
)

// FromFile decodes the image at imagePath, downsamples it into a 32x32 bound
// with an opaque alpha channel and encodes a 4x4-component blurhash.
// Pure apart from reading the file; no network access.
func FromFile(imagePath string) (string, error) {
	f, err := os.Open(imagePath) // #nosec G304 - path is produced by the pipeline, not user input
	if err != nil {
		return "", fmt.Errorf("%w: open image: %w", ErrHashFailed, err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("%w: decode image: %w", ErrHashFailed, err)
	}

	hash, err := bh.Encode(xComponents, yComponents, downsample(img))
	if err != nil {
		return "", fmt.Errorf("%w: encode: %w", ErrHashFailed, err)
	}

	return hash, nil
}

// downsample scales img to fit within maxDim x maxDim, preserving aspect
// ratio, and forces every pixel fully opaque.
func downsample(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	tw, th := w, h
	if w > maxDim || h > maxDim {
		if w >= h {
			tw = maxDim
			th = h * maxDim / w
		} else {
			th = maxDim
			tw = w * maxDim / h
		}
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	// Force an opaque alpha channel.
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}

	return dst
}
