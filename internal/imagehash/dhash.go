// Package imagehash computes difference hashes (dHash) of product photos.
//
// The image is reduced to a (Width+1)×Height grayscale grid and each bit records
// whether a pixel is darker than its right neighbour, row-major, most significant
// bit first. The layout matches the hex strings produced by the catalog scraper.
package imagehash

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/Sergio973-web/buscador-mega/internal/domain"
	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
)

// Hash grid dimensions: 8×8 comparisons, 64 bits.
const (
	Width  = 8
	Height = 8
)

// DHash returns the 64-bit difference hash of img.
func DHash(img image.Image) catalog.Hash {
	grid := image.NewGray(image.Rect(0, 0, Width+1, Height))
	draw.CatmullRom.Scale(grid, grid.Bounds(), img, img.Bounds(), draw.Src, nil)

	h := make(catalog.Hash, Width*Height/8)
	bit := 0
	for y := range Height {
		for x := range Width {
			if grid.GrayAt(x, y).Y < grid.GrayAt(x+1, y).Y {
				h[bit/8] |= 1 << (7 - uint(bit%8))
			}
			bit++
		}
	}
	return h
}

// FromBytes decodes a JPEG, PNG, GIF or WebP image and hashes it.
func FromBytes(data []byte) (catalog.Hash, error) {
	if len(data) == 0 {
		return nil, domain.ErrImageRequired
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w: %w", err, domain.ErrInvalidImage)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image: %w", domain.ErrInvalidImage)
	}
	return DHash(img), nil
}
