// Package qrcode renders QR numbers as PNG images for receipts.
package qrcode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	goqrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

// Size limits for rendered images, in pixels.
const (
	DefaultSize = 200
	MinSize     = 64
	MaxSize     = 1024
)

// ClampSize keeps a requested size within MinSize..MaxSize. Zero or
// negative sizes mean DefaultSize.
func ClampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	default:
		return size
	}
}

// Render encodes value as a size x size PNG. The value is encoded as given,
// so scanning the image yields the exact string.
func Render(value string, size int) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("empty qr value")
	}
	size = ClampSize(size)

	code, err := goqrcode.New(value, goqrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encoding qr: %w", err)
	}

	img := upscale(modules(code.Bitmap()), size)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// modules draws the bitmap at one pixel per module, quiet zone included.
func modules(bitmap [][]bool) *image.Paletted {
	n := len(bitmap)
	palette := color.Palette{color.White, color.Black}
	img := image.NewPaletted(image.Rect(0, 0, n, n), palette)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img
}

// upscale resizes the module image to size x size. Nearest neighbour keeps
// module edges sharp.
func upscale(src image.Image, size int) image.Image {
	dst := image.NewPaletted(image.Rect(0, 0, size, size), color.Palette{color.White, color.Black})
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
