// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grayscale

import (
	"image"

	"golang.org/x/image/draw"
)

// Luma maps an 8-bit RGB sample to its BT.601 luminance,
// 0.299 R + 0.587 G + 0.114 B. The arithmetic is that of color.GrayModel on
// the 16-bit expansion of the sample, so every Desaturate path agrees.
func Luma(r, g, b uint8) uint8 {
	r16, g16, b16 := uint32(r)*0x101, uint32(g)*0x101, uint32(b)*0x101
	y := (19595*r16 + 38470*g16 + 7471*b16 + 1<<15) >> 24
	return uint8(y)
}

// Desaturate returns the luma channel of img as a new Gray image of the same
// size with its origin at (0, 0). Alpha is ignored; rasters are opaque.
func Desaturate(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < b.Dy(); y++ {
			s := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X)*4:]
			d := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
			for x := range d {
				d[x] = Luma(s[4*x], s[4*x+1], s[4*x+2])
			}
		}
	case *image.Gray:
		for y := 0; y < b.Dy(); y++ {
			copy(gray.Pix[y*gray.Stride:y*gray.Stride+b.Dx()], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
		}
	default:
		draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	}
	return gray
}
