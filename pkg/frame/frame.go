// Package frame converts raw scanner frames into images.
//
// Scan data arrives line by line. Each line holds width pixels in one of
// the Format layouts, padded to bytesPerLine. Samples wider than 8 bits
// are big endian. In BlackWhite frames a set bit is a black pixel and the
// most significant bit comes first.
package frame

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Format is the pixel layout of a raw frame.
type Format uint8

const (
	BlackWhite Format = iota
	Gray8
	Gray16
	RGB8
	RGB16
)

var formatNames = []string{"bw", "gray8", "gray16", "rgb8", "rgb16"}

// String returns the format name.
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// ParseFormat returns the format with the given name.
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Errors.
var (
	ErrUnknownFormat = errors.New("frame: unknown format")
	ErrInvalidSize   = errors.New("frame: invalid size")
)

// MinBytesPerLine returns the unpadded line length of a frame.
func (f Format) MinBytesPerLine(width int) int {
	switch f {
	case BlackWhite:
		return (width + 7) / 8
	case Gray8:
		return width
	case Gray16:
		return width * 2
	case RGB8:
		return width * 3
	case RGB16:
		return width * 6
	default:
		return 0
	}
}

// ToImage converts raw frame data. Gray frames yield *image.Gray or
// *image.Gray16, color frames *image.NRGBA or *image.NRGBA64.
func ToImage(data []byte, width, height, bytesPerLine int, f Format) (image.Image, error) {
	if int(f) >= len(formatNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if need := f.MinBytesPerLine(width); bytesPerLine < need {
		return nil, fmt.Errorf("%w: %d bytes per line, %s needs %d", ErrInvalidSize, bytesPerLine, f, need)
	}
	if len(data) < bytesPerLine*height {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidSize, len(data), bytesPerLine*height)
	}

	rect := image.Rect(0, 0, width, height)
	switch f {
	case BlackWhite:
		img := image.NewGray(rect)
		for y := range height {
			line := data[y*bytesPerLine:]
			row := img.Pix[y*img.Stride:]
			for x := range width {
				if line[x/8]&(0x80>>(x%8)) == 0 {
					row[x] = 0xff
				}
			}
		}
		return img, nil

	case Gray8, Gray16:
		var (
			pix    []byte
			stride int
			out    image.Image
		)
		if f == Gray8 {
			img := image.NewGray(rect)
			pix, stride, out = img.Pix, img.Stride, img
		} else {
			img := image.NewGray16(rect)
			pix, stride, out = img.Pix, img.Stride, img
		}
		n := f.MinBytesPerLine(width)
		for y := range height {
			copy(pix[y*stride:y*stride+n], data[y*bytesPerLine:])
		}
		return out, nil

	case RGB8:
		img := image.NewNRGBA(rect)
		for y := range height {
			line := data[y*bytesPerLine:]
			row := img.Pix[y*img.Stride:]
			for x := range width {
				copy(row[x*4:x*4+3], line[x*3:x*3+3])
				row[x*4+3] = 0xff
			}
		}
		return img, nil

	default: // RGB16
		img := image.NewNRGBA64(rect)
		for y := range height {
			line := data[y*bytesPerLine:]
			row := img.Pix[y*img.Stride:]
			for x := range width {
				copy(row[x*8:x*8+6], line[x*6:x*6+6])
				row[x*8+6] = 0xff
				row[x*8+7] = 0xff
			}
		}
		return img, nil
	}
}

// Thumbnail scales img down to fit within maxWidth x maxHeight, keeping
// the aspect ratio. Images that already fit are copied unscaled.
func Thumbnail(img image.Image, maxWidth, maxHeight int) (*image.NRGBA, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, fmt.Errorf("%w: thumbnail %dx%d", ErrInvalidSize, maxWidth, maxHeight)
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos), nil
}
