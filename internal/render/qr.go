package render

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	"github.com/cockroachdb/errors"
	qrcode "github.com/skip2/go-qrcode"

	"lite_pages/internal/domain"
)

const (
	DefaultQRSize = 300
	MinQRSize     = 64
	MaxQRSize     = 1024
	qrMargin      = 2 // quiet zone, in modules
)

// ClampQRSize maps a requested pixel width onto the supported range; 0 means default.
func ClampQRSize(size int) int {
	switch {
	case size <= 0:
		return DefaultQRSize
	case size < MinQRSize:
		return MinQRSize
	case size > MaxQRSize:
		return MaxQRSize
	}
	return size
}

// QR encodes content as a size×size PNG. Every module is the same whole number
// of pixels; the quiet zone is at least two modules and absorbs the remainder.
func QR(content string, size int) ([]byte, error) {
	size = ClampQRSize(size)
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "encode qr"), domain.ErrRender)
	}
	q.DisableBorder = true
	bits := q.Bitmap()
	modules := len(bits) + 2*qrMargin

	px := size / modules
	if px < 1 {
		return nil, errors.Mark(errors.Newf("%d modules do not fit in %dpx", modules, size), domain.ErrRender)
	}
	// pixels left over after whole modules widen the quiet zone evenly
	off := (size-px*modules)/2 + qrMargin*px

	img := image.NewGray(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	for my, row := range bits {
		for mx, dark := range row {
			if !dark {
				continue
			}
			x0, y0 := off+mx*px, off+my*px
			draw.Draw(img, image.Rect(x0, y0, x0+px, y0+px), image.Black, image.Point{}, draw.Src)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "encode png"), domain.ErrRender)
	}
	return buf.Bytes(), nil
}
