// Package iconutil converts native bitmap data into the portable RGBA
// icon buffer and handles decoding of on-disk icon resources.
package iconutil

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	ico "github.com/sergeymakinen/go-ico"

	"github.com/breeze-rmm/appinfo/pkg/models"
)

// icoMagic is the ICONDIR header of an .ico container: reserved=0, type=1.
var icoMagic = []byte{0x00, 0x00, 0x01, 0x00}

// BGRAToRGBA swaps the blue and red channels in place. Windows DIB sections
// produce BGRA byte order; the portable buffer is RGBA.
func BGRAToRGBA(p []byte) {
	for i := 0; i+3 < len(p); i += 4 {
		p[i], p[i+2] = p[i+2], p[i]
	}
}

// FromImage converts any image into a portable icon buffer.
func FromImage(img image.Image) *models.Icon {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) || rgba.Stride != 4*b.Dx() {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return &models.Icon{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: rgba.Pix,
	}
}

// Scale resizes the icon to size x size. Icons already at the requested
// size are returned unchanged.
func Scale(ic *models.Icon, size int) *models.Icon {
	if size <= 0 || (ic.Width == size && ic.Height == size) {
		return ic
	}
	scaled := resize.Resize(uint(size), uint(size), ic.Image(), resize.Lanczos3)
	return FromImage(scaled)
}

// DecodeFile reads an icon resource from disk. ICO containers are decoded
// with the dedicated ICO package (the stdlib sniffing path chokes on ICO
// files extracted from binaries); everything else goes through image.Decode.
func DecodeFile(path string) (*models.Icon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, filepath.Ext(path))
}

// Decode converts raw icon resource bytes into a portable buffer. ext is an
// optional filename extension hint.
func Decode(data []byte, ext string) (*models.Icon, error) {
	var img image.Image
	var err error
	if strings.EqualFold(ext, ".ico") || bytes.HasPrefix(data, icoMagic) {
		img, err = ico.Decode(bytes.NewReader(data))
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decode icon resource: %w", err)
	}
	return FromImage(img), nil
}

// EncodePNG writes the icon buffer as a PNG image.
func EncodePNG(w io.Writer, ic *models.Icon) error {
	if err := ic.Validate(); err != nil {
		return err
	}
	return png.Encode(w, ic.Image())
}
