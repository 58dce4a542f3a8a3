// Package models defines the data types shared between the appinfo
// facade and the platform backends.
package models

import (
	"fmt"
	"image"
)

// AppInfo represents a single installed application as reported by the
// operating system at query time. Records are immutable snapshots; nothing
// is cached between queries.
type AppInfo struct {
	// Name is the application's display name. Never empty.
	Name string `json:"name"`
	// Version is the application's version string, empty when the OS
	// metadata omits it.
	Version string `json:"version,omitempty"`
	// Path is the filesystem install location. Never empty.
	Path string `json:"path"`
	// Identifier is an OS-specific stable key: the bundle identifier on
	// macOS, the uninstall registry subkey name on Windows.
	Identifier string `json:"identifier,omitempty"`
	// Publisher is the vendor reported by the OS, when available.
	Publisher string `json:"publisher,omitempty"`
	// InstallDate is the install date as reported by the OS, when available.
	InstallDate string `json:"installDate,omitempty"`
	// Icon is the application icon, populated only when requested and
	// obtainable. A nil Icon means "no icon", never a zero-sized buffer.
	Icon *Icon `json:"icon,omitempty"`
}

// Icon is a portable in-memory bitmap. Pixels are stored in RGBA order,
// 4 bytes per pixel, row-major, with no padding between rows.
type Icon struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pixels []byte `json:"pixels"`
}

// Validate reports whether the icon satisfies the buffer invariant:
// positive dimensions and len(Pixels) == Width*Height*4.
func (ic *Icon) Validate() error {
	if ic.Width <= 0 || ic.Height <= 0 {
		return fmt.Errorf("icon dimensions must be positive, got %dx%d", ic.Width, ic.Height)
	}
	if want := ic.Width * ic.Height * 4; len(ic.Pixels) != want {
		return fmt.Errorf("icon pixel buffer is %d bytes, want %d", len(ic.Pixels), want)
	}
	return nil
}

// Image adapts the icon into an image.RGBA sharing the same pixel buffer.
func (ic *Icon) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    ic.Pixels,
		Stride: ic.Width * 4,
		Rect:   image.Rect(0, 0, ic.Width, ic.Height),
	}
}
