//go:build windows

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/breeze-rmm/appinfo/internal/iconutil"
	"github.com/breeze-rmm/appinfo/pkg/models"
)

var (
	shell32 = windows.NewLazySystemDLL("shell32.dll")
	user32  = windows.NewLazySystemDLL("user32.dll")
	gdi32   = windows.NewLazySystemDLL("gdi32.dll")

	procSHGetFileInfoW     = shell32.NewProc("SHGetFileInfoW")
	procGetIconInfo        = user32.NewProc("GetIconInfo")
	procDrawIconEx         = user32.NewProc("DrawIconEx")
	procDestroyIcon        = user32.NewProc("DestroyIcon")
	procGetDC              = user32.NewProc("GetDC")
	procReleaseDC          = user32.NewProc("ReleaseDC")
	procCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	procDeleteDC           = gdi32.NewProc("DeleteDC")
	procCreateDIBSection   = gdi32.NewProc("CreateDIBSection")
	procSelectObject       = gdi32.NewProc("SelectObject")
	procDeleteObject       = gdi32.NewProc("DeleteObject")
	procGetObjectW         = gdi32.NewProc("GetObjectW")
)

const (
	shgfiIcon      = 0x000000100
	shgfiLargeIcon = 0x000000000
	shgfiSmallIcon = 0x000000001

	diNormal     = 0x0003
	biRGB        = 0
	dibRGBColors = 0
)

type shFileInfo struct {
	hIcon         uintptr
	iIcon         int32
	dwAttributes  uint32
	szDisplayName [260]uint16
	szTypeName    [80]uint16
}

type iconInfo struct {
	fIcon    int32
	xHotspot uint32
	yHotspot uint32
	hbmMask  uintptr
	hbmColor uintptr
}

type gdiBitmap struct {
	bmType       int32
	bmWidth      int32
	bmHeight     int32
	bmWidthBytes int32
	bmPlanes     uint16
	bmBitsPixel  uint16
	bmBits       uintptr
}

type bitmapInfoHeader struct {
	biSize          uint32
	biWidth         int32
	biHeight        int32
	biPlanes        uint16
	biBitCount      uint16
	biCompression   uint32
	biSizeImage     uint32
	biXPelsPerMeter int32
	biYPelsPerMeter int32
	biClrUsed       uint32
	biClrImportant  uint32
}

type bitmapInfo struct {
	header bitmapInfoHeader
	colors [1]uint32
}

// AppIcon resolves an application's icon: first through the entry's
// DisplayIcon registry value (decoding .ico resources directly, extracting
// from executables otherwise), then by extracting from the application's
// main executable.
func (b *windowsBackend) AppIcon(app models.AppInfo, size int) (*models.Icon, error) {
	if iconPath, _ := b.displayIconValue(app.Identifier); iconPath != "" {
		if icon, err := iconFromResource(iconPath, size); err == nil {
			return icon, nil
		}
	}
	if exe := findMainExecutable(app.Path); exe != "" {
		return b.FileIcon(exe, size)
	}
	return nil, fmt.Errorf("%s: %w", app.Name, ErrNoIcon)
}

// FileIcon asks the shell for the icon associated with path and converts
// the icon handle into a portable buffer at (or nearest to) size pixels.
func (b *windowsBackend) FileIcon(path string, size int) (*models.Icon, error) {
	icon, err := extractShellIcon(path, size)
	if err != nil {
		return nil, err
	}
	return iconutil.Scale(icon, size), nil
}

// displayIconValue re-reads the DisplayIcon value of the uninstall subkey
// the record was enumerated from.
func (b *windowsBackend) displayIconValue(subkey string) (string, int) {
	if subkey == "" {
		return "", 0
	}
	for _, root := range uninstallRoots {
		key, err := registry.OpenKey(root.root, root.path+`\`+subkey, registry.READ)
		if err != nil {
			continue
		}
		value := readString(key, "DisplayIcon")
		key.Close()
		if value != "" {
			return parseIconResource(value)
		}
	}
	return "", 0
}

// iconFromResource loads an icon from a DisplayIcon target: .ico files are
// decoded directly, anything else goes through shell extraction.
func iconFromResource(path string, size int) (*models.Icon, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoIcon)
	}
	if strings.EqualFold(filepath.Ext(path), ".ico") {
		icon, err := iconutil.DecodeFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, ErrNoIcon)
		}
		return iconutil.Scale(icon, size), nil
	}
	icon, err := extractShellIcon(path, size)
	if err != nil {
		return nil, err
	}
	return iconutil.Scale(icon, size), nil
}

// findMainExecutable returns the first .exe found in the install directory.
func findMainExecutable(dir string) string {
	if dir == "" {
		return ""
	}
	if strings.EqualFold(filepath.Ext(dir), ".exe") {
		return dir
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".exe") {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}

// extractShellIcon obtains the shell icon handle for path via
// SHGetFileInfoW and renders it into an RGBA buffer at the icon's native
// size. The shell icon cache only stores small and large stock sizes;
// callers scale to the exact requested size afterwards.
func extractShellIcon(path string, size int) (*models.Icon, error) {
	// SHGetFileInfoW may load shell extensions that require COM.
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err == nil {
		defer ole.CoUninitialize()
	}

	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}

	flags := uintptr(shgfiIcon | shgfiLargeIcon)
	if size > 0 && size <= 16 {
		flags = shgfiIcon | shgfiSmallIcon
	}

	var info shFileInfo
	ret, _, _ := procSHGetFileInfoW.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		0,
		uintptr(unsafe.Pointer(&info)),
		unsafe.Sizeof(info),
		flags,
	)
	if ret == 0 || info.hIcon == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoIcon)
	}
	defer procDestroyIcon.Call(info.hIcon)

	return iconFromHandle(info.hIcon)
}

// iconFromHandle draws an HICON into a 32bpp top-down DIB section and
// copies the pixels out as RGBA. Every GDI handle acquired here is released
// before returning, on all paths.
func iconFromHandle(hIcon uintptr) (*models.Icon, error) {
	var ii iconInfo
	ret, _, _ := procGetIconInfo.Call(hIcon, uintptr(unsafe.Pointer(&ii)))
	if ret == 0 {
		return nil, fmt.Errorf("GetIconInfo failed: %w", ErrNoIcon)
	}
	defer func() {
		if ii.hbmColor != 0 {
			procDeleteObject.Call(ii.hbmColor)
		}
		if ii.hbmMask != 0 {
			procDeleteObject.Call(ii.hbmMask)
		}
	}()

	width, height := 32, 32
	if ii.hbmColor != 0 {
		var bm gdiBitmap
		if ret, _, _ := procGetObjectW.Call(ii.hbmColor, unsafe.Sizeof(bm), uintptr(unsafe.Pointer(&bm))); ret != 0 {
			width, height = int(bm.bmWidth), int(bm.bmHeight)
		}
	}

	hdcScreen, _, _ := procGetDC.Call(0)
	if hdcScreen == 0 {
		return nil, fmt.Errorf("GetDC failed: %w", ErrNoIcon)
	}
	defer procReleaseDC.Call(0, hdcScreen)

	hdcMem, _, _ := procCreateCompatibleDC.Call(hdcScreen)
	if hdcMem == 0 {
		return nil, fmt.Errorf("CreateCompatibleDC failed: %w", ErrNoIcon)
	}
	defer procDeleteDC.Call(hdcMem)

	bi := bitmapInfo{
		header: bitmapInfoHeader{
			biSize:        uint32(unsafe.Sizeof(bitmapInfoHeader{})),
			biWidth:       int32(width),
			biHeight:      int32(-height), // top-down rows
			biPlanes:      1,
			biBitCount:    32,
			biCompression: biRGB,
		},
	}

	var bitsPtr unsafe.Pointer
	hBitmap, _, _ := procCreateDIBSection.Call(
		hdcMem,
		uintptr(unsafe.Pointer(&bi)),
		dibRGBColors,
		uintptr(unsafe.Pointer(&bitsPtr)),
		0,
		0,
	)
	if hBitmap == 0 || bitsPtr == nil {
		return nil, fmt.Errorf("CreateDIBSection failed: %w", ErrNoIcon)
	}
	defer procDeleteObject.Call(hBitmap)

	oldObj, _, _ := procSelectObject.Call(hdcMem, hBitmap)
	defer procSelectObject.Call(hdcMem, oldObj)

	ret, _, _ = procDrawIconEx.Call(
		hdcMem,
		0, 0,
		hIcon,
		uintptr(width), uintptr(height),
		0, 0,
		diNormal,
	)
	if ret == 0 {
		return nil, fmt.Errorf("DrawIconEx failed: %w", ErrNoIcon)
	}

	pixels := make([]byte, width*height*4)
	copy(pixels, unsafe.Slice((*byte)(bitsPtr), len(pixels)))
	iconutil.BGRAToRGBA(pixels)

	return &models.Icon{Width: width, Height: height, Pixels: pixels}, nil
}
