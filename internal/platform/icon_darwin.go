//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa
#include <stdlib.h>
#import <Cocoa/Cocoa.h>

void* iconForPath(const char* path) {
    NSString* p = [NSString stringWithUTF8String:path];
    NSImage* icon = [[NSWorkspace sharedWorkspace] iconForFile:p];
    [icon retain];
    return (void*)icon;
}

int renderIconRGBA(void* imagePtr, unsigned char* buffer, int size) {
    NSImage* image = (NSImage*)imagePtr;
    NSBitmapImageRep* bitmap = [[NSBitmapImageRep alloc]
        initWithBitmapDataPlanes:NULL
        pixelsWide:size
        pixelsHigh:size
        bitsPerSample:8
        samplesPerPixel:4
        hasAlpha:YES
        isPlanar:NO
        colorSpaceName:NSDeviceRGBColorSpace
        bytesPerRow:size * 4
        bitsPerPixel:32];
    if (bitmap == nil) {
        return 0;
    }

    [NSGraphicsContext saveGraphicsState];
    [NSGraphicsContext setCurrentContext:
        [NSGraphicsContext graphicsContextWithBitmapImageRep:bitmap]];

    [image setSize:NSMakeSize(size, size)];
    [image drawInRect:NSMakeRect(0, 0, size, size)
             fromRect:NSZeroRect
            operation:NSCompositingOperationCopy
             fraction:1.0];

    [NSGraphicsContext restoreGraphicsState];

    memcpy(buffer, [bitmap bitmapData], (size_t)size * size * 4);
    [bitmap release];
    return 1;
}

void releaseIcon(void* iconPtr) {
    if (iconPtr) {
        [(NSImage*)iconPtr release];
    }
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/breeze-rmm/appinfo/pkg/models"
)

// renderFileIcon draws the NSWorkspace icon for path into an RGBA bitmap
// of size x size pixels. NSWorkspace always returns an icon image (falling
// back to the generic document icon), so failure here means the bitmap
// representation could not be created.
func renderFileIcon(path string, size int) (*models.Icon, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid icon size %d: %w", size, ErrNoIcon)
	}

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	iconPtr := C.iconForPath(cPath)
	if iconPtr == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoIcon)
	}
	defer C.releaseIcon(iconPtr)

	buf := make([]byte, size*size*4)
	if C.renderIconRGBA(iconPtr, (*C.uchar)(unsafe.Pointer(&buf[0])), C.int(size)) == 0 {
		return nil, fmt.Errorf("render icon at %dpx: %w", size, ErrNoIcon)
	}

	return &models.Icon{Width: size, Height: size, Pixels: buf}, nil
}
