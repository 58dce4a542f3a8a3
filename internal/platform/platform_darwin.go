//go:build darwin

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/breeze-rmm/appinfo/pkg/models"
)

type darwinBackend struct {
	log *zap.Logger
}

// New returns the macOS backend.
func New(log *zap.Logger) Backend {
	if log == nil {
		log = zap.NewNop()
	}
	return &darwinBackend{log: log}
}

func (b *darwinBackend) Name() string { return "darwin" }

// applicationDirs returns the standard bundle locations: system-wide,
// OS-provided, and per-user.
func applicationDirs() []string {
	dirs := []string{"/Applications", "/System/Applications"}
	if home := os.Getenv("HOME"); home != "" {
		dirs = append(dirs, filepath.Join(home, "Applications"))
	}
	return dirs
}

// Apps scans the application directories for .app bundles and parses each
// bundle's Info.plist. Unreadable or malformed bundles are skipped; the
// call fails only when no application directory can be read at all.
func (b *darwinBackend) Apps() ([]models.AppInfo, error) {
	var apps []models.AppInfo
	readable := 0

	for _, dir := range applicationDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			b.log.Debug("application directory not readable",
				zap.String("dir", dir),
				zap.Error(err))
			continue
		}
		readable++

		for _, entry := range entries {
			if !strings.HasSuffix(entry.Name(), ".app") {
				continue
			}
			bundlePath := filepath.Join(dir, entry.Name())

			data, err := os.ReadFile(filepath.Join(bundlePath, "Contents", "Info.plist"))
			if err != nil {
				b.log.Debug("bundle has no readable Info.plist",
					zap.String("bundle", bundlePath),
					zap.Error(err))
				continue
			}

			app, err := parseBundleInfo(data, strings.TrimSuffix(entry.Name(), ".app"))
			if err != nil {
				b.log.Debug("skipping malformed bundle",
					zap.String("bundle", bundlePath),
					zap.Error(err))
				continue
			}
			app.Path = bundlePath
			apps = append(apps, app)
		}
	}

	if readable == 0 {
		return nil, fmt.Errorf("no application directory readable")
	}
	return dedupeApps(apps), nil
}

// AppIcon renders the bundle's icon. NSWorkspace resolves the icon resource
// from the bundle association, so this is the file-icon path applied to the
// bundle directory itself.
func (b *darwinBackend) AppIcon(app models.AppInfo, size int) (*models.Icon, error) {
	return b.FileIcon(app.Path, size)
}

// FileIcon asks NSWorkspace for the icon associated with the path and
// renders it at the requested size.
func (b *darwinBackend) FileIcon(path string, size int) (*models.Icon, error) {
	return renderFileIcon(path, size)
}
