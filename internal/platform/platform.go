// Package platform implements the OS-specific backends that enumerate
// installed applications and resolve icon bitmaps. The active backend is
// selected at compile time through build tags (see platform_windows.go,
// platform_darwin.go, platform_other.go); callers obtain it once via New
// and never branch on the OS themselves.
package platform

import (
	"errors"
	"strconv"
	"strings"

	"github.com/breeze-rmm/appinfo/pkg/models"
)

var (
	// ErrUnsupported is returned by every operation on platforms without
	// a native backend.
	ErrUnsupported = errors.New("platform not supported")
	// ErrNoIcon is returned when no icon is obtainable for a source.
	ErrNoIcon = errors.New("no icon available")
)

// Backend is the OS-specific capability composed by the appinfo facade.
type Backend interface {
	// Name identifies the backend, useful for logging.
	Name() string

	// Apps enumerates installed applications without icons. Malformed
	// entries are skipped; only a systemic failure to access the OS
	// metadata store returns an error.
	Apps() ([]models.AppInfo, error)

	// AppIcon resolves the icon for an enumerated application record at
	// (or nearest to) the requested pixel size.
	AppIcon(app models.AppInfo, size int) (*models.Icon, error)

	// FileIcon resolves the icon the OS shell associates with a file path.
	FileIcon(path string, size int) (*models.Icon, error)
}

// dedupeApps removes duplicate records by name and version. The same
// application can surface from several metadata sources (32/64-bit registry
// views, per-user installs, multiple application directories).
func dedupeApps(apps []models.AppInfo) []models.AppInfo {
	seen := make(map[string]bool, len(apps))
	result := apps[:0]
	for _, app := range apps {
		key := app.Name + "|" + app.Version
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, app)
	}
	return result
}

// skipUninstallEntry reports whether an uninstall registry entry should be
// excluded from enumeration: unnamed entries, system components, and
// Windows update records are not applications.
func skipUninstallEntry(displayName string, systemComponent bool) bool {
	if displayName == "" || systemComponent {
		return true
	}
	for _, prefix := range []string{"Update for", "Security Update for", "Hotfix for"} {
		if strings.HasPrefix(displayName, prefix) {
			return true
		}
	}
	return false
}

// parseIconResource splits a DisplayIcon-style value ("C:\app\foo.exe,0",
// possibly quoted) into the resource file path and icon index.
func parseIconResource(value string) (path string, index int) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", 0
	}
	path = value
	if comma := strings.LastIndex(value, ","); comma > 0 {
		if idx, err := strconv.Atoi(strings.TrimSpace(value[comma+1:])); err == nil {
			path, index = value[:comma], idx
		}
	}
	path = strings.Trim(strings.TrimSpace(path), `"`)
	return path, index
}

// executableFromCommand extracts the executable path from a command line
// such as an UninstallString: either the quoted first token or everything
// up to the first argument separator.
func executableFromCommand(cmd string) string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return ""
	}
	if cmd[0] == '"' {
		if end := strings.Index(cmd[1:], `"`); end >= 0 {
			return cmd[1 : end+1]
		}
		return strings.Trim(cmd, `"`)
	}
	// Unquoted: a path containing spaces cannot be told apart from
	// arguments, so take the token ending in .exe when there is one.
	if pos := strings.Index(strings.ToLower(cmd), ".exe"); pos >= 0 {
		return cmd[:pos+4]
	}
	if fields := strings.Fields(cmd); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
