//go:build windows

package platform

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lnk "github.com/parsiya/golnk"
	"go.uber.org/zap"
	"golang.org/x/sys/windows/registry"

	"github.com/breeze-rmm/appinfo/pkg/models"
)

// uninstallRoots are the registry locations holding installed-application
// entries: the 64-bit HKLM view, the 32-bit view on 64-bit Windows, and
// per-user installs.
var uninstallRoots = []struct {
	root registry.Key
	path string
}{
	{registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`},
	{registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`},
	{registry.CURRENT_USER, `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`},
}

type windowsBackend struct {
	log *zap.Logger
}

// New returns the Windows backend.
func New(log *zap.Logger) Backend {
	if log == nil {
		log = zap.NewNop()
	}
	return &windowsBackend{log: log}
}

func (b *windowsBackend) Name() string { return "windows" }

// Apps enumerates the uninstall registry keys. Entries without a display
// name or a resolvable install path are skipped; the call fails only when
// no uninstall hive can be opened at all.
func (b *windowsBackend) Apps() ([]models.AppInfo, error) {
	shortcuts := b.startMenuTargets()

	var apps []models.AppInfo
	opened := 0
	for _, root := range uninstallRoots {
		items, err := b.scanUninstallKey(root.root, root.path, shortcuts)
		if err != nil {
			b.log.Debug("uninstall hive not readable",
				zap.String("path", root.path),
				zap.Error(err))
			continue
		}
		opened++
		apps = append(apps, items...)
	}

	if opened == 0 {
		return nil, fmt.Errorf("no uninstall registry hive readable")
	}
	return dedupeApps(apps), nil
}

func (b *windowsBackend) scanUninstallKey(root registry.Key, path string, shortcuts map[string]string) ([]models.AppInfo, error) {
	key, err := registry.OpenKey(root, path, registry.READ)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	subkeys, err := key.ReadSubKeyNames(-1)
	if err != nil {
		return nil, err
	}

	var apps []models.AppInfo
	for _, name := range subkeys {
		sub, err := registry.OpenKey(key, name, registry.READ)
		if err != nil {
			continue
		}
		app, ok := b.readUninstallEntry(sub, name, shortcuts)
		sub.Close()
		if ok {
			apps = append(apps, app)
		}
	}
	return apps, nil
}

// readUninstallEntry builds an application record from a single uninstall
// subkey. Returns false for entries that are not applications or that lack
// a usable name or install path.
func (b *windowsBackend) readUninstallEntry(key registry.Key, subkey string, shortcuts map[string]string) (models.AppInfo, bool) {
	name := readString(key, "DisplayName")
	sysComp, _, err := key.GetIntegerValue("SystemComponent")
	if skipUninstallEntry(name, err == nil && sysComp == 1) {
		return models.AppInfo{}, false
	}

	app := models.AppInfo{
		Name:        name,
		Version:     readString(key, "DisplayVersion"),
		Publisher:   readString(key, "Publisher"),
		InstallDate: readString(key, "InstallDate"),
		Identifier:  subkey,
	}

	iconPath, _ := parseIconResource(readString(key, "DisplayIcon"))
	app.Path = resolveInstallPath(
		readString(key, "InstallLocation"),
		iconPath,
		shortcuts[name],
		readString(key, "UninstallString"),
	)
	if app.Path == "" {
		b.log.Debug("uninstall entry has no usable install path",
			zap.String("name", name),
			zap.String("subkey", subkey))
		return models.AppInfo{}, false
	}
	return app, true
}

func readString(key registry.Key, name string) string {
	val, _, err := key.GetStringValue(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(val)
}

// resolveInstallPath picks the first existing location among the install
// directory, the DisplayIcon target's directory, a Start Menu shortcut
// target's directory, and the UninstallString executable's directory.
func resolveInstallPath(location, iconPath, shortcutTarget, uninstall string) string {
	if location != "" {
		if _, err := os.Stat(strings.Trim(location, `"`)); err == nil {
			return strings.Trim(location, `"`)
		}
	}
	if iconPath != "" {
		if _, err := os.Stat(iconPath); err == nil {
			return filepath.Dir(iconPath)
		}
	}
	if shortcutTarget != "" {
		if _, err := os.Stat(shortcutTarget); err == nil {
			return filepath.Dir(shortcutTarget)
		}
	}
	if exe := executableFromCommand(uninstall); exe != "" {
		if _, err := os.Stat(exe); err == nil {
			return filepath.Dir(exe)
		}
	}
	return ""
}

// startMenuTargets walks the system and per-user Start Menu trees and maps
// shortcut display names to their resolved targets. Best effort: a broken
// or unparsable shortcut is simply ignored.
func (b *windowsBackend) startMenuTargets() map[string]string {
	dirs := []string{
		filepath.Join(os.Getenv("ProgramData"), `Microsoft\Windows\Start Menu\Programs`),
		filepath.Join(os.Getenv("AppData"), `Microsoft\Windows\Start Menu\Programs`),
	}

	targets := make(map[string]string)
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".lnk") {
				return nil
			}
			target := shortcutTarget(path)
			if target == "" {
				return nil
			}
			name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
			if _, ok := targets[name]; !ok {
				targets[name] = target
			}
			return nil
		})
	}
	return targets
}

// shortcutTarget resolves a .lnk file to its target path.
func shortcutTarget(path string) string {
	f, err := lnk.File(path)
	if err != nil {
		return ""
	}
	if f.LinkInfo.LocalBasePath != "" {
		target := f.LinkInfo.LocalBasePath
		if f.LinkInfo.CommonPathSuffix != "" {
			target = filepath.Join(target, f.LinkInfo.CommonPathSuffix)
		}
		return target
	}
	if f.StringData.NameString != "" && filepath.IsAbs(f.StringData.NameString) {
		return f.StringData.NameString
	}
	return ""
}
