package platform

import (
	"fmt"

	"howett.net/plist"

	"github.com/breeze-rmm/appinfo/pkg/models"
)

// bundleInfo holds the Info.plist keys this package cares about.
type bundleInfo struct {
	DisplayName  string `plist:"CFBundleDisplayName"`
	Name         string `plist:"CFBundleName"`
	ShortVersion string `plist:"CFBundleShortVersionString"`
	Version      string `plist:"CFBundleVersion"`
	Identifier   string `plist:"CFBundleIdentifier"`
}

// parseBundleInfo extracts an application record from raw Info.plist bytes.
// The display name falls back to CFBundleName and finally to the bundle's
// directory stem; the version falls back from the marketing version string
// to the build version. Path is left for the caller to fill in.
func parseBundleInfo(data []byte, fallbackName string) (models.AppInfo, error) {
	var info bundleInfo
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return models.AppInfo{}, fmt.Errorf("parse Info.plist: %w", err)
	}

	name := info.DisplayName
	if name == "" {
		name = info.Name
	}
	if name == "" {
		name = fallbackName
	}
	if name == "" {
		return models.AppInfo{}, fmt.Errorf("bundle has no usable name")
	}

	version := info.ShortVersion
	if version == "" {
		version = info.Version
	}

	return models.AppInfo{
		Name:       name,
		Version:    version,
		Identifier: info.Identifier,
	}, nil
}
