package platform

import (
	"testing"
)

const calculatorPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleDisplayName</key>
	<string>Calculator</string>
	<key>CFBundleName</key>
	<string>Calc</string>
	<key>CFBundleShortVersionString</key>
	<string>10.16</string>
	<key>CFBundleVersion</key>
	<string>223</string>
	<key>CFBundleIdentifier</key>
	<string>com.apple.calculator</string>
</dict>
</plist>`

const minimalPlist = `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>CFBundleVersion</key>
	<string>1.2.3</string>
</dict>
</plist>`

func TestParseBundleInfo(t *testing.T) {
	app, err := parseBundleInfo([]byte(calculatorPlist), "Calculator")
	if err != nil {
		t.Fatalf("parseBundleInfo failed: %v", err)
	}

	if app.Name != "Calculator" {
		t.Errorf("expected display name to win, got %q", app.Name)
	}
	if app.Version != "10.16" {
		t.Errorf("expected short version string, got %q", app.Version)
	}
	if app.Identifier != "com.apple.calculator" {
		t.Errorf("unexpected identifier %q", app.Identifier)
	}
}

func TestParseBundleInfoFallbacks(t *testing.T) {
	app, err := parseBundleInfo([]byte(minimalPlist), "Sketchy")
	if err != nil {
		t.Fatalf("parseBundleInfo failed: %v", err)
	}

	if app.Name != "Sketchy" {
		t.Errorf("expected directory-stem fallback name, got %q", app.Name)
	}
	if app.Version != "1.2.3" {
		t.Errorf("expected CFBundleVersion fallback, got %q", app.Version)
	}
	if app.Identifier != "" {
		t.Errorf("expected empty identifier, got %q", app.Identifier)
	}
}

func TestParseBundleInfoNoName(t *testing.T) {
	if _, err := parseBundleInfo([]byte(minimalPlist), ""); err == nil {
		t.Fatal("expected error for bundle without any usable name")
	}
}

func TestParseBundleInfoMalformed(t *testing.T) {
	if _, err := parseBundleInfo([]byte("not a plist"), "Broken"); err == nil {
		t.Fatal("expected error for malformed plist data")
	}
}
