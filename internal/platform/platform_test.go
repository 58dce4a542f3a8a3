package platform

import (
	"testing"

	"github.com/breeze-rmm/appinfo/pkg/models"
)

func TestSkipUninstallEntry(t *testing.T) {
	cases := []struct {
		name            string
		displayName     string
		systemComponent bool
		want            bool
	}{
		{"regular app", "Visual Studio Code", false, false},
		{"empty name", "", false, true},
		{"system component", "Microsoft Visual C++ Runtime", true, true},
		{"windows update", "Update for Windows (KB123456)", false, true},
		{"security update", "Security Update for Microsoft Office", false, true},
		{"hotfix", "Hotfix for Windows (KB654321)", false, true},
		{"name containing update elsewhere", "Updater Tool", false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := skipUninstallEntry(tc.displayName, tc.systemComponent); got != tc.want {
				t.Errorf("skipUninstallEntry(%q, %v) = %v, want %v",
					tc.displayName, tc.systemComponent, got, tc.want)
			}
		})
	}
}

func TestDedupeApps(t *testing.T) {
	apps := []models.AppInfo{
		{Name: "Firefox", Version: "120.0", Path: `C:\Program Files\Firefox`},
		{Name: "Firefox", Version: "120.0", Path: `C:\Program Files (x86)\Firefox`},
		{Name: "Firefox", Version: "119.0", Path: `C:\Old\Firefox`},
		{Name: "7-Zip", Version: "23.01", Path: `C:\Program Files\7-Zip`},
	}

	got := dedupeApps(apps)
	if len(got) != 3 {
		t.Fatalf("expected 3 apps after dedupe, got %d", len(got))
	}
	// First occurrence wins.
	if got[0].Path != `C:\Program Files\Firefox` {
		t.Errorf("dedupe kept the wrong record: %q", got[0].Path)
	}
}

func TestParseIconResource(t *testing.T) {
	cases := []struct {
		in       string
		wantPath string
		wantIdx  int
	}{
		{`C:\Program Files\Foo\foo.exe,0`, `C:\Program Files\Foo\foo.exe`, 0},
		{`"C:\Program Files\Foo\foo.exe",2`, `C:\Program Files\Foo\foo.exe`, 2},
		{`C:\Foo\app.ico`, `C:\Foo\app.ico`, 0},
		{`C:\Foo\bar,baz\app.exe,-1`, `C:\Foo\bar,baz\app.exe`, -1},
		{``, ``, 0},
	}

	for _, tc := range cases {
		path, idx := parseIconResource(tc.in)
		if path != tc.wantPath || idx != tc.wantIdx {
			t.Errorf("parseIconResource(%q) = (%q, %d), want (%q, %d)",
				tc.in, path, idx, tc.wantPath, tc.wantIdx)
		}
	}
}

func TestExecutableFromCommand(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"C:\Program Files\Foo\unins000.exe" /SILENT`, `C:\Program Files\Foo\unins000.exe`},
		{`C:\Tools\remove.exe --all`, `C:\Tools\remove.exe`},
		{`MsiExec.exe /X{8A9F...}`, `MsiExec.exe`},
		{``, ``},
	}

	for _, tc := range cases {
		if got := executableFromCommand(tc.in); got != tc.want {
			t.Errorf("executableFromCommand(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
