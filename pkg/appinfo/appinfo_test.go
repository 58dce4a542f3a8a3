package appinfo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeze-rmm/appinfo/pkg/models"
)

// fakeBackend drives the facade without touching the OS.
type fakeBackend struct {
	apps      []models.AppInfo
	appsErr   error
	appIcon   func(app models.AppInfo, size int) (*models.Icon, error)
	fileIcon  func(path string, size int) (*models.Icon, error)
	iconCalls int
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Apps() ([]models.AppInfo, error) {
	if f.appsErr != nil {
		return nil, f.appsErr
	}
	return f.apps, nil
}

func (f *fakeBackend) AppIcon(app models.AppInfo, size int) (*models.Icon, error) {
	f.iconCalls++
	if f.appIcon != nil {
		return f.appIcon(app, size)
	}
	return testIcon(size), nil
}

func (f *fakeBackend) FileIcon(path string, size int) (*models.Icon, error) {
	if f.fileIcon != nil {
		return f.fileIcon(path, size)
	}
	return testIcon(size), nil
}

func testIcon(size int) *models.Icon {
	return &models.Icon{
		Width:  size,
		Height: size,
		Pixels: make([]byte, size*size*4),
	}
}

func testApps() []models.AppInfo {
	return []models.AppInfo{
		{Name: "Firefox", Version: "120.0", Path: "/Applications/Firefox.app"},
		{Name: "Calculator", Version: "10.16", Path: "/System/Applications/Calculator.app"},
		{Name: "Calculator", Version: "1.0", Path: "/Applications/Calculator.app"},
	}
}

func TestListApplicationsSkipsIconsAtSizeZero(t *testing.T) {
	fake := &fakeBackend{apps: testApps()}
	c := New(WithBackend(fake))

	apps, err := c.ListApplications(0)
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Zero(t, fake.iconCalls)
	for _, app := range apps {
		assert.Nil(t, app.Icon)
	}
}

func TestListApplicationsResolvesIcons(t *testing.T) {
	fake := &fakeBackend{apps: testApps()}
	c := New(WithBackend(fake))

	apps, err := c.ListApplications(64)
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, 3, fake.iconCalls)
	for _, app := range apps {
		require.NotNil(t, app.Icon)
		require.NoError(t, app.Icon.Validate())
		assert.Equal(t, 64, app.Icon.Width)
	}
}

func TestListApplicationsAbsorbsIconFailures(t *testing.T) {
	fake := &fakeBackend{
		apps: testApps(),
		appIcon: func(app models.AppInfo, size int) (*models.Icon, error) {
			if app.Name == "Firefox" {
				return nil, errors.New("shell refused")
			}
			return testIcon(size), nil
		},
	}
	c := New(WithBackend(fake))

	apps, err := c.ListApplications(32)
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Nil(t, apps[0].Icon)
	assert.NotNil(t, apps[1].Icon)
	assert.NotNil(t, apps[2].Icon)
}

func TestListApplicationsEnumerationError(t *testing.T) {
	fake := &fakeBackend{appsErr: errors.New("registry unreachable")}
	c := New(WithBackend(fake))

	_, err := c.ListApplications(0)
	assert.ErrorIs(t, err, ErrEnumeration)
}

func TestFindAppByNameExactMatch(t *testing.T) {
	fake := &fakeBackend{apps: testApps()}
	c := New(WithBackend(fake))

	app, err := c.FindAppByName("Calculator", 0)
	require.NoError(t, err)
	// First match wins; the lookup never resolves icons at size zero.
	assert.Equal(t, "10.16", app.Version)
	assert.Nil(t, app.Icon)
	assert.Zero(t, fake.iconCalls)
}

func TestFindAppByNameIsCaseSensitive(t *testing.T) {
	fake := &fakeBackend{apps: testApps()}
	c := New(WithBackend(fake))

	_, err := c.FindAppByName("firefox", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindAppByNameResolvesIconForMatchOnly(t *testing.T) {
	fake := &fakeBackend{apps: testApps()}
	c := New(WithBackend(fake))

	app, err := c.FindAppByName("Firefox", 48)
	require.NoError(t, err)
	require.NotNil(t, app.Icon)
	assert.Equal(t, 48, app.Icon.Width)
	assert.Equal(t, 1, fake.iconCalls)
}

func TestFindAppByNameNotFound(t *testing.T) {
	fake := &fakeBackend{apps: testApps()}
	c := New(WithBackend(fake))

	_, err := c.FindAppByName("Thunderbird", 0)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Thunderbird")
}

func TestGetFileIconMissingPath(t *testing.T) {
	c := New(WithBackend(&fakeBackend{}))

	_, err := c.GetFileIcon(filepath.Join(t.TempDir(), "nope.txt"), 32)
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestGetFileIconRejectsSizeZero(t *testing.T) {
	c := New(WithBackend(&fakeBackend{}))

	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := c.GetFileIcon(path, 0)
	assert.ErrorIs(t, err, ErrIcon)
}

func TestGetFileIcon(t *testing.T) {
	c := New(WithBackend(&fakeBackend{}))

	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	icon, err := c.GetFileIcon(path, 64)
	require.NoError(t, err)
	require.NoError(t, icon.Validate())
	assert.Equal(t, 64, icon.Width)
}

func TestGetFileIconWrapsBackendError(t *testing.T) {
	fake := &fakeBackend{
		fileIcon: func(string, int) (*models.Icon, error) {
			return nil, errors.New("no shell icon")
		},
	}
	c := New(WithBackend(fake))

	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := c.GetFileIcon(path, 64)
	assert.ErrorIs(t, err, ErrIcon)
}

func TestGetFileIconUnsupportedPassthrough(t *testing.T) {
	fake := &fakeBackend{
		fileIcon: func(string, int) (*models.Icon, error) {
			return nil, ErrUnsupportedPlatform
		},
	}
	c := New(WithBackend(fake))

	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := c.GetFileIcon(path, 64)
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
	assert.NotErrorIs(t, err, ErrIcon)
}
