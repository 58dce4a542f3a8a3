// Package appinfo lists installed applications and retrieves icon bitmaps
// for applications and arbitrary files. Every call is a synchronous,
// stateless read of the operating system's metadata; nothing is cached
// between calls.
package appinfo

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/breeze-rmm/appinfo/internal/platform"
	"github.com/breeze-rmm/appinfo/pkg/models"
)

// Backend is the OS-specific capability the facade composes. The platform
// package provides the real implementations; tests inject fakes.
type Backend interface {
	// Name identifies the backend, useful for logging.
	Name() string
	// Apps enumerates installed applications without icons.
	Apps() ([]models.AppInfo, error)
	// AppIcon resolves the icon for an enumerated application record.
	AppIcon(app models.AppInfo, size int) (*models.Icon, error)
	// FileIcon resolves the icon the OS associates with a file path.
	FileIcon(path string, size int) (*models.Icon, error)
}

var (
	// ErrEnumeration indicates the OS application-metadata source could
	// not be accessed at all.
	ErrEnumeration = errors.New("application enumeration failed")
	// ErrIcon indicates an icon could not be obtained or converted.
	ErrIcon = errors.New("icon not obtainable")
	// ErrNotFound indicates a named lookup matched no installed application.
	ErrNotFound = errors.New("application not found")
	// ErrPathNotFound indicates a supplied file path does not exist.
	ErrPathNotFound = errors.New("path does not exist")
	// ErrUnsupportedPlatform indicates the running OS has no backend.
	ErrUnsupportedPlatform = platform.ErrUnsupported
)

// Client composes a platform backend with a logger. The zero-configuration
// path is the package-level functions, which share a default client.
type Client struct {
	backend Backend
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBackend overrides the platform backend. Used by tests.
func WithBackend(b Backend) Option {
	return func(c *Client) { c.backend = b }
}

// WithLogger sets the logger used for per-item skip diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a Client for the running operating system.
func New(opts ...Option) *Client {
	c := &Client{log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.backend == nil {
		c.backend = platform.New(c.log)
	}
	return c
}

var (
	defaultOnce   sync.Once
	defaultClient *Client
)

func defaults() *Client {
	defaultOnce.Do(func() {
		defaultClient = New()
	})
	return defaultClient
}

// ListApplications returns all installed applications. When iconSize is
// positive, each record's icon is resolved best-effort at (or nearest to)
// that pixel size; a failed icon leaves the record's Icon nil. iconSize 0
// skips icon resolution entirely.
func (c *Client) ListApplications(iconSize uint32) ([]models.AppInfo, error) {
	apps, err := c.backend.Apps()
	if err != nil {
		return nil, c.enumerationError(err)
	}
	if iconSize == 0 {
		return apps, nil
	}
	for i := range apps {
		icon, err := c.backend.AppIcon(apps[i], int(iconSize))
		if err != nil {
			c.log.Debug("application icon unavailable",
				zap.String("app", apps[i].Name),
				zap.Error(err))
			continue
		}
		apps[i].Icon = icon
	}
	return apps, nil
}

// FindAppByName returns the first enumerated application whose name matches
// exactly (case-sensitive, as returned by the OS). Enumeration order is
// OS-defined, so which of several same-named applications wins is not
// specified.
func (c *Client) FindAppByName(name string, iconSize uint32) (models.AppInfo, error) {
	apps, err := c.backend.Apps()
	if err != nil {
		return models.AppInfo{}, c.enumerationError(err)
	}
	for _, app := range apps {
		if app.Name != name {
			continue
		}
		if iconSize > 0 {
			if icon, err := c.backend.AppIcon(app, int(iconSize)); err == nil {
				app.Icon = icon
			} else {
				c.log.Debug("application icon unavailable",
					zap.String("app", app.Name),
					zap.Error(err))
			}
		}
		return app, nil
	}
	return models.AppInfo{}, fmt.Errorf("%q: %w", name, ErrNotFound)
}

// GetFileIcon returns the icon the OS associates with the file at path,
// at (or nearest to) iconSize pixels. The returned buffer's dimensions are
// authoritative; the requested size is a hint.
func (c *Client) GetFileIcon(path string, iconSize uint32) (*models.Icon, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", path, ErrPathNotFound)
	}
	if iconSize == 0 {
		return nil, fmt.Errorf("%w: requested size must be positive", ErrIcon)
	}
	icon, err := c.backend.FileIcon(path, int(iconSize))
	if err != nil {
		if errors.Is(err, ErrUnsupportedPlatform) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrIcon, err)
	}
	return icon, nil
}

func (c *Client) enumerationError(err error) error {
	if errors.Is(err, ErrUnsupportedPlatform) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrEnumeration, err)
}

// ListApplications lists installed applications using the default client.
func ListApplications(iconSize uint32) ([]models.AppInfo, error) {
	return defaults().ListApplications(iconSize)
}

// FindAppByName finds an installed application by exact name using the
// default client.
func FindAppByName(name string, iconSize uint32) (models.AppInfo, error) {
	return defaults().FindAppByName(name, iconSize)
}

// GetFileIcon retrieves a file's icon using the default client.
func GetFileIcon(path string, iconSize uint32) (*models.Icon, error) {
	return defaults().GetFileIcon(path, iconSize)
}
