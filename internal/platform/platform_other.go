//go:build !windows && !darwin

package platform

import (
	"go.uber.org/zap"

	"github.com/breeze-rmm/appinfo/pkg/models"
)

type stubBackend struct{}

// New returns a backend whose every operation fails with ErrUnsupported.
func New(_ *zap.Logger) Backend {
	return stubBackend{}
}

func (stubBackend) Name() string { return "unsupported" }

func (stubBackend) Apps() ([]models.AppInfo, error) {
	return nil, ErrUnsupported
}

func (stubBackend) AppIcon(models.AppInfo, int) (*models.Icon, error) {
	return nil, ErrUnsupported
}

func (stubBackend) FileIcon(string, int) (*models.Icon, error) {
	return nil, ErrUnsupported
}
