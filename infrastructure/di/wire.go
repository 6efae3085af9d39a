//go:build wireinject
// +build wireinject

package di

import (
	"keepsake-backend/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers.
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideStore,
	ProvideCollector,
	ProvideService,
	ProvideContainer,
)

// InitializeContainer builds the dependency container.
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
