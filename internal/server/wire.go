package server

import (
	"log/slog"

	"github.com/sweetshop/sweetshop/internal/config"
	"github.com/sweetshop/sweetshop/internal/metrics"
	"github.com/sweetshop/sweetshop/internal/service"
	"github.com/sweetshop/sweetshop/internal/store"
)

// NewServices builds the service graph over st from settings.
func NewServices(st *store.Store, settings config.Settings, m *metrics.Metrics, logger *slog.Logger) (Services, error) {
	tokens, err := service.NewTokenService(settings.Auth.SecretKey, settings.Auth.Algorithm, settings.Auth.AccessTokenTTL)
	if err != nil {
		return Services{}, err
	}
	if m == nil {
		m = metrics.New()
	}
	hasher := service.NewHasher(settings.Auth.BcryptCost, logger)
	accounts := service.NewAccountService(st, hasher, logger)
	return Services{
		DB:       st,
		Accounts: accounts,
		Tokens:   tokens,
		Catalog:  service.NewCatalogService(st, m, logger),
		Gate:     service.NewGate(tokens, accounts),
		Metrics:  m,
	}, nil
}
