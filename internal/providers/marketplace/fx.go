package marketplace

import (
	"github.com/pedalroom/pedalroom/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.marketplace",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Client {
	if cfg.Marketplace.BaseURL == "" {
		return &NoOpClient{}
	}
	return NewHTTP(Config{
		BaseURL:      cfg.Marketplace.BaseURL,
		ClientID:     cfg.Marketplace.ClientID,
		ClientSecret: cfg.Marketplace.ClientSecret,
	}, log)
}
