package cart

import (
	"github.com/pedalroom/pedalroom/internal/cart/repository"
	"github.com/pedalroom/pedalroom/internal/cart/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cart.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
