package listing

import (
	"github.com/pedalroom/pedalroom/internal/listing/repository"
	"github.com/pedalroom/pedalroom/internal/listing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("listing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
