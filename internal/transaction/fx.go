package transaction

import (
	"github.com/pedalroom/pedalroom/internal/transaction/repository"
	"github.com/pedalroom/pedalroom/internal/transaction/service"
	"go.uber.org/fx"
)

var Module = fx.Module("transaction.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
