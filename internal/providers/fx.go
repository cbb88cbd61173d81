package providers

import (
	"github.com/pedalroom/pedalroom/internal/providers/marketplace"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	marketplace.Module,
)
