package commission

import (
	"go.uber.org/fx"
)

var Module = fx.Module("commission.config",
	fx.Provide(NewHolder),
)
