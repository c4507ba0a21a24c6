package pricing

import (
	"github.com/jewelleryos/aurum/internal/pricing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricing",
	fx.Provide(service.NewCalculator),
)
