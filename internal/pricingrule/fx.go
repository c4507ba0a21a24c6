package pricingrule

import (
	"github.com/jewelleryos/aurum/internal/pricingrule/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("pricingrule",
	fx.Provide(repository.NewRepository),
)
