package masterdata

import (
	"github.com/jewelleryos/aurum/internal/masterdata/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("masterdata",
	fx.Provide(repository.NewRepository),
)
