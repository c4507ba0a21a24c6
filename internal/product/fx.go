package product

import (
	"github.com/jewelleryos/aurum/internal/product/repository"
	"github.com/jewelleryos/aurum/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product",
	fx.Provide(
		repository.NewRepository,
		service.New,
	),
)
