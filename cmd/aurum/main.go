package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/jewelleryos/aurum/internal/clock"
	"github.com/jewelleryos/aurum/internal/config"
	"github.com/jewelleryos/aurum/internal/logger"
	"github.com/jewelleryos/aurum/internal/masterdata"
	"github.com/jewelleryos/aurum/internal/migration"
	"github.com/jewelleryos/aurum/internal/pricing"
	"github.com/jewelleryos/aurum/internal/pricingrule"
	"github.com/jewelleryos/aurum/internal/product"
	"github.com/jewelleryos/aurum/internal/recalc"
	"github.com/jewelleryos/aurum/internal/server"
	"github.com/jewelleryos/aurum/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		masterdata.Module,
		pricingrule.Module,
		pricing.Module,
		product.Module,
		recalc.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
