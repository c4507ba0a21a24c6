package migration

import (
	masterdomain "github.com/jewelleryos/aurum/internal/masterdata/domain"
	ruledomain "github.com/jewelleryos/aurum/internal/pricingrule/domain"
	productdomain "github.com/jewelleryos/aurum/internal/product/domain"
	recalcdomain "github.com/jewelleryos/aurum/internal/recalc/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		// Versioned SQL migrations run against postgres; other dialects
		// (sqlite in tests, mysql installs) get the gorm schema directly.
		if conn.Dialector.Name() == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}
		return AutoMigrate(conn)
	}),
)

// AutoMigrate creates the schema from the gorm models.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&masterdomain.MetalPurity{},
		&masterdomain.MakingChargeBand{},
		&masterdomain.OtherCharge{},
		&masterdomain.StonePricing{},
		&masterdomain.MrpMarkupConfig{},
		&masterdomain.TaxConfig{},
		&ruledomain.PricingRule{},
		&productdomain.Product{},
		&productdomain.ProductVariant{},
		&recalcdomain.RecalculationJob{},
	)
}
