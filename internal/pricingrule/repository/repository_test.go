package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/jewelleryos/aurum/internal/pricingrule/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestListActiveFiltersAndOrders(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.PricingRule{}))

	require.NoError(t, db.Create(&domain.PricingRule{ID: 3, Name: "late", IsActive: true}).Error)
	require.NoError(t, db.Create(&domain.PricingRule{ID: 1, Name: "early", IsActive: true}).Error)
	require.NoError(t, db.Create(&domain.PricingRule{ID: 2, Name: "disabled", IsActive: false}).Error)

	rules, err := NewRepository(Param{DB: db}).ListActive(context.Background())
	require.NoError(t, err)

	require.Len(t, rules, 2)
	assert.Equal(t, "early", rules[0].Name)
	assert.Equal(t, "late", rules[1].Name)
}

func TestCreateKeepsInactiveFlag(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.PricingRule{}))

	require.NoError(t, db.Create(&domain.PricingRule{ID: 7, Name: "paused", IsActive: false}).Error)

	var stored domain.PricingRule
	require.NoError(t, db.First(&stored, "id = ?", 7).Error)
	assert.False(t, stored.IsActive, "a rule authored as inactive must not come back enabled")
}
