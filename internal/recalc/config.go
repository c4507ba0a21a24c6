package recalc

import "github.com/jewelleryos/aurum/internal/config"

// Config controls paging, write batching and cancellation poll cadence for
// the recalculation worker.
type Config struct {
	PageSize       int
	CheckInterval  int
	WriteBatchSize int
}

func DefaultConfig() Config {
	return Config{
		PageSize:       50,
		CheckInterval:  10,
		WriteBatchSize: 100,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.PageSize <= 0 {
		c.PageSize = defaults.PageSize
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = defaults.CheckInterval
	}
	if c.WriteBatchSize <= 0 {
		c.WriteBatchSize = defaults.WriteBatchSize
	}
	return c
}

func ProvideConfig(appCfg config.Config) Config {
	return Config{
		PageSize:       appCfg.Recalc.PageSize,
		CheckInterval:  appCfg.Recalc.CheckInterval,
		WriteBatchSize: appCfg.Recalc.WriteBatchSize,
	}.withDefaults()
}
