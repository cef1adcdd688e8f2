package serverconfig

import (
	"Automancy/internal/shared/config"
	"time"
)

var Conf Config

func Load(cfgName string) {
	config.Load(cfgName, &Conf)
	Conf.ApplyDefaults()
}

// ApplyDefaults fills zero values that would leave the engine unusable.
func (c *Config) ApplyDefaults() {
	if c.Game.MaxTickDuration <= 0 {
		c.Game.MaxTickDuration = 50 * time.Millisecond
	}
	if c.Game.AskTimeout <= 0 {
		c.Game.AskTimeout = 3 * time.Second
	}
	if c.Game.UndoLimit <= 0 {
		c.Game.UndoLimit = 256
	}
	if c.Game.InitialMap == "" {
		c.Game.InitialMap = "default"
	}
	if c.Game.TransactionTTL <= 0 {
		c.Game.TransactionTTL = 500 * time.Millisecond
	}
	if c.Game.TransactionsPerKey == 0 {
		c.Game.TransactionsPerKey = 4096
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.MapDir == "" {
		c.Storage.MapDir = "map"
	}
	if c.Resources.Dir == "" {
		c.Resources.Dir = "resources"
	}
	if c.HTTPServer.Host == "" {
		c.HTTPServer.Host = "127.0.0.1"
	}
	if c.HTTPServer.Port == 0 {
		c.HTTPServer.Port = 8090
	}
}
