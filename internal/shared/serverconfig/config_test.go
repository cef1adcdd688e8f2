package serverconfig

import (
	"Automancy/internal/shared/config"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()

	if c.Game.MaxTickDuration != 50*time.Millisecond {
		t.Fatalf("MaxTickDuration=%v", c.Game.MaxTickDuration)
	}
	if c.Game.UndoLimit != 256 || c.Storage.Driver != "file" || c.Storage.MapDir != "map" {
		t.Fatalf("unexpected defaults: %+v %+v", c.Game, c.Storage)
	}
	if c.Game.TickInterval != 0 {
		t.Fatalf("tick interval must stay manual by default, got %v", c.Game.TickInterval)
	}
	if c.Game.TransactionsPerKey != 4096 {
		t.Fatalf("TransactionsPerKey=%d", c.Game.TransactionsPerKey)
	}

	uncapped := Config{Game: GameConfig{TransactionsPerKey: -1}}
	uncapped.ApplyDefaults()
	if uncapped.Game.TransactionsPerKey != -1 {
		t.Fatalf("negative cap must survive defaults, got %d", uncapped.Game.TransactionsPerKey)
	}
}

func TestRepositoryConfigFileDecodes(t *testing.T) {
	path := filepath.Join("..", "..", "..", "configs", "conf.yml")
	if _, err := os.Stat(path); err != nil {
		t.Skip("configs/conf.yml not present")
	}
	var c Config
	if err := config.Read(path, &c); err != nil {
		t.Fatalf("Read() err=%v", err)
	}
	c.ApplyDefaults()
	if c.Game.TickInterval <= 0 {
		t.Fatalf("shipped config should tick automatically, got %v", c.Game.TickInterval)
	}
	if c.Storage.Driver != "file" {
		t.Fatalf("driver=%q", c.Storage.Driver)
	}
}
