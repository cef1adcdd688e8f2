package logs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Automancy/internal/shared/serverconfig"

	"go.uber.org/zap/zapcore"
)

func TestInit_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")
	if err := Init("test", serverconfig.LogConfig{FileDir: path, Level: "debug"}); err != nil {
		t.Fatalf("Init() err=%v", err)
	}
	t.Cleanup(func() { SetLogger(nil) })

	Info("hello file")
	Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), `"msg":"hello file"`) {
		t.Fatalf("log file missing entry: %s", raw)
	}
	if strings.Contains(string(raw), "\x1b[") {
		t.Fatalf("file output must not contain color codes")
	}
}

func TestInit_BadLevelFallsBackToInfo(t *testing.T) {
	if err := Init("test", serverconfig.LogConfig{Level: "loud"}); err != nil {
		t.Fatalf("Init() err=%v", err)
	}
	t.Cleanup(func() { SetLogger(nil) })
	if Logger().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug must be disabled at the fallback level")
	}
}
