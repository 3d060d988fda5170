package data

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"

	"reelspin/internal/conf"
)

const gameConfigFixture = `{
  "game_id": 70001,
  "cols": 5,
  "rows": 3,
  "symbols": [
    {"code": "wild", "kind": "wild"},
    {"code": "seven", "kind": "high"},
    {"code": "lemon", "kind": "low"}
  ],
  "pay_table": {"seven": {"3": 5, "4": 10, "5": 25}},
  "bet_modes": {"default": {"high": 30, "low": 70}},
  "reel_strips": {
    "low": [
      ["seven", "lemon"],
      ["lemon", "wild"],
      ["seven", "wild"],
      ["lemon", "wild"],
      ["seven", "lemon"]
    ]
  },
  "max_win_multiplier": 500
}`

func writeGameConfig(t *testing.T, dir string, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGameConfigRepoGet(t *testing.T) {
	dir := t.TempDir()
	writeGameConfig(t, dir, "70001.json", gameConfigFixture)

	repo := NewGameConfigRepo(&conf.Engine{GameConfigDir: dir}, log.NewStdLogger(io.Discard))
	ctx := context.Background()

	cfg, err := repo.Get(ctx, 70001)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GameID != 70001 || cfg.Cols != 5 {
		t.Fatalf("cfg = %+v", cfg)
	}

	// 二次读取命中缓存，返回同一份不可变配置
	again, err := repo.Get(ctx, 70001)
	if err != nil {
		t.Fatal(err)
	}
	if again != cfg {
		t.Fatal("second Get did not hit cache")
	}
}

func TestGameConfigRepoMissing(t *testing.T) {
	repo := NewGameConfigRepo(&conf.Engine{GameConfigDir: t.TempDir()}, log.NewStdLogger(io.Discard))
	if _, err := repo.Get(context.Background(), 99999); err == nil {
		t.Fatal("missing config accepted")
	}
}

func TestGameConfigRepoIDMismatch(t *testing.T) {
	dir := t.TempDir()
	// 文件名70002，内部game_id仍为70001
	writeGameConfig(t, dir, "70002.json", gameConfigFixture)

	repo := NewGameConfigRepo(&conf.Engine{GameConfigDir: dir}, log.NewStdLogger(io.Discard))
	if _, err := repo.Get(context.Background(), 70002); err == nil {
		t.Fatal("id mismatch accepted")
	}
}

func TestGameConfigRepoRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	writeGameConfig(t, dir, "70001.json", strings.Replace(gameConfigFixture, `"max_win_multiplier": 500`, `"max_win_multiplier": 0`, 1))

	repo := NewGameConfigRepo(&conf.Engine{GameConfigDir: dir}, log.NewStdLogger(io.Discard))
	if _, err := repo.Get(context.Background(), 70001); err == nil {
		t.Fatal("broken config accepted")
	}
}
