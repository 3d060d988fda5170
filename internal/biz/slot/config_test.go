package slot

import (
	"strings"
	"testing"
)

// 测试用数学配置：5×3，目录顺序 wild seven bar3 bar2 bar1 bell cherry lemon
const testConfigJSON = `{
  "game_id": 70001,
  "cols": 5,
  "rows": 3,
  "symbols": [
    {"code": "wild", "kind": "wild"},
    {"code": "seven", "kind": "high"},
    {"code": "bar3", "kind": "high"},
    {"code": "bar2", "kind": "high"},
    {"code": "bar1", "kind": "low"},
    {"code": "bell", "kind": "low"},
    {"code": "cherry", "kind": "low"},
    {"code": "lemon", "kind": "low"}
  ],
  "pay_table": {
    "seven":  {"3": 5, "4": 10, "5": 25},
    "bar3":   {"3": 4, "4": 8, "5": 15},
    "bar2":   {"3": 3, "4": 6, "5": 10},
    "bar1":   {"3": 2, "4": 4, "5": 8},
    "bell":   {"3": 2, "4": 3, "5": 6},
    "cherry": {"3": 1, "4": 2, "5": 4},
    "lemon":  {"3": 1, "4": 2, "5": 3}
  },
  "bet_modes": {"default": {"high": 30, "low": 70}},
  "reel_strips": {
    "low": [
      ["seven", "lemon", "bell", "cherry", "bar1", "bar2", "bar3"],
      ["lemon", "wild", "cherry", "bell", "seven", "bar1", "bar2"],
      ["cherry", "bell", "wild", "bar1", "seven", "lemon", "bar3"],
      ["bell", "lemon", "wild", "bar2", "seven", "cherry", "bar1"],
      ["lemon", "cherry", "bar1", "bell", "seven", "bar2", "bar3"]
    ]
  },
  "max_win_multiplier": 500
}`

func testConfig(t *testing.T) *GameConfig {
	t.Helper()
	cfg, err := ParseGameConfig([]byte(testConfigJSON))
	if err != nil {
		t.Fatalf("ParseGameConfig: %v", err)
	}
	return cfg
}

func TestParseGameConfig(t *testing.T) {
	cfg := testConfig(t)
	if cfg.GameID != 70001 || cfg.Cols != 5 || cfg.Rows != 3 {
		t.Fatalf("dimensions: %+v", cfg)
	}
	if cfg.Catalog.Len() != 8 {
		t.Fatalf("catalog len = %d", cfg.Catalog.Len())
	}
	// 目录顺序即线上ID
	if id, _ := cfg.Catalog.WireID("wild"); id != 0 {
		t.Fatalf("wild id = %d", id)
	}
	if id, _ := cfg.Catalog.WireID("seven"); id != 1 {
		t.Fatalf("seven id = %d", id)
	}
	if _, err := cfg.StripSet("low"); err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.StripSet("buy"); err == nil {
		t.Fatal("missing strip set accepted")
	}
}

func TestParseGameConfigRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		edit func(string) string
	}{
		{"wild on reel 0", func(s string) string {
			return strings.Replace(s, `["seven", "lemon", "bell", "cherry", "bar1", "bar2", "bar3"]`,
				`["wild", "lemon", "bell", "cherry", "bar1", "bar2", "bar3"]`, 1)
		}},
		{"wild on reel 4", func(s string) string {
			return strings.Replace(s, `["lemon", "cherry", "bar1", "bell", "seven", "bar2", "bar3"]`,
				`["wild", "cherry", "bar1", "bell", "seven", "bar2", "bar3"]`, 1)
		}},
		{"unknown strip symbol", func(s string) string {
			return strings.Replace(s, `"bar3"]
    ]`, `"diamond"]
    ]`, 1)
		}},
		{"unknown paytable symbol", func(s string) string {
			return strings.Replace(s, `"seven":  {"3": 5`, `"diamond":  {"3": 5`, 1)
		}},
		{"bad paytable count", func(s string) string {
			return strings.Replace(s, `{"3": 5, "4": 10, "5": 25}`, `{"x": 5}`, 1)
		}},
		{"zero max win", func(s string) string {
			return strings.Replace(s, `"max_win_multiplier": 500`, `"max_win_multiplier": 0`, 1)
		}},
		{"duplicate symbol", func(s string) string {
			return strings.Replace(s, `{"code": "lemon", "kind": "low"}`, `{"code": "seven", "kind": "low"}`, 1)
		}},
	}
	for _, c := range cases {
		if _, err := ParseGameConfig([]byte(c.edit(testConfigJSON))); err == nil {
			t.Errorf("%s: accepted", c.name)
		}
	}
}

// 赔付表选取 <= 连线数的最大已配置档
func TestPickMultiplier(t *testing.T) {
	cfg := testConfig(t)
	seven, _ := cfg.Catalog.WireID("seven")

	cases := []struct {
		count int
		want  int64
		ok    bool
	}{
		{2, 0, false},
		{3, 5, true},
		{4, 10, true},
		{5, 25, true},
		{7, 25, true}, // 超档取最大档
	}
	for _, c := range cases {
		got, ok := cfg.PickMultiplier(seven, c.count)
		if ok != c.ok || got != c.want {
			t.Errorf("PickMultiplier(seven, %d) = %d,%v want %d,%v", c.count, got, ok, c.want, c.ok)
		}
	}

	wild, _ := cfg.Catalog.WireID("wild")
	if _, ok := cfg.PickMultiplier(wild, 5); ok {
		t.Error("wild has no direct payout")
	}
}

func TestMultiplierProfileRoll(t *testing.T) {
	p := &MultiplierProfile{Values: []int64{2, 5, 10}, Weights: []int64{70, 25, 5}, total: 100}
	if got := p.Roll(0); got != 2 {
		t.Fatalf("Roll(0) = %d", got)
	}
	if got := p.Roll(69); got != 2 {
		t.Fatalf("Roll(69) = %d", got)
	}
	if got := p.Roll(70); got != 5 {
		t.Fatalf("Roll(70) = %d", got)
	}
	if got := p.Roll(95); got != 10 {
		t.Fatalf("Roll(95) = %d", got)
	}
	// 负种子规约到[0,total)
	if got := p.Roll(-1); got == 0 {
		t.Fatalf("Roll(-1) = %d", got)
	}
	var nilp *MultiplierProfile
	if got := nilp.Roll(42); got != 0 {
		t.Fatalf("nil profile Roll = %d", got)
	}
}
