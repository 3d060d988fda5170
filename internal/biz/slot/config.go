package slot

import (
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// 滚轴带用途
const (
	StripPurposeHigh = "high"
	StripPurposeLow  = "low"
	StripPurposeBuy  = "buy"
)

// StripSet 一组滚轴带，每列一条（符号为线上ID）
type StripSet [][]int

// BetModeWeights 档位 -> 滚轴带用途的权重表
type BetModeWeights struct {
	High int64 `json:"high"`
	Low  int64 `json:"low"`
}

// MultiplierProfile 倍数符号的取值/权重配置
type MultiplierProfile struct {
	Values  []int64 `json:"values"`
	Weights []int64 `json:"weights"`
	total   int64
}

// Roll 按权重选取倍数值，seed为非负随机量
func (p *MultiplierProfile) Roll(seed int64) int64 {
	if p == nil || p.total <= 0 {
		return 0
	}
	r := seed % p.total
	if r < 0 {
		r += p.total
	}
	for i, w := range p.Weights {
		if r < w {
			return p.Values[i]
		}
		r -= w
	}
	return p.Values[len(p.Values)-1]
}

// GameConfig 单个游戏的不可变数学配置（加载后只读共享）
type GameConfig struct {
	GameID   int64
	Cols     int
	Rows     int
	Catalog  *Catalog
	Paytable map[int]map[int]int64 // 符号ID -> 连线数 -> 倍率
	BetModes map[string]BetModeWeights
	Profile  *MultiplierProfile
	Strips   map[string]StripSet
	MaxWinX  int64
}

// gameConfigJson 配置文件原始结构
type gameConfigJson struct {
	GameID   int64  `json:"game_id"`
	Cols     int    `json:"cols"`
	Rows     int    `json:"rows"`
	Symbols  []struct {
		Code string `json:"code"`
		Kind string `json:"kind"`
	} `json:"symbols"`
	PayTable map[string]map[string]int64 `json:"pay_table"`
	BetModes map[string]BetModeWeights   `json:"bet_modes"`
	Profile  *MultiplierProfile          `json:"multiplier_profile"`
	Strips   map[string][][]string       `json:"reel_strips"`
	MaxWinX  int64                       `json:"max_win_multiplier"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseGameConfig 解析并校验游戏配置。配置错误直接返回error，绝不静默兜底，
// 否则赔付表/RTP保证会被破坏。
func ParseGameConfig(raw []byte) (*GameConfig, error) {
	var in gameConfigJson
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("slot: unparseable game config: %w", err)
	}
	if in.Cols <= 0 || in.Rows <= 0 {
		return nil, fmt.Errorf("slot: invalid board dimensions %dx%d", in.Cols, in.Rows)
	}

	defs := make([]SymbolDef, 0, len(in.Symbols))
	for _, s := range in.Symbols {
		kind, err := ParseSymbolKind(s.Kind)
		if err != nil {
			return nil, err
		}
		defs = append(defs, SymbolDef{Code: s.Code, Kind: kind})
	}
	catalog, err := NewCatalog(defs)
	if err != nil {
		return nil, err
	}

	cfg := &GameConfig{
		GameID:   in.GameID,
		Cols:     in.Cols,
		Rows:     in.Rows,
		Catalog:  catalog,
		Paytable: make(map[int]map[int]int64, len(in.PayTable)),
		BetModes: in.BetModes,
		Profile:  in.Profile,
		Strips:   make(map[string]StripSet, len(in.Strips)),
		MaxWinX:  in.MaxWinX,
	}

	for code, counts := range in.PayTable {
		id, ok := catalog.WireID(code)
		if !ok {
			return nil, fmt.Errorf("slot: paytable references unknown symbol %q", code)
		}
		row := make(map[int]int64, len(counts))
		for cs, mult := range counts {
			n, err := strconv.Atoi(cs)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("slot: bad paytable count %q for %q", cs, code)
			}
			row[n] = mult
		}
		cfg.Paytable[id] = row
	}

	for purpose, cols := range in.Strips {
		set, err := cfg.resolveStrips(purpose, cols)
		if err != nil {
			return nil, err
		}
		cfg.Strips[purpose] = set
	}

	if cfg.Profile != nil {
		if len(cfg.Profile.Values) != len(cfg.Profile.Weights) || len(cfg.Profile.Values) == 0 {
			return nil, fmt.Errorf("slot: multiplier profile values/weights mismatch")
		}
		for _, w := range cfg.Profile.Weights {
			cfg.Profile.total += w
		}
		if cfg.Profile.total <= 0 {
			return nil, fmt.Errorf("slot: multiplier profile weight sum <= 0")
		}
	}

	if cfg.MaxWinX <= 0 {
		return nil, fmt.Errorf("slot: max win multiplier must be positive")
	}

	return cfg, nil
}

func (cfg *GameConfig) resolveStrips(purpose string, cols [][]string) (StripSet, error) {
	if len(cols) != cfg.Cols {
		return nil, fmt.Errorf("slot: strip set %q has %d columns, want %d", purpose, len(cols), cfg.Cols)
	}
	wild, hasWild := cfg.Catalog.Wild()
	set := make(StripSet, len(cols))
	for c, strip := range cols {
		if len(strip) == 0 {
			return nil, fmt.Errorf("slot: strip set %q column %d is empty", purpose, c)
		}
		ids := make([]int, len(strip))
		for i, code := range strip {
			id, ok := cfg.Catalog.WireID(code)
			if !ok {
				return nil, fmt.Errorf("slot: strip set %q references unknown symbol %q", purpose, code)
			}
			// wild只允许出现在2~4轴（0基下标1..3），硬性结构约束
			if hasWild && id == wild && !wildAllowedReel(c) {
				return nil, fmt.Errorf("slot: strip set %q places wild on reel %d", purpose, c)
			}
			ids[i] = id
		}
		set[c] = ids
	}
	return set, nil
}

// StripSet 取某用途的滚轴带；缺失视为致命配置错误
func (cfg *GameConfig) StripSet(purpose string) (StripSet, error) {
	set, ok := cfg.Strips[purpose]
	if !ok {
		return nil, fmt.Errorf("slot: strip set %q not configured for game %d", purpose, cfg.GameID)
	}
	return set, nil
}

// PickMultiplier 赔付表查询：取 <= matchCount 的最大已配置连线数对应的倍率
func (cfg *GameConfig) PickMultiplier(symbol, matchCount int) (int64, bool) {
	row, ok := cfg.Paytable[symbol]
	if !ok {
		return 0, false
	}
	best, found := 0, false
	var mult int64
	for n, m := range row {
		if n <= matchCount && n > best {
			best, mult, found = n, m, true
		}
	}
	return mult, found
}
