package slot

import (
	"fmt"

	"github.com/shopspring/decimal"

	"reelspin/internal/biz/money"
)

// LineCount 固定10条中奖线
const LineCount = 10

// 最少连线数
const minMatchCount = 3

// paylines 10条固定中奖线（每轴取的行号，0=顶行）
var paylines = [LineCount][5]int{
	{1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0},
	{2, 2, 2, 2, 2},
	{0, 1, 2, 1, 0},
	{2, 1, 0, 1, 2},
	{0, 0, 1, 0, 0},
	{2, 2, 1, 2, 2},
	{1, 2, 2, 2, 1},
	{1, 0, 0, 0, 1},
	{1, 0, 1, 0, 1},
}

// LineWin 单线中奖结果，每次判定新建，从不持久化
type LineWin struct {
	Line       int         `json:"line"`       // 线号（0基）
	Symbol     int         `json:"symbol"`     // 基准符号线上ID
	Count      int         `json:"count"`      // 连线数
	Multiplier int64       `json:"multiplier"` // 选中的赔付倍率
	Payout     money.Money `json:"payout"`
	Cells      []int       `json:"cells"` // 参与格子的一维下标（行优先）
}

// lineHit 单方向扫描结果（内部计算用）
type lineHit struct {
	symbol int
	count  int
	mult   int64
	payout money.Money
	ltr    bool
}

// EvaluateLines 沿10条固定线双向扫描盘面，产出赢分。
//
// betPerLine = 总注/10，商本身不舍入，只有最终派彩舍入到2位小数。
// 每条线只保留两个方向中较优的一个，绝不累加两个方向。
// 线与线彼此独立，同一格子可重复参与多条线。
func EvaluateLines(b *Board, cfg *GameConfig, totalBet money.Money) (money.Money, []LineWin, error) {
	if b.Cols != len(paylines[0]) {
		return money.Zero, nil, fmt.Errorf("slot: line evaluation expects %d reels, board has %d", len(paylines[0]), b.Cols)
	}
	betPerLine := totalBet.Decimal().Div(decimal.NewFromInt(LineCount))

	total := money.Zero
	var wins []LineWin
	for li, pattern := range paylines {
		symbols := make([]int, b.Cols)
		for c := 0; c < b.Cols; c++ {
			symbols[c] = b.At(c, pattern[c]).ID
		}

		ltr, okL, err := scanDirection(symbols, cfg, betPerLine, true)
		if err != nil {
			return money.Zero, nil, err
		}
		rtl, okR, err := scanDirection(symbols, cfg, betPerLine, false)
		if err != nil {
			return money.Zero, nil, err
		}

		best, ok := pickBetter(ltr, okL, rtl, okR)
		if !ok {
			continue
		}

		cells := make([]int, best.count)
		for i := 0; i < best.count; i++ {
			c := i
			if !best.ltr {
				c = b.Cols - 1 - i
			}
			cells[i] = b.FlatIndex(c, pattern[c])
		}

		wins = append(wins, LineWin{
			Line:       li,
			Symbol:     best.symbol,
			Count:      best.count,
			Multiplier: best.mult,
			Payout:     best.payout,
			Cells:      cells,
		})
		if total, err = total.Add(best.payout); err != nil {
			return money.Zero, nil, err
		}
	}
	return total, wins, nil
}

// scanDirection 单方向扫描：基准符号为扫描起点方向第一个非wild符号
// （全wild无中奖），自起点连续统计等于基准或为wild的符号，首个不匹配即断。
func scanDirection(symbols []int, cfg *GameConfig, betPerLine decimal.Decimal, ltr bool) (lineHit, bool, error) {
	n := len(symbols)
	at := func(i int) int {
		if ltr {
			return symbols[i]
		}
		return symbols[n-1-i]
	}

	base := -1
	for i := 0; i < n; i++ {
		if !cfg.Catalog.IsWild(at(i)) {
			base = at(i)
			break
		}
	}
	if base < 0 {
		// 全wild：没有可赔付的基准符号
		return lineHit{}, false, nil
	}

	count := 0
	for i := 0; i < n; i++ {
		s := at(i)
		if s == base || cfg.Catalog.IsWild(s) {
			count++
			continue
		}
		break
	}
	if count < minMatchCount {
		return lineHit{}, false, nil
	}

	mult, ok := cfg.PickMultiplier(base, count)
	if !ok {
		return lineHit{}, false, nil
	}
	payout, err := money.FromProduct(betPerLine, decimal.NewFromInt(mult))
	if err != nil {
		return lineHit{}, false, fmt.Errorf("slot: line payout: %w", err)
	}
	return lineHit{symbol: base, count: count, mult: mult, payout: payout, ltr: ltr}, true, nil
}

// pickBetter 双向择优：先比连线数，再比派彩；无中奖的一方直接落败
func pickBetter(l lineHit, okL bool, r lineHit, okR bool) (lineHit, bool) {
	switch {
	case !okL && !okR:
		return lineHit{}, false
	case okL && !okR:
		return l, true
	case okR && !okL:
		return r, true
	case l.count != r.count:
		if l.count > r.count {
			return l, true
		}
		return r, true
	case l.payout.Cmp(r.payout) >= 0:
		return l, true
	default:
		return r, true
	}
}
