// RTP离线模拟器：本地RNG跑大批量回合（基础旋转+链式respin），
// 统计RTP、中奖率、特性触发率。
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"

	"reelspin/internal/biz/money"
	"reelspin/internal/biz/rng"
	"reelspin/internal/biz/slot"
	"reelspin/pkg/xgo"
)

type stats struct {
	rounds      int64 // 完整回合数（基础旋转+其链上所有respin）
	spins       int64
	hits        int64 // 有赢分的旋转
	triggers    int64
	capped      int64
	betCents    int64
	winCents    int64
	maxWinCents int64
}

func main() {
	cfgPath := flag.String("config", "configs/games/70001.json", "game math config file")
	rounds := flag.Int("rounds", 1_000_000, "base rounds to simulate")
	workers := flag.Int("workers", 8, "worker pool size")
	bet := flag.String("bet", "1.00", "total bet per base spin")
	purpose := flag.String("strips", slot.StripPurposeLow, "strip purpose: high/low/buy")
	flag.Parse()

	raw, err := os.ReadFile(*cfgPath)
	if err != nil {
		fmt.Printf("read config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := slot.ParseGameConfig(raw)
	if err != nil {
		fmt.Printf("parse config: %v\n", err)
		os.Exit(1)
	}
	betAmt, err := money.FromString(*bet)
	if err != nil || !betAmt.IsPositive() {
		fmt.Printf("bad bet %q\n", *bet)
		os.Exit(1)
	}
	strips, err := cfg.StripSet(*purpose)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	local := rng.NewLocal()
	var st stats
	started := time.Now()

	var wg sync.WaitGroup
	pool, err := ants.NewPool(*workers)
	if err != nil {
		fmt.Printf("worker pool: %v\n", err)
		os.Exit(1)
	}
	defer pool.Release()

	batch := *rounds / *workers
	if batch == 0 {
		batch = 1
	}
	submitted := 0
	for submitted < *rounds {
		n := batch
		if submitted+n > *rounds {
			n = *rounds - submitted
		}
		submitted += n
		wg.Add(1)
		if err = pool.Submit(func() {
			defer wg.Done()
			defer xgo.RecoverFromError(nil)
			runBatch(cfg, strips, local, betAmt, n, &st)
		}); err != nil {
			wg.Done()
			fmt.Printf("submit: %v\n", err)
			os.Exit(1)
		}
	}
	wg.Wait()

	report(&st, time.Since(started))
}

// runBatch 跑n个完整回合。respin不另计注，链内沿用原注。
func runBatch(cfg *slot.GameConfig, strips slot.StripSet, local *rng.Local, bet money.Money, n int, st *stats) {
	capAmt, err := money.FromBet(bet, cfg.MaxWinX)
	if err != nil {
		return
	}
	for i := 0; i < n; i++ {
		atomic.AddInt64(&st.rounds, 1)
		atomic.AddInt64(&st.betCents, cents(bet))

		var state *slot.SessionState
		for {
			mode, carry, _ := slot.ResolveMode(state, false)

			var locked slot.ReelMask
			if mode == slot.ModeRespin {
				locked = carry.LockedReels
			}
			board, berr := slot.BuildBoard(strips, cfg.Catalog, cfg.Rows, nil, nil, local, locked)
			if berr != nil {
				return
			}
			detected := slot.DetectWildReels(board, cfg.Catalog)
			newly := detected &^ locked
			if slot.ExpandWildReels(board, cfg.Catalog, detected|locked) != nil {
				return
			}

			win, _, eerr := slot.EvaluateLines(board, cfg, bet)
			if eerr != nil {
				return
			}
			if win.GreaterThan(capAmt) {
				win = capAmt
				atomic.AddInt64(&st.capped, 1)
			}

			atomic.AddInt64(&st.spins, 1)
			if win.IsPositive() {
				atomic.AddInt64(&st.hits, 1)
			}
			wc := cents(win)
			atomic.AddInt64(&st.winCents, wc)
			for {
				cur := atomic.LoadInt64(&st.maxWinCents)
				if wc <= cur || atomic.CompareAndSwapInt64(&st.maxWinCents, cur, wc) {
					break
				}
			}

			var next *slot.RespinState
			switch mode {
			case slot.ModeRespin:
				ns := slot.AdvanceRespin(*carry, newly)
				next = &ns
			default:
				if next = slot.TriggerRespin(detected, bet); next != nil {
					atomic.AddInt64(&st.triggers, 1)
				}
			}
			state = &slot.SessionState{Respin: next}
			if next == nil || next.RespinsRemaining == 0 {
				break
			}
		}
	}
}

func cents(m money.Money) int64 {
	return m.Decimal().Mul(decimal.NewFromInt(100)).IntPart()
}

func report(st *stats, elapsed time.Duration) {
	totalBet := decimal.NewFromInt(st.betCents).Div(decimal.NewFromInt(100))
	totalWin := decimal.NewFromInt(st.winCents).Div(decimal.NewFromInt(100))
	rtp := decimal.Zero
	if totalBet.IsPositive() {
		rtp = totalWin.Div(totalBet).Mul(decimal.NewFromInt(100))
	}
	fmt.Printf("rounds=%d spins=%d elapsed=%s\n", st.rounds, st.spins, elapsed)
	fmt.Printf("bet=%s win=%s rtp=%s%%\n", totalBet.StringFixed(2), totalWin.StringFixed(2), rtp.StringFixed(4))
	fmt.Printf("hitRate=%.4f triggerRate=%.6f capped=%d maxWin=%s\n",
		float64(st.hits)/float64(max64(st.spins, 1)),
		float64(st.triggers)/float64(max64(st.rounds, 1)),
		st.capped,
		decimal.NewFromInt(st.maxWinCents).Div(decimal.NewFromInt(100)).StringFixed(2))
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
