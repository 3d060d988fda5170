package biz

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/google/wire"

	"reelspin/internal/biz/money"
	"reelspin/internal/biz/rng"
	"reelspin/internal/biz/slot"
	"reelspin/pkg/xgo"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(NewSpinUsecase, rng.NewLocal)

// 派生玩法连消判定的硬性步数上限（当前规则集每次旋转只判定一次）
const maxEvalSteps = 16

var (
	ErrGameIDRequired = errors.BadRequest("GAME_ID_REQUIRED", "game id is required")
	ErrBetRequired    = errors.BadRequest("BET_REQUIRED", "at least one bet entry is required")
	ErrBetNotPositive = errors.BadRequest("BET_NOT_POSITIVE", "effective bet must be positive")
	ErrInternal       = errors.InternalServer("INTERNAL", "internal error")
)

// BetEntry 单条投注项
type BetEntry struct {
	Amount money.Money
	Times  int64
}

// SpinRequest 引擎侧旋转请求
type SpinRequest struct {
	GameID   int64
	Token    string // 玩家/会话令牌
	Bets     []BetEntry
	BetMode  string
	BuyEntry bool // 特性买入旗标
	State    *slot.SessionState
}

// FeatureOutcome respin特性进行中或刚收尾时的结果描述
type FeatureOutcome struct {
	Type             string `json:"type"`
	RespinsRemaining int    `json:"respinsRemaining"`
	TotalAwarded     int    `json:"totalAwarded"`
	LockedReels      []int  `json:"lockedReels"`
	JustTriggered    bool   `json:"justTriggered"`
	Closed           bool   `json:"closed"`
}

// SpinResult 引擎侧旋转结果
type SpinResult struct {
	RoundID   string
	Mode      slot.SpinMode
	Bet       money.Money
	TotalWin  money.Money
	Wins      []slot.LineWin
	Grid      []int // 行优先的线上符号ID
	State     *slot.SessionState
	Feature   *FeatureOutcome
	RngSource string // external / fallback
}

// GameConfigRepo 配置协作方：按gameId返回已校验的不可变配置
type GameConfigRepo interface {
	Get(ctx context.Context, gameID int64) (*slot.GameConfig, error)
}

// SessionRepo 会话状态存取（整体读、整体替换）
type SessionRepo interface {
	Load(ctx context.Context, gameID int64, token string) (*slot.SessionState, error)
	Save(ctx context.Context, gameID int64, token string, st *slot.SessionState) error
}

// GameOrder 已结算旋转的注单记录
type GameOrder struct {
	ID        int64     `xorm:"pk autoincr 'id'" json:"id"`
	OrderSN   string    `xorm:"varchar(64) 'order_sn'" json:"orderSn"`
	GameID    int64     `xorm:"'game_id'" json:"gameId"`
	Token     string    `xorm:"varchar(128) 'token'" json:"token"`
	RoundID   string    `xorm:"varchar(64) 'round_id'" json:"roundId"`
	SpinType  string    `xorm:"varchar(16) 'spin_type'" json:"spinType"`
	Bet       string    `xorm:"decimal(20,2) 'bet'" json:"bet"`
	Win       string    `xorm:"decimal(20,2) 'win'" json:"win"`
	RngSource string    `xorm:"varchar(16) 'rng_source'" json:"rngSource"`
	Grid      string    `xorm:"text 'grid'" json:"grid"`
	CreatedAt time.Time `xorm:"created 'created_at'" json:"createdAt"`
}

func (GameOrder) TableName() string { return "game_order" }

// OrderRepo 注单落库
type OrderRepo interface {
	Insert(ctx context.Context, o *GameOrder) error
}

// EventPublisher 结算/兜底事件发布
type EventPublisher interface {
	Publish(ctx context.Context, key string, v any) error
}

// 事件routing key
const (
	EventRoundSettled = "round.settled"
	EventRngFallback  = "rng.fallback"
)

// SpinUsecase 旋转编排：选带、取数、铺盘、扩wild、算线、封顶、推进状态
type SpinUsecase struct {
	configs  GameConfigRepo
	sessions SessionRepo
	orders   OrderRepo
	events   EventPublisher
	source   rng.Source // 外部RNG，首选
	local    *rng.Local // 本地兜底
	log      *log.Helper
}

func NewSpinUsecase(
	configs GameConfigRepo,
	sessions SessionRepo,
	orders OrderRepo,
	events EventPublisher,
	source rng.Source,
	local *rng.Local,
	logger log.Logger,
) *SpinUsecase {
	return &SpinUsecase{
		configs:  configs,
		sessions: sessions,
		orders:   orders,
		events:   events,
		source:   source,
		local:    local,
		log:      log.NewHelper(logger),
	}
}

// Spin 结算一次旋转。会话状态在入口克隆，只在成功路径整体写回，
// 失败请求不会留下半更新状态。
func (uc *SpinUsecase) Spin(ctx context.Context, req *SpinRequest) (*SpinResult, error) {
	started := time.Now()

	// 校验先于一切RNG/铺盘动作
	bet, err := uc.validate(req)
	if err != nil {
		return nil, err
	}

	cfg, err := uc.configs.Get(ctx, req.GameID)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("spin: load config game=%d: %v", req.GameID, err)
		return nil, errors.InternalServer("CONFIG_NOT_FOUND", "game configuration unavailable")
	}

	// 取会话状态并克隆
	in := req.State
	if in == nil {
		if in, err = uc.sessions.Load(ctx, req.GameID, req.Token); err != nil {
			uc.log.WithContext(ctx).Warnf("spin: load session: %v", err)
			in = nil // 损坏/缺失一律视为无状态
		}
	}
	state := in.Clone()

	mode, carry, stale := slot.ResolveMode(state, req.BuyEntry)
	if stale {
		uc.log.WithContext(ctx).Warnf("spin: stale respin state cleared game=%d token=%s", req.GameID, req.Token)
	}
	if mode == slot.ModeRespin {
		// respin按触发时的原注结算
		bet = carry.Bet
	}

	roundID := uuid.NewString()

	purpose, err := uc.pickStripPurpose(cfg, req, mode)
	if err != nil {
		return nil, err
	}
	strips, err := cfg.StripSet(purpose)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("spin: %v", err)
		return nil, errors.InternalServer("STRIP_SET_MISSING", "reel strip set unavailable")
	}

	seeds, multSeeds, source := uc.drawSeeds(ctx, cfg, roundID)

	var locked slot.ReelMask
	if mode == slot.ModeRespin {
		locked = carry.LockedReels
	}

	board, err := slot.BuildBoard(strips, cfg.Catalog, cfg.Rows, uc.multiplierFn(cfg, multSeeds), seeds, uc.local, locked)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("spin: build board: %v", err)
		return nil, errors.InternalServer("BOARD_BUILD_FAILED", "board construction failed")
	}

	// 扩散前检测wild轴；respin只把未锁轴算作新增
	detected := slot.DetectWildReels(board, cfg.Catalog)
	newly := detected &^ locked
	if err = slot.ExpandWildReels(board, cfg.Catalog, detected|locked); err != nil {
		uc.log.WithContext(ctx).Errorf("spin: expand wilds: %v", err)
		return nil, errors.InternalServer("WILD_UNDEFINED", "wild symbol undefined")
	}

	totalWin, wins, err := uc.evaluate(board, cfg, bet)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("spin: evaluate: %v", err)
		return nil, ErrInternal
	}

	// 最大赢分封顶
	capAmt, err := money.FromBet(bet, cfg.MaxWinX)
	if err != nil {
		return nil, ErrInternal
	}
	if totalWin.GreaterThan(capAmt) {
		totalWin = capAmt
		mWinCapped.Inc()
	}

	// 结算后推进respin状态
	var next *slot.RespinState
	switch mode {
	case slot.ModeRespin:
		ns := slot.AdvanceRespin(*carry, newly)
		next = &ns
	default:
		if next = slot.TriggerRespin(detected, bet); next != nil {
			mRespinTriggered.Inc()
		}
	}
	newState := &slot.SessionState{Respin: next}

	if err = uc.sessions.Save(ctx, req.GameID, req.Token, newState); err != nil {
		uc.log.WithContext(ctx).Errorf("spin: save session: %v", err)
		return nil, ErrInternal
	}

	result := &SpinResult{
		RoundID:   roundID,
		Mode:      mode,
		Bet:       bet,
		TotalWin:  totalWin,
		Wins:      wins,
		Grid:      board.FlatIDs(),
		State:     newState,
		Feature:   featureOutcome(next),
		RngSource: source,
	}

	uc.settle(ctx, req, result)

	mSpinsTotal.WithLabelValues(mode.String()).Inc()
	mSpinDuration.Observe(time.Since(started).Seconds())
	return result, nil
}

func (uc *SpinUsecase) validate(req *SpinRequest) (money.Money, error) {
	if req == nil || req.GameID == 0 {
		return money.Zero, ErrGameIDRequired
	}
	if len(req.Bets) == 0 {
		return money.Zero, ErrBetRequired
	}
	total := money.Zero
	for _, b := range req.Bets {
		times := b.Times
		if times == 0 {
			times = 1
		}
		line, err := money.FromBet(b.Amount, times)
		if err != nil {
			return money.Zero, ErrBetNotPositive
		}
		if total, err = total.Add(line); err != nil {
			return money.Zero, ErrBetNotPositive
		}
	}
	if !total.IsPositive() {
		return money.Zero, ErrBetNotPositive
	}
	return total, nil
}

// pickStripPurpose 选滚轴带：买入请求固定buy带，其余按档位权重在高低带之间加权抽取
func (uc *SpinUsecase) pickStripPurpose(cfg *slot.GameConfig, req *SpinRequest, mode slot.SpinMode) (string, error) {
	if req.BuyEntry && mode == slot.ModeBase {
		return slot.StripPurposeBuy, nil
	}
	weights, ok := cfg.BetModes[req.BetMode]
	if !ok {
		weights, ok = cfg.BetModes["default"]
	}
	if !ok {
		return "", errors.InternalServer("BET_MODE_UNKNOWN", "bet mode not configured")
	}
	total := weights.High + weights.Low
	if total <= 0 {
		return "", errors.InternalServer("BET_MODE_UNKNOWN", "bet mode weights invalid")
	}
	if int64(uc.local.IntN(int(total))) < weights.High {
		return slot.StripPurposeHigh, nil
	}
	return slot.StripPurposeLow, nil
}

// drawSeeds 向外部RNG按命名池取数，失败时本地兜底（同规格），
// 兜底路径通过指标/事件/日志留痕，不向调用方透出
func (uc *SpinUsecase) drawSeeds(ctx context.Context, cfg *slot.GameConfig, roundID string) (seeds, multSeeds []int64, source string) {
	pools := []rng.Pool{{Name: rng.PoolReelStarts, Count: cfg.Cols}}
	if cfg.Catalog.HasMultiplier() && cfg.Profile != nil {
		pools = append(pools, rng.Pool{Name: rng.PoolMultiplierSeeds, Count: cfg.Cols * cfg.Rows})
	}
	req := rng.Request{GameID: cfg.GameID, RoundID: roundID, Pools: pools}

	source = "external"
	res, err := uc.source.Draw(ctx, req)
	if err != nil {
		source = "fallback"
		mRngFallback.Inc()
		uc.log.WithContext(ctx).Warnf("spin: rng service failed, using local fallback round=%s: %v", roundID, err)
		if uc.events != nil {
			if perr := uc.events.Publish(ctx, EventRngFallback, map[string]any{
				"gameId":  cfg.GameID,
				"roundId": roundID,
				"error":   err.Error(),
			}); perr != nil {
				uc.log.WithContext(ctx).Warnf("spin: publish rng fallback event: %v", perr)
			}
		}
		res, _ = uc.local.Draw(ctx, req)
	}
	mRngDraws.WithLabelValues(source).Inc()
	return res.Pools[rng.PoolReelStarts], res.Pools[rng.PoolMultiplierSeeds], source
}

// multiplierFn 按格子顺序消耗倍数种子；非倍数符号恒为0。
// 当前参考配置没有倍数符号，此函数是通用契约要求的空转路径。
func (uc *SpinUsecase) multiplierFn(cfg *slot.GameConfig, seeds []int64) slot.MultiplierFn {
	idx := 0
	return func(def slot.SymbolDef) int64 {
		if def.Kind != slot.KindMultiplier || cfg.Profile == nil {
			return 0
		}
		var seed int64
		if idx < len(seeds) {
			seed = seeds[idx]
		} else {
			seed = uc.local.Int63()
		}
		idx++
		return cfg.Profile.Roll(seed)
	}
}

// evaluate 赢分判定。当前规则集单次判定，循环带硬性步数上限，
// 防派生连消规则集失控
func (uc *SpinUsecase) evaluate(board *slot.Board, cfg *slot.GameConfig, bet money.Money) (money.Money, []slot.LineWin, error) {
	total := money.Zero
	var wins []slot.LineWin
	for step := 0; ; step++ {
		if step >= maxEvalSteps {
			return money.Zero, nil, errors.InternalServer("EVAL_RUNAWAY", "evaluation step cap exceeded")
		}
		stepWin, stepWins, err := slot.EvaluateLines(board, cfg, bet)
		if err != nil {
			return money.Zero, nil, err
		}
		var aerr error
		if total, aerr = total.Add(stepWin); aerr != nil {
			return money.Zero, nil, aerr
		}
		wins = append(wins, stepWins...)
		break // 无连消：只判定一次
	}
	return total, wins, nil
}

// settle 结算留痕：注单落库+事件广播，失败只记日志，不影响本次结果
func (uc *SpinUsecase) settle(ctx context.Context, req *SpinRequest, res *SpinResult) {
	order := &GameOrder{
		OrderSN:   uuid.NewString(),
		GameID:    req.GameID,
		Token:     req.Token,
		RoundID:   res.RoundID,
		SpinType:  res.Mode.String(),
		Bet:       res.Bet.String(),
		Win:       res.TotalWin.String(),
		RngSource: res.RngSource,
		Grid:      xgo.ToJSON(res.Grid),
	}
	if uc.orders != nil {
		if err := uc.orders.Insert(ctx, order); err != nil {
			uc.log.WithContext(ctx).Errorf("spin: insert order round=%s: %v", res.RoundID, err)
		}
	}
	if uc.events != nil {
		if err := uc.events.Publish(ctx, EventRoundSettled, order); err != nil {
			uc.log.WithContext(ctx).Warnf("spin: publish settle event round=%s: %v", res.RoundID, err)
		}
	}
}

func featureOutcome(rs *slot.RespinState) *FeatureOutcome {
	if rs == nil {
		return nil
	}
	return &FeatureOutcome{
		Type:             "wild_respin",
		RespinsRemaining: rs.RespinsRemaining,
		TotalAwarded:     rs.TotalAwarded,
		LockedReels:      rs.LockedReels.Reels(),
		JustTriggered:    rs.JustTriggered,
		Closed:           rs.RespinsRemaining == 0,
	}
}
