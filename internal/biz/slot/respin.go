package slot

import (
	"fmt"

	"reelspin/internal/biz/money"
)

// wild可出现的轴范围：2~4轴（0基1..3）。1轴和5轴永不带wild，
// 这是结构性硬约束，不是配置项。
const (
	wildReelMin = 1
	wildReelMax = 3
)

// 锁轴与respin上限
const (
	MaxLockedReels = 3
	MaxRespins     = 3
)

func wildAllowedReel(c int) bool { return c >= wildReelMin && c <= wildReelMax }

// ReelMask 锁轴集合，{1,2,3}上的位掩码。域有界，避免切片分配和别名问题。
type ReelMask uint8

func (m ReelMask) Has(reel int) bool { return m&(1<<uint(reel)) != 0 }

func (m *ReelMask) Add(reel int) { *m |= 1 << uint(reel) }

func (m ReelMask) Count() int {
	n := 0
	for c := wildReelMin; c <= wildReelMax; c++ {
		if m.Has(c) {
			n++
		}
	}
	return n
}

// Reels 升序展开为轴下标列表
func (m ReelMask) Reels() []int {
	out := make([]int, 0, MaxLockedReels)
	for c := wildReelMin; c <= wildReelMax; c++ {
		if m.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// MaskOf 由轴下标列表构造掩码（仅接受1..3）
func MaskOf(reels ...int) (ReelMask, error) {
	var m ReelMask
	for _, c := range reels {
		if !wildAllowedReel(c) {
			return 0, fmt.Errorf("slot: reel %d cannot carry wilds", c)
		}
		m.Add(c)
	}
	return m, nil
}

// SpinMode 本次请求的旋转类型
type SpinMode int8

const (
	ModeBase SpinMode = iota
	ModeRespin
)

func (m SpinMode) String() string {
	if m == ModeRespin {
		return "respin"
	}
	return "base"
}

// RespinState respin特性状态，跨请求携带
type RespinState struct {
	RespinsRemaining int         `json:"respinsRemaining"`
	LockedReels      ReelMask    `json:"lockedReels"`
	TotalAwarded     int         `json:"totalAwarded"`
	JustTriggered    bool        `json:"justTriggered"`
	Bet              money.Money `json:"bet"` // 触发时的总注，respin按原注结算
}

// SessionState 引擎会话状态。请求入口整体克隆，响应整体替换，
// 绝不跨请求按引用修改。
type SessionState struct {
	Respin *RespinState `json:"respin,omitempty"`
}

// Clone 深拷贝会话状态
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return &SessionState{}
	}
	ns := &SessionState{}
	if s.Respin != nil {
		cp := *s.Respin
		ns.Respin = &cp
	}
	return ns
}

// ResolveMode 每个请求只做一次的显式状态判定：返回本次旋转类型和
// 延续的respin状态（base模式恒为nil）。
//
//   - 无状态 / respin已耗尽（Closing已回传过一次）→ base，清空
//   - respin未耗尽且非买入请求 → respin，延续
//   - 买入请求遇到未耗尽的respin状态 → 视为过期脏状态，清空并走base，
//     绝不让base旋转悄悄续上respin
func ResolveMode(in *SessionState, buyEntry bool) (SpinMode, *RespinState, bool) {
	if in == nil || in.Respin == nil {
		return ModeBase, nil, false
	}
	rs := in.Respin
	if rs.RespinsRemaining <= 0 {
		// 特性已收尾，本次base旋转将其清除
		return ModeBase, nil, false
	}
	if buyEntry {
		return ModeBase, nil, true // stale
	}
	cp := *rs
	return ModeRespin, &cp, false
}

// DetectWildReels 检测盘面上带wild的轴（仅允许轴范围内），在扩散前调用
func DetectWildReels(b *Board, catalog *Catalog) ReelMask {
	var m ReelMask
	wild, ok := catalog.Wild()
	if !ok {
		return 0
	}
	for c := wildReelMin; c <= wildReelMax && c < b.Cols; c++ {
		for r := 0; r < b.Rows; r++ {
			if b.At(c, r).ID == wild {
				m.Add(c)
				break
			}
		}
	}
	return m
}

// ExpandWildReels 将掩码内的轴整列扩为wild（赢分判定前执行，保证扩散wild参与替代）
func ExpandWildReels(b *Board, catalog *Catalog, m ReelMask) error {
	if m == 0 {
		return nil
	}
	wild, ok := catalog.Wild()
	if !ok {
		return fmt.Errorf("slot: wild expansion requested but wild symbol undefined")
	}
	for _, c := range m.Reels() {
		for r := 0; r < b.Rows; r++ {
			cell := b.At(c, r)
			cell.ID = wild
			b.Set(c, r, cell)
		}
	}
	return nil
}

// TriggerRespin base旋转检出wild轴后的状态生成：每个wild轴给一次respin，
// 轴数与次数都封顶3。触发旋转本身按base结算，赠送从下一请求开始消耗。
func TriggerRespin(detected ReelMask, bet money.Money) *RespinState {
	n := detected.Count()
	if n == 0 {
		return nil
	}
	if n > MaxRespins {
		n = MaxRespins
	}
	return &RespinState{
		RespinsRemaining: n,
		LockedReels:      detected,
		TotalAwarded:     n,
		JustTriggered:    true,
		Bet:              bet,
	}
}

// AdvanceRespin respin结算后的状态推进：
//   - 新检出的未锁轴加入锁轴集合（封顶3），每加一轴追加一次respin
//   - 次数封顶3，之后减1（不低于0）
//
// 返回推进后的新状态值（不修改入参）。
func AdvanceRespin(cur RespinState, newly ReelMask) RespinState {
	next := cur
	for _, c := range newly.Reels() {
		if next.LockedReels.Has(c) || next.LockedReels.Count() >= MaxLockedReels {
			continue
		}
		next.LockedReels.Add(c)
		next.TotalAwarded++
		if next.RespinsRemaining < MaxRespins {
			next.RespinsRemaining++
		}
	}
	next.RespinsRemaining--
	if next.RespinsRemaining < 0 {
		next.RespinsRemaining = 0
	}
	next.JustTriggered = false
	return next
}
