// Package rng defines the jurisdiction RNG contract and the local
// crypto-seeded fallback source.
package rng

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	mathRand "math/rand"
	"sync"
)

// 命名随机池
const (
	PoolReelStarts      = "reel-starts"
	PoolMultiplierSeeds = "multiplier-seeds"
)

// Pool 单个命名随机池请求
type Pool struct {
	Name  string
	Count int
	Meta  map[string]string
}

// Request 一次RNG取数请求，gameId/roundId用于监管审计链路
type Request struct {
	GameID  int64
	RoundID string
	Pools   []Pool
}

// Result 取数结果。种子严格按池内顺序消耗（第一轴先用第一个）。
type Result struct {
	TxID  string
	Pools map[string][]int64
}

// Source 外部RNG服务。外部源是首选，失败时编排层切换到本地兜底源，
// 不重试、不向调用方透出错误。
type Source interface {
	Draw(ctx context.Context, req Request) (*Result, error)
}

// Local 本地兜底源：crypto/rand播种的PRNG池（与外部源同规格取数）
type Local struct {
	pool *sync.Pool
}

func NewLocal() *Local {
	return &Local{
		pool: &sync.Pool{
			New: func() any {
				var seed int64
				_ = binary.Read(rand.Reader, binary.LittleEndian, &seed)
				return mathRand.New(mathRand.NewSource(seed))
			},
		},
	}
}

// IntN 均匀取[0,n)
func (l *Local) IntN(n int) int {
	r := l.pool.Get().(*mathRand.Rand)
	defer l.pool.Put(r)
	return r.Intn(n)
}

// Int63 非负随机数（池种子规格）
func (l *Local) Int63() int64 {
	r := l.pool.Get().(*mathRand.Rand)
	defer l.pool.Put(r)
	return r.Int63()
}

// Draw 按请求的池规格本地取数
func (l *Local) Draw(_ context.Context, req Request) (*Result, error) {
	out := &Result{Pools: make(map[string][]int64, len(req.Pools))}
	for _, p := range req.Pools {
		vals := make([]int64, p.Count)
		for i := range vals {
			vals[i] = l.Int63()
		}
		out.Pools[p.Name] = vals
	}
	return out, nil
}
