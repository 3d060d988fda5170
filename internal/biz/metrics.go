package biz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const labelMode, labelSource = "mode", "source"

// 引擎运行指标
var (
	mSpinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelspin_spins_total", Help: "已结算旋转数",
	}, []string{labelMode})
	mRngDraws = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelspin_rng_draws_total", Help: "RNG取数次数（按来源）",
	}, []string{labelSource})
	mRngFallback = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelspin_rng_fallback_total", Help: "外部RNG失败后走本地兜底的次数",
	})
	mRespinTriggered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelspin_respin_triggered_total", Help: "respin特性触发次数",
	})
	mWinCapped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelspin_win_capped_total", Help: "触达最大赢分上限的旋转数",
	})
	mSpinDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reelspin_spin_duration_seconds",
		Help:    "单次旋转结算耗时",
		Buckets: prometheus.DefBuckets,
	})
)
