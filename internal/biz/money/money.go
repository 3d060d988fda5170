// Package money implements the fixed-point amount type used for every bet and
// payout: decimal(20,2), round-half-to-even.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale 金额精度（2位小数）
const Scale = 2

// 总精度20位：整数部分最多18位
const maxIntDigits = 18

// intLimit = 10^18，舍入后整数部分必须小于该值
var intLimit = decimal.New(1, maxIntDigits)

var ErrPrecision = fmt.Errorf("money: value exceeds decimal(20,%d)", Scale)

// Money 定点金额，恒定2位小数，银行家舍入
type Money struct {
	d decimal.Decimal
}

var Zero = Money{d: decimal.Zero}

// New 构造金额：先按2位小数银行家舍入，再校验总精度
func New(d decimal.Decimal) (Money, error) {
	r := d.RoundBank(Scale)
	if r.Abs().GreaterThanOrEqual(intLimit) {
		return Zero, ErrPrecision
	}
	return Money{d: r}, nil
}

// MustNew 构造金额，精度越界时panic（仅用于常量和测试数据）
func MustNew(d decimal.Decimal) Money {
	m, err := New(d)
	if err != nil {
		panic(err)
	}
	return m
}

func FromInt64(v int64) Money {
	return Money{d: decimal.NewFromInt(v)}
}

func FromFloat(v float64) (Money, error) {
	return New(decimal.NewFromFloat(v))
}

func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, err
	}
	return New(d)
}

// FromBet 投注额×倍数，结果按2位小数银行家舍入
func FromBet(bet Money, multiplier int64) (Money, error) {
	return New(bet.d.Mul(decimal.NewFromInt(multiplier)))
}

// FromProduct 任意十进制乘积落地为金额（中间量不舍入，结果舍入）
func FromProduct(a, b decimal.Decimal) (Money, error) {
	return New(a.Mul(b))
}

// Decimal 返回底层十进制值（已是2位小数）
func (m Money) Decimal() decimal.Decimal { return m.d }

func (m Money) Add(o Money) (Money, error) { return New(m.d.Add(o.d)) }
func (m Money) Sub(o Money) (Money, error) { return New(m.d.Sub(o.d)) }

func (m Money) Cmp(o Money) int          { return m.d.Cmp(o.d) }
func (m Money) GreaterThan(o Money) bool { return m.d.GreaterThan(o.d) }
func (m Money) LessThan(o Money) bool    { return m.d.LessThan(o.d) }
func (m Money) IsZero() bool             { return m.d.IsZero() }
func (m Money) IsPositive() bool         { return m.d.IsPositive() }
func (m Money) Equal(o Money) bool       { return m.d.Equal(o.d) }
func (m Money) String() string           { return m.d.StringFixed(Scale) }
func (m Money) InexactFloat64() float64  { f, _ := m.d.Float64(); return f }

// MarshalJSON 线上传输为纯数字，最多2位小数
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.StringFixed(Scale)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return err
	}
	v, err := New(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
