package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	jsoniter "github.com/json-iterator/go"
)

// 银行家舍入：半数进位到最近偶数
func TestNewRoundsHalfToEven(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.005", "1.00"},
		{"1.015", "1.02"},
		{"1.025", "1.02"},
		{"1.035", "1.04"},
		{"2.675", "2.68"},
		{"-1.005", "-1.00"},
		{"-1.015", "-1.02"},
		{"0.1", "0.10"},
		{"10", "10.00"},
	}
	for _, c := range cases {
		m, err := FromString(c.in)
		if err != nil {
			t.Fatalf("FromString(%q): %v", c.in, err)
		}
		if got := m.String(); got != c.want {
			t.Errorf("FromString(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestPrecisionBound(t *testing.T) {
	// 整数部分18位是上限
	ok := strings.Repeat("9", 18) + ".99"
	if _, err := FromString(ok); err != nil {
		t.Fatalf("18-digit amount rejected: %v", err)
	}
	over := "1" + strings.Repeat("0", 18)
	if _, err := FromString(over); err == nil {
		t.Fatalf("19-digit amount accepted")
	}

	// 运算结果同样受限
	big, _ := FromString(ok)
	if _, err := big.Add(FromInt64(1)); err == nil {
		t.Fatalf("overflowing Add accepted")
	}
}

func TestFromBet(t *testing.T) {
	bet, _ := FromString("10.00")
	got, err := FromBet(bet, 25)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "250.00" {
		t.Fatalf("FromBet(10.00, 25) = %s", got)
	}
	zero, err := FromBet(bet, 0)
	if err != nil || !zero.IsZero() {
		t.Fatalf("FromBet(10.00, 0) = %s, %v", zero, err)
	}
}

func TestFromProductRounds(t *testing.T) {
	// 0.333... * 3 按2位舍入
	a := decimal.NewFromInt(1).Div(decimal.NewFromInt(3))
	got, err := FromProduct(a, decimal.NewFromInt(2))
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "0.67" {
		t.Fatalf("FromProduct = %s, want 0.67", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	m, _ := FromString("123.45")
	b, err := jsoniter.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "123.45" {
		t.Fatalf("marshal = %s, want plain number", b)
	}
	var back Money
	if err = jsoniter.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(m) {
		t.Fatalf("round trip %s != %s", back, m)
	}
}

func TestComparisons(t *testing.T) {
	a, _ := FromString("1.00")
	b, _ := FromString("2.00")
	if !b.GreaterThan(a) || a.GreaterThan(b) {
		t.Fatal("GreaterThan broken")
	}
	if !Zero.IsZero() || Zero.IsPositive() {
		t.Fatal("Zero broken")
	}
	sub, err := a.Sub(b)
	if err != nil {
		t.Fatal(err)
	}
	if sub.String() != "-1.00" {
		t.Fatalf("Sub = %s", sub)
	}
}
