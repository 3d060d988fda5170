package slot

import (
	"reflect"
	"testing"
)

// 固定值兜底随机源
type fixedRand struct{ v int }

func (f fixedRand) IntN(n int) int { return f.v % n }

func noMult(SymbolDef) int64 { return 0 }

func TestBuildBoardFromSeeds(t *testing.T) {
	cfg := testConfig(t)
	strips, _ := cfg.StripSet("low")

	// 每列 start = |seed| mod 带长，环绕读取3行
	seeds := []int64{0, 1, 7, -2, 100}
	b, err := BuildBoard(strips, cfg.Catalog, cfg.Rows, noMult, seeds, fixedRand{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	for c := 0; c < b.Cols; c++ {
		n := len(strips[c])
		s := seeds[c] % int64(n)
		if s < 0 {
			s = -s
		}
		for r := 0; r < b.Rows; r++ {
			want := strips[c][(int(s)+r)%n]
			if got := b.At(c, r).ID; got != want {
				t.Fatalf("cell (%d,%d) = %d, want %d", c, r, got, want)
			}
		}
	}
}

// 同种子必得到字节一致的盘面
func TestBuildBoardDeterministic(t *testing.T) {
	cfg := testConfig(t)
	strips, _ := cfg.StripSet("low")
	seeds := []int64{3, 14, 15, 92, 65}

	a, err := BuildBoard(strips, cfg.Catalog, cfg.Rows, noMult, seeds, fixedRand{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildBoard(strips, cfg.Catalog, cfg.Rows, noMult, seeds, fixedRand{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.FlatIDs(), b.FlatIDs()) {
		t.Fatal("same seeds produced different boards")
	}
}

func TestBuildBoardSeedShortfall(t *testing.T) {
	cfg := testConfig(t)
	strips, _ := cfg.StripSet("low")

	// 只给2个种子，其余列走兜底源
	b, err := BuildBoard(strips, cfg.Catalog, cfg.Rows, noMult, []int64{0, 0}, fixedRand{v: 4}, 0)
	if err != nil {
		t.Fatal(err)
	}
	for c := 2; c < b.Cols; c++ {
		n := len(strips[c])
		for r := 0; r < b.Rows; r++ {
			want := strips[c][(4+r)%n]
			if got := b.At(c, r).ID; got != want {
				t.Fatalf("fallback cell (%d,%d) = %d, want %d", c, r, got, want)
			}
		}
	}
}

func TestBuildBoardLockedReels(t *testing.T) {
	cfg := testConfig(t)
	strips, _ := cfg.StripSet("low")
	wild, _ := cfg.Catalog.Wild()

	locked, _ := MaskOf(1, 3)
	seeds := []int64{0, 0, 0, 0, 0}
	b, err := BuildBoard(strips, cfg.Catalog, cfg.Rows, noMult, seeds, fixedRand{}, locked)
	if err != nil {
		t.Fatal(err)
	}
	// 锁定列整列wild，不消耗滚轴带
	for _, c := range []int{1, 3} {
		for r := 0; r < b.Rows; r++ {
			if b.At(c, r).ID != wild {
				t.Fatalf("locked reel %d row %d not wild", c, r)
			}
		}
	}
	// 未锁列正常按种子铺带
	if b.At(0, 0).ID != strips[0][0] {
		t.Fatal("unlocked reel not built from strip")
	}
}

func TestBoardFlatIDsRowMajor(t *testing.T) {
	b := NewBoard(2, 2)
	b.Set(0, 0, Cell{ID: 1})
	b.Set(1, 0, Cell{ID: 2})
	b.Set(0, 1, Cell{ID: 3})
	b.Set(1, 1, Cell{ID: 4})
	want := []int{1, 2, 3, 4}
	if got := b.FlatIDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("FlatIDs = %v, want %v", got, want)
	}
	if b.FlatIndex(1, 1) != 3 {
		t.Fatalf("FlatIndex(1,1) = %d", b.FlatIndex(1, 1))
	}
}
