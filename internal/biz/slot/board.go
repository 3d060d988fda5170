package slot

import "fmt"

// Cell 盘面符号实例
type Cell struct {
	ID         int   // 符号线上ID（目录位置）
	Multiplier int64 // 倍数符号的倍数值，非倍数符号为0
}

// Board 盘面：Cols×Rows 符号实例网格
type Board struct {
	Cols  int
	Rows  int
	cells []Cell // 列优先存储 cells[c*Rows+r]
}

func NewBoard(cols, rows int) *Board {
	return &Board{Cols: cols, Rows: rows, cells: make([]Cell, cols*rows)}
}

func (b *Board) At(col, row int) Cell     { return b.cells[col*b.Rows+row] }
func (b *Board) Set(col, row int, c Cell) { b.cells[col*b.Rows+row] = c }

// FlatIndex 行优先一维下标（对外线协议使用）
func (b *Board) FlatIndex(col, row int) int { return row*b.Cols + col }

// FlatIDs 行优先导出整个盘面的线上符号ID
func (b *Board) FlatIDs() []int {
	out := make([]int, b.Cols*b.Rows)
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			out[r*b.Cols+c] = b.At(c, r).ID
		}
	}
	return out
}

// Clone 深拷贝盘面
func (b *Board) Clone() *Board {
	nb := NewBoard(b.Cols, b.Rows)
	copy(nb.cells, b.cells)
	return nb
}

// Rand 兜底随机源（本地CSPRNG种子）
type Rand interface {
	IntN(n int) int
}

// MultiplierFn 为新生成的符号实例赋倍数值；非倍数符号必须返回0
type MultiplierFn func(def SymbolDef) int64

// BuildBoard 由滚轴带+种子生成盘面。
//
//   - 锁定列不消耗滚轴带和种子，整列直接填wild（respin保留锁轴行为）
//   - 其余列 start = |seed| mod 带长，取rows个连续符号环绕读取
//   - 某列无种子时改用兜底随机源抽起点（种子源允许部分缺失）
func BuildBoard(set StripSet, catalog *Catalog, rows int, mfn MultiplierFn, seeds []int64, fallback Rand, locked ReelMask) (*Board, error) {
	cols := len(set)
	if cols == 0 {
		return nil, fmt.Errorf("slot: empty strip set")
	}
	if mfn == nil {
		mfn = func(SymbolDef) int64 { return 0 }
	}
	board := NewBoard(cols, rows)

	wild, hasWild := catalog.Wild()
	for c := 0; c < cols; c++ {
		if locked.Has(c) {
			if !hasWild {
				return nil, fmt.Errorf("slot: locked reel %d but no wild symbol defined", c)
			}
			def, _ := catalog.Def(wild)
			for r := 0; r < rows; r++ {
				board.Set(c, r, Cell{ID: wild, Multiplier: mfn(def)})
			}
			continue
		}

		strip := set[c]
		n := len(strip)
		if n == 0 {
			return nil, fmt.Errorf("slot: empty strip for reel %d", c)
		}

		var start int
		if c < len(seeds) {
			s := seeds[c] % int64(n)
			if s < 0 {
				s = -s
			}
			start = int(s)
		} else {
			start = fallback.IntN(n)
		}

		for r := 0; r < rows; r++ {
			id := strip[(start+r)%n]
			def, ok := catalog.Def(id)
			if !ok {
				return nil, fmt.Errorf("slot: strip symbol %d not in catalog", id)
			}
			board.Set(c, r, Cell{ID: id, Multiplier: mfn(def)})
		}
	}
	return board, nil
}
