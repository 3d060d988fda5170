// Package slot implements the deterministic spin-resolution core: reel board
// construction, payline evaluation and the expanding-wild respin state machine.
package slot

import "fmt"

// SymbolKind 符号类型（封闭枚举，新增类型必须显式处理）
type SymbolKind int8

const (
	KindLow SymbolKind = iota
	KindHigh
	KindWild
	KindScatter
	KindMultiplier
)

func (k SymbolKind) String() string {
	switch k {
	case KindLow:
		return "low"
	case KindHigh:
		return "high"
	case KindWild:
		return "wild"
	case KindScatter:
		return "scatter"
	case KindMultiplier:
		return "multiplier"
	default:
		return fmt.Sprintf("kind(%d)", int8(k))
	}
}

// ParseSymbolKind 解析配置文件里的符号类型
func ParseSymbolKind(s string) (SymbolKind, error) {
	switch s {
	case "low":
		return KindLow, nil
	case "high":
		return KindHigh, nil
	case "wild":
		return KindWild, nil
	case "scatter":
		return KindScatter, nil
	case "multiplier":
		return KindMultiplier, nil
	default:
		return 0, fmt.Errorf("slot: unknown symbol kind %q", s)
	}
}

// SymbolDef 符号定义
type SymbolDef struct {
	Code string
	Kind SymbolKind
}

// Catalog 符号目录。目录顺序即线上符号ID（首次使用后不可重排）。
type Catalog struct {
	defs   []SymbolDef
	byCode map[string]int
	wild   int // wild符号ID，未定义时为-1
}

// NewCatalog 按配置顺序构建符号目录，顺序即永久线上ID映射
func NewCatalog(defs []SymbolDef) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("slot: empty symbol catalog")
	}
	c := &Catalog{
		defs:   make([]SymbolDef, len(defs)),
		byCode: make(map[string]int, len(defs)),
		wild:   -1,
	}
	copy(c.defs, defs)
	for i, d := range defs {
		if d.Code == "" {
			return nil, fmt.Errorf("slot: symbol %d has empty code", i)
		}
		if _, dup := c.byCode[d.Code]; dup {
			return nil, fmt.Errorf("slot: duplicate symbol code %q", d.Code)
		}
		c.byCode[d.Code] = i
		if d.Kind == KindWild {
			if c.wild >= 0 {
				return nil, fmt.Errorf("slot: more than one wild symbol in catalog")
			}
			c.wild = i
		}
	}
	return c, nil
}

// Len 符号数量
func (c *Catalog) Len() int { return len(c.defs) }

// WireID 符号代码 -> 线上ID
func (c *Catalog) WireID(code string) (int, bool) {
	id, ok := c.byCode[code]
	return id, ok
}

// Def 线上ID -> 符号定义
func (c *Catalog) Def(id int) (SymbolDef, bool) {
	if id < 0 || id >= len(c.defs) {
		return SymbolDef{}, false
	}
	return c.defs[id], true
}

// Wild wild符号的线上ID
func (c *Catalog) Wild() (int, bool) {
	if c.wild < 0 {
		return 0, false
	}
	return c.wild, true
}

// IsWild 判断线上ID是否为wild
func (c *Catalog) IsWild(id int) bool {
	return c.wild >= 0 && id == c.wild
}

// HasMultiplier 目录中是否配置了倍数符号
func (c *Catalog) HasMultiplier() bool {
	for _, d := range c.defs {
		if d.Kind == KindMultiplier {
			return true
		}
	}
	return false
}
