package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/singleflight"

	"reelspin/internal/biz"
	"reelspin/internal/biz/slot"
	"reelspin/internal/conf"
)

// gameConfigRepo 游戏数学配置提供方：每个gameId最多加载一次
// （并发首请求single-flight收敛到一次加载），之后只读共享。
type gameConfigRepo struct {
	dir   string
	cache sync.Map // gameID -> *slot.GameConfig
	group singleflight.Group
	log   *log.Helper
}

func NewGameConfigRepo(c *conf.Engine, logger log.Logger) biz.GameConfigRepo {
	dir := "configs/games"
	if c != nil && c.GameConfigDir != "" {
		dir = c.GameConfigDir
	}
	return &gameConfigRepo{dir: dir, log: log.NewHelper(logger)}
}

func (r *gameConfigRepo) Get(ctx context.Context, gameID int64) (*slot.GameConfig, error) {
	if v, ok := r.cache.Load(gameID); ok {
		return v.(*slot.GameConfig), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, err, _ := r.group.Do(fmt.Sprintf("%d", gameID), func() (any, error) {
		if v, ok := r.cache.Load(gameID); ok {
			return v, nil
		}
		cfg, err := r.load(gameID)
		if err != nil {
			return nil, err
		}
		r.cache.Store(gameID, cfg)
		return cfg, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*slot.GameConfig), nil
}

func (r *gameConfigRepo) load(gameID int64) (*slot.GameConfig, error) {
	path := filepath.Join(r.dir, fmt.Sprintf("%d.json", gameID))
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("game config %d: %w", gameID, err)
	}
	cfg, err := slot.ParseGameConfig(raw)
	if err != nil {
		return nil, err
	}
	if cfg.GameID != gameID {
		return nil, fmt.Errorf("game config %d: file declares game %d", gameID, cfg.GameID)
	}
	r.log.Infof("loaded game config %d (%dx%d, %d symbols, %d strip sets)",
		gameID, cfg.Cols, cfg.Rows, cfg.Catalog.Len(), len(cfg.Strips))
	return cfg, nil
}
