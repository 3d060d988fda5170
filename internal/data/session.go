package data

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"reelspin/internal/biz"
	"reelspin/internal/biz/slot"
)

// 场景数据保留90天
const sessionTTL = 90 * 24 * time.Hour

// sessionRepo 引擎会话状态存取：整体读、成功后整体替换
type sessionRepo struct {
	data *Data
	log  *log.Helper
}

func NewSessionRepo(data *Data, logger log.Logger) biz.SessionRepo {
	return &sessionRepo{data: data, log: log.NewHelper(logger)}
}

func sceneKey(gameID int64, token string) string {
	return fmt.Sprintf("scene-%d:%s", gameID, token)
}

func (r *sessionRepo) Load(ctx context.Context, gameID int64, token string) (*slot.SessionState, error) {
	v, err := r.data.rdb.Get(ctx, sceneKey(gameID, token)).Result()
	switch {
	case err == redis.Nil:
		return nil, nil
	case err != nil:
		return nil, err
	}
	st := new(slot.SessionState)
	if err = jsoniter.UnmarshalFromString(v, st); err != nil {
		// 损坏的场景数据按缺失处理，引擎侧会重建
		r.log.Errorf("session: corrupt scene %s: %v", sceneKey(gameID, token), err)
		return nil, nil
	}
	return st, nil
}

func (r *sessionRepo) Save(ctx context.Context, gameID int64, token string, st *slot.SessionState) error {
	s, err := jsoniter.MarshalToString(st)
	if err != nil {
		return err
	}
	return r.data.rdb.Set(ctx, sceneKey(gameID, token), s, sessionTTL).Err()
}
