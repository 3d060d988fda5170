package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"reelspin/internal/biz"
)

type orderRepo struct {
	data *Data
	log  *log.Helper
}

func NewOrderRepo(data *Data, logger log.Logger) biz.OrderRepo {
	return &orderRepo{data: data, log: log.NewHelper(logger)}
}

func (r *orderRepo) Insert(ctx context.Context, o *biz.GameOrder) error {
	_, err := r.data.db.Context(ctx).Insert(o)
	return err
}
