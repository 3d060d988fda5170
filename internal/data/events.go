package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/streadway/amqp"

	"reelspin/internal/biz"
)

// eventPublisher 结算事件广播。发布失败只记日志，绝不影响旋转结算。
type eventPublisher struct {
	data *Data
	log  *log.Helper
}

func NewEventPublisher(data *Data, logger log.Logger) biz.EventPublisher {
	return &eventPublisher{data: data, log: log.NewHelper(logger)}
}

func (p *eventPublisher) Publish(_ context.Context, key string, v any) error {
	mq := p.data.mq
	if mq == nil || mq.ch == nil {
		return nil // 未配置，静默跳过
	}
	body, err := jsoniter.Marshal(v)
	if err != nil {
		return err
	}
	return mq.ch.Publish(mq.exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
