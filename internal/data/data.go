package data

import (
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"xorm.io/xorm"

	"reelspin/internal/conf"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewRedis,
	NewMysql,
	NewRabbitMQ,
	NewGameConfigRepo,
	NewSessionRepo,
	NewOrderRepo,
	NewEventPublisher,
	NewRngSource,
)

// Data .
type Data struct {
	db  *xorm.Engine
	rdb redis.UniversalClient
	mq  *RabbitMQ
}

// NewData .
func NewData(c *conf.Data, logger log.Logger, db *xorm.Engine, rdb redis.UniversalClient, mq *RabbitMQ) (*Data, func(), error) {
	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
	}
	return &Data{db: db, rdb: rdb, mq: mq}, cleanup, nil
}

// NewRedis 创建并配置 Redis 客户端
func NewRedis(c *conf.Data, logger log.Logger) (redis.UniversalClient, func(), error) {
	if c.Redis == nil || len(c.Redis.Addr) == 0 {
		return nil, nil, errors.Newf(500, "REDIS_ADDR_REQUIRED", "redis address is required")
	}
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        c.Redis.Addr,
		Password:     c.Redis.Password,
		DB:           int(c.Redis.Db),
		ReadTimeout:  time.Duration(c.Redis.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(c.Redis.WriteTimeoutSec) * time.Second,
		PoolSize:     50,
		MinIdleConns: 10,
		PoolTimeout:  5 * time.Second,
	})
	cleanup := func() { _ = rdb.Close() }
	return rdb, cleanup, nil
}

func NewMysql(c *conf.Data, logger log.Logger) (*xorm.Engine, func(), error) {
	if c.Database == nil {
		return nil, nil, errors.Newf(500, "DATABASE_REQUIRED", "database config is required")
	}
	engine, err := xorm.NewEngine(c.Database.Driver, c.Database.Source)
	if err != nil {
		return nil, nil, err
	}
	engine.SetMaxOpenConns(50)
	engine.SetMaxIdleConns(10)
	engine.SetConnMaxLifetime(10 * time.Minute)
	return engine, func() { _ = engine.Close() }, nil
}

// RabbitMQ 事件通道（单交换机，topic）。未配置时降级为空实现。
type RabbitMQ struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewRabbitMQ(c *conf.Data, logger log.Logger) (*RabbitMQ, func(), error) {
	l := log.NewHelper(logger)
	if c.Rabbitmq == nil || c.Rabbitmq.Url == "" {
		l.Warn("rabbitmq not configured, events disabled")
		return &RabbitMQ{}, func() {}, nil
	}
	conn, err := amqp.Dial(c.Rabbitmq.Url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	exchange := c.Rabbitmq.Exchange
	if exchange == "" {
		exchange = "reelspin.events"
	}
	if err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	cleanup := func() {
		_ = ch.Close()
		_ = conn.Close()
	}
	return &RabbitMQ{conn: conn, ch: ch, exchange: exchange}, cleanup, nil
}
