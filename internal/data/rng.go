package data

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	jsoniter "github.com/json-iterator/go"

	"reelspin/internal/biz/rng"
	"reelspin/internal/conf"
)

// rngClient 监管RNG服务客户端。单次请求，不做内部重试：
// 失败由编排层切本地兜底。
type rngClient struct {
	url    string
	client *http.Client
	log    *log.Helper
}

func NewRngSource(c *conf.Data, logger log.Logger) rng.Source {
	url := ""
	timeout := 3 * time.Second
	if c.Rng != nil {
		url = c.Rng.Url
		if c.Rng.TimeoutSec > 0 {
			timeout = time.Duration(c.Rng.TimeoutSec) * time.Second
		}
	}
	return &rngClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log.NewHelper(logger),
	}
}

// 线协议结构
type rngPoolReq struct {
	Name  string            `json:"name"`
	Count int               `json:"count"`
	Meta  map[string]string `json:"meta,omitempty"`
}

type rngDrawReq struct {
	GameID  int64        `json:"gameId"`
	RoundID string       `json:"roundId"`
	Pools   []rngPoolReq `json:"pools"`
}

type rngDrawResp struct {
	TxID  string              `json:"txId"`
	Pools map[string][]string `json:"pools"` // 每池为定长整数字符串列表
}

func (c *rngClient) Draw(ctx context.Context, req rng.Request) (*rng.Result, error) {
	if c.url == "" {
		return nil, fmt.Errorf("rng: service url not configured")
	}

	body := rngDrawReq{GameID: req.GameID, RoundID: req.RoundID}
	for _, p := range req.Pools {
		body.Pools = append(body.Pools, rngPoolReq{Name: p.Name, Count: p.Count, Meta: p.Meta})
	}
	raw, err := jsoniter.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rng: service returned %d", resp.StatusCode)
	}

	var out rngDrawResp
	if err = jsoniter.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	result := &rng.Result{TxID: out.TxID, Pools: make(map[string][]int64, len(out.Pools))}
	for name, vals := range out.Pools {
		ints := make([]int64, len(vals))
		for i, s := range vals {
			v, perr := strconv.ParseInt(s, 10, 64)
			if perr != nil {
				return nil, fmt.Errorf("rng: pool %s value %q: %w", name, s, perr)
			}
			ints[i] = v
		}
		result.Pools[name] = ints
	}

	// 池长度必须与请求一致，否则种子消耗顺序失真
	for _, p := range req.Pools {
		if got := len(result.Pools[p.Name]); got != p.Count {
			return nil, fmt.Errorf("rng: pool %s returned %d values, want %d", p.Name, got, p.Count)
		}
	}
	return result, nil
}
