package service

import (
	"context"
	"encoding/json"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"

	"reelspin/internal/biz"
	"reelspin/internal/biz/money"
	"reelspin/internal/biz/slot"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewSpinService)

// BetEntry 线协议投注项。倍数缺省为1。
type BetEntry struct {
	Amount json.Number `json:"amount"`
	Times  int64       `json:"times,omitempty"`
}

// SpinRequest /v1/spin 请求体
type SpinRequest struct {
	GameID   int64              `json:"gameId"`
	Token    string             `json:"token"`
	Bets     []BetEntry         `json:"bets"`
	BetMode  string             `json:"betMode,omitempty"`
	BuyEntry bool               `json:"buyEntry,omitempty"`
	State    *slot.SessionState `json:"state,omitempty"` // 客户端回传的会话状态，缺省从服务端读取
}

// SpinReply /v1/spin 响应体
type SpinReply struct {
	Code     int                 `json:"code"`
	Message  string              `json:"message"`
	RoundID  string              `json:"roundId,omitempty"`
	SpinType string              `json:"spinType,omitempty"`
	Bet      money.Money         `json:"bet"`
	TotalWin money.Money         `json:"totalWin"`
	Wins     []slot.LineWin      `json:"wins,omitempty"`
	Grid     []int               `json:"grid,omitempty"` // 行优先的线上符号ID
	State    *slot.SessionState  `json:"state,omitempty"`
	Feature  *biz.FeatureOutcome `json:"feature,omitempty"`
}

// SpinService 旋转结算HTTP服务
type SpinService struct {
	uc  *biz.SpinUsecase
	log *log.Helper
}

// NewSpinService new a spin service.
func NewSpinService(uc *biz.SpinUsecase, logger log.Logger) *SpinService {
	return &SpinService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

// Spin 结算一次旋转
func (s *SpinService) Spin(ctx context.Context, in *SpinRequest) (*SpinReply, error) {
	req, err := s.buildRequest(in)
	if err != nil {
		return nil, err
	}
	res, err := s.uc.Spin(ctx, req)
	if err != nil {
		return nil, err
	}
	return &SpinReply{
		Code:     0,
		Message:  "success",
		RoundID:  res.RoundID,
		SpinType: res.Mode.String(),
		Bet:      res.Bet,
		TotalWin: res.TotalWin,
		Wins:     res.Wins,
		Grid:     res.Grid,
		State:    res.State,
		Feature:  res.Feature,
	}, nil
}

func (s *SpinService) buildRequest(in *SpinRequest) (*biz.SpinRequest, error) {
	if in == nil {
		return nil, biz.ErrGameIDRequired
	}
	bets := make([]biz.BetEntry, 0, len(in.Bets))
	for _, b := range in.Bets {
		amt, err := money.FromString(b.Amount.String())
		if err != nil {
			s.log.Warnf("Spin bad bet amount %q: %v", b.Amount, err)
			return nil, biz.ErrBetNotPositive
		}
		bets = append(bets, biz.BetEntry{Amount: amt, Times: b.Times})
	}
	return &biz.SpinRequest{
		GameID:   in.GameID,
		Token:    in.Token,
		Bets:     bets,
		BetMode:  in.BetMode,
		BuyEntry: in.BuyEntry,
		State:    in.State,
	}, nil
}
