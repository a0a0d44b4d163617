package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-restaurant-reservation/internal/pkg/logger"
)

// SeatedCloser は過去営業日の seated 予約を完了させるインターフェース
type SeatedCloser interface {
	CloseStaleSeated(ctx context.Context) (int, error)
}

// StaleSeatedCloser は閉店処理されないまま残った着席予約を完了させるワーカー
type StaleSeatedCloser struct {
	tableService SeatedCloser
	interval     time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
}

// NewStaleSeatedCloser は新しいワーカーを作成
func NewStaleSeatedCloser(ts SeatedCloser, interval time.Duration) *StaleSeatedCloser {
	return &StaleSeatedCloser{
		tableService: ts,
		interval:     interval,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start はワーカーを開始
func (c *StaleSeatedCloser) Start(ctx context.Context) {
	logger.Info("残留着席予約クローザー開始",
		zap.Duration("interval", c.interval),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("残留着席予約クローザー停止（コンテキストキャンセル）")
			return
		case <-c.stopCh:
			logger.Info("残留着席予約クローザー停止（シグナル受信）")
			return
		case <-ticker.C:
			c.closeStale(ctx)
		}
	}
}

// Stop はワーカーを停止
func (c *StaleSeatedCloser) Stop() {
	close(c.stopCh)
	<-c.doneCh
}

// closeStale は残留着席予約を完了させる
func (c *StaleSeatedCloser) closeStale(ctx context.Context) {
	log := logger.Get()
	log.Debug("残留着席予約のクローズ開始")

	count, err := c.tableService.CloseStaleSeated(ctx)
	if err != nil {
		log.Error("残留着席予約のクローズ失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("残留着席予約を完了", zap.Int("count", count))
	} else {
		log.Debug("残留着席予約なし")
	}
}
