package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// ReservationCacheInterface は日付別予約一覧キャッシュの操作
type ReservationCacheInterface interface {
	GetByDate(ctx context.Context, date time.Time) ([]*reservation.Reservation, error)
	SetByDate(ctx context.Context, date time.Time, reservations []*reservation.Reservation, ttl time.Duration) error
	InvalidateDate(ctx context.Context, date time.Time) error
}

// ReservationCache は日付別の予約一覧キャッシュを管理する
type ReservationCache struct {
	client *redis.Client
}

// NewReservationCache は新しいReservationCacheインスタンスを作成する
func NewReservationCache(client *redis.Client) *ReservationCache {
	return &ReservationCache{client: client}
}

var _ ReservationCacheInterface = (*ReservationCache)(nil)

// GetByDate は指定日の予約一覧をキャッシュから取得する
func (c *ReservationCache) GetByDate(ctx context.Context, date time.Time) ([]*reservation.Reservation, error) {
	key := c.dateKey(date)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	var reservations []*reservation.Reservation
	if err := json.Unmarshal(data, &reservations); err != nil {
		// 壊れたエントリは読み捨てて無効化する
		c.client.Del(ctx, key)
		return nil, ErrCacheMiss
	}
	return reservations, nil
}

// SetByDate は指定日の予約一覧をキャッシュに保存する
func (c *ReservationCache) SetByDate(ctx context.Context, date time.Time, reservations []*reservation.Reservation, ttl time.Duration) error {
	data, err := json.Marshal(reservations)
	if err != nil {
		return fmt.Errorf("キャッシュ直列化に失敗: %w", err)
	}
	if err := c.client.Set(ctx, c.dateKey(date), data, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// InvalidateDate は指定日のキャッシュを無効化する
func (c *ReservationCache) InvalidateDate(ctx context.Context, date time.Time) error {
	if err := c.client.Del(ctx, c.dateKey(date)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *ReservationCache) dateKey(date time.Time) string {
	return fmt.Sprintf("reservations:date:%s", date.Format(reservation.DateLayout))
}
