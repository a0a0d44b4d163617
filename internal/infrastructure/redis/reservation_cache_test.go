package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client, err := NewClient(&Config{Host: "localhost", Port: "6379"})
	if err != nil {
		t.Skip("Redis not available")
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func testReservations() []*reservation.Reservation {
	return []*reservation.Reservation{
		{
			ID: "res-1", FirstName: "花子", LastName: "山田",
			MobileNumber:    "090-1111-2222",
			ReservationDate: time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC),
			ReservationTime: "18:00", People: 2, Status: reservation.StatusBooked,
		},
		{
			ID: "res-2", FirstName: "太郎", LastName: "佐藤",
			MobileNumber:    "090-3333-4444",
			ReservationDate: time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC),
			ReservationTime: "19:30", People: 4, Status: reservation.StatusSeated,
		},
	}
}

func TestReservationCache_GetByDate(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewReservationCache(client)
	ctx := context.Background()
	date := time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("キャッシュミス時はErrCacheMissを返す", func(t *testing.T) {
		require.NoError(t, cache.InvalidateDate(ctx, date))
		_, err := cache.GetByDate(ctx, date)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("キャッシュにセットした一覧を取得できる", func(t *testing.T) {
		err := cache.SetByDate(ctx, date, testReservations(), 30*time.Second)
		require.NoError(t, err)

		got, err := cache.GetByDate(ctx, date)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "res-1", got[0].ID)
		assert.Equal(t, "18:00", got[0].ReservationTime)
		assert.Equal(t, reservation.StatusSeated, got[1].Status)
	})

	t.Run("キャッシュを無効化できる", func(t *testing.T) {
		err := cache.SetByDate(ctx, date, testReservations(), 30*time.Second)
		require.NoError(t, err)

		require.NoError(t, cache.InvalidateDate(ctx, date))

		_, err = cache.GetByDate(ctx, date)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("別の日付のキャッシュには影響しない", func(t *testing.T) {
		other := time.Date(2030, 6, 16, 0, 0, 0, 0, time.UTC)
		require.NoError(t, cache.SetByDate(ctx, date, testReservations(), 30*time.Second))
		require.NoError(t, cache.SetByDate(ctx, other, nil, 30*time.Second))

		require.NoError(t, cache.InvalidateDate(ctx, date))

		_, err := cache.GetByDate(ctx, other)
		assert.NoError(t, err)
	})
}

func TestReservationCache_TTL(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewReservationCache(client)
	ctx := context.Background()
	date := time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("TTL経過後はキャッシュミスになる", func(t *testing.T) {
		err := cache.SetByDate(ctx, date, testReservations(), 100*time.Millisecond)
		require.NoError(t, err)

		// TTL経過前
		_, err = cache.GetByDate(ctx, date)
		require.NoError(t, err)

		// TTL経過後
		time.Sleep(150 * time.Millisecond)
		_, err = cache.GetByDate(ctx, date)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}

func TestReservationCache_CorruptedEntry(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewReservationCache(client)
	ctx := context.Background()
	date := time.Date(2030, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("壊れたエントリはキャッシュミス扱いで破棄される", func(t *testing.T) {
		err := client.Set(ctx, "reservations:date:2030-08-01", "not-json", 30*time.Second).Err()
		require.NoError(t, err)

		_, err = cache.GetByDate(ctx, date)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
