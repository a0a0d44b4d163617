//go:build integration
// +build integration

package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestBenchmark_ListByDateCache は日付別一覧のキャッシュ効果を計測する
// 大量の予約がある日の一覧取得で、2回目以降がキャッシュから返ることを実証します
func TestBenchmark_ListByDateCache(t *testing.T) {
	if testing.Short() {
		t.Skip("ベンチマークテストはshortモードではスキップ")
	}

	reservationService, _, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()

	const total = 200
	for i := 0; i < total; i++ {
		_, err := reservationService.Create(ctx, ReservationInput{
			FirstName:       "太郎",
			LastName:        fmt.Sprintf("鈴木%03d", i),
			MobileNumber:    fmt.Sprintf("080-0000-%04d", i),
			ReservationDate: "2030-06-15",
			ReservationTime: fmt.Sprintf("%02d:%02d", 11+i%10, (i%4)*15),
			People:          1 + i%6,
		})
		require.NoError(t, err)
	}

	// 1回目（作成直後はキャッシュが無効化済みなのでDBから）
	start := time.Now()
	first, err := reservationService.List(ctx, "2030-06-15", "")
	require.NoError(t, err)
	dbDuration := time.Since(start)
	require.Len(t, first, total)

	// 2回目（キャッシュから）
	start = time.Now()
	second, err := reservationService.List(ctx, "2030-06-15", "")
	require.NoError(t, err)
	cacheDuration := time.Since(start)
	require.Len(t, second, total)

	t.Logf("DB取得: %v / キャッシュ取得: %v", dbDuration, cacheDuration)
}
