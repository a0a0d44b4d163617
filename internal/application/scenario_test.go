//go:build integration
// +build integration

package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
)

// TestScenario_FullReservationFlow は来店の完全なフローをテストします
// 予約作成 → 一覧 → 更新 → 着席 → 会計（完了） → 一覧から消えることの確認
func TestScenario_FullReservationFlow(t *testing.T) {
	reservationService, tableService, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("完全な来店フロー", func(t *testing.T) {
		// 1. テーブル作成
		tbl, err := tableService.Create(ctx, CreateTableInput{Name: "窓際 #3", Capacity: 4})
		require.NoError(t, err)

		// 2. 予約作成
		res, err := reservationService.Create(ctx, ReservationInput{
			FirstName:       "花子",
			LastName:        "山田",
			MobileNumber:    "090-1111-2222",
			ReservationDate: "2030-06-15",
			ReservationTime: "18:00",
			People:          3,
		})
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusBooked, res.Status)

		// 3. 当日の一覧に出る
		list, err := reservationService.List(ctx, "2030-06-15", "")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, res.ID, list[0].ID)

		// 4. 人数を変更
		updated, err := reservationService.Update(ctx, res.ID, ReservationInput{
			FirstName:       "花子",
			LastName:        "山田",
			MobileNumber:    "090-1111-2222",
			ReservationDate: "2030-06-15",
			ReservationTime: "18:30",
			People:          4,
		})
		require.NoError(t, err)
		assert.Equal(t, 4, updated.People)
		assert.Equal(t, "18:30", updated.FormatTime())

		// 5. 着席
		seatedTable, err := tableService.Seat(ctx, tbl.ID, res.ID)
		require.NoError(t, err)
		require.NotNil(t, seatedTable.ReservationID)
		assert.Equal(t, res.ID, *seatedTable.ReservationID)

		got, err := reservationService.Get(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusSeated, got.Status)

		// 6. 会計してテーブルを空席に戻す
		finishedTable, err := tableService.Finish(ctx, tbl.ID)
		require.NoError(t, err)
		assert.Nil(t, finishedTable.ReservationID)

		got, err = reservationService.Get(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusFinished, got.Status)

		// 7. finished は当日の一覧に出ない
		list, err = reservationService.List(ctx, "2030-06-15", "")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("キャンセルした予約は着席できない", func(t *testing.T) {
		tbl, err := tableService.Create(ctx, CreateTableInput{Name: "奥座敷 #1", Capacity: 6})
		require.NoError(t, err)

		res, err := reservationService.Create(ctx, ReservationInput{
			FirstName:       "次郎",
			LastName:        "田中",
			MobileNumber:    "090-5555-6666",
			ReservationDate: "2030-06-20",
			ReservationTime: "19:00",
			People:          2,
		})
		require.NoError(t, err)

		_, err = reservationService.UpdateStatus(ctx, res.ID, "cancelled")
		require.NoError(t, err)

		_, err = tableService.Seat(ctx, tbl.ID, res.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, reservation.ErrNotBooked)

		// 終端状態からの遷移も拒否される
		_, err = reservationService.UpdateStatus(ctx, res.ID, "booked")
		assert.ErrorIs(t, err, reservation.ErrTerminalStatus)
	})
}
