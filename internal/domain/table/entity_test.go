package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tbl := New("窓際-1", 4)

	assert.Equal(t, "窓際-1", tbl.Name)
	assert.Equal(t, 4, tbl.Capacity)
	assert.Nil(t, tbl.ReservationID)
	assert.False(t, tbl.Occupied())
}

func TestTable_Validate(t *testing.T) {
	tests := []struct {
		name     string
		table    *Table
		wantErr  error
	}{
		{name: "正常なテーブル", table: New("A-1", 2), wantErr: nil},
		{name: "名前が1文字", table: New("A", 2), wantErr: ErrNameTooShort},
		{name: "名前が空", table: New("", 2), wantErr: ErrNameTooShort},
		{name: "定員ゼロ", table: New("A-1", 0), wantErr: ErrInvalidCapacity},
		{name: "定員が負", table: New("A-1", -1), wantErr: ErrInvalidCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTable_Seat(t *testing.T) {
	t.Run("空席なら着席できる", func(t *testing.T) {
		tbl := New("A-1", 4)
		require.NoError(t, tbl.Seat("res-123", 3))
		require.NotNil(t, tbl.ReservationID)
		assert.Equal(t, "res-123", *tbl.ReservationID)
		assert.True(t, tbl.Occupied())
	})

	t.Run("着席中は拒否", func(t *testing.T) {
		tbl := New("A-1", 4)
		require.NoError(t, tbl.Seat("res-123", 2))
		assert.ErrorIs(t, tbl.Seat("res-456", 2), ErrTableOccupied)
	})

	t.Run("定員超過は拒否", func(t *testing.T) {
		tbl := New("A-1", 2)
		assert.ErrorIs(t, tbl.Seat("res-123", 3), ErrCapacityExceeded)
	})

	t.Run("定員ぴったりは着席できる", func(t *testing.T) {
		tbl := New("A-1", 2)
		assert.NoError(t, tbl.Seat("res-123", 2))
	})
}

func TestTable_Finish(t *testing.T) {
	t.Run("着席中なら空席に戻せる", func(t *testing.T) {
		tbl := New("A-1", 4)
		require.NoError(t, tbl.Seat("res-123", 2))

		require.NoError(t, tbl.Finish())
		assert.Nil(t, tbl.ReservationID)
		assert.False(t, tbl.Occupied())
	})

	t.Run("空席のテーブルは拒否", func(t *testing.T) {
		tbl := New("A-1", 4)
		assert.ErrorIs(t, tbl.Finish(), ErrTableNotOccupied)
	})
}
