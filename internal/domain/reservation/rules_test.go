package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownFields(t *testing.T) {
	t.Run("許可リスト内のフィールドは通る", func(t *testing.T) {
		keys := []string{
			"first_name", "last_name", "mobile_number",
			"reservation_date", "reservation_time", "people",
			"status", "reservation_id", "created_at", "updated_at",
		}
		assert.Empty(t, UnknownFields(keys))
	})

	t.Run("許可リスト外のフィールドをソート済みで返す", func(t *testing.T) {
		keys := []string{"first_name", "zebra", "apple", "people"}
		assert.Equal(t, []string{"apple", "zebra"}, UnknownFields(keys))
	})
}

func TestNewSchedule(t *testing.T) {
	t.Run("正常に構築できる", func(t *testing.T) {
		s, err := NewSchedule("UTC", "10:30", "21:30", "Tuesday")
		require.NoError(t, err)
		assert.Equal(t, time.UTC, s.Location)
		assert.Equal(t, time.Tuesday, s.ClosedWeekday)
		assert.Equal(t, 10*60+30, s.OpenMinutes)
		assert.Equal(t, 21*60+30, s.LastSeatingMinutes)
	})

	t.Run("不正なタイムゾーンはエラー", func(t *testing.T) {
		_, err := NewSchedule("Not/AZone", "10:30", "21:30", "Tuesday")
		assert.Error(t, err)
	})

	t.Run("不正な時刻はエラー", func(t *testing.T) {
		_, err := NewSchedule("UTC", "25:99", "21:30", "Tuesday")
		assert.Error(t, err)
	})

	t.Run("不正な曜日はエラー", func(t *testing.T) {
		_, err := NewSchedule("UTC", "10:30", "21:30", "Someday")
		assert.Error(t, err)
	})
}

func TestSchedule_ParseDate(t *testing.T) {
	s := DefaultSchedule()

	t.Run("YYYY-MM-DD をパースできる", func(t *testing.T) {
		d, err := s.ParseDate("2030-06-15")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("不正な日付はErrInvalidDate", func(t *testing.T) {
		_, err := s.ParseDate("not-a-date")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestSchedule_CheckDate(t *testing.T) {
	s := DefaultSchedule()

	t.Run("2024-01-02（火曜）は定休日として拒否される", func(t *testing.T) {
		d, err := s.ParseDate("2024-01-02")
		require.NoError(t, err)
		assert.ErrorIs(t, s.CheckDate(d), ErrClosedDay)
	})

	t.Run("火曜以外は通る", func(t *testing.T) {
		d, err := s.ParseDate("2024-01-03")
		require.NoError(t, err)
		assert.NoError(t, s.CheckDate(d))
	})
}

func TestSchedule_CheckTime(t *testing.T) {
	s := DefaultSchedule()

	tests := []struct {
		name    string
		time    string
		wantErr error
	}{
		{name: "10:29 は開店前", time: "10:29", wantErr: ErrBeforeOpening},
		{name: "10:30 は受け付ける", time: "10:30", wantErr: nil},
		{name: "12:00 は受け付ける", time: "12:00", wantErr: nil},
		{name: "21:30 は受け付ける", time: "21:30", wantErr: nil},
		{name: "21:31 は最終受付後", time: "21:31", wantErr: ErrAfterLastSeating},
		{name: "形式不正はErrInvalidTime", time: "25:99", wantErr: ErrInvalidTime},
		{name: "空文字はErrInvalidTime", time: "", wantErr: ErrInvalidTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CheckTime(tt.time)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSchedule_CheckFuture(t *testing.T) {
	s := DefaultSchedule()
	now := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("未来の日時は通る", func(t *testing.T) {
		d, _ := s.ParseDate("2030-06-16")
		assert.NoError(t, s.CheckFuture(d, "12:00", now))
	})

	t.Run("同日の後の時刻は通る", func(t *testing.T) {
		d, _ := s.ParseDate("2030-06-15")
		assert.NoError(t, s.CheckFuture(d, "12:01", now))
	})

	t.Run("現在と同時刻はErrNotInFuture", func(t *testing.T) {
		d, _ := s.ParseDate("2030-06-15")
		assert.ErrorIs(t, s.CheckFuture(d, "12:00", now), ErrNotInFuture)
	})

	t.Run("過去の日時はErrNotInFuture", func(t *testing.T) {
		d, _ := s.ParseDate("2030-06-14")
		assert.ErrorIs(t, s.CheckFuture(d, "12:00", now), ErrNotInFuture)
	})
}

func TestCheckPeople(t *testing.T) {
	assert.NoError(t, CheckPeople(1))
	assert.NoError(t, CheckPeople(10))
	assert.ErrorIs(t, CheckPeople(0), ErrInvalidPeople)
	assert.ErrorIs(t, CheckPeople(-2), ErrInvalidPeople)
}

func TestCheckNewStatus(t *testing.T) {
	assert.NoError(t, CheckNewStatus(""))
	assert.NoError(t, CheckNewStatus(StatusBooked))
	assert.ErrorIs(t, CheckNewStatus(StatusSeated), ErrStatusNotBooked)
	assert.ErrorIs(t, CheckNewStatus(StatusFinished), ErrStatusNotBooked)
	assert.ErrorIs(t, CheckNewStatus(StatusCancelled), ErrStatusNotBooked)
}

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name      string
		current   Status
		requested Status
		wantErr   error
	}{
		{name: "booked から seated", current: StatusBooked, requested: StatusSeated, wantErr: nil},
		{name: "booked から cancelled", current: StatusBooked, requested: StatusCancelled, wantErr: nil},
		{name: "seated から finished", current: StatusSeated, requested: StatusFinished, wantErr: nil},
		{name: "finished からはどこへも遷移できない", current: StatusFinished, requested: StatusBooked, wantErr: ErrTerminalStatus},
		{name: "cancelled からはどこへも遷移できない", current: StatusCancelled, requested: StatusSeated, wantErr: ErrTerminalStatus},
		{name: "未知のステータスは拒否", current: StatusBooked, requested: Status("waiting"), wantErr: ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTransition(tt.current, tt.requested)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrInvalidDate))
	assert.True(t, IsValidationError(ErrTerminalStatus))
	assert.False(t, IsValidationError(ErrNotFound))
	assert.False(t, IsValidationError(assert.AnError))
}
