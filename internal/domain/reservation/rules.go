package reservation

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// allowedFields は予約ペイロードで受け付けるフィールドの許可リスト
var allowedFields = map[string]struct{}{
	"first_name":       {},
	"last_name":        {},
	"mobile_number":    {},
	"reservation_date": {},
	"reservation_time": {},
	"people":           {},
	"status":           {},
	"reservation_id":   {},
	"created_at":       {},
	"updated_at":       {},
}

// UnknownFields は許可リスト外のフィールド名をソート済みで返す
func UnknownFields(keys []string) []string {
	var unknown []string
	for _, k := range keys {
		if _, ok := allowedFields[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// Schedule は店舗の営業スケジュールを表す
// 予約日時の検証はすべてこのスケジュールのタイムゾーンで行う
type Schedule struct {
	Location           *time.Location
	ClosedWeekday      time.Weekday
	OpenMinutes        int // 開店からの受付開始（0時からの分数）
	LastSeatingMinutes int // 最終受付（0時からの分数）
}

// NewSchedule は設定値から営業スケジュールを構築する
func NewSchedule(timezone, open, lastSeating, closedWeekday string) (Schedule, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Schedule{}, fmt.Errorf("タイムゾーン %q の読み込みに失敗: %w", timezone, err)
	}
	openMin, err := minutesOfDay(open)
	if err != nil {
		return Schedule{}, fmt.Errorf("受付開始時刻 %q が不正: %w", open, err)
	}
	lastMin, err := minutesOfDay(lastSeating)
	if err != nil {
		return Schedule{}, fmt.Errorf("最終受付時刻 %q が不正: %w", lastSeating, err)
	}
	weekday, err := parseWeekday(closedWeekday)
	if err != nil {
		return Schedule{}, err
	}
	return Schedule{
		Location:           loc,
		ClosedWeekday:      weekday,
		OpenMinutes:        openMin,
		LastSeatingMinutes: lastMin,
	}, nil
}

// DefaultSchedule は既定のスケジュール（UTC・火曜定休・10:30〜21:30受付）を返す
func DefaultSchedule() Schedule {
	return Schedule{
		Location:           time.UTC,
		ClosedWeekday:      time.Tuesday,
		OpenMinutes:        10*60 + 30,
		LastSeatingMinutes: 21*60 + 30,
	}
}

// ParseDate は YYYY-MM-DD 形式の予約日をパースする
func (s Schedule) ParseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, value, s.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return d, nil
}

// CheckDate は定休日チェックを行う
func (s Schedule) CheckDate(date time.Time) error {
	if date.Weekday() == s.ClosedWeekday {
		return fmt.Errorf("%w（%s）", ErrClosedDay, s.ClosedWeekday)
	}
	return nil
}

// CheckTime は予約時刻が受付時間内かを検証する
// 開店前と最終受付後は独立した条件として評価する
func (s Schedule) CheckTime(timeOfDay string) error {
	minutes, err := minutesOfDay(timeOfDay)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTime, timeOfDay)
	}
	if minutes < s.OpenMinutes {
		return fmt.Errorf("%w: %s", ErrBeforeOpening, timeOfDay)
	}
	if minutes > s.LastSeatingMinutes {
		return fmt.Errorf("%w: %s", ErrAfterLastSeating, timeOfDay)
	}
	return nil
}

// CheckFuture は予約日時が now より後であることを検証する
func (s Schedule) CheckFuture(date time.Time, timeOfDay string, now time.Time) error {
	minutes, err := minutesOfDay(timeOfDay)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTime, timeOfDay)
	}
	instant := time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, s.Location)
	if !instant.After(now) {
		return ErrNotInFuture
	}
	return nil
}

// CheckPeople は人数が1以上の整数であることを検証する
func CheckPeople(people int) error {
	if people < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPeople, people)
	}
	return nil
}

// CheckNewStatus は作成・全置換更新のステータスが booked（または未指定）かを検証する
func CheckNewStatus(status Status) error {
	if status == "" || status == StatusBooked {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrStatusNotBooked, status)
}

// CheckTransition はステータス遷移を検証する
// 終端状態からの遷移と未知のステータスを拒否する
func CheckTransition(current, requested Status) error {
	if current.Terminal() {
		return fmt.Errorf("%w: 現在 %s", ErrTerminalStatus, current)
	}
	if !requested.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, requested)
	}
	return nil
}

// minutesOfDay は HH:MM 文字列を0時からの分数に変換する
func minutesOfDay(s string) (int, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("不明な曜日: %q", name)
}
