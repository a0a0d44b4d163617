package reservation

import "time"

// Status は予約の状態を表す
type Status string

const (
	StatusBooked    Status = "booked"
	StatusSeated    Status = "seated"
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
)

// Valid は既知のステータス値かを返す
func (s Status) Valid() bool {
	switch s {
	case StatusBooked, StatusSeated, StatusFinished, StatusCancelled:
		return true
	}
	return false
}

// Terminal は終端状態（以降の遷移を受け付けない）かを返す
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// DateLayout / TimeLayout は予約日時の入出力フォーマット
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Reservation は予約エンティティを表す
type Reservation struct {
	ID              string
	FirstName       string
	LastName        string
	MobileNumber    string
	ReservationDate time.Time // 日付のみ（時刻部分はゼロ）
	ReservationTime string    // 正規化済み HH:MM
	People          int
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// New は新しい予約を作成する
// ステータスは必ず booked から始まる
func New(firstName, lastName, mobileNumber string, date time.Time, timeOfDay string, people int) *Reservation {
	now := time.Now()
	return &Reservation{
		FirstName:       firstName,
		LastName:        lastName,
		MobileNumber:    mobileNumber,
		ReservationDate: date,
		ReservationTime: timeOfDay,
		People:          people,
		Status:          StatusBooked,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Seat は予約を着席状態にする
func (r *Reservation) Seat() error {
	if r.Status != StatusBooked {
		return ErrNotBooked
	}
	r.Status = StatusSeated
	r.UpdatedAt = time.Now()
	return nil
}

// Finish は予約を完了状態にする
func (r *Reservation) Finish() error {
	if r.Status != StatusSeated {
		return ErrNotSeated
	}
	r.Status = StatusFinished
	r.UpdatedAt = time.Now()
	return nil
}

// FormatDate は予約日を表示形式（YYYY-MM-DD）で返す
func (r *Reservation) FormatDate() string {
	return r.ReservationDate.Format(DateLayout)
}

// FormatTime は予約時刻を表示形式（24時間 HH:MM）で返す
// 永続化層から HH:MM:SS で返ってきた値も正規化する
func (r *Reservation) FormatTime() string {
	return NormalizeTimeOfDay(r.ReservationTime)
}

// NormalizeTimeOfDay は時刻文字列を HH:MM に正規化する
func NormalizeTimeOfDay(s string) string {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Format(TimeLayout)
	}
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t.Format(TimeLayout)
	}
	return s
}
