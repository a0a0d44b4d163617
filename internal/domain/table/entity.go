package table

import "time"

// Table は客席テーブルエンティティを表す
// ReservationID が非nilのとき、そのテーブルは着席中
type Table struct {
	ID            string
	Name          string
	Capacity      int
	ReservationID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// New は新しいテーブルを作成する
func New(name string, capacity int) *Table {
	now := time.Now()
	return &Table{
		Name:      name,
		Capacity:  capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Occupied はテーブルが着席中かを返す
func (t *Table) Occupied() bool {
	return t.ReservationID != nil
}

// Seat はテーブルに予約を着席させる
func (t *Table) Seat(reservationID string, partySize int) error {
	if t.Occupied() {
		return ErrTableOccupied
	}
	if partySize > t.Capacity {
		return ErrCapacityExceeded
	}
	t.ReservationID = &reservationID
	t.UpdatedAt = time.Now()
	return nil
}

// Finish はテーブルを空席に戻す
func (t *Table) Finish() error {
	if !t.Occupied() {
		return ErrTableNotOccupied
	}
	t.ReservationID = nil
	t.UpdatedAt = time.Now()
	return nil
}

// Validate はテーブルの検証を行う
func (t *Table) Validate() error {
	if len([]rune(t.Name)) < 2 {
		return ErrNameTooShort
	}
	if t.Capacity < 1 {
		return ErrInvalidCapacity
	}
	return nil
}
