package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrNotFound         = errors.New("予約が見つかりません")
	ErrUnknownFields    = errors.New("不正なフィールドが含まれています")
	ErrInvalidDate      = errors.New("reservation_date の形式が不正です")
	ErrInvalidTime      = errors.New("reservation_time の形式が不正です")
	ErrClosedDay        = errors.New("定休日のため予約できません")
	ErrNotInFuture      = errors.New("予約日時は現在より後である必要があります")
	ErrBeforeOpening    = errors.New("開店前の時刻は予約できません")
	ErrAfterLastSeating = errors.New("最終受付を過ぎた時刻は予約できません")
	ErrInvalidPeople    = errors.New("people は1以上の整数である必要があります")
	ErrInvalidStatus    = errors.New("不明なステータスです")
	ErrTerminalStatus   = errors.New("終了済みの予約のステータスは変更できません")
	ErrStatusNotBooked  = errors.New("新規予約・更新時のステータスは booked である必要があります")
	ErrNotBooked        = errors.New("予約は booked 状態ではありません")
	ErrNotSeated        = errors.New("予約は seated 状態ではありません")
)

// IsValidationError はクライアント起因（400相当）の検証エラーかを返す
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrUnknownFields, ErrInvalidDate, ErrInvalidTime,
		ErrClosedDay, ErrNotInFuture, ErrBeforeOpening, ErrAfterLastSeating,
		ErrInvalidPeople, ErrInvalidStatus, ErrTerminalStatus,
		ErrStatusNotBooked, ErrNotBooked, ErrNotSeated,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
