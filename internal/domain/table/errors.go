package table

import "errors"

// Table ドメインのエラー定義
var (
	ErrTableNotFound    = errors.New("テーブルが見つかりません")
	ErrTableOccupied    = errors.New("テーブルは着席中です")
	ErrTableNotOccupied = errors.New("テーブルは着席中ではありません")
	ErrCapacityExceeded = errors.New("テーブルの定員を超えています")
	ErrNameTooShort     = errors.New("table_name は2文字以上である必要があります")
	ErrInvalidCapacity  = errors.New("capacity は1以上である必要があります")
)

// IsValidationError はクライアント起因（400相当）の検証エラーかを返す
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrTableOccupied, ErrTableNotOccupied,
		ErrCapacityExceeded, ErrNameTooShort, ErrInvalidCapacity,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
