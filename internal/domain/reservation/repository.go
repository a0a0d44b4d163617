package reservation

import (
	"context"
	"time"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する
	Create(ctx context.Context, reservation *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// ListByDate は指定日の予約一覧を予約時刻順に取得する（finished は除く）
	ListByDate(ctx context.Context, date time.Time) ([]*Reservation, error)

	// SearchByMobileNumber は電話番号の部分一致で予約を検索する
	SearchByMobileNumber(ctx context.Context, mobileNumber string) ([]*Reservation, error)

	// Update は予約のフィールドを更新する
	Update(ctx context.Context, reservation *Reservation) error

	// UpdateStatus は予約のステータスのみを更新する（トランザクション必須）
	UpdateStatus(ctx context.Context, tx transaction.Tx, id string, status Status) error

	// GetStaleSeated は指定日より前の営業日の seated 予約を取得する
	GetStaleSeated(ctx context.Context, before time.Time) ([]*Reservation, error)
}
