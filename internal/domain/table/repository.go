package table

import (
	"context"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/transaction"
)

// Repository はテーブルリポジトリのインターフェース
type Repository interface {
	// Create は新しいテーブルを作成する
	Create(ctx context.Context, table *Table) error

	// GetByID はIDからテーブルを取得する
	GetByID(ctx context.Context, id string) (*Table, error)

	// List はテーブル一覧を名前順に取得する
	List(ctx context.Context) ([]*Table, error)

	// GetByReservationID は指定予約が着席中のテーブルを取得する
	GetByReservationID(ctx context.Context, reservationID string) (*Table, error)

	// Seat はテーブルを着席状態にする（空席の場合のみ、トランザクション必須）
	Seat(ctx context.Context, tx transaction.Tx, tableID, reservationID string) error

	// Finish はテーブルを空席に戻す（着席中の場合のみ、トランザクション必須）
	Finish(ctx context.Context, tx transaction.Tx, tableID string) error
}
