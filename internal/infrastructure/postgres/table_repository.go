package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/table"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/transaction"
)

type tableRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"table_name"`
	Capacity      int       `db:"capacity"`
	ReservationID *string   `db:"reservation_id"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

const tableColumns = `id, table_name, capacity, reservation_id, created_at, updated_at`

type TableRepository struct{ db *sqlx.DB }

func NewTableRepository(db *sqlx.DB) *TableRepository {
	return &TableRepository{db: db}
}

func (r *TableRepository) Create(ctx context.Context, t *table.Table) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	query := `INSERT INTO restaurant_tables (id, table_name, capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, t.ID, t.Name, t.Capacity, t.CreatedAt, t.UpdatedAt); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return fmt.Errorf("テーブル名 %s は既に存在します: %w", t.Name, err)
		}
		return fmt.Errorf("テーブル作成に失敗: %w", err)
	}
	return nil
}

func (r *TableRepository) GetByID(ctx context.Context, id string) (*table.Table, error) {
	var row tableRow
	query := `SELECT ` + tableColumns + ` FROM restaurant_tables WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("テーブルID %s: %w", id, table.ErrTableNotFound)
		}
		return nil, fmt.Errorf("テーブル取得に失敗: %w", err)
	}
	return r.toEntity(&row), nil
}

func (r *TableRepository) List(ctx context.Context) ([]*table.Table, error) {
	var rows []tableRow
	query := `SELECT ` + tableColumns + ` FROM restaurant_tables ORDER BY table_name`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("テーブル一覧取得に失敗: %w", err)
	}
	result := make([]*table.Table, len(rows))
	for i := range rows {
		result[i] = r.toEntity(&rows[i])
	}
	return result, nil
}

func (r *TableRepository) GetByReservationID(ctx context.Context, reservationID string) (*table.Table, error) {
	var row tableRow
	query := `SELECT ` + tableColumns + ` FROM restaurant_tables WHERE reservation_id = $1`
	if err := r.db.GetContext(ctx, &row, query, reservationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("予約ID %s の着席テーブル: %w", reservationID, table.ErrTableNotFound)
		}
		return nil, fmt.Errorf("テーブル取得に失敗: %w", err)
	}
	return r.toEntity(&row), nil
}

// Seat は空席のテーブルにのみ予約を割り当てる
// 条件付きUPDATEにより同時着席を排除する
func (r *TableRepository) Seat(ctx context.Context, tx transaction.Tx, tableID, reservationID string) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("着席処理にはトランザクションが必要です")
	}
	query := `UPDATE restaurant_tables
		SET reservation_id = $1, updated_at = now()
		WHERE id = $2 AND reservation_id IS NULL`
	result, err := sqlxTx.ExecContext(ctx, query, reservationID, tableID)
	if err != nil {
		return fmt.Errorf("着席処理に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("テーブルID %s: %w", tableID, table.ErrTableOccupied)
	}
	return nil
}

// Finish は着席中のテーブルのみを空席に戻す
func (r *TableRepository) Finish(ctx context.Context, tx transaction.Tx, tableID string) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("テーブル完了処理にはトランザクションが必要です")
	}
	query := `UPDATE restaurant_tables
		SET reservation_id = NULL, updated_at = now()
		WHERE id = $1 AND reservation_id IS NOT NULL`
	result, err := sqlxTx.ExecContext(ctx, query, tableID)
	if err != nil {
		return fmt.Errorf("テーブル完了処理に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("テーブルID %s: %w", tableID, table.ErrTableNotOccupied)
	}
	return nil
}

func (r *TableRepository) toEntity(row *tableRow) *table.Table {
	return &table.Table{
		ID:            row.ID,
		Name:          row.Name,
		Capacity:      row.Capacity,
		ReservationID: row.ReservationID,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

var _ table.Repository = (*TableRepository)(nil)
