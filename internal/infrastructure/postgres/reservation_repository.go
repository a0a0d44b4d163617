package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/transaction"
)

type reservationRow struct {
	ID              string    `db:"id"`
	FirstName       string    `db:"first_name"`
	LastName        string    `db:"last_name"`
	MobileNumber    string    `db:"mobile_number"`
	ReservationDate time.Time `db:"reservation_date"`
	ReservationTime string    `db:"reservation_time"`
	People          int       `db:"people"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

const reservationColumns = `id, first_name, last_name, mobile_number, reservation_date, reservation_time, people, status, created_at, updated_at`

type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	query := `INSERT INTO reservations (id, first_name, last_name, mobile_number, reservation_date, reservation_time, people, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.db.ExecContext(ctx, query,
		res.ID, res.FirstName, res.LastName, res.MobileNumber,
		res.ReservationDate, res.ReservationTime, res.People, string(res.Status),
		res.CreatedAt, res.UpdatedAt,
	); err != nil {
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("予約ID %s: %w", id, reservation.ErrNotFound)
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return r.toEntity(&row), nil
}

// ListByDate は指定日の予約を予約時刻順に返す
// ダッシュボード表示用のため finished は除外する
func (r *ReservationRepository) ListByDate(ctx context.Context, date time.Time) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE reservation_date = $1 AND status <> 'finished'
		ORDER BY reservation_time`
	if err := r.db.SelectContext(ctx, &rows, query, date); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return r.toEntities(rows), nil
}

// SearchByMobileNumber は電話番号の数字部分の部分一致で検索する
// ステータスを問わず全予約を返す
func (r *ReservationRepository) SearchByMobileNumber(ctx context.Context, mobileNumber string) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE translate(mobile_number, '() -', '') LIKE $1
		ORDER BY reservation_date`
	pattern := "%" + digitsOnly(mobileNumber) + "%"
	if err := r.db.SelectContext(ctx, &rows, query, pattern); err != nil {
		return nil, fmt.Errorf("予約検索に失敗: %w", err)
	}
	return r.toEntities(rows), nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	query := `UPDATE reservations
		SET first_name = $1, last_name = $2, mobile_number = $3,
		    reservation_date = $4, reservation_time = $5, people = $6, updated_at = $7
		WHERE id = $8`
	result, err := r.db.ExecContext(ctx, query,
		res.FirstName, res.LastName, res.MobileNumber,
		res.ReservationDate, res.ReservationTime, res.People, res.UpdatedAt,
		res.ID,
	)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("予約ID %s: %w", res.ID, reservation.ErrNotFound)
	}
	return nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, id string, status reservation.Status) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("ステータス更新にはトランザクションが必要です")
	}
	query := `UPDATE reservations SET status = $1, updated_at = now() WHERE id = $2`
	result, err := sqlxTx.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("ステータス更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("予約ID %s: %w", id, reservation.ErrNotFound)
	}
	return nil
}

func (r *ReservationRepository) GetStaleSeated(ctx context.Context, before time.Time) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE status = 'seated' AND reservation_date < $1`
	if err := r.db.SelectContext(ctx, &rows, query, before); err != nil {
		return nil, fmt.Errorf("残留予約取得に失敗: %w", err)
	}
	return r.toEntities(rows), nil
}

func (r *ReservationRepository) toEntity(row *reservationRow) *reservation.Reservation {
	return &reservation.Reservation{
		ID:              row.ID,
		FirstName:       row.FirstName,
		LastName:        row.LastName,
		MobileNumber:    row.MobileNumber,
		ReservationDate: row.ReservationDate,
		ReservationTime: reservation.NormalizeTimeOfDay(row.ReservationTime),
		People:          row.People,
		Status:          reservation.Status(row.Status),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func (r *ReservationRepository) toEntities(rows []reservationRow) []*reservation.Reservation {
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = r.toEntity(&rows[i])
	}
	return result
}

// digitsOnly は数字以外の文字を取り除く
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var _ reservation.Repository = (*ReservationRepository)(nil)
