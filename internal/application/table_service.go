package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/table"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-restaurant-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-restaurant-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-restaurant-reservation/internal/pkg/metrics"
)

type TableService struct {
	tables       table.Repository
	reservations reservation.Repository
	txm          transaction.Manager
	locks        redisinfra.LockManagerInterface
	cache        redisinfra.ReservationCacheInterface
	metrics      *metrics.Metrics
	loc          *time.Location
	now          func() time.Time
}

func NewTableService(
	tables table.Repository,
	reservations reservation.Repository,
	txm transaction.Manager,
	locks redisinfra.LockManagerInterface,
	cache redisinfra.ReservationCacheInterface,
	m *metrics.Metrics,
	loc *time.Location,
) *TableService {
	if loc == nil {
		loc = time.UTC
	}
	return &TableService{
		tables:       tables,
		reservations: reservations,
		txm:          txm,
		locks:        locks,
		cache:        cache,
		metrics:      m,
		loc:          loc,
		now:          time.Now,
	}
}

type CreateTableInput struct {
	Name     string
	Capacity int
}

func (s *TableService) Create(ctx context.Context, in CreateTableInput) (*table.Table, error) {
	t := table.New(in.Name, in.Capacity)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.tables.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TableService) List(ctx context.Context) ([]*table.Table, error) {
	return s.tables.List(ctx)
}

// Seat は予約をテーブルに着席させる
// 同一テーブルへの同時着席は分散ロックと条件付きUPDATEの両方で防ぐ
func (s *TableService) Seat(ctx context.Context, tableID, reservationID string) (*table.Table, error) {
	if s.locks != nil {
		lock, err := s.locks.AcquireLockWithRetry(ctx, "table:"+tableID, 10*time.Second, 3, 100*time.Millisecond)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				return nil, fmt.Errorf("%w: 他のリクエストで処理中です", table.ErrTableOccupied)
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	tbl, err := s.tables.GetByID(ctx, tableID)
	if err != nil {
		return nil, err
	}
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	// booked 以外の予約は着席できない
	if err := res.Seat(); err != nil {
		return nil, err
	}
	if err := tbl.Seat(res.ID, res.People); err != nil {
		return nil, err
	}

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.tables.Seat(ctx, tx, tableID, res.ID); err != nil {
		return nil, err
	}
	if err := s.reservations.UpdateStatus(ctx, tx, res.ID, reservation.StatusSeated); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateDate(ctx, res.ReservationDate)
	if s.metrics != nil {
		s.metrics.OccupiedTables.Inc()
	}
	logger.Info("テーブルに着席",
		zap.String("table_id", tableID),
		zap.String("reservation_id", reservationID),
	)
	return tbl, nil
}

// Finish はテーブルを空席に戻し、着席中の予約を finished にする
func (s *TableService) Finish(ctx context.Context, tableID string) (*table.Table, error) {
	tbl, err := s.tables.GetByID(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if !tbl.Occupied() {
		return nil, fmt.Errorf("テーブルID %s: %w", tableID, table.ErrTableNotOccupied)
	}
	reservationID := *tbl.ReservationID

	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.tables.Finish(ctx, tx, tableID); err != nil {
		return nil, err
	}
	if err := s.reservations.UpdateStatus(ctx, tx, reservationID, reservation.StatusFinished); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	tbl.ReservationID = nil
	s.invalidateDate(ctx, res.ReservationDate)
	if s.metrics != nil {
		s.metrics.OccupiedTables.Dec()
	}
	logger.Info("テーブルを空席に戻しました",
		zap.String("table_id", tableID),
		zap.String("reservation_id", reservationID),
	)
	return tbl, nil
}

// CloseStaleSeated は過去の営業日のまま seated で残っている予約を完了させ、
// 着席中のテーブルがあれば空席に戻す
func (s *TableService) CloseStaleSeated(ctx context.Context) (int, error) {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	stale, err := s.reservations.GetStaleSeated(ctx, today)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, res := range stale {
		if err := s.closeOne(ctx, res); err != nil {
			logger.Warn("残留予約のクローズに失敗",
				zap.String("reservation_id", res.ID),
				zap.Error(err),
			)
			continue
		}
		count++
	}
	return count, nil
}

func (s *TableService) closeOne(ctx context.Context, res *reservation.Reservation) error {
	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	tbl, err := s.tables.GetByReservationID(ctx, res.ID)
	switch {
	case err == nil:
		if err := s.tables.Finish(ctx, tx, tbl.ID); err != nil {
			return err
		}
		if s.metrics != nil {
			s.metrics.OccupiedTables.Dec()
		}
	case errors.Is(err, table.ErrTableNotFound):
		// テーブル未割り当てのままの seated 予約もクローズ対象
	default:
		return err
	}

	if err := s.reservations.UpdateStatus(ctx, tx, res.ID, reservation.StatusFinished); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateDate(ctx, res.ReservationDate)
	return nil
}

func (s *TableService) invalidateDate(ctx context.Context, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDate(ctx, date); err != nil {
		logger.Warn("キャッシュ無効化に失敗", zap.Error(err), zap.Time("date", date))
	}
}
