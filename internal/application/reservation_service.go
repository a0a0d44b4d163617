package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-restaurant-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-restaurant-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-restaurant-reservation/internal/pkg/metrics"
)

type ReservationService struct {
	repo     reservation.Repository
	txm      transaction.Manager
	cache    redisinfra.ReservationCacheInterface
	metrics  *metrics.Metrics
	schedule reservation.Schedule
	cacheTTL time.Duration
	now      func() time.Time
}

func NewReservationService(
	repo reservation.Repository,
	txm transaction.Manager,
	cache redisinfra.ReservationCacheInterface,
	m *metrics.Metrics,
	schedule reservation.Schedule,
	cacheTTL time.Duration,
) *ReservationService {
	return &ReservationService{
		repo:     repo,
		txm:      txm,
		cache:    cache,
		metrics:  m,
		schedule: schedule,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// ReservationInput は作成・更新リクエストの入力値
type ReservationInput struct {
	FirstName       string
	LastName        string
	MobileNumber    string
	ReservationDate string
	ReservationTime string
	People          int
	Status          string
}

// validate は入力値の検証を宣言順に実行し、最初の失敗で打ち切る
// 成功時はパース済みの予約日と正規化済みの時刻を返す
func (s *ReservationService) validate(in ReservationInput) (time.Time, string, error) {
	date, err := s.schedule.ParseDate(in.ReservationDate)
	if err != nil {
		return time.Time{}, "", err
	}
	checks := []func() error{
		func() error { return s.schedule.CheckDate(date) },
		func() error { return s.schedule.CheckTime(in.ReservationTime) },
		func() error { return s.schedule.CheckFuture(date, in.ReservationTime, s.now()) },
		func() error { return reservation.CheckPeople(in.People) },
		func() error { return reservation.CheckNewStatus(reservation.Status(in.Status)) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return time.Time{}, "", err
		}
	}
	return date, reservation.NormalizeTimeOfDay(in.ReservationTime), nil
}

// List は日付指定があれば日付で、なければ電話番号で予約を検索する
func (s *ReservationService) List(ctx context.Context, date, mobileNumber string) ([]*reservation.Reservation, error) {
	if date != "" {
		return s.listByDate(ctx, date)
	}
	return s.repo.SearchByMobileNumber(ctx, mobileNumber)
}

func (s *ReservationService) listByDate(ctx context.Context, dateStr string) ([]*reservation.Reservation, error) {
	date, err := s.schedule.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if cached, err := s.cache.GetByDate(ctx, date); err == nil {
			s.countCache("hit")
			return cached, nil
		}
		s.countCache("miss")
	}
	list, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetByDate(ctx, date, list, s.cacheTTL); err != nil {
			logger.Debug("キャッシュ保存をスキップ", zap.Error(err))
		}
	}
	return list, nil
}

func (s *ReservationService) Get(ctx context.Context, id string) (*reservation.Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

// Create は検証済みの予約を booked ステータスで作成する
func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (*reservation.Reservation, error) {
	date, timeOfDay, err := s.validate(in)
	if err != nil {
		s.countReservation("create", "rejected")
		return nil, err
	}

	res := reservation.New(in.FirstName, in.LastName, in.MobileNumber, date, timeOfDay, in.People)
	if err := s.repo.Create(ctx, res); err != nil {
		s.countReservation("create", "error")
		return nil, err
	}

	s.invalidateDate(ctx, date)
	s.countReservation("create", "success")
	logger.Info("予約を作成",
		zap.String("reservation_id", res.ID),
		zap.String("date", res.FormatDate()),
		zap.Int("people", res.People),
	)
	return res, nil
}

// Update は予約のフィールドを全置換で更新する
// 存在チェックを検証より先に行い、IDはルートパラメータの値が常に優先される
// ステータスの変更は専用の UpdateStatus 経由でのみ行う
func (s *ReservationService) Update(ctx context.Context, id string, in ReservationInput) (*reservation.Reservation, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	date, timeOfDay, err := s.validate(in)
	if err != nil {
		s.countReservation("update", "rejected")
		return nil, err
	}

	oldDate := existing.ReservationDate
	existing.FirstName = in.FirstName
	existing.LastName = in.LastName
	existing.MobileNumber = in.MobileNumber
	existing.ReservationDate = date
	existing.ReservationTime = timeOfDay
	existing.People = in.People
	existing.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, existing); err != nil {
		s.countReservation("update", "error")
		return nil, err
	}

	s.invalidateDate(ctx, oldDate)
	if !oldDate.Equal(date) {
		s.invalidateDate(ctx, date)
	}
	s.countReservation("update", "success")
	return existing, nil
}

// UpdateStatus は予約のステータスのみを遷移させる
func (s *ReservationService) UpdateStatus(ctx context.Context, id, status string) (*reservation.Reservation, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	requested := reservation.Status(status)
	if err := reservation.CheckTransition(existing.Status, requested); err != nil {
		s.countReservation("status", "rejected")
		return nil, err
	}

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.repo.UpdateStatus(ctx, tx, id, requested); err != nil {
		s.countReservation("status", "error")
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		s.countReservation("status", "error")
		return nil, err
	}

	existing.Status = requested
	existing.UpdatedAt = s.now()

	s.invalidateDate(ctx, existing.ReservationDate)
	s.countReservation("status", "success")
	logger.Info("予約ステータスを更新",
		zap.String("reservation_id", id),
		zap.String("status", status),
	)
	return existing, nil
}

func (s *ReservationService) invalidateDate(ctx context.Context, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDate(ctx, date); err != nil {
		logger.Warn("キャッシュ無効化に失敗", zap.Error(err), zap.Time("date", date))
	}
}

func (s *ReservationService) countReservation(operation, result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ReservationsTotal.WithLabelValues(operation, result).Inc()
}

func (s *ReservationService) countCache(result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ReservationCacheTotal.WithLabelValues(result).Inc()
}
