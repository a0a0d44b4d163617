package handler

import (
	"context"

	"github.com/sanosuguru/go-restaurant-reservation/internal/application"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/table"
)

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	List(ctx context.Context, date, mobileNumber string) ([]*reservation.Reservation, error)
	Get(ctx context.Context, id string) (*reservation.Reservation, error)
	Create(ctx context.Context, input application.ReservationInput) (*reservation.Reservation, error)
	Update(ctx context.Context, id string, input application.ReservationInput) (*reservation.Reservation, error)
	UpdateStatus(ctx context.Context, id, status string) (*reservation.Reservation, error)
}

// TableServiceInterface はテーブルサービスのインターフェース
type TableServiceInterface interface {
	List(ctx context.Context) ([]*table.Table, error)
	Create(ctx context.Context, input application.CreateTableInput) (*table.Table, error)
	Seat(ctx context.Context, tableID, reservationID string) (*table.Table, error)
	Finish(ctx context.Context, tableID string) (*table.Table, error)
}
