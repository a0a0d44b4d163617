package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-restaurant-reservation/internal/application"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/table"
)

type TableHandler struct {
	service TableServiceInterface
}

func NewTableHandler(s TableServiceInterface) *TableHandler {
	return &TableHandler{service: s}
}

type TableRequest struct {
	TableName string `json:"table_name" validate:"required,min=2"`
	Capacity  int    `json:"capacity" validate:"required,min=1"`
}

type SeatRequest struct {
	ReservationID string `json:"reservation_id" validate:"required"`
}

type TableResponse struct {
	TableID       string    `json:"table_id"`
	TableName     string    `json:"table_name"`
	Capacity      int       `json:"capacity"`
	ReservationID *string   `json:"reservation_id"`
	Occupied      bool      `json:"occupied"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toTableResponse(t *table.Table) TableResponse {
	return TableResponse{
		TableID:       t.ID,
		TableName:     t.Name,
		Capacity:      t.Capacity,
		ReservationID: t.ReservationID,
		Occupied:      t.Occupied(),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// mapTableError はテーブル関連のドメインエラーをHTTPエラーに写す
func mapTableError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	switch {
	case errors.Is(err, table.ErrTableNotFound), errors.Is(err, reservation.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case table.IsValidationError(err), reservation.IsValidationError(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// List godoc
// @Summary テーブル一覧を取得
// @Tags tables
// @Produce json
// @Success 200 {object} dataResponse
// @Router /tables [get]
func (h *TableHandler) List(c echo.Context) error {
	tables, err := h.service.List(c.Request().Context())
	if err != nil {
		return mapTableError(err)
	}
	resp := make([]TableResponse, len(tables))
	for i, t := range tables {
		resp[i] = toTableResponse(t)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: resp})
}

// Create godoc
// @Summary テーブルを作成
// @Tags tables
// @Accept json
// @Produce json
// @Param request body dataEnvelope true "テーブル情報"
// @Success 201 {object} dataResponse
// @Failure 400 {object} map[string]string
// @Router /tables [post]
func (h *TableHandler) Create(c echo.Context) error {
	var req TableRequest
	if err := decodeTablePayload(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	t, err := h.service.Create(c.Request().Context(), application.CreateTableInput{
		Name:     req.TableName,
		Capacity: req.Capacity,
	})
	if err != nil {
		return mapTableError(err)
	}
	return c.JSON(http.StatusCreated, dataResponse{Data: toTableResponse(t)})
}

// Seat godoc
// @Summary 予約をテーブルに着席させる
// @Description 予約を seated にし、テーブルを着席状態にします
// @Tags tables
// @Accept json
// @Produce json
// @Param table_id path string true "テーブルID"
// @Param request body dataEnvelope true "予約ID"
// @Success 200 {object} dataResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tables/{table_id}/seat [put]
func (h *TableHandler) Seat(c echo.Context) error {
	tableID := c.Param("table_id")

	var req SeatRequest
	if err := decodeTablePayload(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	t, err := h.service.Seat(c.Request().Context(), tableID, req.ReservationID)
	if err != nil {
		return mapTableError(err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: toTableResponse(t)})
}

// Finish godoc
// @Summary テーブルを空席に戻す
// @Description 着席中の予約を finished にし、テーブルを空席に戻します
// @Tags tables
// @Produce json
// @Param table_id path string true "テーブルID"
// @Success 200 {object} dataResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tables/{table_id}/seat [delete]
func (h *TableHandler) Finish(c echo.Context) error {
	tableID := c.Param("table_id")

	t, err := h.service.Finish(c.Request().Context(), tableID)
	if err != nil {
		return mapTableError(err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: toTableResponse(t)})
}
