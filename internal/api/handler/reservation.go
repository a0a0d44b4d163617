package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-restaurant-reservation/internal/application"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

// dataEnvelope はリクエスト・レスポンス共通の {data: ...} 形式
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type dataResponse struct {
	Data interface{} `json:"data"`
}

type ReservationRequest struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	MobileNumber    string `json:"mobile_number" validate:"required"`
	ReservationDate string `json:"reservation_date" validate:"required"`
	ReservationTime string `json:"reservation_time" validate:"required"`
	People          int    `json:"people" validate:"required"`
	Status          string `json:"status"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ReservationResponse struct {
	ReservationID   string    `json:"reservation_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	MobileNumber    string    `json:"mobile_number"`
	ReservationDate string    `json:"reservation_date"`
	ReservationTime string    `json:"reservation_time"`
	People          int       `json:"people"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ReservationID:   r.ID,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		MobileNumber:    r.MobileNumber,
		ReservationDate: r.FormatDate(),
		ReservationTime: r.FormatTime(),
		People:          r.People,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// decodePayload は {data: ...} ペイロードを検証付きでデコードする
// rejectFields が非nilなら、返されたフィールド名を 400 として拒否する
func decodePayload(c echo.Context, dst interface{}, rejectFields func([]string) []string) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの読み取りに失敗しました")
	}

	var env dataEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエストです")
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return echo.NewHTTPError(http.StatusBadRequest, "data が必要です")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "data はオブジェクトである必要があります")
	}
	if rejectFields != nil {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		if unknown := rejectFields(keys); len(unknown) > 0 {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("不明なフィールド: %s", strings.Join(unknown, ", ")))
		}
	}

	if err := json.Unmarshal(env.Data, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("%s の型が不正です", typeErr.Field))
		}
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエストです")
	}
	return nil
}

// decodeReservationPayload は予約ペイロード用（許可リスト外フィールドを拒否）
func decodeReservationPayload(c echo.Context, dst interface{}) error {
	return decodePayload(c, dst, reservation.UnknownFields)
}

// decodeTablePayload はテーブルペイロード用（フィールド制限なし）
func decodeTablePayload(c echo.Context, dst interface{}) error {
	return decodePayload(c, dst, nil)
}

// mapReservationError はドメインエラーをHTTPエラーに写す
func mapReservationError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	switch {
	case errors.Is(err, reservation.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case reservation.IsValidationError(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// List godoc
// @Summary 予約一覧を取得
// @Description date 指定時はその日の予約（finished 除く・時刻順）、なければ mobile_number の部分一致で検索します
// @Tags reservations
// @Produce json
// @Param date query string false "予約日（YYYY-MM-DD）"
// @Param mobile_number query string false "電話番号（部分一致）"
// @Success 200 {object} dataResponse
// @Failure 400 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	date := c.QueryParam("date")
	mobile := c.QueryParam("mobile_number")

	reservations, err := h.service.List(c.Request().Context(), date, mobile)
	if err != nil {
		return mapReservationError(err)
	}

	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: resp})
}

// GetByID godoc
// @Summary 予約を取得
// @Tags reservations
// @Produce json
// @Param reservation_id path string true "予約ID"
// @Success 200 {object} dataResponse
// @Failure 404 {object} map[string]string
// @Router /reservations/{reservation_id} [get]
func (h *ReservationHandler) GetByID(c echo.Context) error {
	id := c.Param("reservation_id")
	r, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return mapReservationError(err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: toReservationResponse(r)})
}

// Create godoc
// @Summary 予約を作成
// @Description ステータス booked の予約を作成します
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body dataEnvelope true "予約情報"
// @Success 201 {object} dataResponse
// @Failure 400 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	var req ReservationRequest
	if err := decodeReservationPayload(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	r, err := h.service.Create(c.Request().Context(), application.ReservationInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		MobileNumber:    req.MobileNumber,
		ReservationDate: req.ReservationDate,
		ReservationTime: req.ReservationTime,
		People:          req.People,
		Status:          req.Status,
	})
	if err != nil {
		return mapReservationError(err)
	}
	return c.JSON(http.StatusCreated, dataResponse{Data: toReservationResponse(r)})
}

// Update godoc
// @Summary 予約を更新
// @Description 予約のフィールドを全置換で更新します（ステータスは対象外）
// @Tags reservations
// @Accept json
// @Produce json
// @Param reservation_id path string true "予約ID"
// @Param request body dataEnvelope true "予約情報"
// @Success 200 {object} dataResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{reservation_id} [put]
func (h *ReservationHandler) Update(c echo.Context) error {
	id := c.Param("reservation_id")

	var req ReservationRequest
	if err := decodeReservationPayload(c, &req); err != nil {
		return err
	}

	// 存在しない予約の 404 をペイロード検証より優先する
	if _, err := h.service.Get(c.Request().Context(), id); err != nil {
		return mapReservationError(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	r, err := h.service.Update(c.Request().Context(), id, application.ReservationInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		MobileNumber:    req.MobileNumber,
		ReservationDate: req.ReservationDate,
		ReservationTime: req.ReservationTime,
		People:          req.People,
		Status:          req.Status,
	})
	if err != nil {
		return mapReservationError(err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: toReservationResponse(r)})
}

// UpdateStatus godoc
// @Summary 予約ステータスを更新
// @Description booked/seated/finished/cancelled へのステータス遷移を行います
// @Tags reservations
// @Accept json
// @Produce json
// @Param reservation_id path string true "予約ID"
// @Param request body dataEnvelope true "ステータス"
// @Success 200 {object} dataResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{reservation_id}/status [put]
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id := c.Param("reservation_id")

	var req StatusRequest
	if err := decodeReservationPayload(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	r, err := h.service.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return mapReservationError(err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: toReservationResponse(r)})
}
