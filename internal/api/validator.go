package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator はEcho用のカスタムバリデーター
// エラーメッセージはJSONフィールド名で返す
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator は新しいバリデーターを作成する
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate はリクエストのバリデーションを実行する
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return echo.NewHTTPError(http.StatusBadRequest, strings.Join(messages, ", "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s は必須です", fe.Field())
	case "min":
		return fmt.Sprintf("%s は %s 以上である必要があります", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s は %s 以下である必要があります", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s が不正です", fe.Field())
	}
}
