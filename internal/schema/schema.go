// Package schema validates and normalizes the payloads accepted by the public
// forms. Every string is trimmed and NFC-normalized before the rules run, and
// a failed validation reports all offending fields at once.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

// Messages shown to site visitors.
const (
	MsgValidationFailed = "Ошибка валидации данных"
	MsgConsentRequired  = "Необходимо согласие на обработку персональных данных"
	MsgInvalidPhone     = "Некорректный формат телефона. Используйте: +79991234567 или 89991234567"
	MsgInvalidRating    = "Оценка должна быть от 1 до 5"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// FieldErrors is the complete list of problems found in a payload.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, e.Field+": "+e.Tag)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Has reports whether field failed validation.
func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

// AsFieldErrors extracts FieldErrors from err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("ruphone", func(fl validator.FieldLevel) bool {
			_, err := NormalizePhone(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

// check runs the struct rules and converts the result into FieldErrors.
func check(s any) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Field() {
	case "agreed_to_processing":
		return MsgConsentRequired
	case "phone":
		if fe.Tag() == "ruphone" {
			return MsgInvalidPhone
		}
	case "rating":
		return MsgInvalidRating
	}
	switch fe.Tag() {
	case "required":
		return "Обязательное поле"
	case "min":
		return fmt.Sprintf("Минимальная длина: %s", fe.Param())
	case "max":
		return fmt.Sprintf("Максимальная длина: %s", fe.Param())
	}
	return "Некорректное значение"
}

// clean trims surrounding whitespace and applies Unicode NFC.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// cleanOptional cleans *s and collapses blank values to nil.
func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := clean(*s)
	if v == "" {
		return nil
	}
	return &v
}
