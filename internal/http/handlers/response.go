// Package handlers provides the HTTP handlers of the clinic site.
//
// This file defines the two response shapes used across endpoints.
//
// Form endpoints (POST /api/appointments, POST /api/reviews) and the review
// listings answer with a FormResponse, which the landing page scripts read:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "success": false,
//	  "message": "Ошибка валидации данных",
//	  "errors": [{"field": "phone", "tag": "ruphone", "message": "..."}]
//	}
//
// Everything else reports failures with an ErrorResponse carrying a stable
// machine-readable code:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "review not found"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/victoria-clinic/internal/http/middleware"
	"github.com/tbourn/victoria-clinic/internal/schema"
)

// ErrorResponse is the error envelope of the JSON API.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"resource not found"`
}

// FormResponse is the envelope used by the public form endpoints.
type FormResponse struct {
	Success bool                `json:"success" example:"true"`
	Message string              `json:"message,omitempty" example:"Заявка успешно отправлена! Мы свяжемся с вами в ближайшее время."`
	Data    any                 `json:"data,omitempty"`
	Errors  []schema.FieldError `json:"errors,omitempty"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for the router's NoRoute/NoMethod.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// formOK writes {success:true, message, data}.
func formOK(c *gin.Context, status int, msg string, data any) {
	c.JSON(status, FormResponse{Success: true, Message: msg, Data: data})
}

// formFail aborts with {success:false, message, errors}. Server errors are
// logged with err; the client only sees msg.
func formFail(c *gin.Context, status int, msg string, errs []schema.FieldError, err error) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().Err(err).Int("status", status).Msg("form request failed")
	}
	c.AbortWithStatusJSON(status, FormResponse{Success: false, Message: msg, Errors: errs})
}
