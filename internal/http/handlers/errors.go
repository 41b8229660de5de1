// Package handlers defines HTTP-layer error codes used across the JSON API.
//
// Codes are lowercase snake_case. Generic codes mirror HTTP status semantics;
// domain-specific ones name the operation that failed. Clients branch on the
// code, never on the message.
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeForbidden   = "forbidden"
	ErrCodeNotFound    = "not_found"
	ErrCodeConflict    = "conflict"
	ErrCodeRateLimited = "rate_limited"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeListFailed       = "list_failed"
	ErrCodeUpdateFailed     = "update_failed"
	ErrCodeExportFailed     = "export_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// User-facing messages of the form endpoints.
const (
	MsgAppointmentCreated = "Заявка успешно отправлена! Мы свяжемся с вами в ближайшее время."
	MsgAppointmentFailed  = "Произошла ошибка при обработке заявки. Попробуйте позже."
	MsgReviewCreated      = "Спасибо за ваш отзыв! Он появится на сайте после модерации."
	MsgReviewFailed       = "Произошла ошибка при отправке отзыва. Попробуйте позже."
	MsgReviewsLoadFailed  = "Ошибка при загрузке отзывов"
	MsgReviewPublished    = "Отзыв опубликован"
	MsgReviewUnpublished  = "Отзыв скрыт"
	MsgReviewDeleted      = "Отзыв удалён"
	MsgInvalidJSON        = "Некорректный JSON"
)
