package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/victoria-clinic/internal/domain"
	"github.com/tbourn/victoria-clinic/internal/http/middleware"
	"github.com/tbourn/victoria-clinic/internal/schema"
	"github.com/tbourn/victoria-clinic/internal/services"
)

// ReviewListResponse is returned by the public review listing.
type ReviewListResponse struct {
	Success bool            `json:"success" example:"true"`
	Data    []domain.Review `json:"data"`
}

// ReviewModerationResponse is returned by the moderation listing.
type ReviewModerationResponse struct {
	Success bool                 `json:"success" example:"true"`
	Data    []domain.Review      `json:"data"`
	Stats   services.ReviewStats `json:"stats"`
}

// CreateReview godoc
// @ID          createReview
// @Summary     Submit a review
// @Description Stores a testimonial unpublished; it appears on the site after moderation.
// @Tags        Reviews
// @Accept      json
// @Produce     json
// @Param       body  body  schema.ReviewCreate  true  "Review form"
// @Success     201  {object}  handlers.FormResponse
// @Failure     400  {object}  handlers.FormResponse
// @Failure     429  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.FormResponse
// @Router      /api/reviews [post]
func (h *Handlers) CreateReview(c *gin.Context) {
	var in schema.ReviewCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		formFail(c, http.StatusBadRequest, schema.MsgValidationFailed, []schema.FieldError{
			{Field: "body", Tag: "json", Message: MsgInvalidJSON},
		}, nil)
		return
	}

	r, err := h.reviews.Create(c.Request.Context(), in)
	if err != nil {
		if fe, isFE := schema.AsFieldErrors(err); isFE {
			formFail(c, http.StatusBadRequest, schema.MsgValidationFailed, fe, nil)
			return
		}
		formFail(c, http.StatusInternalServerError, MsgReviewFailed, nil, err)
		return
	}
	middleware.LoggerFrom(c).Info().Str("review_id", r.ID).Int("rating", r.Rating).Msg("review submitted")
	formOK(c, http.StatusCreated, MsgReviewCreated, r)
}

// ListPublishedReviews godoc
// @ID          listPublishedReviews
// @Summary     List published reviews
// @Tags        Reviews
// @Produce     json
// @Success     200  {object}  handlers.ReviewListResponse
// @Failure     500  {object}  handlers.FormResponse
// @Router      /api/reviews [get]
func (h *Handlers) ListPublishedReviews(c *gin.Context) {
	items, err := h.reviews.ListPublished(c.Request.Context(), 0)
	if err != nil {
		formFail(c, http.StatusInternalServerError, MsgReviewsLoadFailed, nil, err)
		return
	}
	ok(c, http.StatusOK, ReviewListResponse{Success: true, Data: items})
}

// ListAllReviews godoc
// @ID          listAllReviews
// @Summary     List every review with moderation stats
// @Tags        Moderation
// @Produce     json
// @Success     200  {object}  handlers.ReviewModerationResponse
// @Failure     500  {object}  handlers.FormResponse
// @Router      /api/reviews/all [get]
func (h *Handlers) ListAllReviews(c *gin.Context) {
	items, st, err := h.reviews.ListAll(c.Request.Context())
	if err != nil {
		formFail(c, http.StatusInternalServerError, MsgReviewsLoadFailed, nil, err)
		return
	}
	ok(c, http.StatusOK, ReviewModerationResponse{Success: true, Data: items, Stats: st})
}

// PublishReview godoc
// @ID          publishReview
// @Summary     Publish a review
// @Tags        Moderation
// @Produce     json
// @Param       id  path  string  true  "Review ID"  format(uuid)
// @Success     200  {object}  handlers.FormResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /api/reviews/{id}/publish [post]
func (h *Handlers) PublishReview(c *gin.Context) {
	r, err := h.reviews.Publish(c.Request.Context(), c.Param("id"))
	h.moderated(c, r, err, MsgReviewPublished)
}

// UnpublishReview godoc
// @ID          unpublishReview
// @Summary     Hide a review
// @Tags        Moderation
// @Produce     json
// @Param       id  path  string  true  "Review ID"  format(uuid)
// @Success     200  {object}  handlers.FormResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /api/reviews/{id}/unpublish [post]
func (h *Handlers) UnpublishReview(c *gin.Context) {
	r, err := h.reviews.Unpublish(c.Request.Context(), c.Param("id"))
	h.moderated(c, r, err, MsgReviewUnpublished)
}

// DeleteReview godoc
// @ID          deleteReview
// @Summary     Delete a review
// @Tags        Moderation
// @Produce     json
// @Param       id  path  string  true  "Review ID"  format(uuid)
// @Success     200  {object}  handlers.FormResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /api/reviews/{id} [delete]
func (h *Handlers) DeleteReview(c *gin.Context) {
	err := h.reviews.Delete(c.Request.Context(), c.Param("id"))
	h.moderated(c, nil, err, MsgReviewDeleted)
}

func (h *Handlers) moderated(c *gin.Context, r *domain.Review, err error, msg string) {
	switch {
	case err == nil:
		middleware.LoggerFrom(c).Info().Str("review_id", c.Param("id")).Msg(msg)
		if r == nil {
			formOK(c, http.StatusOK, msg, nil)
			return
		}
		formOK(c, http.StatusOK, msg, r)
	case errors.Is(err, services.ErrReviewNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "review not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
	}
}
