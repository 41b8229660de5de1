package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/victoria-clinic/internal/catalog"
	"github.com/tbourn/victoria-clinic/internal/domain"
	"github.com/tbourn/victoria-clinic/internal/http/middleware"
	"github.com/tbourn/victoria-clinic/internal/services"
	"github.com/tbourn/victoria-clinic/internal/web"
)

// Index renders the landing page. A failing review query leaves the
// reviews block empty instead of failing the page.
func (h *Handlers) Index(c *gin.Context) {
	reviews, err := h.reviews.ListPublished(c.Request.Context(), services.LandingReviewsLimit)
	if err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("landing reviews unavailable")
		reviews = []domain.Review{}
	}
	c.HTML(http.StatusOK, web.IndexTemplate, gin.H{
		"AppName":     h.appName,
		"Categories":  catalog.Categories(),
		"Services":    catalog.Services(),
		"Specialists": catalog.Specialists(),
		"Reviews":     reviews,
	})
}

// AdminPage renders the admin panel. The token has already been checked by
// middleware.AdminToken.
func (h *Handlers) AdminPage(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := h.appts.StatusCounts(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load appointments")
		return
	}
	st, err := h.reviews.Stats(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load reviews")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, web.AdminTemplate, gin.H{
		"AppName":      h.appName,
		"Base":         "/" + c.Param("token") + "/admin",
		"StatusCounts": counts,
		"ReviewStats":  st,
	})
}
