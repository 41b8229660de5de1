package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/victoria-clinic/internal/telegram"
)

// TelegramTestResponse reports what the bot currently sees.
type TelegramTestResponse struct {
	Success          bool                     `json:"success"`
	Enabled          bool                     `json:"enabled"`
	StaticRecipients []string                 `json:"static_recipients"`
	Updates          []telegram.UpdateSummary `json:"updates"`
	UpdatesError     string                   `json:"updates_error,omitempty"`
	Recipients       []string                 `json:"recipients"`
}

// TelegramTest godoc
// @ID          telegramTest
// @Summary     Telegram bot diagnostics
// @Description Lists recent bot updates and the chat ids a notice would be sent to.
// @Tags        Diagnostics
// @Produce     json
// @Success     200  {object}  handlers.TelegramTestResponse
// @Router      /api/telegram/test [get]
func (h *Handlers) TelegramTest(c *gin.Context) {
	resp := TelegramTestResponse{
		StaticRecipients: []string{},
		Updates:          []telegram.UpdateSummary{},
		Recipients:       []string{},
	}
	if h.tg == nil || !h.tg.Enabled() {
		resp.UpdatesError = telegram.ErrDisabled.Error()
		ok(c, http.StatusOK, resp)
		return
	}

	ctx := c.Request.Context()
	resp.Success = true
	resp.Enabled = true
	if s := h.tg.StaticRecipients(); s != nil {
		resp.StaticRecipients = s
	}
	// One getUpdates call feeds both the summary and the recipient list.
	updates, err := h.tg.RecentUpdates(ctx)
	if err != nil {
		resp.Success = false
		resp.UpdatesError = err.Error()
	} else {
		resp.Updates = telegram.Summarize(updates)
	}
	if r := h.tg.RecipientsFrom(updates); r != nil {
		resp.Recipients = r
	}
	ok(c, http.StatusOK, resp)
}
