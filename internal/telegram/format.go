package telegram

import (
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// FormatAppointmentNotice renders the HTML notice for a new appointment
// request. Blank service/comment lines are left out.
func FormatAppointmentNotice(name, phone string, service, comment *string) string {
	var b strings.Builder
	b.WriteString("🆕 <b>Новая заявка на запись!</b>\n\n")
	b.WriteString("👤 <b>Имя:</b> " + html.EscapeString(name) + "\n")
	b.WriteString("📱 <b>Телефон:</b> " + html.EscapeString(phone) + "\n")
	if v := optional(service); v != "" {
		b.WriteString("💅 <b>Услуга:</b> " + html.EscapeString(v) + "\n")
	}
	if v := optional(comment); v != "" {
		b.WriteString("💬 <b>Комментарий:</b> " + html.EscapeString(v) + "\n")
	}
	b.WriteString("\n📅 <i>Не забудьте связаться с клиентом!</i>")
	return b.String()
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// UpdateSummary is a flattened view of one update for diagnostics.
type UpdateSummary struct {
	UpdateID  int    `json:"update_id"`
	ChatID    int64  `json:"chat_id,omitempty"`
	ChatType  string `json:"chat_type,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	Text      string `json:"text,omitempty"`
}

// Summarize flattens updates for the diagnostics endpoint.
func Summarize(updates []tgbotapi.Update) []UpdateSummary {
	out := make([]UpdateSummary, 0, len(updates))
	for _, u := range updates {
		s := UpdateSummary{UpdateID: u.UpdateID}
		if m := u.Message; m != nil {
			s.Text = m.Text
			if m.Chat != nil {
				s.ChatID = m.Chat.ID
				s.ChatType = m.Chat.Type
				s.Username = m.Chat.UserName
				s.FirstName = m.Chat.FirstName
			}
		}
		out = append(out, s)
	}
	return out
}
