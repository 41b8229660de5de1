package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAppointmentNotice_Full(t *testing.T) {
	service, comment := "Пилинг", "после 15:00"
	got := FormatAppointmentNotice("Анна", "+79991234567", &service, &comment)

	want := "🆕 <b>Новая заявка на запись!</b>\n\n" +
		"👤 <b>Имя:</b> Анна\n" +
		"📱 <b>Телефон:</b> +79991234567\n" +
		"💅 <b>Услуга:</b> Пилинг\n" +
		"💬 <b>Комментарий:</b> после 15:00\n" +
		"\n📅 <i>Не забудьте связаться с клиентом!</i>"
	assert.Equal(t, want, got)
}

func TestFormatAppointmentNotice_OmitsBlankOptionals(t *testing.T) {
	blank := "  "
	got := FormatAppointmentNotice("Анна", "+79991234567", nil, &blank)
	assert.NotContains(t, got, "Услуга")
	assert.NotContains(t, got, "Комментарий")
	assert.True(t, strings.HasSuffix(got, "<i>Не забудьте связаться с клиентом!</i>"))
}

func TestFormatAppointmentNotice_EscapesUserInput(t *testing.T) {
	comment := "<script>alert(1)</script> & co"
	got := FormatAppointmentNotice("<b>Eve</b>", "+79991234567", nil, &comment)
	assert.Contains(t, got, "&lt;b&gt;Eve&lt;/b&gt;")
	assert.Contains(t, got, "&lt;script&gt;alert(1)&lt;/script&gt; &amp; co")
	assert.NotContains(t, got, "<script>")
}
