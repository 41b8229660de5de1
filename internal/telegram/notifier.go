// Package telegram forwards clinic notices to Telegram chats through the Bot
// API.
//
// Recipients are the configured chat ids followed by every chat that has
// written to the bot recently (taken from getUpdates), without duplicates.
// Broadcasts are sequential and best-effort: each recipient is attempted
// once and counted as sent or failed independently.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tbourn/victoria-clinic/internal/config"
	"github.com/tbourn/victoria-clinic/internal/observability"
)

// NoRecipientsMessage is reported when a broadcast has nobody to reach.
const NoRecipientsMessage = "Нет пользователей, которые начали чат с ботом"

// ErrDisabled is returned by RecentUpdates when no bot token is configured.
var ErrDisabled = errors.New("telegram notifier disabled")

var messagesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "telegram_messages_total",
		Help: "Telegram messages attempted, by result.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(messagesTotal)
}

// BotClient is the subset of *tgbotapi.BotAPI the notifier depends on.
type BotClient interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// BroadcastResult is the per-broadcast accounting.
type BroadcastResult struct {
	Success int    `json:"success"`
	Failed  int    `json:"failed"`
	Total   int    `json:"total"`
	Message string `json:"message,omitempty"`
}

// Notifier sends messages to the static and discovered recipients.
// A Notifier without a bot is disabled and behaves as if nobody is
// subscribed.
type Notifier struct {
	bot     BotClient
	chatIDs []string
	limit   int
	log     zerolog.Logger
}

// New builds a Notifier from configuration. No network call is made here;
// an empty bot token yields a disabled Notifier.
func New(cfg config.TelegramConfig, log zerolog.Logger) *Notifier {
	if strings.TrimSpace(cfg.BotToken) == "" {
		return NewWithClient(nil, cfg.ChatIDs, cfg.UpdatesLimit, log)
	}
	bot := &tgbotapi.BotAPI{
		Token:  cfg.BotToken,
		Client: &http.Client{Timeout: cfg.Timeout},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(cfg.APIEndpoint)
	return NewWithClient(bot, cfg.ChatIDs, cfg.UpdatesLimit, log)
}

// NewWithClient wires an explicit BotClient. bot may be nil.
func NewWithClient(bot BotClient, chatIDs []string, limit int, log zerolog.Logger) *Notifier {
	if limit < 1 || limit > 100 {
		limit = 100
	}
	ids := make([]string, 0, len(chatIDs))
	for _, id := range chatIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return &Notifier{
		bot:     bot,
		chatIDs: ids,
		limit:   limit,
		log:     log.With().Str("component", "telegram").Logger(),
	}
}

// Enabled reports whether a bot token was configured.
func (n *Notifier) Enabled() bool { return n != nil && n.bot != nil }

// StaticRecipients returns a copy of the configured chat ids.
func (n *Notifier) StaticRecipients() []string {
	return append([]string(nil), n.chatIDs...)
}

// RecentUpdates fetches the bot's pending updates. Errors are returned as is;
// callers use this for diagnostics.
func (n *Notifier) RecentUpdates(ctx context.Context) ([]tgbotapi.Update, error) {
	if !n.Enabled() {
		return nil, ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u := tgbotapi.NewUpdate(0)
	u.Limit = n.limit
	updates, err := n.bot.GetUpdates(u)
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}
	return updates, nil
}

// DiscoverRecipients fetches recent updates once and derives the recipient
// list from them with RecipientsFrom. A getUpdates failure is logged and only
// the static ids are returned.
func (n *Notifier) DiscoverRecipients(ctx context.Context) []string {
	if !n.Enabled() {
		return nil
	}
	updates, err := n.RecentUpdates(ctx)
	if err != nil {
		n.log.Warn().Err(err).Msg("recipient discovery failed; using static chat ids")
	}
	return n.RecipientsFrom(updates)
}

// RecipientsFrom returns the configured ids in order, then the chat ids seen
// in updates in order of first appearance, deduplicated. It makes no network
// call, so a caller holding a batch of updates can reuse it.
func (n *Notifier) RecipientsFrom(updates []tgbotapi.Update) []string {
	if !n.Enabled() {
		return nil
	}
	seen := make(map[string]struct{}, len(n.chatIDs))
	out := make([]string, 0, len(n.chatIDs))
	add := func(id string) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range n.chatIDs {
		add(id)
	}
	for _, u := range updates {
		if u.Message == nil || u.Message.Chat == nil {
			continue
		}
		add(strconv.FormatInt(u.Message.Chat.ID, 10))
	}
	return out
}

// Broadcast sends text (HTML parse mode) to every recipient, one at a time.
// A failed send is counted and the loop moves on; nothing is retried. If
// ctx is cancelled, the remaining recipients are counted as failed.
func (n *Notifier) Broadcast(ctx context.Context, text string) (res BroadcastResult) {
	ctx, span := observability.Tracer().Start(ctx, "telegram.broadcast")
	defer func() {
		span.SetAttributes(
			attribute.Int("telegram.recipients", res.Total),
			attribute.Int("telegram.sent", res.Success),
			attribute.Int("telegram.failed", res.Failed),
		)
		if res.Failed > 0 {
			span.SetStatus(codes.Error, "some sends failed")
		}
		span.End()
	}()

	recipients := n.DiscoverRecipients(ctx)
	if len(recipients) == 0 {
		n.log.Warn().Msg("no recipients for broadcast")
		return BroadcastResult{Message: NoRecipientsMessage}
	}

	res = BroadcastResult{Total: len(recipients)}
	for _, id := range recipients {
		if ctx.Err() != nil {
			res.Failed++
			messagesTotal.WithLabelValues("failed").Inc()
			continue
		}
		if _, err := n.bot.Send(newMessage(id, text)); err != nil {
			res.Failed++
			messagesTotal.WithLabelValues("failed").Inc()
			n.log.Error().Err(err).Str("chat_id", id).Msg("telegram send failed")
			continue
		}
		res.Success++
		messagesTotal.WithLabelValues("sent").Inc()
		n.log.Debug().Str("chat_id", id).Msg("telegram message sent")
	}

	n.log.Info().
		Int("success", res.Success).
		Int("failed", res.Failed).
		Int("total", res.Total).
		Msg("broadcast finished")
	return res
}

// newMessage addresses numeric ids as chats and anything else (e.g.
// "@clinic_channel") as a channel username.
func newMessage(chatID, text string) tgbotapi.MessageConfig {
	var msg tgbotapi.MessageConfig
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		msg = tgbotapi.NewMessage(id, text)
	} else {
		msg = tgbotapi.NewMessageToChannel(chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}
