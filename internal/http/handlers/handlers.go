package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tbourn/victoria-clinic/internal/domain"
	"github.com/tbourn/victoria-clinic/internal/schema"
	"github.com/tbourn/victoria-clinic/internal/services"
	"github.com/tbourn/victoria-clinic/internal/telegram"
	"github.com/tbourn/victoria-clinic/internal/utils"
)

//
// Service contracts (context-aware)
//

// AppointmentService is the appointment use-case surface consumed by HTTP
// handlers. Implementations must honor the context for cancellation.
type AppointmentService interface {
	// CreateWithKey validates and stores a request; a known key replays the
	// original appointment with replayed=true.
	CreateWithKey(ctx context.Context, in schema.AppointmentCreate, key string) (*domain.Appointment, bool, error)
	// Notify tells staff about a; failures are absorbed.
	Notify(ctx context.Context, a *domain.Appointment) telegram.BroadcastResult
	// ListPage returns a page of appointments and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Appointment, int64, error)
	// ListAll returns every appointment, newest first.
	ListAll(ctx context.Context) ([]domain.Appointment, error)
	// StatusCounts returns the number of appointments per status.
	StatusCounts(ctx context.Context) (map[domain.AppointmentStatus]int64, error)
	// UpdateStatus moves an appointment through the status machine.
	UpdateStatus(ctx context.Context, id, status string) (*domain.Appointment, error)
}

// ReviewService is the review submission and moderation surface.
type ReviewService interface {
	Create(ctx context.Context, in schema.ReviewCreate) (*domain.Review, error)
	ListPublished(ctx context.Context, limit int) ([]domain.Review, error)
	ListAll(ctx context.Context) ([]domain.Review, services.ReviewStats, error)
	Stats(ctx context.Context) (services.ReviewStats, error)
	Publish(ctx context.Context, id string) (*domain.Review, error)
	Unpublish(ctx context.Context, id string) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}

// TelegramDiagnostics exposes the notifier's view of the bot for the test
// endpoint.
type TelegramDiagnostics interface {
	Enabled() bool
	StaticRecipients() []string
	RecentUpdates(ctx context.Context) ([]tgbotapi.Update, error)
	RecipientsFrom(updates []tgbotapi.Update) []string
}

//
// Handler wiring
//

// Handlers groups the site's endpoints. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	appts   AppointmentService
	reviews ReviewService
	tg      TelegramDiagnostics
	appName string
}

// New constructs Handlers bound to the given services. tg may be nil, in
// which case the Telegram test endpoint reports the bot as disabled.
func New(appts AppointmentService, reviews ReviewService, tg TelegramDiagnostics, appName string) *Handlers {
	return &Handlers{appts: appts, reviews: reviews, tg: tg, appName: appName}
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params,
// returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	return utils.ParsePage(c.Query("page"), c.Query("page_size"))
}
