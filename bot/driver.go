package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meal-orders/config"
	"meal-orders/models"
	"meal-orders/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Telegram rejects messages longer than this.
const maxMessageLen = 4096

var ErrNoChat = errors.New("driver has no linked Telegram chat")

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// DriverBot sends drivers their routes and pay summaries (uses DRIVER_BOT_TOKEN).
type DriverBot struct {
	api    *tgbotapi.BotAPI
	out    sender
	logger *zap.SugaredLogger

	// overridable in tests; default to the outbound_messages table
	sentRecently func(ctx context.Context, chatID int64, kind, key string) (bool, error)
	record       func(ctx context.Context, chatID int64, content string, meta map[string]string) error
	linkChat     func(ctx context.Context, driverID uuid.UUID, chatID int64) error
}

// NewDriverBot creates a driver bot using DRIVER_BOT_TOKEN.
func NewDriverBot(cfg *config.Config, logger *zap.SugaredLogger) (*DriverBot, error) {
	if cfg.Telegram.DriverToken == "" {
		return nil, fmt.Errorf("DRIVER_BOT_TOKEN not set")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.DriverToken)
	if err != nil {
		return nil, err
	}
	b := newDriverBot(api, logger)
	b.api = api
	return b, nil
}

func newDriverBot(out sender, logger *zap.SugaredLogger) *DriverBot {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DriverBot{
		out:          out,
		logger:       logger,
		sentRecently: services.SentWithin30s,
		record:       services.SaveOutboundMessage,
		linkChat:     services.UpdateDriverChatID,
	}
}

// Start reads updates until ctx is done. Drivers link their chat with /link <driver-id>.
func (d *DriverBot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := d.api.GetUpdatesChan(u)
	defer d.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			d.handleMessage(ctx, update.Message.Chat.ID, strings.TrimSpace(update.Message.Text))
		}
	}
}

func (d *DriverBot) handleMessage(ctx context.Context, chatID int64, text string) {
	switch {
	case text == "/start":
		d.reply(chatID, "Send /link followed by your driver id to receive your routes and pay here.")
	case strings.HasPrefix(text, "/link"):
		arg := strings.TrimSpace(strings.TrimPrefix(text, "/link"))
		driverID, err := uuid.Parse(arg)
		if err != nil {
			d.reply(chatID, "Usage: /link <driver id>")
			return
		}
		if err := d.linkChat(ctx, driverID, chatID); err != nil {
			var nf *services.NotFoundError
			if errors.As(err, &nf) {
				d.reply(chatID, "Unknown driver id.")
				return
			}
			d.logger.Errorw("link driver chat", "driver_id", driverID, "error", err)
			d.reply(chatID, "Something went wrong, try again later.")
			return
		}
		d.logger.Infow("driver chat linked", "driver_id", driverID, "chat_id", chatID)
		d.reply(chatID, "Linked. Routes and pay summaries will arrive here.")
	default:
		d.reply(chatID, "Send /link <driver id> to link this chat.")
	}
}

func (d *DriverBot) reply(chatID int64, text string) {
	if _, err := d.out.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		d.logger.Warnw("driver bot send", "chat_id", chatID, "error", err)
	}
}

// SendRoute sends the driver their labels for one day.
func (d *DriverBot) SendRoute(ctx context.Context, driver models.Driver, weekStart string, day int, labels []models.Label) error {
	key := fmt.Sprintf("%s:%d", weekStart, day)
	return d.deliver(ctx, driver, "route", key, services.BuildRouteMessage(driver.FullName, day, labels))
}

// SendPay sends the driver their pay summary for a week.
func (d *DriverBot) SendPay(ctx context.Context, driver models.Driver, report models.DriverPayReport) error {
	rec := models.DriverPayRecord{DriverID: driver.ID, DriverName: driver.FullName, TotalPay: decimal.Zero}
	for _, r := range report.Drivers {
		if r.DriverID == driver.ID {
			rec = r
			break
		}
	}
	text := services.BuildPayMessage(report.WeekStartDate, report.DeliveryFeePerMeal.StringFixed(2), rec)
	return d.deliver(ctx, driver, "pay", report.WeekStartDate, text)
}

func (d *DriverBot) deliver(ctx context.Context, driver models.Driver, kind, key, text string) error {
	if driver.ChatID == 0 {
		return ErrNoChat
	}
	dup, err := d.sentRecently(ctx, driver.ChatID, kind, key)
	if err != nil {
		return fmt.Errorf("check recent messages: %w", err)
	}
	if dup {
		d.logger.Infow("skipping duplicate driver message", "driver_id", driver.ID, "kind", kind, "key", key)
		return nil
	}
	for _, part := range splitMessage(text, maxMessageLen) {
		if _, err := d.out.Send(tgbotapi.NewMessage(driver.ChatID, part)); err != nil {
			return fmt.Errorf("send %s message: %w", kind, err)
		}
	}
	meta := map[string]string{"kind": kind, "key": key, "driver_id": driver.ID.String()}
	if err := d.record(ctx, driver.ChatID, text, meta); err != nil {
		d.logger.Warnw("record outbound message", "driver_id", driver.ID, "error", err)
	}
	return nil
}

// splitMessage cuts text into chunks of at most limit bytes, preferring line breaks.
func splitMessage(text string, limit int) []string {
	var parts []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
		}
		parts = append(parts, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}
