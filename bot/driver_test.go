package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"meal-orders/models"
	"meal-orders/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

type recorded struct {
	chatID int64
	meta   map[string]string
}

func newTestBot(out *fakeSender, dup bool) (*DriverBot, *[]recorded) {
	var recs []recorded
	b := newDriverBot(out, nil)
	b.sentRecently = func(ctx context.Context, chatID int64, kind, key string) (bool, error) {
		return dup, nil
	}
	b.record = func(ctx context.Context, chatID int64, content string, meta map[string]string) error {
		recs = append(recs, recorded{chatID: chatID, meta: meta})
		return nil
	}
	return b, &recs
}

func TestSendRoute(t *testing.T) {
	out := &fakeSender{}
	b, recs := newTestBot(out, false)
	driver := models.Driver{ID: uuid.New(), FullName: "Luis", ChatID: 42}
	labels := []models.Label{{CustomerName: "Ana", DayOfWeek: 1, BagIndex: 1, TotalBags: 1, BalanceDue: decimal.Zero}}

	if err := b.SendRoute(context.Background(), driver, "2026-10-12", 1, labels); err != nil {
		t.Fatalf("SendRoute: %v", err)
	}
	if len(out.sent) != 1 || out.sent[0].ChatID != 42 {
		t.Fatalf("sent = %+v, want one message to chat 42", out.sent)
	}
	if !strings.Contains(out.sent[0].Text, "Monday route") {
		t.Errorf("route text = %q", out.sent[0].Text)
	}
	if len(*recs) != 1 || (*recs)[0].meta["kind"] != "route" || (*recs)[0].meta["key"] != "2026-10-12:1" {
		t.Errorf("recorded = %+v", *recs)
	}
}

func TestSendRouteDeduplicates(t *testing.T) {
	out := &fakeSender{}
	b, recs := newTestBot(out, true)
	driver := models.Driver{ID: uuid.New(), FullName: "Luis", ChatID: 42}
	if err := b.SendRoute(context.Background(), driver, "2026-10-12", 1, nil); err != nil {
		t.Fatal(err)
	}
	if len(out.sent) != 0 || len(*recs) != 0 {
		t.Errorf("duplicate send went out: sent=%d recorded=%d", len(out.sent), len(*recs))
	}
}

func TestSendWithoutChat(t *testing.T) {
	b, _ := newTestBot(&fakeSender{}, false)
	err := b.SendPay(context.Background(), models.Driver{ID: uuid.New(), FullName: "Luis"}, models.DriverPayReport{})
	if !errors.Is(err, ErrNoChat) {
		t.Errorf("err = %v, want ErrNoChat", err)
	}
}

func TestSendPay(t *testing.T) {
	out := &fakeSender{}
	b, _ := newTestBot(out, false)
	driver := models.Driver{ID: uuid.New(), FullName: "Luis", ChatID: 7}
	report := models.DriverPayReport{
		WeekStartDate:      "2026-10-12",
		DeliveryFeePerMeal: decimal.RequireFromString("1.5"),
		Drivers: []models.DriverPayRecord{{
			DriverID:       driver.ID,
			DriverName:     "Luis",
			DailyBreakdown: map[int]models.DriverDayStats{1: {MealCount: 4, DeliveryCount: 2}},
			TotalMeals:     4,
			TotalPay:       decimal.RequireFromString("6"),
		}},
	}
	if err := b.SendPay(context.Background(), driver, report); err != nil {
		t.Fatal(err)
	}
	if len(out.sent) != 1 || !strings.Contains(out.sent[0].Text, "Total: 4 meals × $1.50 = $6.00") {
		t.Errorf("sent = %+v", out.sent)
	}
}

func TestSendFailureIsReturned(t *testing.T) {
	out := &fakeSender{err: errors.New("telegram down")}
	b, recs := newTestBot(out, false)
	driver := models.Driver{ID: uuid.New(), FullName: "Luis", ChatID: 7}
	if err := b.SendRoute(context.Background(), driver, "2026-10-12", 2, nil); err == nil {
		t.Fatal("expected error")
	}
	if len(*recs) != 0 {
		t.Error("failed send was recorded")
	}
}

func TestHandleLink(t *testing.T) {
	driverID := uuid.New()
	tests := []struct {
		name     string
		text     string
		linkErr  error
		wantLink bool
		wantText string
	}{
		{"start", "/start", nil, false, "/link"},
		{"link ok", "/link " + driverID.String(), nil, true, "Linked."},
		{"bad id", "/link nope", nil, false, "Usage"},
		{"unknown driver", "/link " + driverID.String(), &services.NotFoundError{Entity: "driver", ID: driverID.String()}, true, "Unknown driver"},
		{"db failure", "/link " + driverID.String(), errors.New("boom"), true, "went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &fakeSender{}
			b, _ := newTestBot(out, false)
			linked := false
			b.linkChat = func(ctx context.Context, id uuid.UUID, chatID int64) error {
				linked = true
				if id != driverID || chatID != 99 {
					t.Errorf("linkChat(%s, %d)", id, chatID)
				}
				return tt.linkErr
			}
			b.handleMessage(context.Background(), 99, tt.text)
			if linked != tt.wantLink {
				t.Errorf("linked = %v, want %v", linked, tt.wantLink)
			}
			if len(out.sent) != 1 || !strings.Contains(out.sent[0].Text, tt.wantText) {
				t.Errorf("reply = %+v, want text containing %q", out.sent, tt.wantText)
			}
		})
	}
}

func TestSplitMessage(t *testing.T) {
	text := strings.Repeat("line of text\n", 10)
	parts := splitMessage(text, 30)
	for _, p := range parts {
		if len(p) > 30 {
			t.Errorf("part longer than limit: %d", len(p))
		}
	}
	if got := strings.Join(parts, "\n"); got != text {
		t.Errorf("rejoined text differs:\n%q\n%q", got, text)
	}

	long := strings.Repeat("x", 75)
	if parts := splitMessage(long, 30); len(parts) != 3 || strings.Join(parts, "") != long {
		t.Errorf("split without newlines = %q", parts)
	}
	if parts := splitMessage("", 30); len(parts) != 0 {
		t.Errorf("empty text gave %d parts", len(parts))
	}
}
