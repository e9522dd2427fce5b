package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kondate-planner/internal/config"
	"kondate-planner/internal/meal"
	"kondate-planner/internal/shopping"
)

// Bot wraps the Telegram API around the shopping list builder and the meal
// calendar.
type Bot struct {
	api     *tgbotapi.BotAPI
	builder *shopping.Builder
	meals   *meal.Repository
	cfg     *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, builder *shopping.Builder, meals *meal.Repository) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:     bot,
		builder: builder,
		meals:   meals,
		cfg:     cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "/shopping":
		b.handleShoppingRequest(msg, fields[1:], shopping.ModeFromMeals)
	case "/needed":
		b.handleShoppingRequest(msg, fields[1:], shopping.ModeFromMealsMinusInventory)
	case "/today":
		b.handleTodayRequest(msg)
	default:
		b.reply(msg.Chat.ID, "🛒 Commands:\n`/shopping [start] [end]` — full shopping list\n`/needed [start] [end]` — only what's missing from stock\n`/today` — today's kondate")
	}
}

// handleShoppingRequest builds a list for the given range (default: the next
// seven days) and replies with its items.
func (b *Bot) handleShoppingRequest(msg *tgbotapi.Message, args []string, mode shopping.BuildMode) {
	startDate, endDate := defaultRange(time.Now())
	if len(args) >= 2 {
		startDate, endDate = args[0], args[1]
	}

	log.Printf("Building %s shopping list for %s..%s", mode, startDate, endDate)

	res, err := b.builder.Build(context.Background(), shopping.BuildRequest{
		StartDate: startDate,
		EndDate:   endDate,
		Mode:      mode,
	})
	if err != nil {
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ *Could not build shopping list:*\n```\n%s\n```", safeErr))
		return
	}

	b.reply(msg.Chat.ID, formatList(res.List))
}

func (b *Bot) handleTodayRequest(msg *tgbotapi.Message) {
	today := time.Now().Format("2006-01-02")
	meals, err := b.meals.ListByDate(context.Background(), today)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Could not load today's meals: %v", err))
		return
	}

	b.reply(msg.Chat.ID, formatDay(today, meals))
}

func (b *Bot) reply(chatID int64, text string) {
	reply := tgbotapi.NewMessage(chatID, text)
	reply.ParseMode = "Markdown"
	if _, err := b.api.Send(reply); err != nil {
		log.Printf("Failed to send reply: %v", err)
	}
}

// defaultRange is today through six days out.
func defaultRange(now time.Time) (string, string) {
	start := now.Format("2006-01-02")
	end := now.AddDate(0, 0, 6).Format("2006-01-02")
	return start, end
}

func formatList(list *shopping.List) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🛒 *Shopping List* (%s → %s)\n\n", list.StartDate, list.EndDate)

	if len(list.Items) == 0 {
		sb.WriteString("Nothing to buy 🎉")
		return sb.String()
	}

	for _, item := range list.Items {
		if item.Amount != nil {
			fmt.Fprintf(&sb, "• %s — %s\n", item.Name, *item.Amount)
		} else {
			fmt.Fprintf(&sb, "• %s\n", item.Name)
		}
	}
	return sb.String()
}

func formatDay(date string, meals []meal.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 *Kondate for %s*\n\n", date)

	if len(meals) == 0 {
		sb.WriteString("No meals planned.")
		return sb.String()
	}

	for _, m := range meals {
		name := m.Name
		if name == "" {
			name = "(untitled)"
		}
		fmt.Fprintf(&sb, "*%s*: %s\n", m.Slot, name)
	}
	return sb.String()
}
