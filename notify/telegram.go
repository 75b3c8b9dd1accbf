package notify

import (
	"context"
	"fmt"
	"strings"

	"marathon-scraper/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends run notifications to a single chat
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram authorizes the bot token and binds it to a chat
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	return &Telegram{bot: bot, chatID: chatID}, nil
}

// Notify sends text to the configured chat
func (t *Telegram) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML"
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// RunMessage formats the notification for a finished or failed run
func RunMessage(year int, stats *scraper.Stats, runErr error) string {
	var b strings.Builder

	if runErr != nil {
		fmt.Fprintf(&b, "❌ Results %d failed: %s\n", year, escape(runErr.Error()))
	} else {
		fmt.Fprintf(&b, "✅ Results %d done\n", year)
	}

	if stats != nil {
		for _, gs := range stats.Genders {
			fmt.Fprintf(&b, "%s: %d pages, %d records, %d skipped\n", gs.Gender, gs.Pages, gs.Records, gs.Skipped)
		}
		fmt.Fprintf(&b, "Total: %d records", stats.Records())
	}

	return strings.TrimRight(b.String(), "\n")
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
