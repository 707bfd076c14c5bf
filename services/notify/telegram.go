package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	userRepo "soothe/database/repository/user"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// TelegramService links therapist accounts to Telegram chats and delivers
// booking notifications to them. Linking is a two-step conversation: /connect
// asks for the account email, the next message supplies it.
type TelegramService struct {
	bot   *tgbot.Bot
	users userRepo.UserRepository

	mu            sync.Mutex
	awaitingEmail map[int64]bool
}

// NewTelegramService builds the bot around its update handler. Start must be
// called to begin long polling.
func NewTelegramService(token string, users userRepo.UserRepository) (*TelegramService, error) {
	svc := &TelegramService{
		users:         users,
		awaitingEmail: make(map[int64]bool),
	}

	b, err := tgbot.New(token, tgbot.WithDefaultHandler(svc.handleUpdate))
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	svc.bot = b
	return svc, nil
}

// Start begins long polling for updates. Blocks until ctx is cancelled.
func (s *TelegramService) Start(ctx context.Context) {
	zap.L().Info("Telegram bot started")
	s.bot.Start(ctx)
}

func (s *TelegramService) handleUpdate(ctx context.Context, b *tgbot.Bot, update *tgmodels.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	if strings.HasPrefix(text, "/connect") {
		s.setAwaiting(chatID, true)
		s.reply(ctx, chatID, "Please enter your email for linking your profile.")
		return
	}

	if !s.awaiting(chatID) {
		return
	}
	s.setAwaiting(chatID, false)

	email := strings.ToLower(text)
	therapist, err := s.users.GetTherapistByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			s.reply(ctx, chatID, "Profile not found. Please contact support.")
			return
		}
		zap.L().Error("Failed to look up therapist for telegram link", zap.Error(err))
		s.reply(ctx, chatID, "Something went wrong. Please try again with /connect.")
		return
	}

	telegramUserID := ""
	if update.Message.From != nil {
		telegramUserID = strconv.FormatInt(update.Message.From.ID, 10)
	}
	chatIDStr := strconv.FormatInt(chatID, 10)

	if therapist.TelegramChatID == chatIDStr && therapist.TelegramUserID == telegramUserID {
		s.reply(ctx, chatID, "Telegram is already linked to your profile.")
		return
	}

	if err := s.users.SetTelegramLink(ctx, therapist.ID, chatIDStr, telegramUserID); err != nil {
		zap.L().Error("Failed to save telegram link",
			zap.String("therapistID", therapist.ID), zap.Error(err))
		s.reply(ctx, chatID, "Failed to link Telegram to your profile. Please contact support.")
		return
	}

	zap.L().Info("Telegram linked to therapist", zap.String("therapistID", therapist.ID))
	s.reply(ctx, chatID, "Telegram successfully linked to your profile.")
}

func (s *TelegramService) awaiting(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaitingEmail[chatID]
}

func (s *TelegramService) setAwaiting(chatID int64, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v {
		s.awaitingEmail[chatID] = true
	} else {
		delete(s.awaitingEmail, chatID)
	}
}

func (s *TelegramService) reply(ctx context.Context, chatID int64, text string) {
	_, err := s.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		zap.L().Warn("Failed to send telegram reply", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

// BookingInfo is what a therapist needs to know about a fresh booking.
type BookingInfo struct {
	Service    string
	ClientName string
	Date       string
	Time       string
	Address    string
	Duration   int
}

// NotifyTherapist sends a new-booking message to the linked chat.
func (s *TelegramService) NotifyTherapist(ctx context.Context, chatID string, info BookingInfo) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
	}

	message := fmt.Sprintf(
		"Hi!\nYou just received a booking: %q\nClient: %s\nDate: %s\nStart time: %s\nAddress: %s\nDuration: %dmin",
		strings.TrimSpace(info.Service), info.ClientName, info.Date, info.Time, info.Address, info.Duration,
	)

	_, err = s.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: id,
		Text:   message,
	})
	if err != nil {
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}
	return nil
}
