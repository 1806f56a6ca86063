package channel

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	tele "gopkg.in/telebot.v3"

	"pettingzoo/internal/config"
	"pettingzoo/internal/security"
)

// Telegram caps messages at 4096 chars; stay under it when splitting.
const textChunkLimit = 4000

// TelegramChannel serves animal queries over the Telegram Bot API.
// Image replies go out as photos so the picture renders inline.
type TelegramChannel struct {
	mu      sync.Mutex
	token   string
	auth    *security.Authorizer
	bot     *tele.Bot
	handler func(InboundMessage)
	running bool
}

func NewTelegramChannel(cfg config.TelegramConfig) *TelegramChannel {
	return &TelegramChannel{
		token: cfg.Token,
		auth:  security.NewAuthorizer(cfg.AllowedIDs),
	}
}

func (t *TelegramChannel) Name() string { return "telegram" }

func (t *TelegramChannel) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return nil
	}

	pref := tele.Settings{
		Token:  t.token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return fmt.Errorf("telegram bot init: %w", err)
	}

	bot.Handle(tele.OnText, func(c tele.Context) error {
		sender := c.Sender()

		if !t.auth.IsAllowed(sender.ID) {
			log.Printf("[telegram] unauthorized user: %d (%s)", sender.ID, sender.Username)
			return nil // silently ignore
		}

		t.mu.Lock()
		handler := t.handler
		t.mu.Unlock()

		if handler != nil {
			handler(InboundMessage{
				ChannelName: "telegram",
				SenderID:    strconv.FormatInt(sender.ID, 10),
				SenderName:  sender.FirstName + " " + sender.LastName,
				ChatID:      strconv.FormatInt(c.Chat().ID, 10),
				Text:        c.Text(),
				Timestamp:   time.Now(),
			})
		}
		return nil
	})

	t.bot = bot
	t.running = true

	go bot.Start()

	go func() {
		<-ctx.Done()
		bot.Stop()
	}()

	return nil
}

func (t *TelegramChannel) Stop(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bot != nil {
		t.bot.Stop()
	}
	t.running = false
	return nil
}

func (t *TelegramChannel) Send(_ context.Context, msg OutboundMessage) error {
	t.mu.Lock()
	bot := t.bot
	t.mu.Unlock()

	if bot == nil {
		return fmt.Errorf("telegram bot not started")
	}

	chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID: %w", err)
	}
	recipient := &tele.Chat{ID: chatID}

	if msg.ImageURL != "" {
		photo := &tele.Photo{File: tele.FromURL(msg.ImageURL), Caption: msg.Text}
		if _, err := bot.Send(recipient, photo); err != nil {
			return fmt.Errorf("telegram photo send: %w", err)
		}
		return nil
	}

	for text := msg.Text; len(text) > 0; {
		chunk := text
		if len(chunk) > textChunkLimit {
			chunk = text[:textChunkLimit]
			text = text[textChunkLimit:]
		} else {
			text = ""
		}
		if _, err := bot.Send(recipient, chunk); err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
	}
	return nil
}

func (t *TelegramChannel) OnMessage(handler func(InboundMessage)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = handler
}

func (t *TelegramChannel) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
