// Package bot wires the Sticker Shot commands into telebot.
package bot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"

	"github.com/eliseohh/stickershotbot/internal/metrics"
)

// ErrImageMissing means the /start image is not on disk.
var ErrImageMissing = errors.New("welcome image missing")

type Bot struct {
	api      *tele.Bot
	cfg      Config
	log      *zap.Logger
	commands []tele.Command
}

type Config struct {
	Token       string
	ImagePath   string
	PollTimeout time.Duration
}

// New builds the telebot instance with a long poller and registers /start and /help.
// It does not start polling.
func New(cfg Config, log *zap.Logger) (*Bot, error) {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 10 * time.Second
	}

	bot := &Bot{cfg: cfg, log: log}

	pref := tele.Settings{
		Token:   cfg.Token,
		Poller:  &tele.LongPoller{Timeout: cfg.PollTimeout},
		OnError: bot.onError,
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot.api = b
	bot.register()
	return bot, nil
}

// Start publishes the command menu and blocks on the receive loop.
func (b *Bot) Start() {
	if err := b.api.SetCommands(b.commands); err != nil {
		b.log.Warn("failed to publish command menu", zap.Error(err))
	}
	b.log.Info("bot started", zap.String("username", b.api.Me.Username))
	b.api.Start()
}

// Stop ends the receive loop started by Start.
func (b *Bot) Stop() {
	b.api.Stop()
}

// RegisterCommand binds /name to h. description feeds the client command menu.
func (b *Bot) RegisterCommand(name, description string, h tele.HandlerFunc) {
	b.api.Handle("/"+name, h)
	b.commands = append(b.commands, tele.Command{Text: name, Description: description})
}

func (b *Bot) register() {
	// Must precede Handle: telebot applies group middleware at registration.
	b.api.Use(middleware.Recover(func(err error, c tele.Context) {
		b.log.Error("handler panic recovered", zap.Int64("user_id", senderID(c)), zap.Error(err))
	}))

	b.RegisterCommand("start", "Начать работу с ботом", b.handleStart)
	b.RegisterCommand("help", "Показать справку", b.handleHelp)
}

func (b *Bot) onError(err error, c tele.Context) {
	metrics.TransportErrorsTotal.Inc()
	fields := []zap.Field{zap.Error(err)}
	if c != nil && c.Sender() != nil {
		fields = append(fields, zap.Int64("user_id", c.Sender().ID))
	}
	b.log.Error("telegram error", fields...)
}

// /start: image with caption, or the fallback text on any failure.
func (b *Bot) handleStart(c tele.Context) error {
	err := b.sendWelcome(c)
	switch {
	case err == nil:
		metrics.IncCommand("start", "ok")
		b.log.Info("start command served", zap.Int64("user_id", senderID(c)))
		return nil
	case errors.Is(err, ErrImageMissing):
		metrics.IncCommand("start", "image_missing")
		b.log.Error("welcome image not found", zap.String("path", b.cfg.ImagePath), zap.Error(err))
	default:
		metrics.IncCommand("start", "error")
		b.log.Error("start command failed", zap.Int64("user_id", senderID(c)), zap.Error(err))
	}
	return c.Send(fallbackText)
}

func (b *Bot) sendWelcome(c tele.Context) error {
	f, err := os.Open(b.cfg.ImagePath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrImageMissing, b.cfg.ImagePath)
	}
	if err != nil {
		return fmt.Errorf("open welcome image: %w", err)
	}
	defer f.Close()

	photo := &tele.Photo{File: tele.FromReader(f), Caption: welcomeCaption}
	if err := c.Send(photo, &tele.SendOptions{ParseMode: tele.ModeHTML}); err != nil {
		return fmt.Errorf("send welcome photo: %w", err)
	}
	return nil
}

// /help
func (b *Bot) handleHelp(c tele.Context) error {
	if err := c.Send(helpText, &tele.SendOptions{ParseMode: tele.ModeMarkdown}); err != nil {
		metrics.IncCommand("help", "error")
		return err
	}
	metrics.IncCommand("help", "ok")
	return nil
}

func senderID(c tele.Context) int64 {
	if c == nil {
		return 0
	}
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}
