package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/syklonAK/hesabdari/internal/bot"
	"github.com/syklonAK/hesabdari/internal/config"
	"github.com/syklonAK/hesabdari/internal/db"
	"github.com/syklonAK/hesabdari/internal/debtid"
	"github.com/syklonAK/hesabdari/internal/logging"
	"github.com/syklonAK/hesabdari/internal/repo"
)

func main() {
	_ = godotenv.Load()

	logger := logging.SetupLogging()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Migrate(cfg.DatabaseURL, "file://migrations"); err != nil {
		logger.WithError(err).Fatal("migrations")
	}

	pool := db.MustConnect(ctx, cfg.DatabaseURL)
	defer pool.Close()

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.WithError(err).Fatal("bot init")
	}
	botAPI.Debug = false

	rTransactions := repo.NewTransactions(pool)
	rDebts := repo.NewDebts(pool)
	gen := debtid.New(rand.New(rand.NewSource(time.Now().UnixNano())))

	h := bot.NewHandler(botAPI, cfg, logger, rTransactions, rDebts, gen)

	// Graceful shutdown
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	if cfg.AdminID != 0 {
		logger.WithField("admin_id", cfg.AdminID).Info("admin configured")
	}
	logger.WithField("username", botAPI.Self.UserName).Info("bot started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutdown")
			return
		case upd := <-updates:
			h.HandleUpdate(ctx, upd)
		}
	}
}
