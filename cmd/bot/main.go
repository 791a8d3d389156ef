package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/orfo-trainer/spelling-bot/internal/config"
	"github.com/orfo-trainer/spelling-bot/internal/delivery/telegram"
	"github.com/orfo-trainer/spelling-bot/internal/domain/entities"
	"github.com/orfo-trainer/spelling-bot/internal/infra/postgres"
	"github.com/orfo-trainer/spelling-bot/internal/infra/sqlite"
	"github.com/orfo-trainer/spelling-bot/internal/logger"
	"github.com/orfo-trainer/spelling-bot/internal/repository"
	"github.com/orfo-trainer/spelling-bot/internal/service"
	"github.com/orfo-trainer/spelling-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Запустить тренажер",
		},
		{
			Command:     "menu",
			Description: "Главное меню",
		},
		{
			Command:     "help",
			Description: "Помощь",
		},
	}

	if _, err = bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = !cfg.IsProduction()
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := newRowSource(ctx, cfg)
	if err != nil {
		lg.Fatal("failed to open question source",
			zap.String("driver", cfg.Source.Driver),
			zap.Error(err),
		)
	}
	defer closeSource()

	// Updates are handled one at a time, so the generator is never shared concurrently.
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	bank := repository.NewQuestionBank(source, cfg.Quiz.MixCategoryID, rnd, lg.Named("bank"))
	catalog := service.NewCatalog(categories(cfg), cfg.Quiz.MixCategoryID)

	newNavigator := func() *service.Navigator {
		return service.NewNavigator(bank, catalog, cfg.Quiz.Limit, rnd, lg.Named("navigator"))
	}

	handler := telegram.NewHandler(bot, lg.Named("telegram"), storage.NewChatStorage(), newNavigator)
	if err := handler.StartEviction(ctx, cfg.Chats.EvictionSchedule, cfg.Chats.IdleTTL); err != nil {
		lg.Fatal("failed to schedule chat eviction", zap.Error(err))
	}

	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("telegram handler failed", zap.Error(err))
	}

	lg.Info("shutdown signal received")
}

// newRowSource opens the configured question source. The returned func
// releases its resources.
func newRowSource(ctx context.Context, cfg *config.Config) (repository.RowSource, func(), error) {
	switch cfg.Source.Driver {
	case config.DriverCSV:
		return repository.NewCSVSource(cfg.Source.Path), func() {}, nil

	case config.DriverXLSX:
		return repository.NewXLSXSource(cfg.Source.Path, cfg.Source.Sheet), func() {}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresSource(pool, cfg.Source.Table), pool.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteSource(db, cfg.Source.Table), func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown source driver %q", cfg.Source.Driver)
	}
}

func categories(cfg *config.Config) []entities.Category {
	result := make([]entities.Category, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		result = append(result, entities.Category{
			ID:   c.ID,
			Name: c.Name,
			Rule: c.Rule,
		})
	}
	return result
}
