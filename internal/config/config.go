package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrMixCategoryNotConfigured    = errors.New("mix category id does not match any configured category")
	ErrDuplicateCategory           = errors.New("duplicate category id")
	ErrInvalidSchedule             = errors.New("invalid cron schedule")
)

// Source drivers.
const (
	DriverCSV      = "csv"
	DriverXLSX     = "xlsx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string     `mapstructure:"env" validate:"required"` // current application environment (local, dev, production etc)
	TelegramAPIToken string     `mapstructure:"-" validate:"required"`   // Telegram API token loaded from environment
	Quiz             Quiz       `mapstructure:"quiz"`                    // quiz session parameters
	Source           Source     `mapstructure:"source"`                  // question bank source
	DB               DB         `mapstructure:"database"`                // database configuration for SQL sources
	Chats            Chats      `mapstructure:"chats"`                   // in-memory chat state retention
	Categories       []Category `mapstructure:"categories" validate:"required,min=1,dive"`
}

// Quiz contains quiz session parameters.
type Quiz struct {
	Limit         int `mapstructure:"limit" validate:"gte=1"`           // maximum number of questions per session
	MixCategoryID int `mapstructure:"mix_category_id" validate:"gte=0"` // category id that matches every question
}

// Source describes where the question bank rows come from.
type Source struct {
	Driver string `mapstructure:"driver" validate:"oneof=csv xlsx postgres sqlite"`
	Path   string `mapstructure:"path"`  // file path for csv and xlsx
	Sheet  string `mapstructure:"sheet"` // xlsx sheet, first sheet when empty
	Table  string `mapstructure:"table" validate:"required_if=Driver postgres,required_if=Driver sqlite"`
}

// Chats controls eviction of idle chat states.
type Chats struct {
	EvictionSchedule string        `mapstructure:"eviction_schedule" validate:"required"` // standard cron spec
	IdleTTL          time.Duration `mapstructure:"idle_ttl" validate:"gt=0"`              // chats untouched for longer are dropped
}

// Category is one menu topic with its rule text.
type Category struct {
	ID   int    `mapstructure:"id" validate:"gte=0"`
	Name string `mapstructure:"name" validate:"required"`
	Rule string `mapstructure:"rule"` // HTML, rendered as is
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // connection string (postgres) or file path (sqlite) loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// IsProduction reports whether the production environment is configured.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from .env, config files and environment variables.
func Load() (*Config, error) {
	// Values from .env never override variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("quiz.limit", 10)
	v.SetDefault("quiz.mix_category_id", 5)
	v.SetDefault("source.driver", DriverCSV)
	v.SetDefault("source.path", "words.csv")
	v.SetDefault("source.sheet", "")
	v.SetDefault("source.table", "words")
	v.SetDefault("database.max_connections", 4)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("chats.eviction_schedule", "0 * * * *")
	v.SetDefault("chats.idle_ttl", "24h")
	v.SetDefault("categories", defaultCategories())

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.Source.Driver == DriverPostgres || cfg.Source.Driver == DriverSQLite {
		if _, err := cfg.DB.DSN(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct constraints, that the mix sentinel names exactly
// one configured category and that the eviction schedule parses.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := make(map[int]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if seen[cat.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateCategory, cat.ID)
		}
		seen[cat.ID] = true
	}

	if !seen[c.Quiz.MixCategoryID] {
		return fmt.Errorf("%w: %d", ErrMixCategoryNotConfigured, c.Quiz.MixCategoryID)
	}

	if _, err := cron.ParseStandard(c.Chats.EvictionSchedule); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidSchedule, c.Chats.EvictionSchedule, err)
	}

	return nil
}

func defaultCategories() []map[string]any {
	return []map[string]any{
		{
			"id":   1,
			"name": "Безударные гласные",
			"rule": "<b>Безударные гласные в корне:</b>\n\n" +
				"Чтобы проверить безударную гласную в корне слова, нужно изменить слово или подобрать однокоренное так, чтобы эта гласная стала ударной.\n" +
				"<i>Пример: гора́ — го́ры, вода́ — во́ды.</i>",
		},
		{
			"id":   2,
			"name": "Словарные слова",
			"rule": "<b>Словарные слова:</b>\n\n" +
				"Написание этих слов нельзя проверить правилом. Их нужно запомнить или проверять по орфографическому словарю.\n" +
				"<i>Пример: винегрет, интеллект, коварство.</i>",
		},
		{
			"id":   3,
			"name": "Суффиксы",
			"rule": "<b>Суффиксы (основные правила):</b>\n\n" +
				"1. <b>-ЕК- / -ИК-:</b> Пишем И, если при склонении гласная сохраняется (ключик — ключика), и Е, если она «убегает» (замочек — замочка).\n" +
				"2. <b>О / Е после шипящих:</b> В суффиксах сущ. и прил. под ударением пишем О (волчонок), без ударения — Е (реченька).\n" +
				"3. <b>-ИВ- / -ЕВ-:</b> В прилагательных под ударением И (красивый), без ударения — Е (боевой). Исключения: милостивый, юродивый.\n" +
				"4. <b>-ЧИК- / -ЩИК-:</b> Пишем -ЧИК- после согласных т, д, з, с, ж (извозчик), в остальных случаях — -ЩИК- (банщик).",
		},
		{
			"id":   4,
			"name": "Непроизносимые согласные",
			"rule": "<b>Непроизносимые согласные:</b>\n\n" +
				"Для проверки нужно подобрать однокоренное слово, где этот согласный слышится отчетливо перед гласным или на конце слова.\n" +
				"<i>Пример: честный — честь, солнце — солнышко, грустный — грусть.</i>",
		},
		{
			"id":   5,
			"name": "МИКС",
			"rule": "<b>Микс:</b>\n\n" +
				"Здесь собраны задания по всем изученным темам. Будьте внимательны, вспоминайте правила для каждого конкретного слова!",
		},
	}
}
