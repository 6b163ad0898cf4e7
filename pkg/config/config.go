package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env      string   `mapstructure:"env"` // current application environment (local, production)
	Wiki     Wiki     `mapstructure:"wiki"`
	Dataset  Dataset  `mapstructure:"dataset"`
	Quiz     Quiz     `mapstructure:"quiz"`
	Player   Player   `mapstructure:"player"`
	Mongo    Mongo    `mapstructure:"mongo"`
	Postgres Postgres `mapstructure:"postgres"`
	Supabase Supabase `mapstructure:"supabase"`
}

// Wiki configures the dataset builder.
type Wiki struct {
	APIURL         string        `mapstructure:"api_url"`      // MediaWiki api.php endpoint
	Category       string        `mapstructure:"category"`     // category listing the voice-line pages
	TitleMarker    string        `mapstructure:"title_marker"` // substring a page title must contain
	BaseHost       string        `mapstructure:"base_host"`    // host for audio paths starting with "/"
	FeedURL        string        `mapstructure:"feed_url"`     // recent changes Atom feed, derived from APIURL when empty
	BatchSize      int           `mapstructure:"batch_size"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Dataset locates the generated dataset file.
type Dataset struct {
	Path string `mapstructure:"path"`
}

// Quiz holds quiz options.
type Quiz struct {
	ItemsPath string `mapstructure:"items_path"` // optional item list replacing the built-in one
}

// Player configures the external audio player.
type Player struct {
	Command string `mapstructure:"command"`
}

// Mongo configures the optional Mongo publisher.
type Mongo struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// Postgres configures the optional Postgres publisher.
type Postgres struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // pool size
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // maximum lifetime of a single connection
}

// Supabase configures the optional Supabase publisher.
type Supabase struct {
	URL      string `mapstructure:"url"`
	Key      string `mapstructure:"key"`
	Password string `mapstructure:"password"`
}

// PlayerCommand splits the configured player command into argv.
func (p Player) PlayerCommand() []string {
	return strings.Fields(p.Command)
}

// Load reads configuration from path (or ./config/config.yaml when empty),
// a .env file and VOICELINES_* environment variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}

	v.SetDefault("env", "local")
	v.SetDefault("wiki.api_url", "https://dota2.fandom.com/api.php")
	v.SetDefault("wiki.category", "Category:Responses")
	v.SetDefault("wiki.title_marker", "Responses")
	v.SetDefault("wiki.base_host", "https://dota2.fandom.com")
	v.SetDefault("wiki.feed_url", "")
	v.SetDefault("wiki.batch_size", 5)
	v.SetDefault("wiki.request_timeout", "30s")
	v.SetDefault("dataset.path", "data/voicelines.json")
	v.SetDefault("quiz.items_path", "")
	v.SetDefault("player.command", "mpv --no-video --really-quiet")
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "voicelines")
	v.SetDefault("mongo.collection", "characters")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_open_conns", 4)
	v.SetDefault("postgres.conn_max_lifetime", "5m")
	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.key", "")
	v.SetDefault("supabase.password", "")

	v.SetEnvPrefix("voicelines")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) && !(path == "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch {
	case c.Wiki.APIURL == "":
		return fmt.Errorf("%w: wiki.api_url is required", ErrInvalidConfig)
	case c.Wiki.BatchSize <= 0:
		return fmt.Errorf("%w: wiki.batch_size must be positive, got %d", ErrInvalidConfig, c.Wiki.BatchSize)
	case c.Wiki.RequestTimeout <= 0:
		return fmt.Errorf("%w: wiki.request_timeout must be positive", ErrInvalidConfig)
	case c.Dataset.Path == "":
		return fmt.Errorf("%w: dataset.path is required", ErrInvalidConfig)
	case len(c.Player.PlayerCommand()) == 0:
		return fmt.Errorf("%w: player.command is required", ErrInvalidConfig)
	}
	return nil
}
