package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	supabase "github.com/supabase-community/supabase-go"

	"voicelines/pkg/domain"
)

// SupabaseConfig holds configuration required to connect to Supabase.
type SupabaseConfig struct {
	// ConnectionString is the Supabase Postgres connection string.
	// If not provided, it is built from SupabaseURL and Password.
	ConnectionString string

	// SupabaseURL is the project URL, e.g. "https://[project-ref].supabase.co".
	SupabaseURL string

	// SupabaseKey is the API key used in REST mode (service_role for writes).
	SupabaseKey string

	// Password is the database password, not the API key.
	Password string
}

// SupabaseClient publishes the dataset either through a direct Postgres
// connection or, without a password, through the REST API.
type SupabaseClient struct {
	db          *sql.DB
	supabaseSDK *supabase.Client
	cfg         SupabaseConfig
}

// characterRow and lineRow are the REST payloads for the two tables.
type characterRow struct {
	Hero     string `json:"hero"`
	Position int    `json:"position"`
}

type lineRow struct {
	Hero     string `json:"hero"`
	Position int    `json:"position"`
	Audio    string `json:"audio"`
	Text     string `json:"text"`
}

// NewSupabaseClient constructs a Supabase client.
func NewSupabaseClient(cfg SupabaseConfig) *SupabaseClient {
	return &SupabaseClient{cfg: cfg}
}

// Connect initializes the SDK when URL and key are set and the direct
// connection when a connection string or password is available.
func (c *SupabaseClient) Connect(ctx context.Context) error {
	if c.cfg.SupabaseURL != "" && c.cfg.SupabaseKey != "" {
		sdkClient, err := supabase.NewClient(c.cfg.SupabaseURL, c.cfg.SupabaseKey, nil)
		if err != nil {
			return fmt.Errorf("initialize supabase SDK: %w", err)
		}
		c.supabaseSDK = sdkClient
	}

	connStr := c.cfg.ConnectionString
	if connStr == "" && c.cfg.Password != "" {
		var err error
		connStr, err = buildSupabaseConnectionString(c.cfg.SupabaseURL, c.cfg.Password)
		if err != nil {
			if c.supabaseSDK != nil {
				return nil // REST API mode only
			}
			return fmt.Errorf("build connection string: %w", err)
		}
	}

	if connStr != "" {
		connStr = addConnectionParam(connStr, "default_query_exec_mode", "simple_protocol")
		db, err := sql.Open("pgx", connStr)
		if err == nil {
			err = db.PingContext(ctx)
			if err != nil {
				_ = db.Close()
			}
		}
		switch {
		case err == nil:
			c.db = db
		case c.supabaseSDK == nil:
			return fmt.Errorf("connect supabase postgres: %w", err)
		}
	}

	if c.db == nil && c.supabaseSDK == nil {
		return fmt.Errorf("either connection string/password or Supabase URL+key must be provided")
	}
	return nil
}

// Close closes the database connection.
func (c *SupabaseClient) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// DB exposes the direct handle; nil in REST mode.
func (c *SupabaseClient) DB() *sql.DB {
	return c.db
}

// SaveDataset writes through SQL when possible, otherwise through REST upserts.
// REST mode does not prune characters removed from the dataset.
func (c *SupabaseClient) SaveDataset(ctx context.Context, ds *domain.Dataset) error {
	if ds.Len() == 0 {
		return ErrEmptyDataset
	}
	if c.db != nil {
		return NewSQLStore(c).SaveDataset(ctx, ds)
	}
	if c.supabaseSDK == nil {
		return fmt.Errorf("supabase client not connected")
	}

	chars, lines := restRows(ds)
	if _, _, err := c.supabaseSDK.From("voice_character").Insert(chars, true, "hero", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("upsert characters: %w", err)
	}
	if len(lines) == 0 {
		return nil
	}
	if _, _, err := c.supabaseSDK.From("voice_line").Insert(lines, true, "hero,position", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("upsert lines: %w", err)
	}
	return nil
}

func restRows(ds *domain.Dataset) ([]characterRow, []lineRow) {
	chars := make([]characterRow, 0, ds.Len())
	lines := make([]lineRow, 0, ds.TotalLines())
	for i, char := range ds.Characters() {
		chars = append(chars, characterRow{Hero: char.Hero, Position: i})
		for j, line := range char.Lines {
			lines = append(lines, lineRow{Hero: char.Hero, Position: j, Audio: line.Audio, Text: line.Text})
		}
	}
	return chars, lines
}

// buildSupabaseConnectionString derives the direct connection string from the
// project URL ("https://[project-ref].supabase.co") and database password.
func buildSupabaseConnectionString(projectURL, password string) (string, error) {
	if projectURL == "" {
		return "", fmt.Errorf("supabase URL is required when connection string is not provided")
	}

	parsedURL, err := url.Parse(projectURL)
	if err != nil {
		return "", fmt.Errorf("parse supabase URL: %w", err)
	}

	parts := strings.Split(parsedURL.Host, ".")
	if len(parts) < 2 || parts[0] == "" {
		return "", fmt.Errorf("invalid supabase URL format: expected [project-ref].supabase.co")
	}

	return fmt.Sprintf("postgresql://postgres:%s@db.%s.supabase.co:5432/postgres?sslmode=require",
		url.QueryEscape(password), parts[0]), nil
}

// addConnectionParam adds a query parameter to the connection string if not already present.
func addConnectionParam(connStr, key, value string) string {
	if strings.Contains(connStr, key+"=") {
		return connStr
	}

	separator := "?"
	if strings.Contains(connStr, "?") {
		separator = "&"
	}
	return connStr + separator + key + "=" + value
}
