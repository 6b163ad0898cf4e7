package db

import (
	"context"
	"database/sql"
	"fmt"

	"voicelines/pkg/domain"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS voice_character (
	hero       TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS voice_line (
	hero     TEXT NOT NULL REFERENCES voice_character (hero) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	audio    TEXT NOT NULL,
	text     TEXT NOT NULL,
	PRIMARY KEY (hero, position)
);`

// SQLStore mirrors a dataset into the voice_character / voice_line tables.
// Each save replaces the previous content in one transaction.
type SQLStore struct {
	provider DBProvider
}

// NewSQLStore creates a store on top of any sql.DB provider.
func NewSQLStore(provider DBProvider) *SQLStore {
	return &SQLStore{provider: provider}
}

func (s *SQLStore) db() (*sql.DB, error) {
	if s.provider == nil || s.provider.DB() == nil {
		return nil, fmt.Errorf("database not connected")
	}
	return s.provider.DB(), nil
}

// EnsureSchema creates the tables when missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	db, err := s.db()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveDataset implements DatasetSaver.
func (s *SQLStore) SaveDataset(ctx context.Context, ds *domain.Dataset) (err error) {
	if ds.Len() == 0 {
		return ErrEmptyDataset
	}
	db, err := s.db()
	if err != nil {
		return err
	}
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM voice_character`); err != nil {
		return fmt.Errorf("clear characters: %w", err)
	}

	charStmt, err := tx.PrepareContext(ctx, `INSERT INTO voice_character (hero, position) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("prepare character insert: %w", err)
	}
	defer charStmt.Close()

	lineStmt, err := tx.PrepareContext(ctx, `INSERT INTO voice_line (hero, position, audio, text) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("prepare line insert: %w", err)
	}
	defer lineStmt.Close()

	for i, char := range ds.Characters() {
		if _, err = charStmt.ExecContext(ctx, char.Hero, i); err != nil {
			return fmt.Errorf("insert character %s: %w", char.Hero, err)
		}
		for j, line := range char.Lines {
			if _, err = lineStmt.ExecContext(ctx, char.Hero, j, line.Audio, line.Text); err != nil {
				return fmt.Errorf("insert line %s#%d: %w", char.Hero, j, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadDataset implements DatasetLoader.
func (s *SQLStore) LoadDataset(ctx context.Context) (*domain.Dataset, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT c.hero, l.audio, l.text
		FROM voice_character c
		LEFT JOIN voice_line l ON l.hero = c.hero
		ORDER BY c.position, l.position`)
	if err != nil {
		return nil, fmt.Errorf("query dataset: %w", err)
	}
	defer rows.Close()

	var records []domain.Character
	for rows.Next() {
		var (
			hero        string
			audio, text sql.NullString
		)
		if err := rows.Scan(&hero, &audio, &text); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		if len(records) == 0 || records[len(records)-1].Hero != hero {
			records = append(records, domain.Character{Hero: hero})
		}
		if audio.Valid {
			last := &records[len(records)-1]
			last.Lines = append(last.Lines, domain.Line{Audio: audio.String, Text: text.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	ds, _ := domain.NewDataset(records)
	return ds, nil
}
