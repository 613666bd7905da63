package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Record is a generated recipe together with the request that produced it.
type Record struct {
	RequestHash string    `json:"request_hash"`
	Cuisine     string    `json:"cuisine"`
	Preferences []string  `json:"preferences"`
	CreatedAt   time.Time `json:"created_at"`
	Recipe      *Recipe   `json:"recipe"`
}

// Store defines the interface for cached recipe operations.
type Store interface {
	GetRecipeByRequestHash(ctx context.Context, requestHash string) (*Record, error)
	SaveRecipe(ctx context.Context, record *Record) error
	GetRecipesByCuisineOrPreference(ctx context.Context, cuisine, preference string) ([]*Record, error)
}

// PostgresStore implements Store for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS recipes (
	request_hash TEXT PRIMARY KEY,
	cuisine TEXT NOT NULL DEFAULT '',
	preferences JSONB NOT NULL DEFAULT '[]',
	recipe JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS recipes_cuisine_idx ON recipes (cuisine);
`

// recipeRow mirrors the recipes table.
type recipeRow struct {
	RequestHash string    `db:"request_hash"`
	Cuisine     string    `db:"cuisine"`
	Preferences []byte    `db:"preferences"`
	Recipe      []byte    `db:"recipe"`
	CreatedAt   time.Time `db:"created_at"`
}

func (row recipeRow) record() (*Record, error) {
	rec := &Record{
		RequestHash: row.RequestHash,
		Cuisine:     row.Cuisine,
		CreatedAt:   row.CreatedAt,
		Recipe:      &Recipe{},
	}
	if err := json.Unmarshal(row.Preferences, &rec.Preferences); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	if err := json.Unmarshal(row.Recipe, rec.Recipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}
	return rec, nil
}

// NewPostgresStore connects to dataSourceName and creates the schema if needed.
func NewPostgresStore(dataSourceName string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create recipes table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close releases the database connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// GetRecipeByRequestHash returns the cached recipe for the hash, or nil when absent.
func (s *PostgresStore) GetRecipeByRequestHash(ctx context.Context, requestHash string) (*Record, error) {
	var row recipeRow
	err := s.db.GetContext(ctx, &row, "SELECT request_hash, cuisine, preferences, recipe, created_at FROM recipes WHERE request_hash = $1", requestHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Recipe not found
		}
		return nil, fmt.Errorf("failed to get recipe by hash: %w", err)
	}
	return row.record()
}

// SaveRecipe upserts a recipe record.
func (s *PostgresStore) SaveRecipe(ctx context.Context, record *Record) error {
	preferences := record.Preferences
	if preferences == nil {
		preferences = []string{}
	}
	preferencesJSON, err := json.Marshal(preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	recipeJSON, err := json.Marshal(record.Recipe)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO recipes (request_hash, cuisine, preferences, recipe) VALUES ($1, $2, $3, $4) ON CONFLICT (request_hash) DO UPDATE SET cuisine = $2, preferences = $3, recipe = $4",
		record.RequestHash,
		record.Cuisine,
		preferencesJSON,
		recipeJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// GetRecipesByCuisineOrPreference lists cached recipes, newest first. Empty
// filters match everything.
func (s *PostgresStore) GetRecipesByCuisineOrPreference(ctx context.Context, cuisine, preference string) ([]*Record, error) {
	var args []interface{}
	query := "SELECT request_hash, cuisine, preferences, recipe, created_at FROM recipes WHERE 1=1"

	paramCount := 1
	if cuisine != "" {
		query += fmt.Sprintf(" AND lower(cuisine) = lower($%d)", paramCount)
		args = append(args, cuisine)
		paramCount++
	}
	if preference != "" {
		query += fmt.Sprintf(" AND preferences ? $%d", paramCount)
		args = append(args, preference)
		paramCount++
	}
	query += " ORDER BY created_at DESC"

	var rows []recipeRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
