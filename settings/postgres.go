package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OptionName is the key the settings record occupies in the site options table.
const OptionName = "media_purge_settings"

// PostgresStore persists Settings as one row in the platform's generic
// key-value options table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed settings store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the options table when it does not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS site_options (
			option_name  text PRIMARY KEY,
			option_value jsonb NOT NULL,
			updated_at   timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure site_options schema: %w", err)
	}
	return nil
}

// Load implements Store. Missing rows and malformed values sanitize to defaults.
func (p *PostgresStore) Load(ctx context.Context) (Settings, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx,
		`SELECT option_value FROM site_options WHERE option_name = $1`,
		OptionName,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("load settings: %w", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Default(), nil
	}
	return Sanitize(decoded), nil
}

// Save implements Store.
func (p *PostgresStore) Save(ctx context.Context, s Settings) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO site_options (option_name, option_value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (option_name)
		DO UPDATE SET option_value = EXCLUDED.option_value, updated_at = now()`,
		OptionName, payload,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Delete implements Store.
func (p *PostgresStore) Delete(ctx context.Context) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM site_options WHERE option_name = $1`, OptionName)
	if err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}
