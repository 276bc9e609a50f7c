package localstore

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresBackend stores items in the portal_local_storage table created by
// db.Migrate
type PostgresBackend struct {
	db *sql.DB
}

func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (p *PostgresBackend) GetItem(ctx context.Context, deviceID, key string) (string, bool, error) {
	query := `SELECT item_value FROM portal_local_storage WHERE device_id = $1 AND item_key = $2`
	var value string
	err := p.db.QueryRowContext(ctx, query, deviceID, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read item %s: %w", key, err)
	}
	return value, true, nil
}

func (p *PostgresBackend) SetItem(ctx context.Context, deviceID, key, value string) error {
	query := `
		INSERT INTO portal_local_storage (device_id, item_key, item_value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (device_id, item_key)
		DO UPDATE SET item_value = EXCLUDED.item_value, updated_at = NOW()
	`
	if _, err := p.db.ExecContext(ctx, query, deviceID, key, value); err != nil {
		return fmt.Errorf("failed to write item %s: %w", key, err)
	}
	return nil
}

func (p *PostgresBackend) RemoveItem(ctx context.Context, deviceID, key string) error {
	query := `DELETE FROM portal_local_storage WHERE device_id = $1 AND item_key = $2`
	if _, err := p.db.ExecContext(ctx, query, deviceID, key); err != nil {
		return fmt.Errorf("failed to remove item %s: %w", key, err)
	}
	return nil
}

func (p *PostgresBackend) Close() error {
	return p.db.Close()
}
