package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/price-watcher/internal/domain/entity"
	"github.com/yourusername/price-watcher/internal/domain/repository"
)

type sqlitePriceRepository struct {
	db *sql.DB
}

// NewSQLitePriceRepository opens (or creates) the history database at dbPath
// and ensures the schema exists. Schema creation is idempotent.
func NewSQLitePriceRepository(dbPath string) (repository.PriceRepository, error) {
	if dbPath == "" {
		return nil, errors.New("db path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if err := createPriceSchema(db); err != nil {
		return nil, err
	}

	return &sqlitePriceRepository{db: db}, nil
}

func createPriceSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS price_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	product_name TEXT NOT NULL,
	sku TEXT,
	price REAL NOT NULL,
	url TEXT,
	original_price REAL,
	recorded_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_source_recorded ON price_history (source, recorded_at);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SavePrice appends one observation. History rows are never updated.
func (s *sqlitePriceRepository) SavePrice(ctx context.Context, record entity.PriceRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO price_history (source, product_name, sku, price, url, original_price, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.Source, record.ProductName, record.SKU, record.Price,
		record.URL, record.OriginalPrice, record.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert price record: %w", err)
	}
	return nil
}

// LastPrice returns the most recent price for the (source, name) pair.
func (s *sqlitePriceRepository) LastPrice(ctx context.Context, source entity.Source, productName string) (float64, bool, error) {
	var price float64
	err := s.db.QueryRowContext(ctx,
		`SELECT price FROM price_history
		 WHERE source = ? AND product_name = ?
		 ORDER BY recorded_at DESC LIMIT 1`,
		string(source), productName).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query last price: %w", err)
	}
	return price, true, nil
}

// ListRecords returns recorded history newest first. limit <= 0 returns all.
func (s *sqlitePriceRepository) ListRecords(ctx context.Context, limit int) ([]entity.PriceRecord, error) {
	query := `SELECT id, source, product_name, sku, price, url, original_price, recorded_at
		FROM price_history ORDER BY recorded_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var records []entity.PriceRecord
	for rows.Next() {
		var r entity.PriceRecord
		var original sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.Source, &r.ProductName, &r.SKU,
			&r.Price, &r.URL, &original, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price record: %w", err)
		}
		if original.Valid {
			v := original.Float64
			r.OriginalPrice = &v
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
