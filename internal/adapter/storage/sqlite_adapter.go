package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/oleal/shopbook/internal/core/domain"
	"github.com/oleal/shopbook/internal/port"
)

// SQLiteAdapter is the single-file local store variant. The schema is
// bootstrapped on open. Timestamps are stored as RFC 3339 text.
type SQLiteAdapter struct {
	db *sql.DB
}

func NewSQLiteAdapter(path string) (*SQLiteAdapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	a := &SQLiteAdapter{db: db}
	if err := a.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return a, nil
}

func (a *SQLiteAdapter) Close() error {
	return a.db.Close()
}

func (a *SQLiteAdapter) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			buy_price INTEGER NOT NULL,
			sell_price INTEGER NOT NULL,
			stock INTEGER NOT NULL,
			sold INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS clients (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL,
			type TEXT NOT NULL,
			amount INTEGER NOT NULL,
			description TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
	}
	for _, q := range queries {
		if _, err := a.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (a *SQLiteAdapter) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, name, buy_price, sell_price, stock, sold, created_at, updated_at
		FROM items ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var it domain.InventoryItem
		var createdAt, updatedAt string
		if err := rows.Scan(&it.ID, &it.Name, &it.BuyPrice, &it.SellPrice, &it.Stock, &it.Sold, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.CreatedAt = parseTimestamp(createdAt)
		it.UpdatedAt = parseTimestamp(updatedAt)
		items = append(items, it)
	}
	return items, rows.Err()
}

func (a *SQLiteAdapter) GetItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	var it domain.InventoryItem
	var createdAt, updatedAt string
	err := a.db.QueryRowContext(ctx, `
		SELECT id, name, buy_price, sell_price, stock, sold, created_at, updated_at
		FROM items WHERE id = ?`, id,
	).Scan(&it.ID, &it.Name, &it.BuyPrice, &it.SellPrice, &it.Stock, &it.Sold, &createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	it.CreatedAt = parseTimestamp(createdAt)
	it.UpdatedAt = parseTimestamp(updatedAt)
	return &it, nil
}

func (a *SQLiteAdapter) InsertItem(ctx context.Context, item domain.InventoryItem) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO items (id, name, buy_price, sell_price, stock, sold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.BuyPrice, item.SellPrice, item.Stock, item.Sold,
		formatTimestamp(item.CreatedAt), formatTimestamp(item.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (a *SQLiteAdapter) ApplySale(ctx context.Context, id string, qty int) error {
	result, err := a.db.ExecContext(ctx, `
		UPDATE items
		SET stock = stock - ?, sold = sold + ?, updated_at = ?
		WHERE id = ? AND stock >= ?`,
		qty, qty, formatTimestamp(time.Now()), id, qty,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return a.classifyGuardMiss(ctx, id)
	}
	return nil
}

func (a *SQLiteAdapter) AddStock(ctx context.Context, id string, qty int) error {
	result, err := a.db.ExecContext(ctx, `
		UPDATE items SET stock = stock + ?, updated_at = ? WHERE id = ?`,
		qty, formatTimestamp(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return port.ErrNotFound
	}
	return nil
}

// classifyGuardMiss distinguishes a missing item from a stock guard
// rejection after a zero-row UPDATE.
func (a *SQLiteAdapter) classifyGuardMiss(ctx context.Context, id string) error {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM items WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("query item: %w", err)
	}
	if n == 0 {
		return port.ErrNotFound
	}
	return port.ErrInsufficientStock
}

func (a *SQLiteAdapter) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var c domain.Client
		var createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		c.CreatedAt = parseTimestamp(createdAt)
		c.UpdatedAt = parseTimestamp(updatedAt)
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (a *SQLiteAdapter) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var c domain.Client
	var createdAt, updatedAt string
	err := a.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM clients WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query client: %w", err)
	}
	c.CreatedAt = parseTimestamp(createdAt)
	c.UpdatedAt = parseTimestamp(updatedAt)
	return &c, nil
}

func (a *SQLiteAdapter) InsertClient(ctx context.Context, client domain.Client) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, email, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		client.ID, client.Name, client.Email, client.Phone,
		formatTimestamp(client.CreatedAt), formatTimestamp(client.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (a *SQLiteAdapter) DeleteClient(ctx context.Context, id string) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE client_id = ?`, id); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return port.ErrNotFound
	}

	return tx.Commit()
}

func (a *SQLiteAdapter) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, client_id, type, amount, description, created_at
		FROM transactions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var createdAt string
		if err := rows.Scan(&tx.ID, &tx.ClientID, &tx.Type, &tx.Amount, &tx.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.CreatedAt = parseTimestamp(createdAt)
		txns = append(txns, tx)
	}
	return txns, rows.Err()
}

func (a *SQLiteAdapter) InsertTransaction(ctx context.Context, tx domain.Transaction) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO transactions (id, client_id, type, amount, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.ClientID, tx.Type, tx.Amount, tx.Description, formatTimestamp(tx.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
