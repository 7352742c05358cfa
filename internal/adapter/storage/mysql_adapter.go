package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oleal/shopbook/internal/core/domain"
	"github.com/oleal/shopbook/internal/port"
)

// MySQLAdapter is the hosted backend store variant. The DSN must carry
// parseTime=true so audit timestamps scan as time.Time. See schema.sql
// for the table definitions.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, buy_price, sell_price, stock, sold, created_at, updated_at
		FROM items ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var it domain.InventoryItem
		if err := rows.Scan(&it.ID, &it.Name, &it.BuyPrice, &it.SellPrice, &it.Stock, &it.Sold, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (m *MySQLAdapter) GetItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	var it domain.InventoryItem
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, buy_price, sell_price, stock, sold, created_at, updated_at
		FROM items WHERE id = ?`, id,
	).Scan(&it.ID, &it.Name, &it.BuyPrice, &it.SellPrice, &it.Stock, &it.Sold, &it.CreatedAt, &it.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return &it, nil
}

func (m *MySQLAdapter) InsertItem(ctx context.Context, item domain.InventoryItem) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO items (id, name, buy_price, sell_price, stock, sold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.BuyPrice, item.SellPrice, item.Stock, item.Sold,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) ApplySale(ctx context.Context, id string, qty int) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE items
		SET stock = stock - ?, sold = sold + ?, updated_at = NOW()
		WHERE id = ? AND stock >= ?`,
		qty, qty, id, qty,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		var n int
		if err := m.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM items WHERE id = ?`, id).Scan(&n); err != nil {
			return fmt.Errorf("query item: %w", err)
		}
		if n == 0 {
			return port.ErrNotFound
		}
		return port.ErrInsufficientStock
	}
	return nil
}

func (m *MySQLAdapter) AddStock(ctx context.Context, id string, qty int) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE items SET stock = stock + ?, updated_at = NOW() WHERE id = ?`,
		qty, id,
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

func (m *MySQLAdapter) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (m *MySQLAdapter) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var c domain.Client
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM clients WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query client: %w", err)
	}
	return &c, nil
}

func (m *MySQLAdapter) InsertClient(ctx context.Context, client domain.Client) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, email, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		client.ID, client.Name, client.Email, client.Phone, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// DeleteClient removes the client and its transactions in one tx so
// aggregate balances never see orphaned rows.
func (m *MySQLAdapter) DeleteClient(ctx context.Context, id string) error {
	tx, err := m.db.BeginTx(ctx, nil)
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

func (m *MySQLAdapter) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, client_id, type, amount, description, created_at
		FROM transactions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.ClientID, &tx.Type, &tx.Amount, &tx.Description, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, tx)
	}
	return txns, rows.Err()
}

func (m *MySQLAdapter) InsertTransaction(ctx context.Context, tx domain.Transaction) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO transactions (id, client_id, type, amount, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.ClientID, tx.Type, tx.Amount, tx.Description, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}
