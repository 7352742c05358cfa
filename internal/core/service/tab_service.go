package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oleal/shopbook/internal/core/domain"
	"github.com/oleal/shopbook/internal/core/metrics"
	"github.com/oleal/shopbook/internal/port"
)

// TabService manages clients and the credit/debit transactions behind
// their tabs.
type TabService struct {
	repo port.ClientRepository
}

func NewTabService(repo port.ClientRepository) *TabService {
	return &TabService{repo: repo}
}

func (s *TabService) AddClient(ctx context.Context, name, email, phone string) (domain.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Client{}, fmt.Errorf("%w: name is required", ErrValidation)
	}

	now := time.Now()
	client := domain.Client{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.TrimSpace(email),
		Phone:     strings.TrimSpace(phone),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.InsertClient(ctx, client); err != nil {
		return domain.Client{}, fmt.Errorf("insert client: %w", err)
	}
	return client, nil
}

// DeleteClient removes a client together with its transactions, so the
// aggregate totals never see orphaned rows.
func (s *TabService) DeleteClient(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: client id is required", ErrValidation)
	}
	if err := s.repo.DeleteClient(ctx, id); err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

func (s *TabService) AddTransaction(ctx context.Context, clientID string, txType domain.TransactionType, amount domain.Cents, description string) (domain.Transaction, error) {
	if clientID == "" {
		return domain.Transaction{}, fmt.Errorf("%w: client id is required", ErrValidation)
	}
	if txType != domain.TransactionCredit && txType != domain.TransactionDebit {
		return domain.Transaction{}, fmt.Errorf("%w: type must be credit or debit", ErrValidation)
	}
	if amount <= 0 {
		return domain.Transaction{}, fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return domain.Transaction{}, fmt.Errorf("%w: description is required", ErrValidation)
	}

	if _, err := s.repo.GetClient(ctx, clientID); err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return domain.Transaction{}, err
		}
		return domain.Transaction{}, fmt.Errorf("load client: %w", err)
	}

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.InsertTransaction(ctx, tx); err != nil {
		return domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

type ClientWithBalance struct {
	Client  domain.Client
	Balance domain.Cents
}

// ListClients returns every client, name-ordered, with the derived tab
// balance attached.
func (s *TabService) ListClients(ctx context.Context) ([]ClientWithBalance, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	txns, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]ClientWithBalance, 0, len(clients))
	for _, c := range clients {
		out = append(out, ClientWithBalance{
			Client:  c,
			Balance: metrics.ClientBalance(txns, c.ID),
		})
	}
	return out, nil
}

// ListTransactions returns transactions newest first; clientID narrows
// the result to one client when non-empty.
func (s *TabService) ListTransactions(ctx context.Context, clientID string) ([]domain.Transaction, error) {
	txns, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if clientID == "" {
		return txns, nil
	}

	filtered := make([]domain.Transaction, 0, len(txns))
	for _, tx := range txns {
		if tx.ClientID == clientID {
			filtered = append(filtered, tx)
		}
	}
	return filtered, nil
}

type TabSummary struct {
	TotalClients int
	TotalOwed    domain.Cents
}

func (s *TabService) Summary(ctx context.Context) (TabSummary, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return TabSummary{}, fmt.Errorf("list clients: %w", err)
	}
	txns, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return TabSummary{}, fmt.Errorf("list transactions: %w", err)
	}
	return TabSummary{
		TotalClients: len(clients),
		TotalOwed:    metrics.TotalOwed(clients, txns),
	}, nil
}
