package domain

import "time"

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// Transaction is an immutable credit or debit entry against a client's
// tab. Credits raise the balance, debits lower it.
type Transaction struct {
	ID          string
	ClientID    string
	Type        TransactionType
	Amount      Cents
	Description string
	CreatedAt   time.Time
}
