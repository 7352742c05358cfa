package domain

import "time"

// Client is a customer with a running tab. The balance is derived from
// the client's transactions, never stored.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
