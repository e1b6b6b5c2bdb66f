package domain

import (
	"time"
)

// Vendor is a whitelisted payee restricted to approved spending categories.
// Vendors are immutable once registered.
type Vendor struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	WalletID   string    `json:"wallet_id"`
	AdminKey   string    `json:"-"` // Never expose
	InvoiceKey string    `json:"-"` // Never expose
	CreatedAt  time.Time `json:"created_at"`
}
