package domain

import (
	"time"
)

// Recipient is a subsidy beneficiary with a capped daily spending allowance.
// The wallet keys are opaque bearer secrets issued by the external wallet
// service: AdminKey can spend, InvoiceKey can only receive.
type Recipient struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	WalletID   string    `json:"wallet_id"`
	AdminKey   string    `json:"-"` // Never expose
	InvoiceKey string    `json:"-"` // Never expose
	DailyLimit int64     `json:"daily_limit"` // Satoshis per calendar day
	CreatedAt  time.Time `json:"created_at"`
}
