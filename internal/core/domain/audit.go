package domain

import "time"

// AuditAction names an audited administrative action.
type AuditAction string

const (
	AuditActionLogin             AuditAction = "LOGIN"
	AuditActionRegisterRecipient AuditAction = "REGISTER_RECIPIENT"
	AuditActionFundRecipient     AuditAction = "FUND_RECIPIENT"
	AuditActionRegisterVendor    AuditAction = "REGISTER_VENDOR"
)

// AuditIDPrefix marks audit entry identifiers.
const AuditIDPrefix = "A"

// AuditEntry records a single administrative action.
type AuditEntry struct {
	ID           string      `json:"id"`
	Actor        string      `json:"actor,omitempty"` // Admin username; empty for unauthenticated actions
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
