package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ID prefixes distinguish entity kinds in logs and API payloads.
const (
	RecipientIDPrefix   = "R"
	VendorIDPrefix      = "V"
	TransactionIDPrefix = "T"
)

// NewID generates a prefixed short identifier, e.g. "R3f2a9c1d".
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + raw[:8]
}
