package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"subsidy-ledger/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (r *capturingAuditRepo) Create(_ context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *capturingAuditRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func TestAuditService_PersistsEntry(t *testing.T) {
	repo := &capturingAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	svc.Log(context.Background(), &domain.AuditEntry{
		ID:           domain.NewID(domain.AuditIDPrefix),
		Actor:        "admin",
		Action:       domain.AuditActionFundRecipient,
		ResourceType: "recipient",
		ResourceID:   "R1a2b3c4d",
		IPAddress:    "127.0.0.1",
		CreatedAt:    time.Now(),
	})

	require.Eventually(t, func() bool { return repo.count() == 1 }, time.Second, 5*time.Millisecond)
	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, domain.AuditActionFundRecipient, repo.entries[0].Action)
	assert.Equal(t, "admin", repo.entries[0].Actor)
}

func TestAuditService_NilRepoDoesNotPanic(t *testing.T) {
	svc := NewAuditService(nil, zerolog.Nop())

	assert.NotPanics(t, func() {
		svc.Log(context.Background(), &domain.AuditEntry{
			ID:     domain.NewID(domain.AuditIDPrefix),
			Action: domain.AuditActionLogin,
		})
		time.Sleep(10 * time.Millisecond)
	})
}
