// Package memory provides the default in-process ledger store.
// All collections are guarded by RWMutexes; transaction entries are
// append-only and live for the lifetime of the process.
package memory

import (
	"context"
	"fmt"
	"sync"

	"subsidy-ledger/internal/core/domain"
)

// RecipientStore implements ports.RecipientRepository.
type RecipientStore struct {
	mu         sync.RWMutex
	recipients map[string]*domain.Recipient
	order      []string
}

// NewRecipientStore creates an empty recipient store.
func NewRecipientStore() *RecipientStore {
	return &RecipientStore{recipients: make(map[string]*domain.Recipient)}
}

func (s *RecipientStore) Create(_ context.Context, r *domain.Recipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipients[r.ID]; ok {
		return fmt.Errorf("recipient %s already exists", r.ID)
	}
	cp := *r
	s.recipients[r.ID] = &cp
	s.order = append(s.order, r.ID)
	return nil
}

func (s *RecipientStore) GetByID(_ context.Context, id string) (*domain.Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipients[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *RecipientStore) List(_ context.Context) ([]domain.Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Recipient, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.recipients[id])
	}
	return out, nil
}

// VendorStore implements ports.VendorRepository.
type VendorStore struct {
	mu      sync.RWMutex
	vendors map[string]*domain.Vendor
	order   []string
}

// NewVendorStore creates an empty vendor store.
func NewVendorStore() *VendorStore {
	return &VendorStore{vendors: make(map[string]*domain.Vendor)}
}

func (s *VendorStore) Create(_ context.Context, v *domain.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vendors[v.ID]; ok {
		return fmt.Errorf("vendor %s already exists", v.ID)
	}
	cp := *v
	s.vendors[v.ID] = &cp
	s.order = append(s.order, v.ID)
	return nil
}

func (s *VendorStore) GetByID(_ context.Context, id string) (*domain.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vendors[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (s *VendorStore) List(_ context.Context) ([]domain.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Vendor, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.vendors[id])
	}
	return out, nil
}

// TransactionStore implements ports.TransactionRepository as an append-only
// list with an index by ID.
type TransactionStore struct {
	mu      sync.RWMutex
	entries []domain.Transaction
	byID    map[string]int
}

// NewTransactionStore creates an empty transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{byID: make(map[string]int)}
}

func (s *TransactionStore) Append(_ context.Context, tx *domain.Transaction) error {
	if tx.Amount <= 0 {
		return fmt.Errorf("transaction amount must be positive, got %d", tx.Amount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[tx.ID]; ok {
		return fmt.Errorf("transaction %s already recorded", tx.ID)
	}
	s.byID[tx.ID] = len(s.entries)
	s.entries = append(s.entries, *tx)
	return nil
}

func (s *TransactionStore) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cp := s.entries[i]
	return &cp, nil
}

func (s *TransactionStore) List(_ context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *TransactionStore) ListByRecipient(_ context.Context, recipientID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Transaction
	for _, tx := range s.entries {
		if tx.RecipientID == recipientID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *TransactionStore) ListByVendor(_ context.Context, vendorID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Transaction
	for _, tx := range s.entries {
		if tx.VendorID == vendorID {
			out = append(out, tx)
		}
	}
	return out, nil
}

// AuditStore implements ports.AuditRepository as an append-only list.
type AuditStore struct {
	mu      sync.RWMutex
	entries []domain.AuditEntry
}

// NewAuditStore creates an empty audit store.
func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Create(_ context.Context, entry *domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

// List returns a snapshot of all recorded entries in append order.
func (s *AuditStore) List(_ context.Context) ([]domain.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AuditEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// UpdateStatus transitions a pending entry to complete or failed.
// Settled entries are immutable.
func (s *TransactionStore) UpdateStatus(_ context.Context, id string, status domain.TransactionStatus, paymentHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("transaction %s not found", id)
	}
	if s.entries[i].Status != domain.TransactionStatusPending {
		return fmt.Errorf("transaction %s is %s, only pending entries may transition", id, s.entries[i].Status)
	}
	s.entries[i].Status = status
	if paymentHash != "" {
		s.entries[i].PaymentHash = paymentHash
	}
	return nil
}
