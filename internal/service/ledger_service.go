package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"subsidy-ledger/internal/core/domain"
	"subsidy-ledger/internal/core/ports"
	"subsidy-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService: aggregate reads over
// the append-only transaction ledger.
type LedgerServiceImpl struct {
	txRepo ports.TransactionRepository
	clock  ports.Clock
	log    zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(txRepo ports.TransactionRepository, clock ports.Clock, log zerolog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{txRepo: txRepo, clock: clock, log: log}
}

// todayRange returns the closed local calendar-day interval around now.
func todayRange(now time.Time) (time.Time, time.Time) {
	year, month, day := now.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

// SpentToday sums the recipient's completed payments dated within the
// current local calendar day, bounds inclusive. Entries with a zero date
// (unparseable at ingestion) are skipped rather than failing the sum.
func (s *LedgerServiceImpl) SpentToday(ctx context.Context, recipientID string) (int64, error) {
	entries, err := s.txRepo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("listing transactions for %s: %w", recipientID, err)
	}

	start, end := todayRange(s.clock.Now())

	var total int64
	for _, tx := range entries {
		if !tx.IsSettledPayment() {
			continue
		}
		if tx.Date.IsZero() {
			s.log.Debug().Str("tx_id", tx.ID).Msg("skipping entry with unknown date")
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		total += tx.Amount
	}
	return total, nil
}

// ListTransactions returns the full ledger, newest first. Entries with a
// zero date sort last; ties keep insertion order.
func (s *LedgerServiceImpl) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	entries, err := s.txRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}

// GetTransaction returns a single ledger entry.
func (s *LedgerServiceImpl) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading transaction %s: %w", id, err)
	}
	if txn == nil {
		return nil, apperror.ErrTransactionNotFound()
	}
	return txn, nil
}
