package service

import (
	"context"
	"sort"
	"time"

	"subsidy-ledger/internal/core/ports"
	"subsidy-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// ReportingServiceImpl implements ports.ReportingService: program-level
// aggregates computed from settled ledger entries.
type ReportingServiceImpl struct {
	txRepo     ports.TransactionRepository
	vendorRepo ports.VendorRepository
	clock      ports.Clock
	log        zerolog.Logger
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(txRepo ports.TransactionRepository, vendorRepo ports.VendorRepository, clock ports.Clock, log zerolog.Logger) *ReportingServiceImpl {
	return &ReportingServiceImpl{txRepo: txRepo, vendorRepo: vendorRepo, clock: clock, log: log}
}

// Summary aggregates settled deposits and payments over a rolling period.
// Entries with a zero date are counted only in the unbounded "all" view.
func (s *ReportingServiceImpl) Summary(ctx context.Context, period string) (*ports.ProgramSummary, error) {
	now := s.clock.Now()

	var since time.Time
	bounded := true
	switch period {
	case "day":
		since = now.AddDate(0, 0, -1)
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, -1, 0)
	case "all", "":
		bounded = false
		period = "all"
	default:
		return nil, apperror.Validation("invalid period: must be day, week, month, or all")
	}

	entries, err := s.txRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	vendors, err := s.vendorRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	summary := &ports.ProgramSummary{Period: period}
	receivedByVendor := make(map[string]int64)

	for _, tx := range entries {
		if bounded && (tx.Date.IsZero() || tx.Date.Before(since)) {
			continue
		}
		switch {
		case tx.IsSettledDeposit():
			summary.TotalDeposited += tx.Amount
			summary.DepositCount++
		case tx.IsSettledPayment():
			summary.TotalSpent += tx.Amount
			summary.PaymentCount++
			receivedByVendor[tx.VendorID] += tx.Amount
		}
	}

	for _, v := range vendors {
		total, ok := receivedByVendor[v.ID]
		if !ok {
			continue
		}
		summary.ReceivedByVendor = append(summary.ReceivedByVendor, ports.VendorTotal{
			VendorID: v.ID,
			Name:     v.Name,
			Category: v.Category,
			Total:    total,
		})
	}
	sort.SliceStable(summary.ReceivedByVendor, func(i, j int) bool {
		return summary.ReceivedByVendor[i].Total > summary.ReceivedByVendor[j].Total
	})

	return summary, nil
}
