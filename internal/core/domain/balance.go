package domain

// BalanceSource tags which path produced a balance value, so callers can
// tell a live wallet-service reading from one derived off the local ledger.
type BalanceSource string

const (
	// BalanceSourceLive means the value came from the external wallet service.
	BalanceSourceLive BalanceSource = "live"
	// BalanceSourceDerived means the value was computed from ledger history
	// because the wallet service could not be reached. Live and derived
	// values may drift; that inconsistency is accepted, not reconciled.
	BalanceSourceDerived BalanceSource = "derived"
)

// Balance is a resolved wallet balance in whole satoshis.
type Balance struct {
	Sats   int64         `json:"sats"`
	Source BalanceSource `json:"source"`
}

// LiveBalance builds a live-sourced balance.
func LiveBalance(sats int64) Balance {
	return Balance{Sats: sats, Source: BalanceSourceLive}
}

// DerivedBalance builds a ledger-derived balance.
func DerivedBalance(sats int64) Balance {
	return Balance{Sats: sats, Source: BalanceSourceDerived}
}
