package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// fakeLNbits is an in-process stand-in for an LNbits instance. It tracks
// wallet balances in millisatoshis and settles payments instantly. The
// payment request format is "fakebolt11:<walletID>:<amountMsat>" so PayInvoice
// knows which wallet to credit.
type fakeLNbits struct {
	mu      sync.Mutex
	server  *httptest.Server
	keys    map[string]string // api key (admin or invoice) -> wallet ID
	wallets map[string]int64  // wallet ID -> balance in msat
}

func newFakeLNbits() *fakeLNbits {
	f := &fakeLNbits{
		keys:    make(map[string]string),
		wallets: make(map[string]int64),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

func (f *fakeLNbits) close() {
	f.server.Close()
}

// seedWallet registers a wallet reachable via key with an initial balance.
func (f *fakeLNbits) seedWallet(key string, balanceSats int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	walletID := "wallet-" + key
	f.keys[key] = walletID
	f.wallets[walletID] = balanceSats * 1000
}

func (f *fakeLNbits) balanceSats(key string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wallets[f.keys[key]] / 1000
}

func (f *fakeLNbits) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/account":
		f.createAccount(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/wallet":
		f.createWallet(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/wallet":
		f.getWallet(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/payments":
		f.payments(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeLNbits) createAccount(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	adminKey := "acct-" + uuid.New().String()[:8]
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       "account-" + adminKey,
		"name":     body.Name,
		"adminkey": adminKey,
	})
}

func (f *fakeLNbits) createWallet(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Api-Key") == "" {
		http.Error(w, "missing api key", http.StatusUnauthorized)
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	walletID := "wallet-" + uuid.New().String()[:8]
	adminKey := "admin-" + walletID
	invoiceKey := "invoice-" + walletID
	f.keys[adminKey] = walletID
	f.keys[invoiceKey] = walletID
	f.wallets[walletID] = 0
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       walletID,
		"name":     body.Name,
		"adminkey": adminKey,
		"inkey":    invoiceKey,
		"balance":  0,
	})
}

func (f *fakeLNbits) getWallet(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	walletID, ok := f.keys[r.Header.Get("X-Api-Key")]
	balance := f.wallets[walletID]
	f.mu.Unlock()

	if !ok {
		http.Error(w, "unknown api key", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      walletID,
		"balance": balance,
	})
}

func (f *fakeLNbits) payments(w http.ResponseWriter, r *http.Request) {
	apiKey := r.Header.Get("X-Api-Key")
	var body struct {
		Out    bool    `json:"out"`
		Amount float64 `json:"amount"`
		Memo   string  `json:"memo"`
		Bolt11 string  `json:"bolt11"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	walletID, ok := f.keys[apiKey]
	if !ok {
		http.Error(w, "unknown api key", http.StatusUnauthorized)
		return
	}

	if !body.Out {
		// Incoming invoice for this wallet.
		amountMsat := int64(body.Amount) * 1000
		writeJSON(w, http.StatusCreated, map[string]any{
			"payment_hash":    "hash-" + uuid.New().String()[:8],
			"payment_request": fmt.Sprintf("fakebolt11:%s:%d", walletID, amountMsat),
			"checking_id":     "check-" + uuid.New().String()[:8],
		})
		return
	}

	// Outgoing payment: parse the payee and amount from the request string.
	parts := strings.Split(body.Bolt11, ":")
	if len(parts) != 3 || parts[0] != "fakebolt11" {
		http.Error(w, "malformed payment request", http.StatusBadRequest)
		return
	}
	payeeID := parts[1]
	amountMsat, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		http.Error(w, "malformed amount", http.StatusBadRequest)
		return
	}

	if f.wallets[walletID] < amountMsat {
		http.Error(w, "insufficient balance", http.StatusBadRequest)
		return
	}
	f.wallets[walletID] -= amountMsat
	f.wallets[payeeID] += amountMsat

	writeJSON(w, http.StatusCreated, map[string]any{
		"payment_hash": "hash-" + uuid.New().String()[:8],
		"checking_id":  "check-" + uuid.New().String()[:8],
		"fee":          0,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
