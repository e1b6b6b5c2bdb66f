package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Subsidy Policy & Ledger (SUB) ----

func ErrRecipientNotFound() *AppError {
	return New("SUB_001", "Recipient not found", http.StatusNotFound)
}

func ErrVendorNotFound() *AppError {
	return New("SUB_002", "Vendor not found", http.StatusNotFound)
}

func ErrTransactionNotFound() *AppError {
	return New("SUB_003", "Transaction not found", http.StatusNotFound)
}

// ErrPaymentRejected carries the validator's user-facing rejection reason.
func ErrPaymentRejected(reason string) *AppError {
	return New("SUB_004", reason, http.StatusUnprocessableEntity)
}

func ErrInvalidAmount() *AppError {
	return New("SUB_005", "Amount must be a positive number of satoshis", http.StatusBadRequest)
}

func ErrAdminBalanceTooLow(balance, required int64) *AppError {
	return New("SUB_006",
		fmt.Sprintf("Insufficient balance in admin wallet (balance: %d sats, required: %d sats)", balance, required),
		http.StatusUnprocessableEntity)
}

// ---- External Wallet Service (EXT) ----

func ErrWalletService(err error) *AppError {
	return Wrap("EXT_001", "Wallet service request failed", http.StatusBadGateway, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request-validation error. Malformed or incomplete
// request input; distinct from SUB_005, which is specifically a
// non-positive amount.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
