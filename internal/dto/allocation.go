package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/recognizely/points_ledger_backend/internal/core/domain"
)

// AllocateRequest grants platform budget to a tenant pool.
type AllocateRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reference string          `json:"reference" binding:"required"`
}

// DistributeRequest moves tenant pool budget to a department pool.
type DistributeRequest struct {
	DepartmentID string          `json:"departmentID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Reference    string          `json:"reference"` // Optional idempotency/audit link
}

// AllocateToEmployeeRequest moves department budget into an employee wallet.
type AllocateToEmployeeRequest struct {
	DepartmentID string          `json:"departmentID" binding:"required"`
	EmployeeID   string          `json:"employeeID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Reference    string          `json:"reference"`
}

// SpendRequest debits an employee wallet terminally (e.g. a redemption).
// Reference is required so retried redemptions cannot double-debit.
type SpendRequest struct {
	EmployeeID string          `json:"employeeID" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Reference  string          `json:"reference" binding:"required"`
}

// ClawbackRequest reclaims budget from a child account back to its parent.
type ClawbackRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reference string          `json:"reference"`
}

// AdjustDirection selects the side of a manual adjustment.
type AdjustDirection string

const (
	AdjustCredit AdjustDirection = "CREDIT"
	AdjustDebit  AdjustDirection = "DEBIT"
)

// AdjustRequest applies a platform-initiated manual correction.
type AdjustRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Direction AdjustDirection `json:"direction" binding:"required,oneof=CREDIT DEBIT"`
	Reference string          `json:"reference" binding:"required"`
}

// ReceiptResponse is returned from every allocation-engine call.
type ReceiptResponse struct {
	EntryID         string          `json:"entryID"`
	TransactionType string          `json:"transactionType"`
	AccountID       string          `json:"accountID"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balanceBefore"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	Reference       string          `json:"reference,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToReceiptResponse converts a domain receipt to its response DTO.
func ToReceiptResponse(r domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		EntryID:         r.EntryID,
		TransactionType: string(r.TransactionType),
		AccountID:       r.AccountID,
		Amount:          r.Amount,
		BalanceBefore:   r.BalanceBefore,
		BalanceAfter:    r.BalanceAfter,
		Reference:       r.Reference,
		CreatedAt:       r.CreatedAt,
	}
}
