package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the remote ledger's transaction type for a single leg.
type TransactionKind string

const (
	KindWithdrawal TransactionKind = "withdrawal"
	KindDeposit    TransactionKind = "deposit"
	KindTransfer   TransactionKind = "transfer"
	// KindAll is only valid as a mirror-window filter, never on a leg.
	KindAll TransactionKind = "all"
)

// ParseTransactionKind normalises a user-supplied kind string.
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch TransactionKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindWithdrawal:
		return KindWithdrawal, nil
	case KindDeposit:
		return KindDeposit, nil
	case KindTransfer:
		return KindTransfer, nil
	case KindAll:
		return KindAll, nil
	}
	return "", fmt.Errorf("unknown transaction kind %q", s)
}

// TransactionLeg is one line item of a (possibly split) transaction group.
//
// Two journal id spaces exist: remote journal ids are positive and assigned by
// the remote ledger; local-draft ids are negative and generated here. A leg is
// never identified in both spaces at once.
type TransactionLeg struct {
	JournalID       int64           `json:"journalID"`
	GroupID         int64           `json:"groupID"` // remote transaction-group id; 0 while drafted
	Amount          decimal.Decimal `json:"amount"`
	Kind            TransactionKind `json:"kind"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"date"`
	SourceName      string          `json:"sourceName"`
	DestinationName string          `json:"destinationName"`
	CurrencyCode    string          `json:"currencyCode"`
	CategoryName    string          `json:"categoryName,omitempty"`
	BudgetName      string          `json:"budgetName,omitempty"`
	BillName        string          `json:"billName,omitempty"`
	PiggyBankName   string          `json:"piggyBankName,omitempty"`
	Tags            []string        `json:"tags,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	AttachmentURIs  []string        `json:"attachmentURIs,omitempty"`
	IsPending       bool            `json:"isPending"` // true while the leg only exists in the draft store
}

// IsDraft reports whether the leg is identified in the local-draft id space.
func (t TransactionLeg) IsDraft() bool {
	return t.JournalID < 0
}

// Validate checks the invariants a leg must satisfy before it may be staged.
func (t TransactionLeg) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("leg amount must be positive, got %s", t.Amount.String())
	}
	if t.Description == "" {
		return fmt.Errorf("leg description is required")
	}
	if t.CurrencyCode == "" {
		return fmt.Errorf("leg currency code is required")
	}
	switch t.Kind {
	case KindWithdrawal, KindDeposit, KindTransfer:
	default:
		return fmt.Errorf("leg kind must be withdrawal, deposit or transfer, got %q", t.Kind)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("leg date is required")
	}
	return nil
}
