package dto

import (
	"encoding/json"
	"fmt"
)

// genericRejectionMessage is surfaced when the remote error body carries no
// recognisable field error and no top-level message.
const genericRejectionMessage = "The given data was invalid"

// RemoteFieldErrors is the structured error body of a rejected submission.
// Field names follow the remote ledger's validation error keys.
type RemoteFieldErrors struct {
	TransactionsCurrency        []string `json:"transactions_currency"`
	PiggyBankName               []string `json:"piggy_bank_name"`
	TransactionsDestinationName []string `json:"transactions_destination_name"`
	TransactionsSourceName      []string `json:"transactions_source_name"`
	TransactionsSourceID        []string `json:"transactions_source_id"`
	TransactionDestinationID    []string `json:"transaction_destination_id"`
	TransactionAmount           []string `json:"transaction_amount"`
	Description                 []string `json:"description"`
	TransactionsBudgetName      []string `json:"transactions_budget_name"`
}

// RemoteError carries a non-2xx remote response. It satisfies error so the
// sync coordinator can classify it distinctly from transport failures.
type RemoteError struct {
	StatusCode int
	Message    string            `json:"message"`
	Errors     RemoteFieldErrors `json:"errors"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote ledger returned %d: %s", e.StatusCode, e.FirstFieldError())
}

// FirstFieldError extracts the most useful user-facing message from the error
// body using a fixed priority order over the known validation fields, falling
// back to the body's top-level message, then to a generic message.
func (e *RemoteError) FirstFieldError() string {
	for _, msgs := range [][]string{
		e.Errors.TransactionsCurrency,
		e.Errors.PiggyBankName,
		e.Errors.TransactionsDestinationName,
		e.Errors.TransactionsSourceName,
		e.Errors.TransactionsSourceID,
		e.Errors.TransactionDestinationID,
		e.Errors.TransactionAmount,
		e.Errors.Description,
		e.Errors.TransactionsBudgetName,
	} {
		if len(msgs) > 0 {
			return msgs[0]
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return genericRejectionMessage
}

// DecodeRemoteError parses a structured error body. An unparseable body still
// yields a usable RemoteError carrying the status code alone.
func DecodeRemoteError(statusCode int, body []byte) *RemoteError {
	remoteErr := &RemoteError{StatusCode: statusCode}
	if len(body) > 0 {
		// Best effort: a half-structured body keeps whatever fields matched.
		_ = json.Unmarshal(body, remoteErr)
	}
	return remoteErr
}
