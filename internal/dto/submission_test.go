package dto_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
)

func draftLeg(journalID int64, description string) domain.TransactionLeg {
	return domain.TransactionLeg{
		JournalID:       journalID,
		Amount:          decimal.NewFromFloat(12.50),
		Kind:            domain.KindWithdrawal,
		Description:     description,
		Date:            time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC),
		DestinationName: "Grocer",
		CurrencyCode:    "EUR",
	}
}

func TestBuildGroupSubmission_PreservesLegOrder(t *testing.T) {
	legs := []domain.TransactionLeg{draftLeg(-11, "Milk"), draftLeg(-12, "Bread")}

	sub := dto.BuildGroupSubmission("Groceries", "idem-1", legs)

	require.Len(t, sub.Legs, 2)
	assert.Equal(t, "Milk", sub.Legs[0][dto.FieldDescription])
	assert.Equal(t, "Bread", sub.Legs[1][dto.FieldDescription])
	assert.Equal(t, "idem-1", sub.IdempotencyKey)
}

func TestBuildGroupSubmission_MarkerOnlyWithAttachments(t *testing.T) {
	withAttachment := draftLeg(-11, "Milk")
	withAttachment.AttachmentURIs = []string{"content://receipts/1.jpg"}
	without := draftLeg(-12, "Bread")

	sub := dto.BuildGroupSubmission("Groceries", "idem-1", []domain.TransactionLeg{withAttachment, without})

	assert.Equal(t, "-11", sub.Legs[0][dto.FieldInternalReference])
	_, present := sub.Legs[1][dto.FieldInternalReference]
	assert.False(t, present, "legs without attachments carry no marker")
}

func TestBuildGroupSubmission_OmitsEmptyOptionalFields(t *testing.T) {
	leg := draftLeg(-11, "Milk")

	sub := dto.BuildGroupSubmission("Groceries", "idem-1", []domain.TransactionLeg{leg})

	fields := sub.Legs[0]
	for _, name := range []string{dto.FieldCategoryName, dto.FieldBudgetName, dto.FieldBillName, dto.FieldNotes, dto.FieldTags} {
		_, present := fields[name]
		assert.False(t, present, "field %s should be omitted when empty", name)
	}
}

func TestFormValues_FlatIndexedEncoding(t *testing.T) {
	legs := []domain.TransactionLeg{draftLeg(-11, "Milk"), draftLeg(-12, "Bread")}
	sub := dto.BuildGroupSubmission("Groceries", "idem-1", legs)

	values := sub.FormValues()

	assert.Equal(t, "Groceries", values.Get("group_title"))
	assert.Equal(t, "12.5", values.Get("transactions[0][amount]"))
	assert.Equal(t, "withdrawal", values.Get("transactions[0][type]"))
	assert.Equal(t, "Bread", values.Get("transactions[1][description]"))
}

func TestBuildMarkerRemoval_TargetsEveryLeg(t *testing.T) {
	group := &dto.GroupData{ID: 42}
	group.Attributes.GroupTitle = "Groceries"
	group.Attributes.Transactions = []dto.RemoteLeg{
		{TransactionJournalID: 101, InternalReference: "-11"},
		{TransactionJournalID: 102},
	}

	removal := dto.BuildMarkerRemoval(group)

	require.Len(t, removal.Legs, 2)
	assert.Equal(t, "101", removal.Legs[0][dto.FieldJournalID])
	assert.Equal(t, "", removal.Legs[0][dto.FieldInternalReference])
	assert.Equal(t, "102", removal.Legs[1][dto.FieldJournalID])
}
