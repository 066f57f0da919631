package firefly_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	"github.com/pocketledger/pocket_ledger_sync/internal/adapters/remote/firefly"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
)

func TestClient_CreateGroup_SendsFlatFormAndAuth(t *testing.T) {
	var gotForm map[string][]string
	var gotAuth, gotIdem string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		gotAuth = r.Header.Get("Authorization")
		gotIdem = r.Header.Get("X-Idempotency-Key")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"id":"42","attributes":{"group_title":"Groceries","transactions":[{"transaction_journal_id":"101","type":"withdrawal","description":"Milk","amount":"3.50","currency_code":"EUR"}]}}}`))
	}))
	defer server.Close()

	client := firefly.NewClient(server.URL, "secret-token")
	sub := dto.GroupSubmission{
		GroupTitle:     "Groceries",
		IdempotencyKey: "idem-1",
		Legs: []dto.LegFields{
			{dto.FieldType: "withdrawal", dto.FieldAmount: "3.50", dto.FieldDescription: "Milk"},
			{dto.FieldType: "withdrawal", dto.FieldAmount: "1.20", dto.FieldDescription: "Bread"},
		},
	}

	resp, err := client.CreateGroup(context.Background(), sub)

	require.NoError(t, err)
	assert.Equal(t, int64(42), int64(resp.Data.ID))
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "idem-1", gotIdem)
	assert.Equal(t, []string{"Groceries"}, gotForm["group_title"])
	assert.Equal(t, []string{"3.50"}, gotForm["transactions[0][amount]"])
	assert.Equal(t, []string{"Bread"}, gotForm["transactions[1][description]"])
}

func TestClient_CreateGroup_RejectionCarriesFieldErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"The given data was invalid.","errors":{"transactions.0.currency_code":["Unknown currency."]}}`))
	}))
	defer server.Close()

	client := firefly.NewClient(server.URL, "token")
	_, err := client.CreateGroup(context.Background(), dto.GroupSubmission{GroupTitle: "x"})

	var remoteErr *dto.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusUnprocessableEntity, remoteErr.StatusCode)
}

func TestClient_CreateGroup_TransportFailureIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := firefly.NewClient(server.URL, "token")
	_, err := client.CreateGroup(context.Background(), dto.GroupSubmission{GroupTitle: "x"})

	assert.True(t, errors.Is(err, apperrors.ErrRemoteUnreachable))
}

func TestClient_DeleteByID_ReturnsRawStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/transaction-journals/101", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := firefly.NewClient(server.URL, "token")
	status, err := client.DeleteByID(context.Background(), 101)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestClient_ListPage_ScopesQueryToWindow(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[],"meta":{"pagination":{"current_page":2,"total_pages":3}}}`))
	}))
	defer server.Close()

	client := firefly.NewClient(server.URL, "token")
	window := domain.MirrorWindow{
		Range: domain.DateRange{
			Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		Kind: domain.KindWithdrawal,
	}

	page, err := client.ListPage(context.Background(), window, 2)

	require.NoError(t, err)
	assert.Equal(t, 3, page.Meta.Pagination.TotalPages)
	assert.Equal(t, []string{"2024-03-01"}, gotQuery["start"])
	assert.Equal(t, []string{"2024-03-31"}, gotQuery["end"])
	assert.Equal(t, []string{"withdrawal"}, gotQuery["type"])
	assert.Equal(t, []string{"2"}, gotQuery["page"])
}

func TestClient_ListPage_UnscopedWindowOmitsDates(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[],"meta":{"pagination":{"current_page":1,"total_pages":1}}}`))
	}))
	defer server.Close()

	client := firefly.NewClient(server.URL, "token")
	_, err := client.ListPage(context.Background(), domain.MirrorWindow{Kind: domain.KindAll}, 1)

	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "start")
	assert.NotContains(t, gotQuery, "end")
}

func TestClient_AttachmentsForJournal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/transaction-journals/7/attachments", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"5","attributes":{"filename":"receipt.jpg"}}]}`))
	}))
	defer server.Close()

	client := firefly.NewClient(server.URL, "token")
	attachments, err := client.AttachmentsForJournal(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, "receipt.jpg", attachments[0].Attributes.Filename)
}
