package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ceobank/backend/internal/adapter/http/dto"
	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
	"github.com/ceobank/backend/internal/usecase/mocks"
)

type ledgerHandlerFixture struct {
	accounts *mocks.MockAccountRepository
	handler  *LedgerHandler
}

func newLedgerHandlerFixture() *ledgerHandlerFixture {
	txManager := mocks.NewMockTransactionManager()
	accounts := mocks.NewMockAccountRepository()
	entries := mocks.NewMockEntryRepository()
	idGen := mocks.NewMockIDGenerator()

	ledger := usecase.NewLedgerUseCase(
		txManager,
		accounts,
		entries,
		mocks.NewMockLedgerRepository(),
		mocks.NewMockOutboxRepository(),
		mocks.NewMockAuditRepository(),
		mocks.NewMockNotificationRepository(),
		idGen,
		mocks.NewMockRetrier(),
		mocks.NewMockEventBus(),
	)
	reversal := usecase.NewReversalUseCase(
		txManager,
		accounts,
		entries,
		mocks.NewMockShopRepository(),
		mocks.NewMockAuditRepository(),
		idGen,
		ledger,
	)

	return &ledgerHandlerFixture{
		accounts: accounts,
		handler:  NewLedgerHandler(ledger, reversal, testMetrics),
	}
}

func (f *ledgerHandlerFixture) seedAccount(id, username, balance string) *domain.Account {
	acc := &domain.Account{
		ID:        id,
		Username:  username,
		Balance:   decimal.RequireFromString(balance),
		TotalSent: decimal.Zero,
	}
	f.accounts.Put(acc)
	return acc
}

func TestLedgerHandler_Transfer(t *testing.T) {
	f := newLedgerHandlerFixture()
	f.seedAccount("acc-1", "alice", "100")
	f.seedAccount("acc-2", "bob", "50")

	body, _ := json.Marshal(dto.TransferRequest{
		RecipientUsername: "bob",
		Amount:            decimal.RequireFromString("25"),
		Comment:           "thanks",
	})
	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	req = withClaims(req, "acc-1", false)
	rec := httptest.NewRecorder()

	f.handler.Transfer(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TransferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.GroupID == "" {
		t.Fatal("expected a group ID")
	}
	if !resp.OutEntry.Amount.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("expected out entry for 25, got %s", resp.OutEntry.Amount)
	}
	if resp.InEntry.AccountID != "acc-2" {
		t.Fatalf("expected in entry for acc-2, got %s", resp.InEntry.AccountID)
	}
}

func TestLedgerHandler_Transfer_RecipientNotFound(t *testing.T) {
	f := newLedgerHandlerFixture()
	f.seedAccount("acc-1", "alice", "100")

	body, _ := json.Marshal(dto.TransferRequest{
		RecipientUsername: "nobody",
		Amount:            decimal.RequireFromString("25"),
	})
	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	req = withClaims(req, "acc-1", false)
	rec := httptest.NewRecorder()

	f.handler.Transfer(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLedgerHandler_Transfer_InsufficientFunds(t *testing.T) {
	f := newLedgerHandlerFixture()
	f.seedAccount("acc-1", "alice", "10")
	f.seedAccount("acc-2", "bob", "50")

	body, _ := json.Marshal(dto.TransferRequest{
		RecipientUsername: "bob",
		Amount:            decimal.RequireFromString("25"),
	})
	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	req = withClaims(req, "acc-1", false)
	rec := httptest.NewRecorder()

	f.handler.Transfer(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestLedgerHandler_Transfer_Unauthenticated(t *testing.T) {
	f := newLedgerHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	f.handler.Transfer(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLedgerHandler_Statement(t *testing.T) {
	f := newLedgerHandlerFixture()
	f.seedAccount("acc-1", "alice", "100")
	f.seedAccount("acc-2", "bob", "50")

	body, _ := json.Marshal(dto.TransferRequest{
		RecipientUsername: "bob",
		Amount:            decimal.RequireFromString("25"),
	})
	transferReq := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	transferReq = withClaims(transferReq, "acc-1", false)
	f.handler.Transfer(httptest.NewRecorder(), transferReq)

	req := httptest.NewRequest(http.MethodGet, "/me/entries", nil)
	req = withClaims(req, "acc-1", false)
	rec := httptest.NewRecorder()

	f.handler.Statement(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var entries []*dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].Kind != string(domain.EntryKindTransferOut) {
		t.Fatalf("unexpected entry kind %s", entries[0].Kind)
	}
}
