package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/encenape/event-service/internal/clock"
	"github.com/encenape/event-service/internal/domain"
	"github.com/encenape/event-service/internal/events"
	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testEvent(available int) *domain.Event {
	return &domain.Event{
		ID:               "ev-1",
		Title:            "Peça de Teatro",
		Price:            decimal.RequireFromString("50.00"),
		TotalTickets:     100,
		TicketsAvailable: available,
		StartsAt:         testNow.Add(72 * time.Hour),
		Active:           true,
	}
}

func testUser() *domain.User {
	return &domain.User{
		ID:     "user-1",
		Name:   "Maria",
		Email:  "maria@example.com",
		Roles:  []domain.Role{domain.RoleUser},
		Active: true,
	}
}

func newTicketServiceForTest(eventRepo *fakeEventRepo, ticketRepo *fakeTicketRepo, gateway *fakeGateway, qrGen *fakeQRGenerator) (*TicketService, events.Dispatcher) {
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewTicketService(TicketDependencies{
		TicketRepo: ticketRepo,
		EventRepo:  eventRepo,
		Gateway:    gateway,
		QRGen:      qrGen,
		Dispatcher: dispatcher,
		Clock:      clock.NewFixed(testNow),
		Logger:     zap.NewNop(),
	})
	return svc, dispatcher
}

func TestPurchaseHappyPath(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(10))
	ticketRepo := newFakeTicketRepo()
	gateway := &fakeGateway{}
	qrGen := &fakeQRGenerator{}
	svc, dispatcher := newTicketServiceForTest(eventRepo, ticketRepo, gateway, qrGen)

	var published []events.Event
	dispatcher.Subscribe(events.EventTicketPurchased, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	ticket, err := svc.Purchase(context.Background(), testUser(), "ev-1", 3, "mock")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusActive, ticket.Status)
	assert.Equal(t, "150.00", ticket.TotalValue.StringFixed(2))
	assert.NotEmpty(t, ticket.Code)
	assert.Contains(t, ticket.QRCodeURL, "data:image/png;base64,")
	assert.Equal(t, 7, eventRepo.events["ev-1"].TicketsAvailable)
	assert.Equal(t, 1, gateway.chargeCalls)
	require.Len(t, published, 1)

	payload, ok := published[0].Payload.(events.TicketPurchasedPayload)
	require.True(t, ok)
	assert.Equal(t, ticket.Code, payload.TicketCode)
	assert.Equal(t, "maria@example.com", payload.UserEmail)
}

func TestPurchaseRejectsNonPositiveQuantity(t *testing.T) {
	svc, _ := newTicketServiceForTest(newFakeEventRepo(testEvent(10)), newFakeTicketRepo(), &fakeGateway{}, &fakeQRGenerator{})

	_, err := svc.Purchase(context.Background(), testUser(), "ev-1", 0, "mock")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestPurchaseInsufficientInventory(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(2))
	gateway := &fakeGateway{}
	svc, _ := newTicketServiceForTest(eventRepo, newFakeTicketRepo(), gateway, &fakeQRGenerator{})

	_, err := svc.Purchase(context.Background(), testUser(), "ev-1", 5, "mock")
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "INSUFFICIENT_INVENTORY", domainErr.Code)
	assert.Equal(t, 2, domainErr.Details["available"])
	assert.Equal(t, 0, gateway.chargeCalls)
	assert.Equal(t, 2, eventRepo.events["ev-1"].TicketsAvailable)
}

func TestPurchaseRaceLosesToConcurrentDecrement(t *testing.T) {
	// The pre-check passes but the conditional decrement reports a
	// shortfall, as when another purchase committed in between.
	eventRepo := newFakeEventRepo(testEvent(5))
	ticketRepo := newFakeTicketRepo()
	svc, _ := newTicketServiceForTest(eventRepo, ticketRepo, &fakeGateway{}, &fakeQRGenerator{})

	// First purchase drains the event.
	_, err := svc.Purchase(context.Background(), testUser(), "ev-1", 5, "mock")
	require.NoError(t, err)

	_, err = svc.Purchase(context.Background(), testUser(), "ev-1", 1, "mock")
	require.Error(t, err)
	assert.Equal(t, "INSUFFICIENT_INVENTORY", apperrors.ToDomainError(err).Code)
	assert.Len(t, ticketRepo.tickets, 1)
}

func TestPurchaseUnavailableEvent(t *testing.T) {
	event := testEvent(10)
	event.Active = false
	svc, _ := newTicketServiceForTest(newFakeEventRepo(event), newFakeTicketRepo(), &fakeGateway{}, &fakeQRGenerator{})

	_, err := svc.Purchase(context.Background(), testUser(), "ev-1", 1, "mock")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestPurchasePaymentFailureLeavesInventoryUntouched(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(10))
	gateway := &fakeGateway{chargeErr: apperrors.NewUnsupportedPaymentMethod("pix")}
	svc, _ := newTicketServiceForTest(eventRepo, newFakeTicketRepo(), gateway, &fakeQRGenerator{})

	_, err := svc.Purchase(context.Background(), testUser(), "ev-1", 2, "pix")
	require.Error(t, err)
	assert.Equal(t, "UNSUPPORTED_PAYMENT_METHOD", apperrors.ToDomainError(err).Code)
	assert.Equal(t, 10, eventRepo.events["ev-1"].TicketsAvailable)
	assert.Equal(t, 0, eventRepo.reserveCalls)
}

func TestPurchaseQRFailureKeepsTicket(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(10))
	ticketRepo := newFakeTicketRepo()
	qrGen := &fakeQRGenerator{err: errors.New("encoder broken")}
	svc, _ := newTicketServiceForTest(eventRepo, ticketRepo, &fakeGateway{}, qrGen)

	ticket, err := svc.Purchase(context.Background(), testUser(), "ev-1", 1, "mock")
	require.NoError(t, err)
	assert.Empty(t, ticket.QRCodeURL)
	assert.Len(t, ticketRepo.tickets, 1)
	assert.Equal(t, 9, eventRepo.events["ev-1"].TicketsAvailable)
}

func TestGetByCodeRegeneratesMissingQR(t *testing.T) {
	ticket := &domain.Ticket{
		ID:     "tk-1",
		UserID: "user-1",
		Code:   "code-abc",
		Status: domain.TicketStatusActive,
	}
	ticketRepo := newFakeTicketRepo(ticket)
	qrGen := &fakeQRGenerator{}
	svc, _ := newTicketServiceForTest(newFakeEventRepo(), ticketRepo, &fakeGateway{}, qrGen)

	got, err := svc.GetByCode(context.Background(), "code-abc")
	require.NoError(t, err)
	assert.Contains(t, got.QRCodeURL, "code-abc")
	assert.Equal(t, 1, qrGen.calls)
	assert.Equal(t, 1, ticketRepo.qrCalls)
}

func TestCancelHappyPath(t *testing.T) {
	event := testEvent(7)
	ticket := &domain.Ticket{
		ID:            "tk-1",
		UserID:        "user-1",
		EventID:       "ev-1",
		Quantity:      3,
		Code:          "code-abc",
		Status:        domain.TicketStatusActive,
		TotalValue:    decimal.RequireFromString("150.00"),
		PaymentMethod: "mock",
	}
	eventRepo := newFakeEventRepo(event)
	ticketRepo := newFakeTicketRepo(ticket)
	gateway := &fakeGateway{}
	svc, _ := newTicketServiceForTest(eventRepo, ticketRepo, gateway, &fakeQRGenerator{})

	err := svc.Cancel(context.Background(), "tk-1", testUser(), "")
	require.NoError(t, err)

	stored := ticketRepo.tickets["tk-1"]
	assert.Equal(t, domain.TicketStatusCanceled, stored.Status)
	assert.Equal(t, domain.DefaultCancelReason, stored.CancelReason)
	require.NotNil(t, stored.CanceledAt)
	assert.Equal(t, 10, eventRepo.events["ev-1"].TicketsAvailable)
	assert.Equal(t, 1, gateway.refundCalls)
}

func TestCancelForbiddenForOtherUser(t *testing.T) {
	ticket := &domain.Ticket{
		ID:      "tk-1",
		UserID:  "someone-else",
		EventID: "ev-1",
		Status:  domain.TicketStatusActive,
	}
	svc, _ := newTicketServiceForTest(newFakeEventRepo(testEvent(5)), newFakeTicketRepo(ticket), &fakeGateway{}, &fakeQRGenerator{})

	err := svc.Cancel(context.Background(), "tk-1", testUser(), "")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestCancelAlreadyCanceled(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(5))
	ticket := &domain.Ticket{
		ID:      "tk-1",
		UserID:  "user-1",
		EventID: "ev-1",
		Status:  domain.TicketStatusCanceled,
	}
	svc, _ := newTicketServiceForTest(eventRepo, newFakeTicketRepo(ticket), &fakeGateway{}, &fakeQRGenerator{})

	err := svc.Cancel(context.Background(), "tk-1", testUser(), "")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
	assert.Equal(t, 0, eventRepo.restoreCalls)
}

func TestCancelLosingRacedCancelRestoresNothing(t *testing.T) {
	event := testEvent(7)
	canceled := &domain.Ticket{
		ID:       "tk-1",
		UserID:   "user-1",
		EventID:  "ev-1",
		Quantity: 3,
		Status:   domain.TicketStatusCanceled,
	}
	active := *canceled
	active.Status = domain.TicketStatusActive

	eventRepo := newFakeEventRepo(event)
	ticketRepo := newFakeTicketRepo(canceled)
	// The caller's read still sees ACTIVE; another cancel committed after it.
	ticketRepo.staleRead = &active
	gateway := &fakeGateway{}
	svc, _ := newTicketServiceForTest(eventRepo, ticketRepo, gateway, &fakeQRGenerator{})

	err := svc.Cancel(context.Background(), "tk-1", testUser(), "")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
	assert.Equal(t, 0, eventRepo.restoreCalls)
	assert.Equal(t, 0, gateway.refundCalls)
	assert.Equal(t, 7, eventRepo.events["ev-1"].TicketsAvailable)
}

func TestCancelWindowClosed(t *testing.T) {
	event := testEvent(5)
	event.StartsAt = testNow.Add(12 * time.Hour)
	ticket := &domain.Ticket{
		ID:       "tk-1",
		UserID:   "user-1",
		EventID:  "ev-1",
		Quantity: 1,
		Status:   domain.TicketStatusActive,
	}
	eventRepo := newFakeEventRepo(event)
	svc, _ := newTicketServiceForTest(eventRepo, newFakeTicketRepo(ticket), &fakeGateway{}, &fakeQRGenerator{})

	err := svc.Cancel(context.Background(), "tk-1", testUser(), "")
	require.Error(t, err)
	assert.Equal(t, "CANCELLATION_WINDOW_CLOSED", apperrors.ToDomainError(err).Code)
	assert.Equal(t, 5, eventRepo.events["ev-1"].TicketsAvailable)
}

func TestCancelRefundFailureIsSwallowed(t *testing.T) {
	event := testEvent(5)
	ticket := &domain.Ticket{
		ID:       "tk-1",
		UserID:   "user-1",
		EventID:  "ev-1",
		Quantity: 2,
		Status:   domain.TicketStatusActive,
	}
	eventRepo := newFakeEventRepo(event)
	ticketRepo := newFakeTicketRepo(ticket)
	gateway := &fakeGateway{refundErr: errors.New("processor down")}
	svc, _ := newTicketServiceForTest(eventRepo, ticketRepo, gateway, &fakeQRGenerator{})

	err := svc.Cancel(context.Background(), "tk-1", testUser(), "mudança de planos")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusCanceled, ticketRepo.tickets["tk-1"].Status)
	assert.Equal(t, "mudança de planos", ticketRepo.tickets["tk-1"].CancelReason)
	assert.Equal(t, 7, eventRepo.events["ev-1"].TicketsAvailable)
}

func TestCancelNotFound(t *testing.T) {
	svc, _ := newTicketServiceForTest(newFakeEventRepo(), newFakeTicketRepo(), &fakeGateway{}, &fakeQRGenerator{})

	err := svc.Cancel(context.Background(), "missing", testUser(), "")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
