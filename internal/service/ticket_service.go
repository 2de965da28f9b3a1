package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/encenape/event-service/internal/cache"
	"github.com/encenape/event-service/internal/clock"
	"github.com/encenape/event-service/internal/domain"
	"github.com/encenape/event-service/internal/events"
	"github.com/encenape/event-service/internal/payment"
	"github.com/encenape/event-service/internal/qr"
	"github.com/encenape/event-service/internal/repository"
	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

// TicketService coordinates purchase and cancellation workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	eventsRepo repository.EventRepository
	gateway    payment.Gateway
	qrGen      qr.Generator
	dispatcher events.Dispatcher
	cache      *cache.EventCache
	clock      clock.Clock
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	EventRepo  repository.EventRepository
	Gateway    payment.Gateway
	QRGen      qr.Generator
	Dispatcher events.Dispatcher
	Cache      *cache.EventCache
	Clock      clock.Clock
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		eventsRepo: deps.EventRepo,
		gateway:    deps.Gateway,
		qrGen:      deps.QRGen,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		clock:      clk,
		logger:     deps.Logger,
	}
}

// Purchase charges the buyer, atomically reserves inventory and creates the
// ticket. Two concurrent purchases can never succeed for more quantity than
// was available: the decrement is a conditional UPDATE in the same
// transaction as the ticket insert.
func (s *TicketService) Purchase(ctx context.Context, user *domain.User, eventID string, quantity int, paymentMethod string) (*domain.Ticket, error) {
	if quantity < 1 {
		return nil, apperrors.NewValidationError("quantidade deve ser pelo menos 1", nil)
	}

	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("evento", nil)
		}
		return nil, apperrors.MapError(err)
	}

	now := s.clock.Now()
	if !event.IsAvailable(now) {
		return nil, apperrors.NewConflict("evento não está mais disponível", nil)
	}
	if event.TicketsAvailable < quantity {
		return nil, apperrors.NewInsufficientInventory(event.TicketsAvailable)
	}

	totalValue := event.Price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)

	if err := s.gateway.Charge(ctx, paymentMethod, totalValue); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		UserID:        user.ID,
		EventID:       event.ID,
		Quantity:      quantity,
		Code:          uuid.NewString(),
		Status:        domain.TicketStatusActive,
		TotalValue:    totalValue,
		PaymentMethod: paymentMethod,
	}

	err = s.tickets.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.eventsRepo.ReserveTickets(txCtx, event.ID, quantity); err != nil {
			return err
		}
		return s.tickets.Create(txCtx, ticket)
	})
	if err != nil {
		if err == repository.ErrInsufficientInventory {
			// re-read for the current count; another purchase won the race
			if fresh, readErr := s.eventsRepo.GetByID(ctx, event.ID); readErr == nil {
				return nil, apperrors.NewInsufficientInventory(fresh.TicketsAvailable)
			}
			return nil, apperrors.NewInsufficientInventory(0)
		}
		return nil, apperrors.MapError(err)
	}

	// The purchase is committed. QR and mail failures must not undo it.
	s.invalidateEvent(ctx, event.ID)
	s.attachQRCode(ctx, ticket)
	s.publishEvent(ctx, events.Event{
		Type: events.EventTicketPurchased,
		Payload: events.TicketPurchasedPayload{
			TicketID:   ticket.ID,
			TicketCode: ticket.Code,
			EventTitle: event.Title,
			UserName:   user.Name,
			UserEmail:  user.Email,
			Quantity:   quantity,
		},
	})

	return ticket, nil
}

// Cancel marks the ticket canceled and restores its quantity to the event
// exactly once, in one transaction.
func (s *TicketService) Cancel(ctx context.Context, ticketID string, user *domain.User, reason string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("ingresso", nil)
		}
		return apperrors.MapError(err)
	}
	if ticket.UserID != user.ID {
		return apperrors.NewForbidden("ingresso não pertence ao usuário")
	}
	if !ticket.IsActive() {
		return apperrors.NewConflict("ingresso já está cancelado", nil)
	}

	event, err := s.eventsRepo.GetByID(ctx, ticket.EventID)
	if err != nil {
		return apperrors.MapError(err)
	}

	now := s.clock.Now()
	if !event.CanCancel(now) {
		return apperrors.NewCancellationWindowClosed()
	}

	ticket.Cancel(reason, now)

	err = s.tickets.WithTx(ctx, func(txCtx context.Context) error {
		// Conditional on ACTIVE so a concurrent cancel of the same ticket
		// can never restore the quantity twice.
		if err := s.tickets.Cancel(txCtx, ticket); err != nil {
			return err
		}
		return s.eventsRepo.RestoreTickets(txCtx, ticket.EventID, ticket.Quantity)
	})
	if err != nil {
		if err == repository.ErrTicketNotActive {
			return apperrors.NewConflict("ingresso já está cancelado", nil)
		}
		return apperrors.MapError(err)
	}

	s.invalidateEvent(ctx, ticket.EventID)

	// Refund is fire-and-forget; a failure is logged and never re-raised.
	if err := s.gateway.Refund(ctx, ticket.PaymentMethod, ticket.TotalValue); err != nil {
		s.logger.Warn("refund failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}

	s.publishEvent(ctx, events.Event{
		Type: events.EventTicketCanceled,
		Payload: events.TicketCanceledPayload{
			TicketID:   ticket.ID,
			TicketCode: ticket.Code,
			EventTitle: event.Title,
			UserEmail:  user.Email,
			TotalValue: ticket.TotalValue.StringFixed(2),
			Reason:     ticket.CancelReason,
		},
	})

	return nil
}

// ListMine returns all tickets owned by the user, newest first.
func (s *TicketService) ListMine(ctx context.Context, userID string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListMinePaginated returns a page of the user's tickets.
func (s *TicketService) ListMinePaginated(ctx context.Context, userID string, limit, offset int) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByUserPaginated(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListMineActive returns the user's tickets still claiming inventory.
func (s *TicketService) ListMineActive(ctx context.Context, userID string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetByCode resolves a ticket by its unique code, regenerating the QR image
// when a previous generation failed after commit.
func (s *TicketService) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByCode(ctx, code)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ingresso", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.QRCodeURL == "" {
		s.attachQRCode(ctx, ticket)
	}
	return ticket, nil
}

// attachQRCode generates and persists the ticket image. The ticket row is
// already committed; on failure the lookup paths retry generation on read.
func (s *TicketService) attachQRCode(ctx context.Context, ticket *domain.Ticket) {
	dataURL, err := s.qrGen.Generate(ticket.Code)
	if err != nil {
		s.logger.Warn("qr generation failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return
	}
	if err := s.tickets.SetQRCode(ctx, ticket.ID, dataURL); err != nil {
		s.logger.Warn("qr attach failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return
	}
	ticket.QRCodeURL = dataURL
}

func (s *TicketService) invalidateEvent(ctx context.Context, eventID string) {
	if s.cache != nil {
		s.cache.InvalidateEvent(ctx, eventID)
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
