package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/encenape/event-service/internal/domain"
	"github.com/encenape/event-service/internal/repository"
)

type fakeEventRepo struct {
	events       map[string]*domain.Event
	reserveCalls int
	restoreCalls int
	// afterRead runs once after the next GetByID, so a test can commit a
	// competing write between a caller's read and its update.
	afterRead func()
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	repo := &fakeEventRepo{events: map[string]*domain.Event{}}
	for _, e := range events {
		repo.events[e.ID] = e
	}
	return repo
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event, capacityDelta int) error {
	stored, ok := r.events[event.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	available := stored.TicketsAvailable + capacityDelta
	if available < 0 {
		available = 0
	}
	if available > event.TotalTickets {
		available = event.TotalTickets
	}
	event.TicketsAvailable = available
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *event
	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}
	return &copied, nil
}

func (r *fakeEventRepo) ListUpcoming(_ context.Context, now time.Time, _, _ int) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range r.events {
		if e.StartsAt.After(now) && e.Active {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ListAvailable(_ context.Context, now time.Time) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range r.events {
		if e.IsAvailable(now) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ListWithFilter(_ context.Context, _ repository.EventFilter) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range r.events {
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeEventRepo) ListAll(_ context.Context, _, _ int) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range r.events {
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeEventRepo) DistinctCategories(context.Context) ([]string, error) { return nil, nil }
func (r *fakeEventRepo) DistinctCities(context.Context) ([]string, error)    { return nil, nil }

func (r *fakeEventRepo) ReserveTickets(_ context.Context, eventID string, quantity int) (int, error) {
	r.reserveCalls++
	event, ok := r.events[eventID]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	if event.TicketsAvailable < quantity {
		return 0, repository.ErrInsufficientInventory
	}
	before := event.TicketsAvailable
	event.TicketsAvailable -= quantity
	return before, nil
}

func (r *fakeEventRepo) RestoreTickets(_ context.Context, eventID string, quantity int) error {
	r.restoreCalls++
	event, ok := r.events[eventID]
	if !ok {
		return pgx.ErrNoRows
	}
	event.TicketsAvailable += quantity
	if event.TicketsAvailable > event.TotalTickets {
		event.TicketsAvailable = event.TotalTickets
	}
	return nil
}

func (r *fakeEventRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTicketRepo struct {
	tickets   map[string]*domain.Ticket
	createErr error
	qrCalls   int
	// staleRead, when set, is what GetByID returns regardless of the stored
	// row, emulating a snapshot that another writer has since overtaken.
	staleRead *domain.Ticket
}

func newFakeTicketRepo(tickets ...*domain.Ticket) *fakeTicketRepo {
	repo := &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
	for _, t := range tickets {
		repo.tickets[t.ID] = t
	}
	return repo
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if r.createErr != nil {
		return r.createErr
	}
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) Cancel(_ context.Context, ticket *domain.Ticket) error {
	stored, ok := r.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Status != domain.TicketStatusActive {
		return repository.ErrTicketNotActive
	}
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	if r.staleRead != nil {
		copied := *r.staleRead
		return &copied, nil
	}
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetByCode(_ context.Context, code string) (*domain.Ticket, error) {
	for _, t := range r.tickets {
		if t.Code == code {
			copied := *t
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListByUser(_ context.Context, userID string) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, t := range r.tickets {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) ListByUserPaginated(ctx context.Context, userID string, _, _ int) ([]domain.Ticket, error) {
	return r.ListByUser(ctx, userID)
}

func (r *fakeTicketRepo) ListActiveByUser(_ context.Context, userID string) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, t := range r.tickets {
		if t.UserID == userID && t.IsActive() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) SetQRCode(_ context.Context, id, qrCodeURL string) error {
	r.qrCalls++
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.QRCodeURL = qrCodeURL
	return nil
}

func (r *fakeTicketRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil || !user.Active {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

type fakeResetRepo struct {
	tokens map[string]*domain.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: map[string]*domain.PasswordResetToken{}}
}

func (r *fakeResetRepo) Create(_ context.Context, token *domain.PasswordResetToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	copied := *token
	r.tokens[token.ID] = &copied
	return nil
}

func (r *fakeResetRepo) GetByTokenHash(_ context.Context, tokenHash string) (*domain.PasswordResetToken, error) {
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			copied := *t
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeResetRepo) InvalidateByUser(_ context.Context, userID string) error {
	for _, t := range r.tokens {
		if t.UserID == userID {
			t.Used = true
		}
	}
	return nil
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	token, ok := r.tokens[id]
	if !ok {
		return pgx.ErrNoRows
	}
	token.Used = true
	return nil
}

func (r *fakeResetRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var deleted int64
	for id, t := range r.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.tokens, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeResetRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMessageRepo struct {
	messages map[string]*domain.Message
}

func newFakeMessageRepo(messages ...*domain.Message) *fakeMessageRepo {
	repo := &fakeMessageRepo{messages: map[string]*domain.Message{}}
	for _, m := range messages {
		repo.messages[m.ID] = m
	}
	return repo
}

func (r *fakeMessageRepo) Create(_ context.Context, message *domain.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	copied := *message
	r.messages[message.ID] = &copied
	return nil
}

func (r *fakeMessageRepo) Update(_ context.Context, message *domain.Message) error {
	if _, ok := r.messages[message.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *message
	r.messages[message.ID] = &copied
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id string) (*domain.Message, error) {
	message, ok := r.messages[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *message
	return &copied, nil
}

func (r *fakeMessageRepo) ListAll(_ context.Context, _, _ int) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range r.messages {
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMessageRepo) ListOpen(_ context.Context) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range r.messages {
		if m.IsOpen() {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakeGateway struct {
	chargeErr   error
	refundErr   error
	chargeCalls int
	refundCalls int
}

func (g *fakeGateway) Charge(_ context.Context, _ string, _ decimal.Decimal) error {
	g.chargeCalls++
	return g.chargeErr
}

func (g *fakeGateway) Refund(_ context.Context, _ string, _ decimal.Decimal) error {
	g.refundCalls++
	return g.refundErr
}

type fakeQRGenerator struct {
	err   error
	calls int
}

func (g *fakeQRGenerator) Generate(code string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return fmt.Sprintf("data:image/png;base64,fake-%s", code), nil
}

type fakeVenueRepo struct {
	venues map[string]*domain.Venue
}

func newFakeVenueRepo(venues ...*domain.Venue) *fakeVenueRepo {
	repo := &fakeVenueRepo{venues: map[string]*domain.Venue{}}
	for _, v := range venues {
		repo.venues[v.ID] = v
	}
	return repo
}

func (r *fakeVenueRepo) GetByID(_ context.Context, id string) (*domain.Venue, error) {
	venue, ok := r.venues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *venue
	return &copied, nil
}

func (r *fakeVenueRepo) ListAvailable(_ context.Context) ([]domain.Venue, error) {
	var out []domain.Venue
	for _, v := range r.venues {
		if v.Available {
			out = append(out, *v)
		}
	}
	return out, nil
}
