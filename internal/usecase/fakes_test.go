package usecase

import (
	"context"
	"errors"
	"settlement_service/internal/domain/entities"
	"settlement_service/internal/usecase/interfaces"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// memTransactionRepo emulates the conditional writes of the DynamoDB store.
type memTransactionRepo struct {
	mu    sync.Mutex
	byKey map[string]entities.PaymentTransaction
	// failTransitions makes the next n Transition calls fail with a write error.
	failTransitions int
}

func newMemTransactionRepo() *memTransactionRepo {
	return &memTransactionRepo{byKey: map[string]entities.PaymentTransaction{}}
}

func (r *memTransactionRepo) Create(_ context.Context, t entities.PaymentTransaction) (entities.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[t.ConversationID]; ok {
		return entities.PaymentTransaction{}, interfaces.ErrDuplicateKey
	}
	r.byKey[t.ConversationID] = t
	return t, nil
}

func (r *memTransactionRepo) GetByConversationID(_ context.Context, conversationID string) (entities.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byKey[conversationID], nil
}

func (r *memTransactionRepo) GetByID(_ context.Context, id string) (entities.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.byKey {
		if t.ID == id {
			return t, nil
		}
	}
	return entities.PaymentTransaction{}, nil
}

func (r *memTransactionRepo) Transition(_ context.Context, conversationID string, from []entities.TransactionStatus, to entities.TransactionStatus, upd entities.TransactionUpdate, at time.Time) (entities.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failTransitions > 0 {
		r.failTransitions--
		return entities.PaymentTransaction{}, errors.New("write throttled")
	}
	t, ok := r.byKey[conversationID]
	if !ok {
		return entities.PaymentTransaction{}, interfaces.ErrStaleTransition
	}
	legal := false
	for _, f := range from {
		if t.Status == f {
			legal = true
		}
	}
	if !legal {
		return entities.PaymentTransaction{}, interfaces.ErrStaleTransition
	}
	t.Status = to
	t.UpdatedAt = at
	if to == entities.TransactionStatusCompleted {
		ts := at
		t.CompletedAt = &ts
	}
	if upd.ProviderReference != "" {
		t.ProviderReference = upd.ProviderReference
	}
	if upd.CardLastFour != "" {
		t.CardLastFour = upd.CardLastFour
	}
	if upd.ErrorCode != "" {
		t.ErrorCode = upd.ErrorCode
		t.ErrorMessage = upd.ErrorMessage
	}
	if len(upd.ProviderResponse) > 0 {
		t.ProviderResponse = upd.ProviderResponse
	}
	r.byKey[conversationID] = t
	return t, nil
}

func (r *memTransactionRepo) RecordError(_ context.Context, conversationID, code, message string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byKey[conversationID]
	if !ok || t.Status.IsTerminal() {
		return interfaces.ErrStaleTransition
	}
	t.ErrorCode = code
	t.ErrorMessage = message
	t.UpdatedAt = at
	r.byKey[conversationID] = t
	return nil
}

func (r *memTransactionRepo) get(conversationID string) entities.PaymentTransaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byKey[conversationID]
}

type memOrderRepo struct {
	mu      sync.Mutex
	orders  map[string]entities.Order
	creates int32
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[string]entities.Order{}}
}

func (r *memOrderRepo) CreateOnce(_ context.Context, o entities.Order) (entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; ok {
		return entities.Order{}, interfaces.ErrDuplicateKey
	}
	r.orders[o.ID] = o
	atomic.AddInt32(&r.creates, 1)
	return o, nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[id], nil
}

func (r *memOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

type memCardRepo struct {
	mu    sync.Mutex
	cards map[string]entities.CardToken
}

func newMemCardRepo(cards ...entities.CardToken) *memCardRepo {
	r := &memCardRepo{cards: map[string]entities.CardToken{}}
	for _, c := range cards {
		r.cards[c.ID] = c
	}
	return r
}

func (r *memCardRepo) Create(_ context.Context, c entities.CardToken) (entities.CardToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[c.ID]; ok {
		return entities.CardToken{}, interfaces.ErrDuplicateKey
	}
	r.cards[c.ID] = c
	return c, nil
}

func (r *memCardRepo) GetByID(_ context.Context, id string) (entities.CardToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cards[id], nil
}

func (r *memCardRepo) ListByUserID(_ context.Context, userID string) ([]entities.CardToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.CardToken
	for _, c := range r.cards {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memCardRepo) SetDefault(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, c := range r.cards {
		if c.UserID == userID {
			c.IsDefault = c.ID == id
			r.cards[k] = c
		}
	}
	return nil
}

// scriptedGateway returns canned results and counts calls.
type scriptedGateway struct {
	mu          sync.Mutex
	charge      entities.ChargeResult
	chargeErr   error
	retrieve    entities.ChargeResult
	retrieveErr error
	charges     int
	retrieves   int
	lastCharge  entities.ChargeRequest
}

func (g *scriptedGateway) Name() string { return "scripted" }

func (g *scriptedGateway) Charge(_ context.Context, req entities.ChargeRequest) (entities.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.charges++
	g.lastCharge = req
	return g.charge, g.chargeErr
}

func (g *scriptedGateway) Retrieve(_ context.Context, _ string) (entities.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.retrieves++
	if g.retrieveErr != nil {
		return nil, g.retrieveErr
	}
	return g.retrieve, nil
}

func (g *scriptedGateway) setRetrieve(res entities.ChargeResult, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.retrieve, g.retrieveErr = res, err
}

// finalizingGateway adds the 3DS finalization step.
type finalizingGateway struct {
	*scriptedGateway
	finalized int32
}

func (g *finalizingGateway) FinalizeChallenge(_ context.Context, _ entities.CallbackPayload) (entities.ChargeResult, error) {
	atomic.AddInt32(&g.finalized, 1)
	return entities.ChargeSucceeded{ProviderReference: "pay-3ds"}, nil
}

// locatingGateway maps provider payment ids to conversation ids, like
// providers whose webhooks only sign the payment id.
type locatingGateway struct {
	*scriptedGateway
	conversations map[string]string
	lookupErr     error
	lookups       int32
}

func (g *locatingGateway) ConversationIDFor(_ context.Context, paymentID string) (string, error) {
	atomic.AddInt32(&g.lookups, 1)
	if g.lookupErr != nil {
		return "", g.lookupErr
	}
	conv, ok := g.conversations[paymentID]
	if !ok {
		return "", entities.NewGatewayError(entities.GatewayErrorRejected, "404", "payment not found", nil)
	}
	return conv, nil
}

type staticVerifier struct{ err error }

func (v staticVerifier) Verify(entities.CallbackPayload) error { return v.err }

type recordingSink struct {
	mu     sync.Mutex
	events []entities.NotificationEvent
	err    error
}

func (s *recordingSink) Publish(_ context.Context, e entities.NotificationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type settlementFixture struct {
	txns    *memTransactionRepo
	orders  *memOrderRepo
	cards   *memCardRepo
	gateway *scriptedGateway
	sink    *recordingSink
	uc      *SettlementUseCase
}

func newSettlementFixture(gw interfaces.IPaymentGateway, scripted *scriptedGateway, verifier interfaces.ICallbackVerifier, cards ...entities.CardToken) *settlementFixture {
	f := &settlementFixture{
		txns:    newMemTransactionRepo(),
		orders:  newMemOrderRepo(),
		cards:   newMemCardRepo(cards...),
		gateway: scripted,
		sink:    &recordingSink{},
	}
	ledger := NewTransactionLedger(f.txns)
	ledger.writeRetry.InitialBackoff = 0
	opts := DefaultSettlementOptions()
	opts.CallbackURL = "https://shop.example/v1/payments/callback"
	opts.RetrievePolicy.InitialBackoff = 0
	f.uc = NewSettlementUseCase(ledger, NewCardVault(f.cards), NewOrderMaterializer(f.orders), gw, verifier, f.sink, opts)
	return f
}

func validCommand(conversationID string) InitiateCommand {
	return InitiateCommand{
		UserID:         "user-1",
		ConversationID: conversationID,
		Amount:         decimal.RequireFromString("100.00"),
		Currency:       "TRY",
		Installments:   1,
		Card: &entities.CardDetails{
			HolderName:  "Ada Lovelace",
			Number:      "5528790000000008",
			ExpireMonth: "12",
			ExpireYear:  "2030",
			CVC:         "123",
		},
		ReturnURL: "https://shop.example/checkout/done",
		Items: []entities.CartLine{
			{ProductID: "p-1", StoreID: "store-a", Name: "Mug", Quantity: 2, UnitPrice: decimal.RequireFromString("30.00")},
			{ProductID: "p-2", StoreID: "store-b", Name: "Tea", Quantity: 1, UnitPrice: decimal.RequireFromString("40.00")},
		},
		Customer: entities.Customer{ID: "user-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", IP: "85.34.78.112"},
		Billing:  entities.Address{ContactName: "Ada Lovelace", Line: "Nidakule Goztepe", City: "Istanbul", Country: "Turkey"},
		Shipping: entities.Address{ContactName: "Ada Lovelace", Line: "Nidakule Goztepe", City: "Istanbul", Country: "Turkey"},
	}
}
