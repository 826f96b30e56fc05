package usecase

import (
	"context"
	"errors"
	"fmt"
	"settlement_service/internal/domain/entities"
	"settlement_service/internal/infrastructure/logger"
	"settlement_service/internal/usecase/interfaces"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultPaymentMethod = "CREDIT_CARD"
	maxCartLines         = 99

	errCodeGatewayUnreachable = "GATEWAY_UNREACHABLE"
	errCodeGatewayConfig      = "GATEWAY_CONFIGURATION"
	errCodeRetrieveFailed     = "RETRIEVE_FAILED"
	errCodeUnconfirmed        = "PAYMENT_UNCONFIRMED"
)

var defaultSupportedCurrencies = []string{"TRY", "USD", "EUR", "GBP", "BRL"}

// InitiateCommand is a checkout request after transport decoding.
// Card and SavedCardID are mutually exclusive.
type InitiateCommand struct {
	UserID         string
	ConversationID string
	Amount         decimal.Decimal
	Currency       string
	PaymentMethod  string
	Card           *entities.CardDetails
	SavedCardID    string
	BankID         string
	Installments   int
	Use3DSecure    bool
	ReturnURL      string
	Items          []entities.CartLine
	Customer       entities.Customer
	Billing        entities.Address
	Shipping       entities.Address
}

type InitiationResult struct {
	Success        bool
	TransactionID  string
	ConversationID string
	Status         entities.TransactionStatus
	OrderID        string
	RedirectURL    string
	HTMLContent    string
	ErrorCode      string
	ErrorMessage   string
}

type CompletionResult struct {
	TransactionID  string
	ConversationID string
	Status         entities.TransactionStatus
	OrderID        string
	ReturnURL      string
	ErrorCode      string
	ErrorMessage   string
	// Replayed is true when the transaction was already terminal and the
	// recorded outcome is returned without re-running side effects.
	Replayed bool
}

// ISettlementUseCase drives a payment from initiation to a terminal state.
type ISettlementUseCase interface {
	Initiate(ctx context.Context, cmd InitiateCommand) (InitiationResult, error)
	CompleteCallback(ctx context.Context, payload entities.CallbackPayload) (CompletionResult, error)
	Reconcile(ctx context.Context, conversationID string) (CompletionResult, error)
	GetTransaction(ctx context.Context, conversationID, userID string) (entities.PaymentTransaction, error)
	GetOrder(ctx context.Context, conversationID, userID string) (entities.Order, error)
}

type SettlementOptions struct {
	CallbackURL         string
	GatewayTimeout      time.Duration
	NotifyTimeout       time.Duration
	RetrievePolicy      RetryPolicy
	SupportedCurrencies []string
}

func DefaultSettlementOptions() SettlementOptions {
	return SettlementOptions{
		GatewayTimeout:      30 * time.Second,
		NotifyTimeout:       5 * time.Second,
		RetrievePolicy:      DefaultRetrievePolicy(),
		SupportedCurrencies: defaultSupportedCurrencies,
	}
}

type SettlementUseCase struct {
	ledger       ITransactionLedger
	vault        ICardVault
	materializer IOrderMaterializer
	gateway      interfaces.IPaymentGateway
	verifier     interfaces.ICallbackVerifier
	sink         interfaces.INotificationSink
	opts         SettlementOptions
	currencies   map[string]bool
}

var _ ISettlementUseCase = (*SettlementUseCase)(nil)

func NewSettlementUseCase(
	ledger ITransactionLedger,
	vault ICardVault,
	materializer IOrderMaterializer,
	gateway interfaces.IPaymentGateway,
	verifier interfaces.ICallbackVerifier,
	sink interfaces.INotificationSink,
	opts SettlementOptions,
) *SettlementUseCase {
	defaults := DefaultSettlementOptions()
	if opts.GatewayTimeout <= 0 {
		opts.GatewayTimeout = defaults.GatewayTimeout
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaults.NotifyTimeout
	}
	if opts.RetrievePolicy.MaxAttempts < 1 {
		opts.RetrievePolicy = defaults.RetrievePolicy
	}
	if len(opts.SupportedCurrencies) == 0 {
		opts.SupportedCurrencies = defaults.SupportedCurrencies
	}
	currencies := make(map[string]bool, len(opts.SupportedCurrencies))
	for _, c := range opts.SupportedCurrencies {
		currencies[strings.ToUpper(strings.TrimSpace(c))] = true
	}
	return &SettlementUseCase{
		ledger:       ledger,
		vault:        vault,
		materializer: materializer,
		gateway:      gateway,
		verifier:     verifier,
		sink:         sink,
		opts:         opts,
		currencies:   currencies,
	}
}

func (u *SettlementUseCase) Initiate(ctx context.Context, cmd InitiateCommand) (InitiationResult, error) {
	cmd.Currency = strings.ToUpper(strings.TrimSpace(cmd.Currency))
	cmd.ConversationID = strings.TrimSpace(cmd.ConversationID)
	logger.Info(ctx, "[payment][settlement] initiate start",
		zap.String("user_id", cmd.UserID),
		zap.String("conversation_id", cmd.ConversationID),
		zap.String("amount", cmd.Amount.String()),
		zap.String("currency", cmd.Currency),
		zap.Bool("use_3ds", cmd.Use3DSecure),
		zap.Bool("saved_card", cmd.SavedCardID != ""),
	)

	if err := u.validate(cmd); err != nil {
		logger.Info(ctx, "[payment][settlement] initiate rejected", zap.Error(err))
		return InitiationResult{}, err
	}
	if u.gateway == nil {
		logger.Error(ctx, "[payment][settlement] gateway not configured", nil)
		return InitiationResult{}, entities.NewGatewayError(entities.GatewayErrorConfiguration, errCodeGatewayConfig, "payment gateway not configured", nil)
	}

	creds := entities.ChargeCredentials{Card: cmd.Card}
	if cmd.SavedCardID != "" {
		var err error
		creds, err = u.vault.Resolve(ctx, cmd.SavedCardID, cmd.UserID)
		if err != nil {
			return InitiationResult{}, err
		}
	}

	if cmd.ConversationID == "" {
		cmd.ConversationID = uuid.NewString()
	}
	paymentMethod := strings.TrimSpace(cmd.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = defaultPaymentMethod
	}
	snapshot := entities.CheckoutSnapshot{
		Version:         entities.CheckoutSnapshotVersion,
		Items:           cmd.Items,
		Customer:        cmd.Customer,
		BillingAddress:  cmd.Billing,
		ShippingAddress: cmd.Shipping,
	}

	txn, err := u.ledger.Open(ctx, entities.PaymentTransaction{
		ID:             uuid.NewString(),
		ConversationID: cmd.ConversationID,
		UserID:         cmd.UserID,
		Amount:         cmd.Amount,
		Currency:       cmd.Currency,
		PaymentMethod:  paymentMethod,
		Provider:       u.gateway.Name(),
		Installments:   cmd.Installments,
		Is3DSecure:     cmd.Use3DSecure,
		SavedCardID:    cmd.SavedCardID,
		Snapshot:       snapshot,
		ReturnURL:      cmd.ReturnURL,
	})
	if err != nil {
		return InitiationResult{}, err
	}

	req := entities.ChargeRequest{
		ConversationID: txn.ConversationID,
		BasketID:       txn.ID,
		Amount:         txn.Amount,
		Currency:       txn.Currency,
		PaymentMethod:  paymentMethod,
		BankID:         cmd.BankID,
		Installments:   txn.Installments,
		Use3DSecure:    txn.Is3DSecure,
		Credentials:    creds,
		Snapshot:       snapshot,
		CallbackURL:    u.opts.CallbackURL,
	}

	chargeCtx, cancel := context.WithTimeout(ctx, u.opts.GatewayTimeout)
	res, err := u.gateway.Charge(chargeCtx, req)
	cancel()
	if err != nil {
		return u.onChargeError(ctx, txn, err)
	}

	switch r := res.(type) {
	case entities.ChargeSucceeded:
		return u.onChargeSucceeded(ctx, txn, cmd, r)
	case entities.ChallengeRequired:
		return u.onChallengeRequired(ctx, txn, r)
	case entities.ChargeFailed:
		return u.onChargeFailed(ctx, txn, r)
	default:
		err := fmt.Errorf("unexpected charge result %T", res)
		return u.onChargeError(ctx, txn, err)
	}
}

func (u *SettlementUseCase) onChargeSucceeded(ctx context.Context, txn entities.PaymentTransaction, cmd InitiateCommand, r entities.ChargeSucceeded) (InitiationResult, error) {
	lastFour := r.CardLastFour
	if lastFour == "" {
		lastFour = cmd.lastFour()
	}
	updated, err := u.ledger.Advance(ctx, txn.ConversationID, entities.TransactionStatusCompleted, entities.TransactionUpdate{
		ProviderReference: r.ProviderReference,
		CardLastFour:      lastFour,
		ProviderResponse:  r.Raw,
	})
	if err != nil && !errors.Is(err, ErrTransitionConflict) {
		// The money moved; reconciliation through retrieve repairs the ledger.
		logger.Error(ctx, "[payment][settlement] charge succeeded but ledger write failed", err,
			zap.String("conversation_id", txn.ConversationID),
			zap.String("provider_reference", r.ProviderReference),
		)
		return InitiationResult{}, err
	}

	result := InitiationResult{
		Success:        updated.Status == entities.TransactionStatusCompleted,
		TransactionID:  updated.ID,
		ConversationID: updated.ConversationID,
		Status:         updated.Status,
	}
	if updated.Status == entities.TransactionStatusCompleted {
		if order, ok := u.materializeAndNotify(ctx, updated); ok {
			result.OrderID = order.ID
		}
	}

	if cmd.Card != nil && r.CardToken != "" {
		if _, err := u.vault.Persist(ctx, cmd.UserID, *cmd.Card, r); err != nil {
			logger.Warn(ctx, "[payment][settlement] card token not stored",
				zap.String("conversation_id", txn.ConversationID),
				zap.Error(err),
			)
		}
	}

	logger.Info(ctx, "[payment][settlement] initiate completed",
		zap.String("conversation_id", result.ConversationID),
		zap.String("order_id", result.OrderID),
	)
	return result, nil
}

func (u *SettlementUseCase) onChallengeRequired(ctx context.Context, txn entities.PaymentTransaction, r entities.ChallengeRequired) (InitiationResult, error) {
	updated, err := u.ledger.Advance(ctx, txn.ConversationID, entities.TransactionStatusAwaiting3DS, entities.TransactionUpdate{
		ProviderReference: r.ProviderReference,
		ProviderResponse:  r.Raw,
	})
	if err != nil {
		return InitiationResult{}, err
	}
	logger.Info(ctx, "[payment][settlement] awaiting 3ds challenge",
		zap.String("conversation_id", updated.ConversationID),
		zap.Bool("has_redirect", r.RedirectURL != ""),
		zap.Bool("has_html", r.HTMLContent != ""),
	)
	return InitiationResult{
		Success:        true,
		TransactionID:  updated.ID,
		ConversationID: updated.ConversationID,
		Status:         updated.Status,
		RedirectURL:    r.RedirectURL,
		HTMLContent:    r.HTMLContent,
	}, nil
}

func (u *SettlementUseCase) onChargeFailed(ctx context.Context, txn entities.PaymentTransaction, r entities.ChargeFailed) (InitiationResult, error) {
	updated, err := u.ledger.Advance(ctx, txn.ConversationID, entities.TransactionStatusFailed, entities.TransactionUpdate{
		ProviderReference: r.ProviderReference,
		ErrorCode:         r.Code,
		ErrorMessage:      r.Message,
		ProviderResponse:  r.Raw,
	})
	if err != nil {
		return InitiationResult{}, err
	}
	logger.Info(ctx, "[payment][settlement] charge declined",
		zap.String("conversation_id", updated.ConversationID),
		zap.String("error_code", r.Code),
	)
	return InitiationResult{
			TransactionID:  updated.ID,
			ConversationID: updated.ConversationID,
			Status:         updated.Status,
			ErrorCode:      r.Code,
			ErrorMessage:   r.Message,
		},
		entities.NewGatewayError(entities.GatewayErrorRejected, r.Code, r.Message, nil)
}

// onChargeError handles a charge whose outcome is either unknown (transport
// failure) or known not to have reached the provider.
func (u *SettlementUseCase) onChargeError(ctx context.Context, txn entities.PaymentTransaction, err error) (InitiationResult, error) {
	result := InitiationResult{
		TransactionID:  txn.ID,
		ConversationID: txn.ConversationID,
		Status:         txn.Status,
	}

	var gwErr *entities.GatewayError
	switch {
	case errors.As(err, &gwErr) && gwErr.Kind == entities.GatewayErrorConfiguration:
		logger.Error(ctx, "[payment][settlement] gateway configuration error", err,
			zap.String("conversation_id", txn.ConversationID),
		)
		if updated, aerr := u.ledger.Advance(ctx, txn.ConversationID, entities.TransactionStatusFailed, entities.TransactionUpdate{
			ErrorCode:    errCodeGatewayConfig,
			ErrorMessage: "payment gateway misconfigured",
		}); aerr == nil {
			result.Status = updated.Status
		}
		result.ErrorCode = errCodeGatewayConfig
		return result, err

	case errors.As(err, &gwErr) && gwErr.Kind == entities.GatewayErrorRejected:
		if updated, aerr := u.ledger.Advance(ctx, txn.ConversationID, entities.TransactionStatusFailed, entities.TransactionUpdate{
			ErrorCode:    gwErr.Code,
			ErrorMessage: gwErr.Message,
		}); aerr == nil {
			result.Status = updated.Status
		}
		result.ErrorCode = gwErr.Code
		result.ErrorMessage = gwErr.Message
		return result, err
	}

	// Outcome unknown: the provider may have charged. Keep PENDING so
	// reconciliation can settle it from the provider's record.
	logger.Warn(ctx, "[payment][settlement] charge outcome unknown",
		zap.String("conversation_id", txn.ConversationID),
		zap.Error(err),
	)
	if aerr := u.ledger.Annotate(ctx, txn.ConversationID, errCodeGatewayUnreachable, err.Error()); aerr != nil {
		logger.Error(ctx, "[payment][settlement] failed to annotate transaction", aerr,
			zap.String("conversation_id", txn.ConversationID),
		)
	}
	result.ErrorCode = errCodeGatewayUnreachable
	if !errors.Is(err, entities.ErrGatewayNetwork) {
		err = entities.NewGatewayError(entities.GatewayErrorNetwork, errCodeGatewayUnreachable, "charge outcome unknown", err)
	}
	return result, err
}

func (u *SettlementUseCase) CompleteCallback(ctx context.Context, payload entities.CallbackPayload) (CompletionResult, error) {
	logger.Info(ctx, "[payment][settlement] callback received",
		zap.String("conversation_id", payload.ConversationID),
		zap.String("payment_id", payload.PaymentID),
		zap.String("status", payload.Status),
	)

	if u.verifier == nil {
		logger.Error(ctx, "[payment][settlement] callback verifier not configured", nil)
		return CompletionResult{}, ErrSignature
	}
	if err := u.verifier.Verify(payload); err != nil {
		logger.Warn(ctx, "[payment][settlement] callback signature rejected",
			zap.String("conversation_id", payload.ConversationID),
			zap.Error(err),
		)
		return CompletionResult{}, fmt.Errorf("%w: %v", ErrSignature, err)
	}

	if locator, ok := u.gateway.(interfaces.IPaymentLocator); ok {
		conversationID, err := u.bindConversation(ctx, locator, payload)
		if err != nil {
			return CompletionResult{}, err
		}
		payload.ConversationID = conversationID
	}

	txn, err := u.ledger.Get(ctx, payload.ConversationID)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			logger.Warn(ctx, "[payment][settlement] orphan callback",
				zap.String("conversation_id", payload.ConversationID),
				zap.String("payment_id", payload.PaymentID),
			)
		}
		return CompletionResult{}, err
	}

	if txn.Status.IsTerminal() {
		return u.replay(ctx, txn), nil
	}
	if u.gateway == nil {
		logger.Error(ctx, "[payment][settlement] gateway not configured; callback left unsettled", nil,
			zap.String("conversation_id", txn.ConversationID),
		)
		return CompletionResult{}, entities.NewGatewayError(entities.GatewayErrorConfiguration, errCodeGatewayConfig, "payment gateway not configured", nil)
	}

	if fin, ok := u.gateway.(interfaces.IChallengeFinalizer); ok && txn.Status == entities.TransactionStatusAwaiting3DS && payload.ClaimsSuccess() {
		fctx, cancel := context.WithTimeout(ctx, u.opts.GatewayTimeout)
		_, ferr := fin.FinalizeChallenge(fctx, payload)
		cancel()
		if ferr != nil {
			logger.Warn(ctx, "[payment][settlement] challenge finalization failed; deferring to retrieve",
				zap.String("conversation_id", txn.ConversationID),
				zap.Error(ferr),
			)
		}
	}

	return u.settleFromProvider(ctx, txn, true)
}

// bindConversation returns the conversation id the provider recorded for the
// signed payment id. A conversation id sent alongside it must agree; it is
// not covered by the signature.
func (u *SettlementUseCase) bindConversation(ctx context.Context, locator interfaces.IPaymentLocator, payload entities.CallbackPayload) (string, error) {
	paymentID := strings.TrimSpace(payload.PaymentID)
	if paymentID == "" {
		logger.Warn(ctx, "[payment][settlement] callback without payment id",
			zap.String("conversation_id", payload.ConversationID),
		)
		return "", fmt.Errorf("%w: callback does not identify a payment", ErrSignature)
	}

	lctx, cancel := context.WithTimeout(ctx, u.opts.GatewayTimeout)
	defer cancel()
	conversationID, err := locator.ConversationIDFor(lctx, paymentID)
	if err != nil {
		if errors.Is(err, entities.ErrProviderRejected) {
			logger.Warn(ctx, "[payment][settlement] callback payment unknown to provider",
				zap.String("payment_id", paymentID),
				zap.Error(err),
			)
			return "", fmt.Errorf("%w: payment %s not found at provider", ErrSignature, paymentID)
		}
		return "", err
	}

	if payload.ConversationID != "" && payload.ConversationID != conversationID {
		logger.Warn(ctx, "[payment][settlement] callback conversation does not match payment",
			zap.String("payment_id", paymentID),
			zap.String("claimed_conversation_id", payload.ConversationID),
			zap.String("conversation_id", conversationID),
		)
		return "", fmt.Errorf("%w: conversation id does not match payment %s", ErrSignature, paymentID)
	}
	return conversationID, nil
}

// Reconcile settles a transaction from the provider's authoritative record.
// It is the entry point for support tooling and for sweeping transactions
// whose callback never arrived.
func (u *SettlementUseCase) Reconcile(ctx context.Context, conversationID string) (CompletionResult, error) {
	txn, err := u.ledger.Get(ctx, conversationID)
	if err != nil {
		return CompletionResult{}, err
	}
	if txn.Status.IsTerminal() {
		return u.replay(ctx, txn), nil
	}
	if u.gateway == nil {
		return CompletionResult{}, entities.NewGatewayError(entities.GatewayErrorConfiguration, errCodeGatewayConfig, "payment gateway not configured", nil)
	}
	return u.settleFromProvider(ctx, txn, false)
}

// settleFromProvider asks the provider for the authoritative status and
// applies it. With conservative set, anything short of a confirmed success
// (decline, still pending, retrieve error) ends the transaction as failed.
// Without it, an unconfirmed transaction is left untouched.
func (u *SettlementUseCase) settleFromProvider(ctx context.Context, txn entities.PaymentTransaction, conservative bool) (CompletionResult, error) {
	res, rerr := u.retrieve(ctx, txn.ConversationID)

	var (
		to  entities.TransactionStatus
		upd entities.TransactionUpdate
	)
	switch r := res.(type) {
	case entities.ChargeSucceeded:
		to = entities.TransactionStatusCompleted
		upd = entities.TransactionUpdate{
			ProviderReference: r.ProviderReference,
			CardLastFour:      r.CardLastFour,
			ProviderResponse:  r.Raw,
		}
	case entities.ChargeFailed:
		to = failureStatusFor(txn.Status)
		upd = entities.TransactionUpdate{
			ProviderReference: r.ProviderReference,
			ErrorCode:         r.Code,
			ErrorMessage:      r.Message,
			ProviderResponse:  r.Raw,
		}
	default:
		if !conservative {
			if rerr != nil {
				logger.Warn(ctx, "[payment][settlement] reconcile retrieve failed",
					zap.String("conversation_id", txn.ConversationID),
					zap.Error(rerr),
				)
				return CompletionResult{}, rerr
			}
			return resultFrom(txn, ""), nil
		}
		to = failureStatusFor(txn.Status)
		upd = entities.TransactionUpdate{ErrorCode: errCodeUnconfirmed, ErrorMessage: "provider did not confirm the payment"}
		if rerr != nil {
			upd = entities.TransactionUpdate{ErrorCode: errCodeRetrieveFailed, ErrorMessage: "provider status could not be retrieved"}
			logger.Warn(ctx, "[payment][settlement] retrieve failed; failing transaction",
				zap.String("conversation_id", txn.ConversationID),
				zap.Error(rerr),
			)
		} else if res != nil {
			upd.ProviderResponse = res.RawResponse()
		}
	}

	updated, err := u.ledger.Advance(ctx, txn.ConversationID, to, upd)
	if errors.Is(err, ErrTransitionConflict) {
		return u.replay(ctx, updated), nil
	}
	if err != nil {
		return CompletionResult{}, err
	}

	result := resultFrom(updated, "")
	if updated.Status == entities.TransactionStatusCompleted {
		if order, ok := u.materializeAndNotify(ctx, updated); ok {
			result.OrderID = order.ID
		}
	}
	logger.Info(ctx, "[payment][settlement] transaction settled",
		zap.String("conversation_id", updated.ConversationID),
		zap.String("status", string(updated.Status)),
		zap.String("order_id", result.OrderID),
	)
	return result, nil
}

// replay returns the recorded outcome of a transaction that another caller
// already settled. A completed transaction whose order is missing (crash
// between ledger write and materialization) gets its order here.
func (u *SettlementUseCase) replay(ctx context.Context, txn entities.PaymentTransaction) CompletionResult {
	orderID := ""
	if txn.Status == entities.TransactionStatusCompleted {
		if order, ok := u.materializeAndNotify(ctx, txn); ok {
			orderID = order.ID
		}
	}
	result := resultFrom(txn, orderID)
	result.Replayed = txn.Status.IsTerminal()
	logger.Info(ctx, "[payment][settlement] returning recorded outcome",
		zap.String("conversation_id", txn.ConversationID),
		zap.String("status", string(txn.Status)),
	)
	return result
}

func (u *SettlementUseCase) retrieve(ctx context.Context, conversationID string) (entities.ChargeResult, error) {
	var res entities.ChargeResult
	err := u.opts.RetrievePolicy.Do(ctx, func(ctx context.Context) error {
		rctx, cancel := context.WithTimeout(ctx, u.opts.GatewayTimeout)
		defer cancel()
		var rerr error
		res, rerr = u.gateway.Retrieve(rctx, conversationID)
		return rerr
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// materializeAndNotify creates the order (at most once) and notifies each
// affected store only when this call created it.
func (u *SettlementUseCase) materializeAndNotify(ctx context.Context, txn entities.PaymentTransaction) (entities.Order, bool) {
	order, created, err := u.materializer.Materialize(ctx, txn)
	if err != nil {
		logger.Error(ctx, "[payment][settlement] order materialization failed", err,
			zap.String("conversation_id", txn.ConversationID),
		)
		return entities.Order{}, false
	}
	if created {
		u.notify(ctx, order)
	}
	return order, true
}

func (u *SettlementUseCase) notify(ctx context.Context, order entities.Order) {
	if u.sink == nil {
		return
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.opts.NotifyTimeout)
	defer cancel()
	for _, event := range u.materializer.StoreNotifications(order) {
		if err := u.sink.Publish(nctx, event); err != nil {
			logger.Warn(ctx, "[payment][settlement] notification not delivered",
				zap.String("order_id", order.ID),
				zap.String("store_id", event.StoreID),
				zap.Error(err),
			)
		}
	}
}

func (u *SettlementUseCase) GetTransaction(ctx context.Context, conversationID, userID string) (entities.PaymentTransaction, error) {
	txn, err := u.ledger.Get(ctx, conversationID)
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if userID != "" && txn.UserID != userID {
		return entities.PaymentTransaction{}, ErrTransactionNotFound
	}
	return txn, nil
}

func (u *SettlementUseCase) GetOrder(ctx context.Context, conversationID, userID string) (entities.Order, error) {
	if _, err := u.GetTransaction(ctx, conversationID, userID); err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return entities.Order{}, ErrOrderNotFound
		}
		return entities.Order{}, err
	}
	return u.materializer.GetByConversationID(ctx, conversationID)
}

func (u *SettlementUseCase) validate(cmd InitiateCommand) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(cmd.UserID) == "" {
		return invalid("user id required")
	}
	if !cmd.Amount.IsPositive() {
		return invalid("amount must be positive")
	}
	if !cmd.Amount.Equal(cmd.Amount.Round(2)) {
		return invalid("amount has more than 2 decimal places")
	}
	if !u.currencies[cmd.Currency] {
		return invalid("currency %q not supported", cmd.Currency)
	}
	if cmd.Installments < 1 {
		return invalid("installment count must be at least 1")
	}

	hasCard := cmd.Card != nil
	hasSaved := strings.TrimSpace(cmd.SavedCardID) != ""
	if hasCard == hasSaved {
		return invalid("exactly one of card fields or saved card id is required")
	}
	if hasCard {
		if err := validateCard(*cmd.Card); err != nil {
			return invalid("%s", err.Error())
		}
	}

	if len(cmd.Items) == 0 {
		return invalid("cart is empty")
	}
	if len(cmd.Items) > maxCartLines {
		return invalid("cart has more than %d lines", maxCartLines)
	}
	total := decimal.Zero
	for i, l := range cmd.Items {
		if strings.TrimSpace(l.ProductID) == "" || strings.TrimSpace(l.StoreID) == "" {
			return invalid("cart item %d needs product and store ids", i)
		}
		if l.Quantity < 1 {
			return invalid("cart item %d quantity must be at least 1", i)
		}
		if !l.UnitPrice.IsPositive() {
			return invalid("cart item %d unit price must be positive", i)
		}
		total = total.Add(l.LineTotal())
	}
	if !total.Equal(cmd.Amount) {
		return invalid("cart total %s does not match amount %s", total.StringFixed(2), cmd.Amount.StringFixed(2))
	}
	return nil
}

func validateCard(c entities.CardDetails) error {
	if strings.TrimSpace(c.Token) != "" {
		return nil
	}
	digits := c.Digits()
	if len(digits) < 12 || len(digits) > 19 {
		return errors.New("card number length invalid")
	}
	if strings.TrimSpace(c.ExpireMonth) == "" || strings.TrimSpace(c.ExpireYear) == "" {
		return errors.New("card expiry required")
	}
	cvc := strings.TrimSpace(c.CVC)
	if len(cvc) < 3 || len(cvc) > 4 {
		return errors.New("card cvc invalid")
	}
	for _, r := range cvc {
		if r < '0' || r > '9' {
			return errors.New("card cvc invalid")
		}
	}
	return nil
}

func (cmd InitiateCommand) lastFour() string {
	if cmd.Card != nil {
		return cmd.Card.LastFour()
	}
	return ""
}

func failureStatusFor(from entities.TransactionStatus) entities.TransactionStatus {
	if from == entities.TransactionStatusAwaiting3DS {
		return entities.TransactionStatusFailedVerification
	}
	return entities.TransactionStatusFailed
}

func resultFrom(t entities.PaymentTransaction, orderID string) CompletionResult {
	return CompletionResult{
		TransactionID:  t.ID,
		ConversationID: t.ConversationID,
		Status:         t.Status,
		OrderID:        orderID,
		ReturnURL:      t.ReturnURL,
		ErrorCode:      t.ErrorCode,
		ErrorMessage:   t.ErrorMessage,
	}
}
