package payments

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/infrastructure/logger"
	"settlement_service/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// MockDeclinedCardSuffix makes the mock gateway decline a raw card.
const MockDeclinedCardSuffix = "0002"

// MockGateway approves everything except cards ending in 0002 and asks for a
// challenge whenever 3DS is requested. It remembers outcomes so retrieve and
// challenge finalization agree with what charge returned.
type MockGateway struct {
	mu       sync.Mutex
	outcomes map[string]entities.ChargeResult
	seq      atomic.Int64
}

var (
	_ interfaces.IPaymentGateway      = (*MockGateway)(nil)
	_ interfaces.IChallengeFinalizer = (*MockGateway)(nil)
)

func NewMockGateway() *MockGateway {
	logger.Log.Info("[payment][gateway] mock mode enabled")
	return &MockGateway{outcomes: make(map[string]entities.ChargeResult)}
}

func (g *MockGateway) Name() string { return "mock" }

func (g *MockGateway) Charge(ctx context.Context, req entities.ChargeRequest) (entities.ChargeResult, error) {
	ref := strconv.FormatInt(time.Now().UTC().UnixNano()+g.seq.Add(1), 10)
	lastFour := req.Credentials.LastFour()
	raw := mockRaw(ref, req.ConversationID)

	var res entities.ChargeResult
	switch {
	case req.Credentials.Card != nil && lastFour == MockDeclinedCardSuffix:
		res = entities.ChargeFailed{ProviderReference: ref, Code: "CARD_DECLINED", Message: "card declined", Raw: raw}
	case req.Use3DSecure:
		res = entities.ChallengeRequired{
			ProviderReference: ref,
			HTMLContent:       `<html><body>mock 3ds challenge ` + req.ConversationID + `</body></html>`,
			Raw:               raw,
		}
	default:
		res = entities.ChargeSucceeded{ProviderReference: ref, CardLastFour: lastFour, CardToken: "mock-token-" + ref, CardUserKey: "mock-user", Raw: raw}
	}

	g.mu.Lock()
	g.outcomes[req.ConversationID] = res
	g.mu.Unlock()

	logger.Info(ctx, "[payment][gateway] mock charge",
		zap.String("conversation_id", req.ConversationID),
		zap.String("result", resultName(res)),
	)
	return res, nil
}

// FinalizeChallenge settles a challenged charge according to the callback.
func (g *MockGateway) FinalizeChallenge(_ context.Context, p entities.CallbackPayload) (entities.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	prev, ok := g.outcomes[p.ConversationID]
	if !ok {
		return entities.ChargeFailed{Code: "NOT_FOUND", Message: "unknown conversation"}, nil
	}
	ch, ok := prev.(entities.ChallengeRequired)
	if !ok {
		return prev, nil
	}
	var res entities.ChargeResult = entities.ChargeSucceeded{ProviderReference: ch.ProviderReference, Raw: ch.Raw}
	if !p.ClaimsSuccess() || (p.MDStatus != "" && p.MDStatus != "1") {
		res = entities.ChargeFailed{ProviderReference: ch.ProviderReference, Code: "3DS_FAILED", Message: "challenge not passed", Raw: ch.Raw}
	}
	g.outcomes[p.ConversationID] = res
	return res, nil
}

func (g *MockGateway) Retrieve(_ context.Context, conversationID string) (entities.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch r := g.outcomes[conversationID].(type) {
	case nil:
		return entities.ChargePending{ProviderStatus: "not_found"}, nil
	case entities.ChallengeRequired:
		return entities.ChargePending{ProviderReference: r.ProviderReference, ProviderStatus: "INIT_THREEDS", Raw: r.Raw}, nil
	default:
		return r, nil
	}
}

func mockRaw(ref, conversationID string) json.RawMessage {
	b, _ := json.Marshal(map[string]string{
		"id":              ref,
		"conversation_id": conversationID,
		"date_created":    time.Now().UTC().Format(time.RFC3339Nano),
	})
	return b
}

func resultName(r entities.ChargeResult) string {
	switch r.(type) {
	case entities.ChargeSucceeded:
		return "succeeded"
	case entities.ChallengeRequired:
		return "challenge"
	case entities.ChargeFailed:
		return "failed"
	case entities.ChargePending:
		return "pending"
	}
	return "unknown"
}
