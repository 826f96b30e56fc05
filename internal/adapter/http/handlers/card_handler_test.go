package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"settlement_service/internal/adapter/http/handlers/mocks"
	"settlement_service/internal/domain/entities"
	"settlement_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newCardRouter(t *testing.T) (*gin.Engine, *mocks.MockICardVault) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	vault := mocks.NewMockICardVault(ctrl)
	h := NewCardHandler(vault)

	r := gin.New()
	r.GET("/v1/cards", h.ListCards)
	r.PATCH("/v1/cards/:card_id/default", h.SetDefaultCard)
	return r, vault
}

func TestCardHandler_ListCards(t *testing.T) {
	t.Run("hides provider tokens", func(t *testing.T) {
		r, vault := newCardRouter(t)
		vault.EXPECT().ListCards(gomock.Any(), "u-1").Return([]entities.CardToken{
			{ID: "c-1", UserID: "u-1", LastFour: "0008", Brand: entities.CardBrandMastercard, ProviderToken: "secret-token", IsDefault: true},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/cards", nil)
		req.Header.Set(HeaderUserID, "u-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if strings.Contains(w.Body.String(), "secret-token") {
			t.Fatalf("provider token exposed: %s", w.Body.String())
		}
		var body []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || len(body) != 1 {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
		if body[0]["last_four"] != "0008" || body[0]["is_default"] != true {
			t.Fatalf("unexpected card: %v", body[0])
		}
	})

	t.Run("empty list is an array", func(t *testing.T) {
		r, vault := newCardRouter(t)
		vault.EXPECT().ListCards(gomock.Any(), "u-1").Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/cards", nil)
		req.Header.Set(HeaderUserID, "u-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if strings.TrimSpace(w.Body.String()) != "[]" {
			t.Fatalf("expected [], got %s", w.Body.String())
		}
	})

	t.Run("missing user", func(t *testing.T) {
		r, _ := newCardRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/v1/cards", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}

func TestCardHandler_SetDefaultCard(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r, vault := newCardRouter(t)
		vault.EXPECT().SetDefault(gomock.Any(), "u-1", "c-2").Return(nil)

		req := httptest.NewRequest(http.MethodPatch, "/v1/cards/c-2/default", nil)
		req.Header.Set(HeaderUserID, "u-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})

	t.Run("foreign card", func(t *testing.T) {
		r, vault := newCardRouter(t)
		vault.EXPECT().SetDefault(gomock.Any(), "u-1", "c-9").Return(usecase.ErrCardNotFound)

		req := httptest.NewRequest(http.MethodPatch, "/v1/cards/c-9/default", nil)
		req.Header.Set(HeaderUserID, "u-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
