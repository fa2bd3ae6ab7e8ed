package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
)

func TestBasicRouter(t *testing.T) {
	t.Run("Handle filters by method", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("GET", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "pong")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 for GET, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for POST, got %d", rec.Code)
		}
	})

	t.Run("middleware wraps in order", func(t *testing.T) {
		router := NewBasicRouter()

		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router.Use(mw("first"), mw("second"))
		router.Handle("GET", "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

		if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "handler" {
			t.Errorf("unexpected middleware order: %v", order)
		}
	})
}

// newExchangeServer fakes an OAuth token endpoint for code exchange.
func newExchangeServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":   "sk_access",
			"token_type":     "bearer",
			"stripe_user_id": "acct_123",
		})
	}))
}

func TestOAuthHandler(t *testing.T) {
	newConfig := func(tokenURL string) *oauth2.Config {
		return &oauth2.Config{
			ClientID:     "ca_test",
			ClientSecret: "sk_test",
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		}
	}

	t.Run("exchanges code and reports token", func(t *testing.T) {
		exchange := newExchangeServer(t)
		defer exchange.Close()

		handler := NewOAuthHandler(newConfig(exchange.URL), "state123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=state123&code=ac_code", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		body, _ := io.ReadAll(rec.Body)
		if len(body) == 0 {
			t.Error("expected success page body")
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Token == nil || result.Token.AccessToken != "sk_access" {
			t.Errorf("unexpected token: %+v", result.Token)
		}
	})

	t.Run("rejects mismatched state", func(t *testing.T) {
		handler := NewOAuthHandler(newConfig("http://127.0.0.1:0"), "state123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=wrong&code=ac_code", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected state validation error")
		}
	})

	t.Run("rejects missing code", func(t *testing.T) {
		handler := NewOAuthHandler(newConfig("http://127.0.0.1:0"), "state123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=state123&error=access_denied", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected authorization error")
		}
	})

	t.Run("processes callback only once", func(t *testing.T) {
		exchange := newExchangeServer(t)
		defer exchange.Close()

		handler := NewOAuthHandler(newConfig(exchange.URL), "state123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=state123&code=ac_code", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on first callback, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=state123&code=ac_code", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 on replayed callback, got %d", rec.Code)
		}
	})
}
