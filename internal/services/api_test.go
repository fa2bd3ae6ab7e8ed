package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIService(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			if r.Header.Get("Authorization") != "Bearer tok" {
				t.Errorf("expected bearer token header, got %q", r.Header.Get("Authorization"))
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"tip_1","amount":500}`))
		}))
		defer server.Close()

		svc := NewAPIService(server.URL, "tok", nil)
		resp, err := svc.Get(context.Background(), "/api/tips/tip_1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", resp.StatusCode)
		}
		if !resp.IsJSON {
			t.Error("expected response to be detected as JSON")
		}
		if data, ok := resp.JSONData.(map[string]any); !ok || data["id"] != "tip_1" {
			t.Errorf("unexpected JSON data: %v", resp.JSONData)
		}
	})

	t.Run("Post", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %q", ct)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"dev_1"}`))
		}))
		defer server.Close()

		svc := NewAPIService(server.URL, "tok", nil)
		resp, err := svc.Post(context.Background(), "/api/devices", []byte(`{"label":"bar"}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("expected status 201, got %d", resp.StatusCode)
		}
	})

	t.Run("preserves non-JSON bodies", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("plain text"))
		}))
		defer server.Close()

		svc := NewAPIService(server.URL, "", nil)
		resp, err := svc.Get(context.Background(), "/health")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.IsJSON {
			t.Error("expected plain text response not to be detected as JSON")
		}
		if string(resp.Body) != "plain text" {
			t.Errorf("unexpected body: %s", resp.Body)
		}
	})

	t.Run("defaults base URL", func(t *testing.T) {
		svc := NewAPIService("", "", nil)
		if svc.baseURL != defaultTipplyBaseURL {
			t.Errorf("expected default base URL, got %s", svc.baseURL)
		}
	})
}
