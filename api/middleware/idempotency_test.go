package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type memStore struct {
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (m *memStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = fmt.Sprint(value)
	return true, nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memStore) IdempotencyKey(scope, id string) string {
	return "pos:idempotency:" + scope + ":" + id
}

func submitRequest(body, key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/submit", strings.NewReader(body))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	return req
}

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"data":{"sale_id":%d}}`, *calls)
	})
}

func TestIdempotencyRequiresKeyOnSubmit(t *testing.T) {
	t.Parallel()

	var calls int
	handler := Idempotency(newMemStore(), nil)(countingHandler(&calls))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, submitRequest(`{}`, ""))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without key got %d", resp.Code)
	}
	if calls != 0 {
		t.Fatal("handler must not run without a key")
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	t.Parallel()

	var calls int
	handler := Idempotency(newMemStore(), nil)(countingHandler(&calls))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, submitRequest(`{"customer_name":"Ana"}`, "key-1"))
	if first.Code != http.StatusCreated {
		t.Fatalf("first call: %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, submitRequest(`{"customer_name":"Ana"}`, "key-1"))
	if second.Code != http.StatusCreated {
		t.Fatalf("replay: %d", second.Code)
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replay body differs: %q vs %q", first.Body.String(), second.Body.String())
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	t.Parallel()

	var calls int
	handler := Idempotency(newMemStore(), nil)(countingHandler(&calls))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, submitRequest(`{"customer_name":"Ana"}`, "key-1"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, submitRequest(`{"customer_name":"Luis"}`, "key-1"))
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 on body mismatch got %d", second.Code)
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
}

func TestIdempotencySkipsUnguardedRoutes(t *testing.T) {
	t.Parallel()

	var calls int
	handler := Idempotency(newMemStore(), nil)(countingHandler(&calls))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if calls != 1 {
		t.Fatal("unguarded route must pass through")
	}
}
