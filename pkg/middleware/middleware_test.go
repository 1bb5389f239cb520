package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loftalgerie/pkg/auth"
	"loftalgerie/pkg/client"
	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestPrincipal(t *testing.T) {
	log := logger.Discard()

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantRole   model.Role
		wantOwner  string
	}{
		{
			name:       "missing user id",
			headers:    map[string]string{client.HeaderUserRole: "admin"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown role",
			headers:    map[string]string{client.HeaderUserID: "u-1", client.HeaderUserRole: "root"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "admin",
			headers:    map[string]string{client.HeaderUserID: "u-1", client.HeaderUserRole: "Admin"},
			wantStatus: http.StatusOK,
			wantRole:   model.RoleAdmin,
		},
		{
			name: "partner keeps owner id",
			headers: map[string]string{
				client.HeaderUserID:   "u-2",
				client.HeaderUserRole: "partner",
				client.HeaderOwnerID:  "owner-9",
			},
			wantStatus: http.StatusOK,
			wantRole:   model.RolePartner,
			wantOwner:  "owner-9",
		},
		{
			name: "client owner header ignored",
			headers: map[string]string{
				client.HeaderUserID:   "u-3",
				client.HeaderUserRole: "client",
				client.HeaderOwnerID:  "owner-9",
			},
			wantStatus: http.StatusOK,
			wantRole:   model.RoleClient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *model.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = auth.PrincipalFrom(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/lofts", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			Principal(log)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if got == nil {
				t.Fatal("expected principal in context")
			}
			if got.Role != tt.wantRole || got.OwnerID != tt.wantOwner {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestGatewaySignatureVerification(t *testing.T) {
	const secret = "gateway-secret"
	h := GatewaySignatureVerification(secret, logger.Discard())(okHandler())

	body := `{"name":"Loft Hydra"}`
	signed := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/lofts?x=1", strings.NewReader(body))
		req.Header.Set(client.HeaderGatewaySignature, "sha256="+client.Sign(secret, http.MethodPost, "/api/v1/lofts?x=1", []byte(body)))
		return req
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, signed())
	if rec.Code != http.StatusOK {
		t.Errorf("valid signature: status = %d", rec.Code)
	}

	req := signed()
	req.URL.RawQuery = "x=2"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("tampered URI: status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/lofts", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing signature: status = %d, want 401", rec.Code)
	}
}

func TestUserRateLimit(t *testing.T) {
	limiter := NewUserRateLimiter(2, time.Minute, logger.Discard())
	defer limiter.Stop()

	h := UserRateLimit(limiter)(okHandler())
	call := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(auth.WithPrincipal(req.Context(), &model.Principal{UserID: userID, Role: model.RoleClient}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if call("u-1") != http.StatusOK || call("u-1") != http.StatusOK {
		t.Fatal("first two requests should pass")
	}
	if code := call("u-1"); code != http.StatusTooManyRequests {
		t.Errorf("third request: status = %d, want 429", code)
	}
	if code := call("u-2"); code != http.StatusOK {
		t.Errorf("other user: status = %d, want 200", code)
	}
}

func TestIdempotency_ReplaysPerUser(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	memory := NewMemoryIdempotencyStore(time.Hour)
	defer memory.Stop()

	stores := map[string]IdempotencyStore{
		"memory": memory,
		"redis":  NewRedisIdempotencyStore(rdb, "idempotency:", time.Hour),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			calls := 0
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"data":{}}`))
			})
			h := Idempotency(store, logger.Discard())(next)

			send := func(userID string) *httptest.ResponseRecorder {
				req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
				req.Header.Set(IdempotencyKeyHeader, "k-1")
				req = req.WithContext(auth.WithPrincipal(req.Context(), &model.Principal{UserID: userID, Role: model.RoleClient}))
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)
				return rec
			}

			first := send("u-1")
			second := send("u-1")
			if calls != 1 {
				t.Errorf("expected handler once for same user, got %d", calls)
			}
			if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
				t.Errorf("replay mismatch: %d %q", second.Code, second.Body.String())
			}
			if second.Header().Get(IdempotentReplayHeader) != "true" || first.Header().Get(IdempotentReplayHeader) != "" {
				t.Error("expected only the replay to carry the replay header")
			}

			send("u-2")
			if calls != 2 {
				t.Errorf("expected a different user to reach the handler, got %d calls", calls)
			}
		})
	}
}

func TestIdempotency_StoreFailureFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	calls := 0
	h := Idempotency(NewRedisIdempotencyStore(rdb, "idempotency:", time.Hour), logger.Discard())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusCreated)
		}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", nil)
		req.Header.Set(IdempotencyKeyHeader, "k-2")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Errorf("expected both requests to reach the handler with redis down, got %d", calls)
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"code":"INTERNAL_ERROR"`) || strings.Contains(body, "boom") {
		t.Errorf("expected generic internal error body, got %s", body)
	}
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	slow := RequestTimeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		<-release
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	slow.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"code":"TIMEOUT"`) {
		t.Errorf("expected timeout body, got %s", rec.Body.String())
	}

	fast := RequestTimeout(time.Second)(okHandler())
	rec = httptest.NewRecorder()
	fast.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("fast handler: status = %d, want 200", rec.Code)
	}
}

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(logger.Discard())(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("form body: status = %d, want 415", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("empty body: status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("json body: status = %d, want 200", rec.Code)
	}
}

func TestMaxRequestSize(t *testing.T) {
	h := MaxRequestSize(8)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"too long"}`)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestRequestLogging_PropagatesRequestID(t *testing.T) {
	var seen string
	h := RequestLogging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lofts", nil)
	req.Header.Set(RequestIDHeader, "gw-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "gw-123" || rec.Header().Get(RequestIDHeader) != "gw-123" {
		t.Errorf("expected gateway request id to be kept, ctx=%q header=%q", seen, rec.Header().Get(RequestIDHeader))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/lofts", nil))
	if rec.Header().Get(RequestIDHeader) == "" || seen == "gw-123" {
		t.Error("expected a generated request id")
	}
}
