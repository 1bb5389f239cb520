package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"loftalgerie/pkg/auth"
	"loftalgerie/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotentReplayHeader marks a response served from the store.
	IdempotentReplayHeader = "Idempotent-Replayed"
)

// IdempotencyStore keeps the first successful response per key for the
// configured TTL.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (*CachedResponse, bool, error)
	Save(ctx context.Context, key string, resp *CachedResponse) error
	Stop()
}

type CachedResponse struct {
	StatusCode int         `json:"status"`
	Headers    http.Header `json:"headers"`
	Body       []byte      `json:"body"`
	CreatedAt  time.Time   `json:"created_at"`
}

// MemoryIdempotencyStore serves a single replica. An hourly sweep drops
// expired entries.
type MemoryIdempotencyStore struct {
	mu       sync.RWMutex
	entries  map[string]*CachedResponse
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	s := &MemoryIdempotencyStore{
		entries: make(map[string]*CachedResponse),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}
	go s.sweep(time.Hour)
	return s
}

func (s *MemoryIdempotencyStore) Lookup(_ context.Context, key string) (*CachedResponse, bool, error) {
	s.mu.RLock()
	resp, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || time.Since(resp.CreatedAt) > s.ttl {
		return nil, false, nil
	}
	return resp, true, nil
}

func (s *MemoryIdempotencyStore) Save(_ context.Context, key string, resp *CachedResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp.CreatedAt = time.Now()
	s.entries[key] = resp
	return nil
}

func (s *MemoryIdempotencyStore) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for key, resp := range s.entries {
				if time.Since(resp.CreatedAt) > s.ttl {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryIdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// RedisIdempotencyStore shares replayable responses between replicas of a
// service. Entries expire through the Redis TTL.
type RedisIdempotencyStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisIdempotencyStore(client *redis.Client, prefix string, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisIdempotencyStore) Lookup(ctx context.Context, key string) (*CachedResponse, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var resp CachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

func (s *RedisIdempotencyStore) Save(ctx context.Context, key string, resp *CachedResponse) error {
	resp.CreatedAt = time.Now().UTC()
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, raw, s.ttl).Err()
}

// Stop is a no-op; the Redis client is closed with the configuration.
func (s *RedisIdempotencyStore) Stop() {}

type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

// Idempotency replays the stored 2xx response when a write request repeats
// its Idempotency-Key. Store failures are logged and the request proceeds
// as if no key had been sent.
func Idempotency(store IdempotencyStore, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := idempotencyKey(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			cached, found, err := store.Lookup(r.Context(), key)
			if err != nil {
				log.Warn("Idempotency lookup failed", "request_id", RequestIDFrom(r.Context()), "error", err)
			}
			if found {
				replay(w, cached)
				return
			}

			rw := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			if rw.status < 200 || rw.status >= 300 {
				return
			}

			resp := &CachedResponse{
				StatusCode: rw.status,
				Headers:    w.Header().Clone(),
				Body:       rw.body.Bytes(),
			}
			if err := store.Save(context.WithoutCancel(r.Context()), key, resp); err != nil {
				log.Warn("Idempotency save failed", "request_id", RequestIDFrom(r.Context()), "error", err)
			}
		})
	}
}

// idempotencyKey scopes the client key to the caller, method and path so two
// users sending the same key never share a response. GETs are never keyed.
func idempotencyKey(r *http.Request) string {
	key := r.Header.Get(IdempotencyKeyHeader)
	if key == "" || r.Method == http.MethodGet {
		return ""
	}
	userID := ""
	if p, ok := auth.PrincipalFrom(r.Context()); ok {
		userID = p.UserID
	}
	return userID + "|" + r.Method + "|" + r.URL.Path + "|" + key
}

func replay(w http.ResponseWriter, cached *CachedResponse) {
	for key, values := range cached.Headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.Header().Set(IdempotentReplayHeader, "true")
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}
