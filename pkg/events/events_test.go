package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loftalgerie/pkg/auth"
	"loftalgerie/pkg/kafka"
	"loftalgerie/pkg/model"
)

func TestNew_CarriesActorAndRequestMeta(t *testing.T) {
	ctx := auth.WithPrincipal(context.Background(), &model.Principal{UserID: "u-1", Role: model.RoleAdmin, Email: "a@loft.dz"})
	ctx = WithRequestMeta(ctx, RequestMeta{IPAddress: "10.0.0.1", UserAgent: "curl"})

	e := New(ctx, LoftCreated, TableLofts, "loft-1", model.AuditInsert)
	if e.ID == "" || e.OccurredAt.IsZero() {
		t.Fatal("expected id and timestamp")
	}
	if e.ActorID != "u-1" || e.ActorEmail != "a@loft.dz" {
		t.Errorf("actor = %q %q", e.ActorID, e.ActorEmail)
	}
	if e.IPAddress != "10.0.0.1" || e.UserAgent != "curl" {
		t.Errorf("meta = %q %q", e.IPAddress, e.UserAgent)
	}
}

func TestToValues(t *testing.T) {
	loft := model.Loft{ID: "l-1", Name: "Loft Hydra", PricePerNight: 8000}
	values := ToValues(loft)

	if values["name"] != "Loft Hydra" {
		t.Errorf("name = %v", values["name"])
	}
	if values["price_per_night"] != float64(8000) {
		t.Errorf("price_per_night = %v", values["price_per_night"])
	}
	if ToValues(nil) != nil {
		t.Error("expected nil for nil input")
	}
}

func TestDecode(t *testing.T) {
	e := DomainEvent{ID: "e-1", Type: BookingCreated, RecordID: "b-1", OccurredAt: time.Now().UTC()}
	msg := kafka.NewMessage().WithKey("b-1").WithValue(e).Build()

	got, err := Decode(msg)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Type != BookingCreated || got.RecordID != "b-1" {
		t.Errorf("got %+v", got)
	}

	bad := kafka.NewMessage().WithKey("x").WithRawValue([]byte("not json")).Build()
	if _, err := Decode(bad); kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
		t.Errorf("expected permanent error, got %v", err)
	}
}

func TestCaptureRequestMeta(t *testing.T) {
	var meta RequestMeta
	h := CaptureRequestMeta(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta, _ = RequestMetaFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "41.100.1.2, 10.0.0.1")
	req.Header.Set("User-Agent", "loft-app/1.0")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if meta.IPAddress != "41.100.1.2" || meta.UserAgent != "loft-app/1.0" {
		t.Errorf("meta = %+v", meta)
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.Publish(context.Background(), DomainEvent{}); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}
